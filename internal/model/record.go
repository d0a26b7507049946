package model

// Coordinate is a latitude/longitude pair found in document text
type Coordinate struct {
	Latitude  float64          `json:"latitude"`            // Signed decimal degrees, -90..90
	Longitude float64          `json:"longitude"`           // Signed decimal degrees, -180..180
	Context   string           `json:"context"`             // Surrounding text, newlines collapsed
	SiteName  string           `json:"site_name,omitempty"` // Inferred from context, empty if none
	Format    CoordinateFormat `json:"format"`              // Which notation matched
}

// CoordinateFormat names the notation a coordinate was written in
type CoordinateFormat string

const (
	FormatDecimalHemisphere CoordinateFormat = "decimal_hemisphere" // 28.6128° N, 77.2311° E
	FormatDMS               CoordinateFormat = "dms"                // 40°42'46"N 74°0'21"W
	FormatDecimalPair       CoordinateFormat = "decimal_pair"       // 12.9716, 77.5946
)

// DateRange is a year or year span on a signed axis where BCE years are negative.
// There is no year zero: 1 BCE is -1 and 1 CE is 1.
type DateRange struct {
	Label     string   `json:"label"`               // Human-readable form, e.g. "2500–1900 BCE"
	StartYear int      `json:"start_year"`          // Earliest year, always <= EndYear
	EndYear   int      `json:"end_year"`            // Latest year
	Context   string   `json:"context"`             // Surrounding text, newlines collapsed
	SiteName  string   `json:"site_name,omitempty"` // Inferred from context, empty if none
	Kind      DateKind `json:"kind"`                // Which pattern family matched
}

// Contains reports whether year falls inside the range (inclusive)
func (d DateRange) Contains(year int) bool {
	return d.StartYear <= year && year <= d.EndYear
}

// IsSingleYear reports whether the range covers exactly one year
func (d DateRange) IsSingleYear() bool {
	return d.StartYear == d.EndYear
}

// DateKind categorizes how a date was expressed
type DateKind string

const (
	DateKindCERange        DateKind = "ce_range"        // 1998-2002
	DateKindBCERange       DateKind = "bce_range"       // 2500–1900 BCE
	DateKindBCEYear        DateKind = "bce_year"        // 2500 BCE
	DateKindContextualYear DateKind = "contextual_year" // summer 2005, excavated in 1999
	DateKindYear           DateKind = "year"            // 2004
)

// Site is a named site, trench, locus or mound reference
type Site struct {
	SiteName string   `json:"site_name"` // Normalized label, e.g. "Site 3: Mohenjo-daro"
	SiteType SiteType `json:"site_type"`
	Context  string   `json:"context"`
}

// SiteType is the structural cue that identified a site reference
type SiteType string

const (
	SiteTypeSite   SiteType = "Site"
	SiteTypeTrench SiteType = "Trench"
	SiteTypeLocus  SiteType = "Locus"
	SiteTypeMound  SiteType = "Mound"
)
