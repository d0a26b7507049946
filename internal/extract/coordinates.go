package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/strata/internal/model"
)

// coordinateFamily is one notation for a latitude/longitude pair. All
// patterns of a family share capture group names so one parser serves them.
type coordinateFamily struct {
	format   model.CoordinateFormat
	patterns []*regexp.Regexp
	parse    func(re *regexp.Regexp, text string, loc []int) (lat, lon float64, err error)
}

const (
	dmsMinutes = `(?P<%s_min>\d{1,2})['′’]\s*`
	dmsSeconds = `(?P<%s_sec>\d{1,2}(?:\.\d+)?)["″”]?`
)

func dmsPart(prefix, degDigits string) string {
	return fmt.Sprintf(`(?P<%s_deg>\d{%s})°\s*`, prefix, degDigits) +
		fmt.Sprintf(dmsMinutes, prefix) +
		fmt.Sprintf(dmsSeconds, prefix)
}

// Hemisphere letters, optionally spelled out ("N" or "North")
const (
	latDir = `(?P<lat_dir>N(?:orth)?|S(?:outh)?)`
	lonDir = `(?P<lon_dir>E(?:ast)?|W(?:est)?)`
)

// coordinateFamilies are scanned in priority order; each family is scanned
// completely before the next, so a hemisphere-qualified match registers its
// coordinate before a bare decimal pair can.
var coordinateFamilies = []coordinateFamily{
	{
		// "28.6128° N, 77.2311° E", "40.7128 S, 74.0060 W", "12.5 South, 44.25 West"
		format: model.FormatDecimalHemisphere,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?P<lat>-?\d{1,2}\.?\d*)\s*°?\s*[,\s]*` + latDir + `[,\s]*` +
				`(?P<lon>-?\d{1,3}\.?\d*)\s*°?\s*[,\s]*` + lonDir + `\b`),
		},
		parse: parseDecimalHemisphere,
	},
	{
		// "40°42'46"N 74°0'21"W", then "N 35°42'12", E 139°46'35""
		format: model.FormatDMS,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)` + dmsPart("lat", "1,2") + `\s*` + latDir + `[,\s]+` +
				dmsPart("lon", "1,3") + `\s*` + lonDir),
			regexp.MustCompile(`(?i)\b` + latDir + `\s*` + dmsPart("lat", "1,2") + `[,\s]+` +
				lonDir + `\s*` + dmsPart("lon", "1,3")),
		},
		parse: parseDMS,
	},
	{
		// "12.9716, 77.5946"
		format: model.FormatDecimalPair,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?P<lat>-?\d{1,2}\.\d{2,6})[,\s]+(?P<lon>-?\d{1,3}\.\d{2,6})`),
		},
		parse: parseDecimalPair,
	},
}

// utmPattern is detected but never converted: that needs a projection library
var utmPattern = regexp.MustCompile(`(?i)UTM\s+Zone\s+(?P<zone>\d{1,2})(?P<hemisphere>[NS])\s+(?P<easting>\d{6,7})\s+(?P<northing>\d{7,8})`)

// coordinateKey identifies a coordinate rounded to six decimal places
type coordinateKey struct {
	lat, lon int64
}

func keyOf(lat, lon float64) coordinateKey {
	return coordinateKey{
		lat: int64(math.Round(lat * 1e6)),
		lon: int64(math.Round(lon * 1e6)),
	}
}

// Coordinates extracts latitude/longitude pairs from text.
//
// Matches that fail numeric conversion or fall outside [-90,90]x[-180,180]
// are skipped. A coordinate equal to an earlier one after rounding to six
// decimals is dropped. UTM references are logged at debug level only.
func (e *Extractor) Coordinates(text string) []model.Coordinate {
	results := make([]model.Coordinate, 0)
	seen := make(map[coordinateKey]bool)

	for _, family := range coordinateFamilies {
		for _, re := range family.patterns {
			for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
				lat, lon, err := family.parse(re, text, loc)
				if err != nil {
					continue
				}
				if !InBounds(lat, lon) {
					continue
				}

				key := keyOf(lat, lon)
				if seen[key] {
					continue
				}
				seen[key] = true

				context := snippet(text, loc[0], loc[1], e.window)
				results = append(results, model.Coordinate{
					Latitude:  lat,
					Longitude: lon,
					Context:   context,
					SiteName:  InferSiteName(context),
					Format:    family.format,
				})
			}
		}
	}

	for _, m := range utmPattern.FindAllString(text, -1) {
		e.log.Debug("UTM coordinates found, conversion not supported", "match", m)
	}

	e.log.Debug("extracted coordinates", "count", len(results))
	return results
}

// InBounds reports whether lat/lon are legal WGS 84 decimal degrees
func InBounds(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func parseDecimalHemisphere(re *regexp.Regexp, text string, loc []int) (float64, float64, error) {
	lat, lon, err := parseDecimalPair(re, text, loc)
	if err != nil {
		return 0, 0, err
	}
	return applyHemisphere(lat, group(re, text, loc, "lat_dir")),
		applyHemisphere(lon, group(re, text, loc, "lon_dir")), nil
}

func parseDecimalPair(re *regexp.Regexp, text string, loc []int) (float64, float64, error) {
	lat, err := strconv.ParseFloat(group(re, text, loc, "lat"), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(group(re, text, loc, "lon"), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("longitude: %w", err)
	}
	return lat, lon, nil
}

func parseDMS(re *regexp.Regexp, text string, loc []int) (float64, float64, error) {
	lat, err := dmsValue(re, text, loc, "lat")
	if err != nil {
		return 0, 0, err
	}
	lon, err := dmsValue(re, text, loc, "lon")
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

// dmsValue converts one degrees/minutes/seconds/hemisphere group set to decimal degrees
func dmsValue(re *regexp.Regexp, text string, loc []int, prefix string) (float64, error) {
	deg, err := strconv.Atoi(group(re, text, loc, prefix+"_deg"))
	if err != nil {
		return 0, fmt.Errorf("%s degrees: %w", prefix, err)
	}
	mins, err := strconv.Atoi(group(re, text, loc, prefix+"_min"))
	if err != nil {
		return 0, fmt.Errorf("%s minutes: %w", prefix, err)
	}
	secs, err := strconv.ParseFloat(group(re, text, loc, prefix+"_sec"), 64)
	if err != nil {
		return 0, fmt.Errorf("%s seconds: %w", prefix, err)
	}
	if mins >= 60 || secs >= 60 {
		return 0, fmt.Errorf("%s: minutes/seconds out of range: %d'%g\"", prefix, mins, secs)
	}
	return DMSToDecimal(deg, mins, secs, group(re, text, loc, prefix+"_dir")), nil
}

// DMSToDecimal converts degrees-minutes-seconds to decimal degrees,
// negating the result for the S and W hemispheres.
func DMSToDecimal(degrees, minutes int, seconds float64, hemisphere string) float64 {
	decimal := float64(degrees) + float64(minutes)/60.0 + seconds/3600.0
	return applyHemisphere(decimal, hemisphere)
}

func applyHemisphere(value float64, hemisphere string) float64 {
	if hemisphere == "" {
		return value
	}
	switch strings.ToUpper(hemisphere[:1]) {
	case "S", "W":
		return -value
	}
	return value
}
