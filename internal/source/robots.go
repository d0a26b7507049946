package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"
)

// robotsTTL bounds how long a host's robots.txt is trusted
const robotsTTL = time.Hour

// RobotsChecker checks robots.txt before a report is fetched
type RobotsChecker struct {
	client    *http.Client
	userAgent string
	rules     *gocache.Cache
}

// NewRobotsChecker creates a robots.txt checker sharing the fetcher's client
func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	return &RobotsChecker{
		client:    client,
		userAgent: userAgent,
		rules:     gocache.New(robotsTTL, 10*time.Minute),
	}
}

// Check reports whether u may be fetched and the crawl delay the host asks for.
// An unreachable or broken robots.txt allows the fetch.
func (r *RobotsChecker) Check(ctx context.Context, u *url.URL) (bool, time.Duration) {
	data, err := r.load(ctx, u)
	if err != nil {
		return true, 0
	}

	agent := productToken(r.userAgent)
	group := data.FindGroup(agent)
	if group == nil {
		return true, 0
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return group.Test(path), group.CrawlDelay
}

func (r *RobotsChecker) load(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	key := u.Scheme + "://" + u.Host
	if cached, ok := r.rules.Get(key); ok {
		return cached.(*robotstxt.RobotsData), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.rules.SetDefault(key, data)
	return data, nil
}

// productToken reduces "Strata/0.1 (+url)" to "Strata" for group matching
func productToken(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) == 0 {
		return ua
	}
	return strings.SplitN(parts[0], "/", 2)[0]
}
