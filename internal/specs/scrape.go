// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package specs

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/trip-estimator/internal/httputil"
	"github.com/pdiddy/trip-estimator/pkg/types"
)

const (
	defaultScrapeDelay = 2 * time.Second
	maxPageBytes       = 2 << 20
	litersPerGallon    = 3.785
)

// ScrapeTier fetches a public spec page and extracts values with regular
// expressions. It honours robots.txt Disallow rules for its user agent and
// waits at least Delay between fetches. With no URL template it always
// misses.
type ScrapeTier struct {
	Client *http.Client
	// URLTemplate contains {manufacturer} and {model} placeholders.
	URLTemplate string
	UserAgent   string
	Delay       time.Duration
	Logger      *slog.Logger
	Now         func() time.Time

	mu        sync.Mutex
	lastFetch time.Time
	robots    map[string][]string // host -> disallowed path prefixes
}

func (s *ScrapeTier) Name() string { return "scrape" }

// Lookup fetches and parses the spec page for key.
func (s *ScrapeTier) Lookup(ctx context.Context, key types.AircraftKey, _ *types.ResolvedSpecs) (*types.ResolvedSpecs, error) {
	if s.URLTemplate == "" {
		return nil, nil
	}
	pageURL := expandTemplate(s.URLTemplate, key)
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing scrape URL: %w", err)
	}

	allowed, err := s.allowed(ctx, u)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, nil
	}

	body, status, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("scrape returned HTTP %d", status)
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	out := ParsePage(body, now)
	fields := out.PresentFields()
	if len(fields) == 0 {
		return nil, nil
	}
	out.Sources = []types.SourceEntry{{
		Type: types.SourceScrape, Tier: s.Name(), URL: pageURL,
		CollectedAt: now, Fields: fields,
	}}
	return out, nil
}

// fetch waits out the politeness delay and GETs rawURL.
func (s *ScrapeTier) fetch(ctx context.Context, rawURL string) (string, int, error) {
	if err := s.wait(ctx); err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("creating request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, clientOr(s.Client), req, 0, s.Logger)
	if err != nil {
		return "", 0, fmt.Errorf("scrape request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return string(data), resp.StatusCode, nil
}

// wait blocks until Delay has passed since the previous fetch.
func (s *ScrapeTier) wait(ctx context.Context) error {
	delay := s.Delay
	if delay <= 0 {
		delay = defaultScrapeDelay
	}

	s.mu.Lock()
	next := s.lastFetch.Add(delay)
	now := time.Now()
	if next.Before(now) {
		next = now
	}
	s.lastFetch = next
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Until(next)):
		return nil
	}
}

// allowed checks u against the host's robots.txt. Rules are fetched once
// per host. A missing or unreadable robots.txt allows everything.
func (s *ScrapeTier) allowed(ctx context.Context, u *url.URL) (bool, error) {
	s.mu.Lock()
	rules, ok := s.robots[u.Host]
	s.mu.Unlock()

	if !ok {
		robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
		body, status, err := s.fetch(ctx, robotsURL)
		if err != nil && ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err == nil && status == http.StatusOK {
			rules = parseRobots(body, s.UserAgent)
		}
		s.mu.Lock()
		if s.robots == nil {
			s.robots = make(map[string][]string)
		}
		s.robots[u.Host] = rules
		s.mu.Unlock()
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	for _, prefix := range rules {
		if strings.HasPrefix(path, prefix) {
			return false, nil
		}
	}
	return true, nil
}

// parseRobots returns the Disallow prefixes that apply to userAgent: the
// group naming the agent if present, else the "*" group.
func parseRobots(body, userAgent string) []string {
	agent := strings.ToLower(userAgent)
	if i := strings.IndexAny(agent, "/ "); i > 0 {
		agent = agent[:i]
	}

	groups := make(map[string][]string)
	var current []string
	inAgents := false

	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := sc.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		field, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		field = strings.ToLower(strings.TrimSpace(field))
		value = strings.TrimSpace(value)

		switch field {
		case "user-agent":
			if !inAgents {
				current = nil
			}
			current = append(current, strings.ToLower(value))
			if _, exists := groups[strings.ToLower(value)]; !exists {
				groups[strings.ToLower(value)] = nil
			}
			inAgents = true
		case "disallow":
			inAgents = false
			if value == "" {
				continue
			}
			for _, a := range current {
				groups[a] = append(groups[a], value)
			}
		default:
			inAgents = false
		}
	}

	if agent != "" {
		if rules, ok := groups[agent]; ok {
			return rules
		}
	}
	return groups["*"]
}

func expandTemplate(tmpl string, key types.AircraftKey) string {
	slug := func(s string) string {
		return url.PathEscape(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-"))
	}
	r := strings.NewReplacer(
		"{manufacturer}", slug(key.Manufacturer),
		"{model}", slug(key.Model),
		"{variant}", slug(key.Variant),
	)
	return r.Replace(tmpl)
}

// Patterns are tried in order; the first match for a field wins.
var (
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
	economicPattern = regexp.MustCompile(`(?i)econom\w*\s+cruise[^0-9]{0,30}(\d{2,3}(?:\.\d+)?)\s*(?:kts?|knots)`)
	maxPattern      = regexp.MustCompile(`(?i)max(?:imum)?\s+(?:cruise\s+)?speed[^0-9]{0,30}(\d{2,3}(?:\.\d+)?)\s*(?:kts?|knots)`)
	cruisePattern   = regexp.MustCompile(`(?i)cruise\s+speed[^0-9]{0,30}(\d{2,3}(?:\.\d+)?)\s*(?:kts?|knots)`)
	burnLPattern    = regexp.MustCompile(`(?i)fuel\s+(?:burn|consumption|flow)[^0-9]{0,30}(\d{1,4}(?:\.\d+)?)\s*(?:l/h|lph|liters?\s+per\s+hour|litres?\s+per\s+hour)`)
	burnGPattern    = regexp.MustCompile(`(?i)fuel\s+(?:burn|consumption|flow)[^0-9]{0,30}(\d{1,4}(?:\.\d+)?)\s*(?:gph|gal/h|gallons?\s+per\s+hour)`)
	powerPattern    = regexp.MustCompile(`(?i)(\d{2,4})\s*(?:hp|horsepower)\b`)
	seatsPattern    = regexp.MustCompile(`(?i)seats?[^0-9]{0,15}(\d{1,2})\b`)
	climbPattern    = regexp.MustCompile(`(?i)rate\s+of\s+climb[^0-9]{0,30}(\d{3,4})\s*(?:fpm|ft/min|feet\s+per\s+minute)`)
	rangePattern    = regexp.MustCompile(`(?i)range[^0-9]{0,30}(\d{3,4})\s*(?:nm|nautical\s+miles)`)
)

// ParsePage extracts spec values from an HTML or text page. Gallon-based
// fuel flows are converted to liters.
func ParsePage(page string, now time.Time) *types.ResolvedSpecs {
	text := tagPattern.ReplaceAllString(page, " ")

	m := func(find func(string) []string, unit string, scale float64) *types.Measurement {
		match := find(text)
		if match == nil {
			return nil
		}
		v, err := strconv.ParseFloat(match[1], 64)
		if err != nil || v <= 0 {
			return nil
		}
		return &types.Measurement{
			Value: v * scale, Unit: unit, Source: types.SourceScrape,
			CollectedAt: now, Confidence: types.ConfidenceMedium,
			Notes: strings.TrimSpace(match[0]),
		}
	}

	out := &types.ResolvedSpecs{}
	out.CruiseSpeed.Normal = m(plainCruise, "kt", 1)
	out.CruiseSpeed.Economic = m(economicPattern.FindStringSubmatch, "kt", 1)
	out.CruiseSpeed.Max = m(maxPattern.FindStringSubmatch, "kt", 1)
	out.FuelBurn.Cruise = m(burnLPattern.FindStringSubmatch, "L/h", 1)
	if out.FuelBurn.Cruise == nil {
		out.FuelBurn.Cruise = m(burnGPattern.FindStringSubmatch, "L/h", litersPerGallon)
	}
	out.EnginePower = m(powerPattern.FindStringSubmatch, "hp", 1)
	out.Seats = m(seatsPattern.FindStringSubmatch, "seats", 1)
	out.RateOfClimb = m(climbPattern.FindStringSubmatch, "fpm", 1)
	out.Range = m(rangePattern.FindStringSubmatch, "NM", 1)
	return out
}

// plainCruise returns the first cruise-speed match whose preceding word is
// not an economy or maximum qualifier.
func plainCruise(text string) []string {
	for _, idx := range cruisePattern.FindAllStringSubmatchIndex(text, -1) {
		if words := strings.Fields(text[:idx[0]]); len(words) > 0 {
			q := strings.ToLower(words[len(words)-1])
			if strings.HasPrefix(q, "econom") || strings.HasPrefix(q, "max") {
				continue
			}
		}
		return []string{text[idx[0]:idx[1]], text[idx[2]:idx[3]]}
	}
	return nil
}
