// Package attribution derives marketing-origin metadata for a lead from the
// page URL, UTM tags and the referring site. Query-parameter overrides
// (ref, keyword) take priority everywhere so the resolver works both on a
// standalone page and inside an iframe, where the native referrer would
// point at the embedding page instead of the traffic source.
package attribution

import (
	"net/url"
	"strings"
	"time"
)

const (
	sourceDirect    = "direct"
	sourceUnknown   = "unknown"
	sourceDelimiter = " / "
)

// PageContext carries the raw browser-side facts a client reports when a
// form session starts.
type PageContext struct {
	URL       string `json:"url"`
	Referrer  string `json:"referrer"`
	UserAgent string `json:"user_agent"`
}

// UTMParams holds the standard campaign tracking tags found on the page URL.
type UTMParams struct {
	Source   string
	Medium   string
	Campaign string
	Term     string
	Content  string
}

// Context is the attribution snapshot attached to every record-store write.
type Context struct {
	Source    string
	Keyword   string
	Referrer  string
	UserAgent string
	IP        string
	Timestamp string
}

// Snapshot computes a fresh attribution context for a write.
func Snapshot(page PageContext, ip string, now time.Time) Context {
	return Context{
		Source:    Source(page),
		Keyword:   Keyword(page),
		Referrer:  Referrer(page),
		UserAgent: userAgent(page),
		IP:        ip,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// ParseUTM extracts the UTM tags from the page URL's query string.
func ParseUTM(page PageContext) UTMParams {
	q := pageQuery(page)

	return UTMParams{
		Source:   q.Get("utm_source"),
		Medium:   q.Get("utm_medium"),
		Campaign: q.Get("utm_campaign"),
		Term:     q.Get("utm_term"),
		Content:  q.Get("utm_content"),
	}
}

// Source builds the lead's source string. The primary origin is utm_source
// when present, else the categorized referrer, else "direct"; utm_medium and
// utm_campaign are appended when set.
func Source(page PageContext) string {
	utm := ParseUTM(page)

	primary := utm.Source
	if primary == "" {
		primary = referrerCategory(page)
	}

	parts := []string{primary}
	if utm.Medium != "" {
		parts = append(parts, utm.Medium)
	}
	if utm.Campaign != "" {
		parts = append(parts, utm.Campaign)
	}

	return strings.Join(parts, sourceDelimiter)
}

// Keyword returns the search query that led the visitor here, or "" when it
// cannot be determined. A keyword query parameter passed by an embedding
// page wins over referrer extraction.
func Keyword(page PageContext) string {
	if kw := pageQuery(page).Get("keyword"); kw != "" {
		return kw
	}

	if page.Referrer == "" {
		return ""
	}

	ref, err := url.Parse(page.Referrer)
	if err != nil {
		return ""
	}

	host := ref.Hostname()
	switch {
	case strings.Contains(host, "google"), strings.Contains(host, "bing"):
		return ref.Query().Get("q")
	case strings.Contains(host, "yahoo"):
		return ref.Query().Get("p")
	}

	return ""
}

// Referrer returns the full referring URL for detailed tracking: the ref
// query parameter when forwarded by a parent page, else the raw referrer,
// else "direct".
func Referrer(page PageContext) string {
	if ref := pageQuery(page).Get("ref"); ref != "" {
		return ref
	}

	if page.Referrer != "" {
		return page.Referrer
	}

	return sourceDirect
}

// referrerCategory maps the referring host to a short source token. A ref
// override is used verbatim; no referrer means "direct" and an unparsable
// one "unknown"; hosts outside the known set pass through as-is.
func referrerCategory(page PageContext) string {
	if ref := pageQuery(page).Get("ref"); ref != "" {
		return ref
	}

	if page.Referrer == "" {
		return sourceDirect
	}

	ref, err := url.Parse(page.Referrer)
	if err != nil {
		return sourceUnknown
	}

	host := ref.Hostname()
	if host == "" {
		return sourceUnknown
	}

	switch {
	case strings.Contains(host, "google"):
		return "google"
	case strings.Contains(host, "facebook"):
		return "facebook"
	case strings.Contains(host, "linkedin"):
		return "linkedin"
	case strings.Contains(host, "twitter"), strings.Contains(host, "t.co"):
		return "twitter"
	case strings.Contains(host, "instagram"):
		return "instagram"
	case strings.Contains(host, "youtube"):
		return "youtube"
	}

	return host
}

func userAgent(page PageContext) string {
	if page.UserAgent == "" {
		return sourceUnknown
	}

	return page.UserAgent
}

func pageQuery(page PageContext) url.Values {
	if page.URL == "" {
		return url.Values{}
	}

	u, err := url.Parse(page.URL)
	if err != nil {
		return url.Values{}
	}

	return u.Query()
}
