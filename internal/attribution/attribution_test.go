package attribution

import (
	"testing"
	"time"
)

func TestSource(t *testing.T) {
	testCases := []struct {
		name     string
		page     PageContext
		expected string
	}{
		{
			name:     "utm source with medium",
			page:     PageContext{URL: "https://get.karbonfx.com/?utm_source=google&utm_medium=cpc"},
			expected: "google / cpc",
		},
		{
			name:     "utm source medium and campaign",
			page:     PageContext{URL: "https://get.karbonfx.com/?utm_source=linkedin&utm_medium=paid&utm_campaign=q3_exporters"},
			expected: "linkedin / paid / q3_exporters",
		},
		{
			name:     "no utm falls back to search referrer category",
			page:     PageContext{URL: "https://get.karbonfx.com/", Referrer: "https://www.google.com/search?q=karbon"},
			expected: "google",
		},
		{
			name:     "ref override wins over referrer",
			page:     PageContext{URL: "https://get.karbonfx.com/?ref=partner-site", Referrer: "https://www.facebook.com/"},
			expected: "partner-site",
		},
		{
			name:     "medium without utm source still appended",
			page:     PageContext{URL: "https://get.karbonfx.com/?utm_medium=email"},
			expected: "direct / email",
		},
		{
			name:     "social referrer categorized",
			page:     PageContext{URL: "https://get.karbonfx.com/", Referrer: "https://l.instagram.com/"},
			expected: "instagram",
		},
		{
			name:     "shortener host maps to twitter",
			page:     PageContext{URL: "https://get.karbonfx.com/", Referrer: "https://t.co/abc"},
			expected: "twitter",
		},
		{
			name:     "unknown host passes through",
			page:     PageContext{URL: "https://get.karbonfx.com/", Referrer: "https://news.ycombinator.com/item?id=1"},
			expected: "news.ycombinator.com",
		},
		{
			name:     "no referrer at all",
			page:     PageContext{URL: "https://get.karbonfx.com/"},
			expected: "direct",
		},
		{
			name:     "malformed referrer",
			page:     PageContext{URL: "https://get.karbonfx.com/", Referrer: "::not-a-url::"},
			expected: "unknown",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := Source(tc.page); actual != tc.expected {
				t.Errorf("Source() = %q, expected %q", actual, tc.expected)
			}
		})
	}
}

func TestKeyword(t *testing.T) {
	testCases := []struct {
		name     string
		page     PageContext
		expected string
	}{
		{
			name:     "keyword param wins",
			page:     PageContext{URL: "https://get.karbonfx.com/?keyword=receive+usd", Referrer: "https://www.google.com/search?q=other"},
			expected: "receive usd",
		},
		{
			name:     "google referrer query",
			page:     PageContext{URL: "https://get.karbonfx.com/", Referrer: "https://www.google.com/search?q=karbon"},
			expected: "karbon",
		},
		{
			name:     "bing referrer query",
			page:     PageContext{URL: "https://get.karbonfx.com/", Referrer: "https://www.bing.com/search?q=export+payments"},
			expected: "export payments",
		},
		{
			name:     "yahoo uses p parameter",
			page:     PageContext{URL: "https://get.karbonfx.com/", Referrer: "https://search.yahoo.com/search?p=fx+account"},
			expected: "fx account",
		},
		{
			name:     "non search referrer",
			page:     PageContext{URL: "https://get.karbonfx.com/", Referrer: "https://www.facebook.com/"},
			expected: "",
		},
		{
			name:     "no referrer",
			page:     PageContext{URL: "https://get.karbonfx.com/"},
			expected: "",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := Keyword(tc.page); actual != tc.expected {
				t.Errorf("Keyword() = %q, expected %q", actual, tc.expected)
			}
		})
	}
}

func TestReferrer(t *testing.T) {
	testCases := []struct {
		name     string
		page     PageContext
		expected string
	}{
		{
			name:     "ref param beats document referrer",
			page:     PageContext{URL: "https://get.karbonfx.com/?ref=partner-site", Referrer: "https://www.google.com/"},
			expected: "partner-site",
		},
		{
			name:     "raw referrer",
			page:     PageContext{URL: "https://get.karbonfx.com/", Referrer: "https://www.google.com/search?q=karbon"},
			expected: "https://www.google.com/search?q=karbon",
		},
		{
			name:     "no referrer",
			page:     PageContext{URL: "https://get.karbonfx.com/"},
			expected: "direct",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := Referrer(tc.page); actual != tc.expected {
				t.Errorf("Referrer() = %q, expected %q", actual, tc.expected)
			}
		})
	}
}

func TestSnapshot(t *testing.T) {
	now := time.Date(2025, 7, 14, 10, 30, 0, 0, time.UTC)
	page := PageContext{
		URL:       "https://get.karbonfx.com/?utm_source=google&utm_medium=cpc",
		Referrer:  "https://www.google.com/search?q=karbon",
		UserAgent: "Mozilla/5.0",
	}

	snap := Snapshot(page, "203.0.113.7", now)

	if snap.Source != "google / cpc" {
		t.Errorf("Source = %q", snap.Source)
	}
	if snap.Keyword != "karbon" {
		t.Errorf("Keyword = %q", snap.Keyword)
	}
	if snap.Referrer != "https://www.google.com/search?q=karbon" {
		t.Errorf("Referrer = %q", snap.Referrer)
	}
	if snap.IP != "203.0.113.7" {
		t.Errorf("IP = %q", snap.IP)
	}
	if snap.Timestamp != "2025-07-14T10:30:00Z" {
		t.Errorf("Timestamp = %q", snap.Timestamp)
	}
	if snap.UserAgent != "Mozilla/5.0" {
		t.Errorf("UserAgent = %q", snap.UserAgent)
	}
}
