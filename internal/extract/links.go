package extract

import (
	"fmt"
	"net/url"
	"strings"
)

// linkResolver turns href values into absolute http(s) source URLs
type linkResolver struct {
	base *url.URL
}

func newLinkResolver(baseURL string) (*linkResolver, error) {
	if baseURL == "" {
		return &linkResolver{}, nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &linkResolver{base: base}, nil
}

// resolve returns the absolute URL for href, or "" when it is not a usable source
func (l *linkResolver) resolve(href string) string {
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	if strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if l.base != nil {
		parsed = l.base.ResolveReference(parsed)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	parsed.Fragment = ""
	return parsed.String()
}

// dedupe keeps the first occurrence of each link, nil for none
func dedupe(links []string) []string {
	if len(links) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(links))
	unique := make([]string, 0, len(links))
	for _, l := range links {
		if !seen[l] {
			seen[l] = true
			unique = append(unique, l)
		}
	}
	return unique
}
