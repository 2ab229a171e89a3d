package config

import (
	"strings"
)

// SiteURL builds an absolute URL to the route made of segments,
// honoring the base_url, index_page, enable_query_strings and url_suffix core items.
//
// With query strings enabled, segments are joined as query parameters instead,
// e.g., SiteURL("c=blog", "m=edit").
func (s *Store) SiteURL(segments ...string) string {
	base := s.SlashItem("base_url")
	index := s.String("index_page")

	var trimmed []string
	for _, seg := range segments {
		if seg = strings.Trim(seg, "/"); seg != "" {
			trimmed = append(trimmed, seg)
		}
	}

	if len(trimmed) == 0 {
		if index == "" {
			return base
		}

		return base + index
	}

	if s.Bool("enable_query_strings") {
		return base + index + "?" + strings.Join(trimmed, "&")
	}

	if index != "" {
		base += strings.TrimRight(index, "/") + "/"
	}

	uri := strings.Join(trimmed, "/")
	if suffix := s.String("url_suffix"); suffix != "" && !strings.HasSuffix(uri, suffix) {
		uri += suffix
	}

	return base + uri
}
