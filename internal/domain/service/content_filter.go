package service

import "strings"

// DefaultBannedKeywords is used when no list is configured.
var DefaultBannedKeywords = []string{
	"fuck",
	"shit",
	"bitch",
	"slut",
	"whore",
	"cunt",
	"retard",
	"rape",
	"kys",
	"kill yourself",
}

// ContentFilter flags text containing any banned keyword as a
// case-insensitive substring. There is no word-boundary handling: "kys"
// matches inside "skyscraper". Keep it that way so decisions are
// reproducible across deployments.
type ContentFilter struct {
	keywords []string
}

func NewContentFilter(keywords []string) *ContentFilter {
	if len(keywords) == 0 {
		keywords = DefaultBannedKeywords
	}

	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			lowered = append(lowered, k)
		}
	}
	return &ContentFilter{keywords: lowered}
}

func (f *ContentFilter) IsFlagged(text string) bool {
	_, hit := f.Match(text)
	return hit
}

// Match returns the first keyword found in text.
func (f *ContentFilter) Match(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, k := range f.keywords {
		if strings.Contains(lower, k) {
			return k, true
		}
	}
	return "", false
}
