package models

import (
	"strings"

	"gorm.io/gorm"
)

// BuildSearchText is the canonical form of the denormalized search column:
// the non-empty parts joined and lowercased. Search is plain substring
// containment over it, not relevance ranking.
func BuildSearchText(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.ToLower(strings.Join(kept, " "))
}

// ScopeSearch filters by search_text containment. An empty term is a no-op.
func ScopeSearch(term string) func(*gorm.DB) *gorm.DB {
	term = strings.ToLower(strings.TrimSpace(term))
	return func(q *gorm.DB) *gorm.DB {
		if term == "" {
			return q
		}
		return q.Where("search_text LIKE ?", "%"+term+"%")
	}
}
