package feed

import (
	"encoding/base64"
	"time"
)

// SourceRef identifies where an article came from. Priority is lower-is-better;
// zero means unranked and sorts last.
type SourceRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Priority int    `json:"priority,omitempty"`
}

// prioritySentinel is the effective priority of an unranked source.
const prioritySentinel = 999

// EffectivePriority returns the priority used for sorting.
func (s SourceRef) EffectivePriority() int {
	if s.Priority <= 0 {
		return prioritySentinel
	}
	return s.Priority
}

// Article is the canonical normalized content unit flowing through the
// pipeline: a news item, a wall post or a vacancy, all in one shape.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Source      SourceRef `json:"source"`
	Category    string    `json:"category"`
	PublishedAt time.Time `json:"publishedAt"`
	ReadingTime int       `json:"readingTime"`
	IsFallback  bool      `json:"isFallback,omitempty"`

	// Interest tags the item is known to map to, used for a score bonus.
	RelevantProfessions []string `json:"relevantProfessions,omitempty"`

	// Wall post extras. Images is ordered, first is primary.
	Images         []string `json:"images,omitempty"`
	Likes          int      `json:"likes,omitempty"`
	Views          int      `json:"views,omitempty"`
	Comments       int      `json:"comments,omitempty"`
	GroupPriority  int      `json:"groupPriority,omitempty"`
	IsHighPriority bool     `json:"isHighPriority,omitempty"`
}

// GenerateID derives a stable article id from the canonical link.
func GenerateID(link string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(link))

	var b []byte
	for i := 0; i < len(encoded) && len(b) < 16; i++ {
		c := encoded[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			b = append(b, c)
		}
	}
	return string(b)
}
