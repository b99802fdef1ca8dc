// Package relevance ranks articles against the user's selected interest tags.
package relevance

import (
	"strings"
	"time"

	"newshub/internal/config"
	"newshub/internal/feed"
)

// Weights are the scoring constants. They are empirical and deliberately
// configurable rather than hard-coded.
type Weights struct {
	DirectMatch int // article declares membership in the profession
	Keyword     int // per keyword found in title+description
	Fresh24h    int // published within 24 hours
	Fresh6h     int // published within 6 hours, stacks with Fresh24h
}

func DefaultWeights() Weights {
	return Weights{DirectMatch: 50, Keyword: 10, Fresh24h: 5, Fresh6h: 3}
}

type Scorer struct {
	weights     Weights
	professions []config.Profession
	now         func() time.Time
}

func NewScorer(weights Weights, professions []config.Profession) *Scorer {
	return &Scorer{
		weights:     weights,
		professions: professions,
		now:         time.Now,
	}
}

// Score computes the additive relevance score of an article for the selected
// profession ids. With nothing selected the score is zero and ranking falls
// back to recency and source priority alone.
func (s *Scorer) Score(article feed.Article, selected []string) int {
	if len(selected) == 0 {
		return 0
	}

	score := 0
	text := strings.ToLower(article.Title + " " + article.Description)

	for _, id := range selected {
		profession := config.ProfessionByID(s.professions, id)
		if profession == nil {
			continue
		}

		for _, rp := range article.RelevantProfessions {
			if rp == id {
				score += s.weights.DirectMatch
				break
			}
		}

		for _, keyword := range profession.Keywords {
			if strings.Contains(text, strings.ToLower(keyword)) {
				score += s.weights.Keyword
			}
		}
	}

	age := s.now().Sub(article.PublishedAt)
	if age < 24*time.Hour {
		score += s.weights.Fresh24h
	}
	if age < 6*time.Hour {
		score += s.weights.Fresh6h
	}

	return score
}
