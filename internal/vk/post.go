package vk

import (
	"fmt"
	"time"

	"newshub/internal/config"
	"newshub/internal/feed"
	"newshub/internal/logger"
)

// Post is one wall post, already normalized from the wire format.
type Post struct {
	ID          string
	Title       string
	Description string
	Text        string
	Link        string
	Images      []string // ordered, first is primary
	PublishedAt time.Time
	Likes       int
	Views       int
	Comments    int

	GroupID       string
	GroupName     string
	GroupCategory string

	// Set during a profession fetch: position of the group in the
	// selection order (1-based), and whether it was in the top three.
	GroupPriority  int
	IsHighPriority bool
}

// Wire format of wall.get.
type wallResponse struct {
	Response *struct {
		Items []wallPost `json:"items"`
	} `json:"response"`
	Error *wallError `json:"error"`
}

type wallError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

type wallPost struct {
	ID          int64        `json:"id"`
	OwnerID     int64        `json:"owner_id"`
	Date        int64        `json:"date"`
	Text        string       `json:"text"`
	Attachments []attachment `json:"attachments"`
	Likes       *counter     `json:"likes"`
	Views       *counter     `json:"views"`
	Comments    *counter     `json:"comments"`
}

type counter struct {
	Count int `json:"count"`
}

type attachment struct {
	Type  string `json:"type"`
	Photo *photo `json:"photo"`
}

type photo struct {
	Sizes    []photoSize `json:"sizes"`
	Photo604 string      `json:"photo_604"`
	Photo320 string      `json:"photo_320"`
	Photo130 string      `json:"photo_130"`
}

type photoSize struct {
	URL   string `json:"url"`
	Width int    `json:"width"`
}

func (c *Client) transformPosts(items []wallPost, groupID string) []Post {
	group := c.groupByID(groupID)

	posts := make([]Post, 0, len(items))
	for _, item := range items {
		posts = append(posts, Post{
			ID:            fmt.Sprintf("vk_%s_%d", group.ID, item.ID),
			Title:         truncateRunes(item.Text, 100),
			Description:   truncateRunes(item.Text, 300),
			Text:          item.Text,
			Link:          fmt.Sprintf("https://vk.com/%s?w=wall%d_%d", group.ID, item.OwnerID, item.ID),
			Images:        extractImages(item, groupID),
			PublishedAt:   time.Unix(item.Date, 0),
			Likes:         counterValue(item.Likes),
			Views:         counterValue(item.Views),
			Comments:      counterValue(item.Comments),
			GroupID:       group.ID,
			GroupName:     group.Name,
			GroupCategory: group.Category,
		})
	}
	return posts
}

// extractImages collects the highest-resolution variant of every photo
// attachment. Image problems never drop the post itself.
func extractImages(item wallPost, groupID string) []string {
	var images []string
	for _, att := range item.Attachments {
		if att.Type != "photo" || att.Photo == nil {
			continue
		}
		if url := bestPhotoURL(att.Photo); url != "" {
			images = append(images, url)
		} else {
			logger.Debug("photo attachment without usable size", "group", groupID, "post", item.ID)
		}
	}
	return images
}

func bestPhotoURL(p *photo) string {
	var best photoSize
	for _, size := range p.Sizes {
		if size.URL == "" {
			continue
		}
		if size.Width > best.Width {
			best = size
		}
	}
	if best.URL != "" {
		return best.URL
	}

	switch {
	case p.Photo604 != "":
		return p.Photo604
	case p.Photo320 != "":
		return p.Photo320
	case p.Photo130 != "":
		return p.Photo130
	}
	return ""
}

func counterValue(c *counter) int {
	if c == nil {
		return 0
	}
	return c.Count
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func (c *Client) groupByID(groupID string) config.Group {
	c.groupsMu.RLock()
	defer c.groupsMu.RUnlock()

	for _, g := range c.groups {
		if g.ID == groupID {
			return g
		}
	}
	return config.Group{ID: groupID, Name: groupID, Category: "general"}
}

// RelatedJobsIndex maps group id to the profession ids the group posts for,
// in the shape PostsToArticles consumes.
func RelatedJobsIndex(groups []config.Group) map[string][]string {
	index := make(map[string][]string, len(groups))
	for _, g := range groups {
		if len(g.RelatedJobs) > 0 {
			index[g.ID] = g.RelatedJobs
		}
	}
	return index
}

// PostsToArticles converts wall posts into the canonical article shape so
// they flow through the same dedup and ranking pipeline as feed items.
func PostsToArticles(posts []Post, relatedJobs map[string][]string) []feed.Article {
	articles := make([]feed.Article, 0, len(posts))
	for _, p := range posts {
		title := feed.CleanText(p.Title)
		if title == "" || p.Link == "" {
			continue
		}
		articles = append(articles, feed.Article{
			ID:          p.ID,
			Title:       title,
			Description: feed.CleanText(p.Description),
			Link:        p.Link,
			Source: feed.SourceRef{
				ID:       p.GroupID,
				Name:     p.GroupName,
				Category: p.GroupCategory,
			},
			Category:            p.GroupCategory,
			PublishedAt:         p.PublishedAt,
			ReadingTime:         feed.EstimateReadingTime(p.Text),
			RelevantProfessions: relatedJobs[p.GroupID],
			Images:              p.Images,
			Likes:               p.Likes,
			Views:               p.Views,
			Comments:            p.Comments,
			GroupPriority:       p.GroupPriority,
			IsHighPriority:      p.IsHighPriority,
		})
	}
	return articles
}
