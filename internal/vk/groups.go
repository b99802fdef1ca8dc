package vk

import (
	"context"
	"sort"
	"strings"

	"newshub/internal/config"
	"newshub/internal/logger"
)

// groupPriorityTable pins the preferred community order per profession.
// Groups named here come first, in table order; other matches follow
// alphabetically.
var groupPriorityTable = map[string][]string{
	"frontend_developer":        {"habr", "tproger", "webstandards_ru", "css_live", "loftblog"},
	"backend_developer":         {"habr", "tproger", "devnull", "coders_stuff", "devcolibri"},
	"full_stack_developer":      {"habr", "tproger", "proglib", "frontend_and_backend"},
	"devops_engineer":           {"devnull", "devops", "habr", "tproger"},
	"data_scientist":            {"data_science", "ml_ai_bigdata", "habr"},
	"machine_learning_engineer": {"ml_ai_bigdata", "data_science", "habr", "yandex"},
	"ux_ui_designer":            {"designpub", "web_design_club", "habr"},
	"web_designer":              {"web_design_club", "webstandards_ru", "css_live", "designpub"},
	"game_developer":            {"gamedev_ru", "habr", "tproger"},
	"product_manager":           {"vc_ru", "startup_vc"},
	"project_manager":           {"vc_ru", "startup_vc"},
}

// universalGroups is the general-purpose high-traffic fallback set.
var universalGroups = []string{"habr", "tproger", "proglib", "yandex", "netology"}

const universalGroupLimit = 5

// SelectGroups picks the communities to query for a profession:
// exact related-job matches reordered by the priority table, else groups
// sharing the profession's category, else the universal set.
func (c *Client) SelectGroups(professionID string) []config.Group {
	c.groupsMu.RLock()
	enabled := make([]config.Group, 0, len(c.groups))
	for _, g := range c.groups {
		if g.Enabled {
			enabled = append(enabled, g)
		}
	}
	c.groupsMu.RUnlock()

	if professionID == "" {
		return enabled
	}

	var exact []config.Group
	for _, g := range enabled {
		for _, job := range g.RelatedJobs {
			if job == professionID {
				exact = append(exact, g)
				break
			}
		}
	}
	if len(exact) > 0 {
		prioritizeGroups(exact, groupPriorityTable[professionID])
		logger.Debug("exact group match", "profession", professionID, "groups", len(exact))
		return exact
	}

	if byCategory := c.groupsByCategory(enabled, professionID); len(byCategory) > 0 {
		logger.Debug("category fallback", "profession", professionID, "groups", len(byCategory))
		return byCategory
	}

	logger.Warn("no relevant groups, using universal set", "profession", professionID)
	return universalFallback(enabled)
}

func prioritizeGroups(groups []config.Group, table []string) {
	rank := func(id string) int {
		for i, t := range table {
			if t == id {
				return i
			}
		}
		return -1
	}

	sort.SliceStable(groups, func(i, j int) bool {
		ri, rj := rank(groups[i].ID), rank(groups[j].ID)
		switch {
		case ri != -1 && rj != -1:
			return ri < rj
		case ri != -1:
			return true
		case rj != -1:
			return false
		}
		return groups[i].Name < groups[j].Name
	})
}

func (c *Client) groupsByCategory(groups []config.Group, professionID string) []config.Group {
	categories := []string{"tech"}
	if p := config.ProfessionByID(c.professions, professionID); p != nil && len(p.Categories) > 0 {
		categories = p.Categories
	}

	var matched []config.Group
	for _, g := range groups {
		for _, cat := range categories {
			if g.Category == cat {
				matched = append(matched, g)
				break
			}
		}
	}
	return matched
}

func universalFallback(groups []config.Group) []config.Group {
	inUniversal := func(id string) bool {
		for _, u := range universalGroups {
			if u == id {
				return true
			}
		}
		return false
	}

	var picked []config.Group
	for _, g := range groups {
		if inUniversal(g.ID) || g.Category == "tech" {
			picked = append(picked, g)
			if len(picked) == universalGroupLimit {
				break
			}
		}
	}
	return picked
}

// FetchForProfession collects posts across the selected communities with an
// adaptive per-group quota: the total approaches PostsTarget over at most
// MaxGroupsPerRun groups, the first three groups get a boosted share, and
// fetching stops early once the target is reached.
func (c *Client) FetchForProfession(ctx context.Context, professionID string) []Post {
	groups := c.SelectGroups(professionID)
	if len(groups) == 0 {
		return nil
	}

	maxGroups := c.cfg.MaxGroupsPerRun
	if len(groups) > maxGroups {
		groups = groups[:maxGroups]
	}

	perGroup := c.cfg.PostsTarget / len(groups)
	if perGroup < 2 {
		perGroup = 2
	}

	var all []Post
	for i, group := range groups {
		count := perGroup
		if i < 3 {
			count = perGroup + 2
			if count > 8 {
				count = 8
			}
		}

		posts, err := c.GroupPosts(ctx, group.ID, count, 0)
		if err != nil {
			logger.Warn("wall group fetch failed", "group", group.ID, "error", err)
			continue
		}
		// GroupPosts hands out the cached slice; tag a copy so the cache
		// entry stays clean for other callers.
		tagged := append([]Post(nil), posts...)
		for j := range tagged {
			tagged[j].GroupPriority = i + 1
			tagged[j].IsHighPriority = i < 3
		}
		all = append(all, tagged...)

		if len(all) >= c.cfg.PostsTarget {
			logger.Debug("post target reached", "total", len(all))
			break
		}
	}

	c.RankPosts(all, professionID)
	return all
}

// RankPosts orders posts by keyword overlap with the profession (title hits
// weigh more than body hits), then group priority, then recency.
func (c *Client) RankPosts(posts []Post, professionID string) {
	var keywords []string
	if p := config.ProfessionByID(c.professions, professionID); p != nil {
		keywords = p.Keywords
	}

	score := func(p Post) int {
		relevance := 0
		title := strings.ToLower(p.Title)
		text := strings.ToLower(p.Title + " " + p.Description + " " + p.Text)

		for _, keyword := range keywords {
			kw := strings.ToLower(keyword)
			if strings.Contains(text, kw) {
				relevance += 2
				if strings.Contains(title, kw) {
					relevance += 3
				}
			}
		}
		if p.IsHighPriority {
			relevance++
		}
		if p.Likes > 50 {
			relevance++
		}
		if p.Views > 1000 {
			relevance++
		}
		return relevance
	}

	sort.SliceStable(posts, func(i, j int) bool {
		si, sj := score(posts[i]), score(posts[j])
		if si != sj {
			return si > sj
		}
		if posts[i].GroupPriority != posts[j].GroupPriority {
			return posts[i].GroupPriority < posts[j].GroupPriority
		}
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})
}
