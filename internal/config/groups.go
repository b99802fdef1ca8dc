package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Group is a public wall community monitored by the rate-limited client.
// RelatedJobs lists profession ids the group is known to post for.
type Group struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	URL         string   `yaml:"url,omitempty"`
	Enabled     bool     `yaml:"enabled"`
	RelatedJobs []string `yaml:"related_jobs,omitempty"`
}

type groupsFile struct {
	Groups []Group `yaml:"groups"`
}

func LoadGroups(path string) ([]Group, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg groupsFile
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode groups config: %w", err)
	}
	if len(cfg.Groups) == 0 {
		return DefaultGroups(), nil
	}
	return cfg.Groups, nil
}

func DefaultGroups() []Group {
	return []Group{
		{ID: "habr", Name: "Habr", Category: "tech", Enabled: true,
			RelatedJobs: []string{"frontend_developer", "backend_developer", "full_stack_developer", "devops_engineer", "data_scientist", "machine_learning_engineer", "qa_engineer"}},
		{ID: "tproger", Name: "Типичный программист", Category: "tech", Enabled: true,
			RelatedJobs: []string{"frontend_developer", "backend_developer", "full_stack_developer", "game_developer"}},
		{ID: "proglib", Name: "Библиотека программиста", Category: "tech", Enabled: true,
			RelatedJobs: []string{"frontend_developer", "backend_developer", "full_stack_developer"}},
		{ID: "yandex", Name: "Яндекс", Category: "tech", Enabled: true,
			RelatedJobs: []string{"frontend_developer", "backend_developer", "data_scientist", "machine_learning_engineer", "devops_engineer"}},
		{ID: "webstandards_ru", Name: "Web Standards", Category: "tech", Enabled: true,
			RelatedJobs: []string{"frontend_developer", "web_designer"}},
		{ID: "css_live", Name: "CSS Live", Category: "tech", Enabled: true,
			RelatedJobs: []string{"frontend_developer", "web_designer"}},
		{ID: "loftblog", Name: "Loftblog", Category: "tech", Enabled: true,
			RelatedJobs: []string{"frontend_developer", "web_designer"}},
		{ID: "frontend_and_backend", Name: "Frontend & Backend", Category: "tech", Enabled: true,
			RelatedJobs: []string{"frontend_developer", "backend_developer"}},
		{ID: "devnull", Name: "/dev/null", Category: "tech", Enabled: true,
			RelatedJobs: []string{"backend_developer", "devops_engineer"}},
		{ID: "devops", Name: "DevOps", Category: "tech", Enabled: true,
			RelatedJobs: []string{"devops_engineer"}},
		{ID: "coders_stuff", Name: "Coders Stuff", Category: "tech", Enabled: true,
			RelatedJobs: []string{"backend_developer"}},
		{ID: "devcolibri", Name: "DevColibri", Category: "tech", Enabled: true,
			RelatedJobs: []string{"backend_developer"}},
		{ID: "data_science", Name: "Data Science", Category: "tech", Enabled: true,
			RelatedJobs: []string{"data_scientist", "machine_learning_engineer"}},
		{ID: "ml_ai_bigdata", Name: "ML & AI & BigData", Category: "tech", Enabled: true,
			RelatedJobs: []string{"machine_learning_engineer", "data_scientist"}},
		{ID: "designpub", Name: "Дизайн", Category: "design", Enabled: true,
			RelatedJobs: []string{"ux_ui_designer", "web_designer"}},
		{ID: "web_design_club", Name: "Клуб веб-дизайнеров", Category: "design", Enabled: true,
			RelatedJobs: []string{"web_designer", "ux_ui_designer"}},
		{ID: "gamedev_ru", Name: "GameDev", Category: "tech", Enabled: true,
			RelatedJobs: []string{"game_developer"}},
		{ID: "vc_ru", Name: "VC.ru", Category: "business", Enabled: true,
			RelatedJobs: []string{"product_manager", "project_manager"}},
		{ID: "startup_vc", Name: "Startup VC", Category: "business", Enabled: true,
			RelatedJobs: []string{"product_manager"}},
		{ID: "hexlet", Name: "Hexlet", Category: "education", Enabled: true,
			RelatedJobs: []string{"frontend_developer", "backend_developer"}},
		{ID: "netology", Name: "Нетология", Category: "education", Enabled: true,
			RelatedJobs: []string{"frontend_developer", "backend_developer", "ux_ui_designer", "data_scientist"}},
	}
}
