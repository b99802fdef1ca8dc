package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profession is an interest tag the user selects to bias ranking and wall
// group selection. Keywords are matched case-insensitively against article
// text; Categories link the profession to wall group categories for the
// fallback selection path.
type Profession struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Keywords   []string `yaml:"keywords"`
	Categories []string `yaml:"categories,omitempty"`
}

type professionsFile struct {
	Professions []Profession `yaml:"professions"`
}

func LoadProfessions(path string) ([]Profession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg professionsFile
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode professions config: %w", err)
	}
	if len(cfg.Professions) == 0 {
		return DefaultProfessions(), nil
	}
	return cfg.Professions, nil
}

// ProfessionByID returns the profession with the given id, or nil.
func ProfessionByID(professions []Profession, id string) *Profession {
	for i := range professions {
		if professions[i].ID == id {
			return &professions[i]
		}
	}
	return nil
}

// DetectProfession finds a profession mentioned in a free-text query, by name
// or by keyword. Returns the empty string when nothing matches.
func DetectProfession(professions []Profession, query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ""
	}
	for _, p := range professions {
		if strings.Contains(q, strings.ToLower(p.Name)) {
			return p.ID
		}
		for _, kw := range p.Keywords {
			if strings.Contains(q, strings.ToLower(kw)) {
				return p.ID
			}
		}
	}
	return ""
}

func DefaultProfessions() []Profession {
	return []Profession{
		{ID: "frontend_developer", Name: "Frontend Developer", Categories: []string{"tech"},
			Keywords: []string{"react", "vue", "angular", "javascript", "typescript", "css", "html", "frontend"}},
		{ID: "backend_developer", Name: "Backend Developer", Categories: []string{"tech"},
			Keywords: []string{"python", "java", "nodejs", "php", "golang", "api", "backend"}},
		{ID: "full_stack_developer", Name: "Fullstack Developer", Categories: []string{"tech"},
			Keywords: []string{"fullstack", "full-stack", "javascript", "python", "react", "nodejs"}},
		{ID: "devops_engineer", Name: "DevOps Engineer", Categories: []string{"tech"},
			Keywords: []string{"docker", "kubernetes", "aws", "devops", "ci/cd", "jenkins"}},
		{ID: "data_scientist", Name: "Data Scientist", Categories: []string{"tech", "education"},
			Keywords: []string{"python", "machine learning", "data science", "pandas", "numpy"}},
		{ID: "machine_learning_engineer", Name: "ML Engineer", Categories: []string{"tech"},
			Keywords: []string{"ml", "ai", "tensorflow", "pytorch", "machine learning"}},
		{ID: "ux_ui_designer", Name: "UX/UI Designer", Categories: []string{"design"},
			Keywords: []string{"ux", "ui", "figma", "sketch", "design"}},
		{ID: "web_designer", Name: "Web Designer", Categories: []string{"design"},
			Keywords: []string{"web design", "photoshop", "illustrator"}},
		{ID: "game_developer", Name: "Game Developer", Categories: []string{"tech"},
			Keywords: []string{"unity", "unreal", "gamedev"}},
		{ID: "product_manager", Name: "Product Manager", Categories: []string{"business"},
			Keywords: []string{"product management", "roadmap", "agile"}},
		{ID: "project_manager", Name: "Project Manager", Categories: []string{"business", "management"},
			Keywords: []string{"project management", "scrum", "kanban"}},
		{ID: "qa_engineer", Name: "QA Engineer", Categories: []string{"tech"},
			Keywords: []string{"qa", "testing", "autotest", "selenium"}},
	}
}
