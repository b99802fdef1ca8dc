package jobs

import (
	"regexp"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"newshub/internal/feed"
)

// Vacancy is one posting, normalized from the wire format. Salary is already
// a display string; SalaryFrom/SalaryTo keep the raw bounds for filtering.
type Vacancy struct {
	ID             string
	Title          string
	Company        string
	CompanyLogo    string
	Salary         string
	SalaryFrom     int
	SalaryTo       int
	Location       string
	Experience     string
	Employment     string
	Schedule       string
	Requirements   string
	Responsibility string
	Link           string
	PublishedAt    time.Time
}

// Wire format of the search endpoint.
type searchResponse struct {
	Items   []wireVacancy `json:"items"`
	Found   int           `json:"found"`
	Pages   int           `json:"pages"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

type wireVacancy struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Salary      *wireSalary  `json:"salary"`
	Employer    *wireNamed   `json:"employer"`
	Area        *wireNamed   `json:"area"`
	Experience  *wireNamed   `json:"experience"`
	Employment  *wireNamed   `json:"employment"`
	Schedule    *wireNamed   `json:"schedule"`
	Snippet     *wireSnippet `json:"snippet"`
	URL         string       `json:"alternate_url"`
	PublishedAt string       `json:"published_at"`
}

type wireSalary struct {
	From     int    `json:"from"`
	To       int    `json:"to"`
	Currency string `json:"currency"`
}

type wireNamed struct {
	Name     string            `json:"name"`
	LogoURLs map[string]string `json:"logo_urls"`
}

type wireSnippet struct {
	Requirement    string `json:"requirement"`
	Responsibility string `json:"responsibility"`
}

var currencySymbols = map[string]string{
	"RUR": "₽",
	"RUB": "₽",
	"USD": "$",
	"EUR": "€",
	"KZT": "₸",
	"UAH": "₴",
	"BYR": "Br",
}

// ruPrinter groups digits the Russian way (1 234 567).
var ruPrinter = message.NewPrinter(language.Russian)

func transformVacancies(items []wireVacancy) []Vacancy {
	vacancies := make([]Vacancy, 0, len(items))
	for _, item := range items {
		v := Vacancy{
			ID:          "hh_" + item.ID,
			Title:       item.Name,
			Company:     namedOr(item.Employer, "Не указана"),
			Salary:      FormatSalary(item.Salary),
			Location:    namedOr(item.Area, "Не указано"),
			Experience:  namedOr(item.Experience, "Не указан"),
			Employment:  namedOr(item.Employment, "Не указана"),
			Schedule:    namedOr(item.Schedule, "Не указан"),
			Link:        item.URL,
			PublishedAt: parsePublishedAt(item.PublishedAt),
		}
		if item.Salary != nil {
			v.SalaryFrom = item.Salary.From
			v.SalaryTo = item.Salary.To
		}
		if item.Employer != nil {
			v.CompanyLogo = item.Employer.LogoURLs["90"]
		}
		if item.Snippet != nil {
			v.Requirements = cleanSnippet(item.Snippet.Requirement)
			v.Responsibility = cleanSnippet(item.Snippet.Responsibility)
		}
		if v.Requirements == "" {
			v.Requirements = "Не указаны"
		}
		vacancies = append(vacancies, v)
	}
	return vacancies
}

// FormatSalary renders a salary as a localized range with a currency symbol:
// "100 000–150 000 ₽", "от 100 000 ₽", "до 150 000 ₽".
func FormatSalary(s *wireSalary) string {
	if s == nil || (s.From == 0 && s.To == 0) {
		return "Не указана"
	}

	symbol, ok := currencySymbols[s.Currency]
	if !ok {
		symbol = s.Currency
	}

	switch {
	case s.From > 0 && s.To > 0:
		return ruPrinter.Sprintf("%d–%d %s", s.From, s.To, symbol)
	case s.From > 0:
		return ruPrinter.Sprintf("от %d %s", s.From, symbol)
	default:
		return ruPrinter.Sprintf("до %d %s", s.To, symbol)
	}
}

var highlightTag = regexp.MustCompile(`</?highlighttext>`)

// cleanSnippet drops the search-term highlight markers and any remaining
// markup from a snippet field.
func cleanSnippet(s string) string {
	if s == "" {
		return ""
	}
	s = highlightTag.ReplaceAllString(s, "")
	return feed.CleanText(feed.StripHTML(s))
}

// parsePublishedAt handles the API's ISO 8601 variant with a colon-less
// zone offset.
func parsePublishedAt(s string) time.Time {
	for _, layout := range []string{"2006-01-02T15:04:05-0700", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}

func namedOr(n *wireNamed, fallback string) string {
	if n == nil || n.Name == "" {
		return fallback
	}
	return n.Name
}
