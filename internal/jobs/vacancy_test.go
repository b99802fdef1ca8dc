package jobs

import (
	"strings"
	"testing"
)

func TestFormatSalary_Range(t *testing.T) {
	got := FormatSalary(&wireSalary{From: 100000, To: 150000, Currency: "RUR"})

	if !strings.HasSuffix(got, "₽") {
		t.Errorf("expected ruble symbol, got %q", got)
	}
	if !strings.Contains(got, "–") {
		t.Errorf("expected en-dash range, got %q", got)
	}
	// Russian digit grouping separates thousands with a non-breaking space.
	if !strings.Contains(got, "100\u00a0000") {
		t.Errorf("expected grouped digits, got %q", got)
	}
}

func TestFormatSalary_OpenBounds(t *testing.T) {
	from := FormatSalary(&wireSalary{From: 200000, Currency: "USD"})
	if !strings.HasPrefix(from, "от ") || !strings.HasSuffix(from, "$") {
		t.Errorf(`lower bound: got %q, want "от ... $"`, from)
	}

	to := FormatSalary(&wireSalary{To: 90000, Currency: "EUR"})
	if !strings.HasPrefix(to, "до ") || !strings.HasSuffix(to, "€") {
		t.Errorf(`upper bound: got %q, want "до ... €"`, to)
	}
}

func TestFormatSalary_MissingOrUnknown(t *testing.T) {
	if got := FormatSalary(nil); got != "Не указана" {
		t.Errorf("nil salary: got %q", got)
	}
	if got := FormatSalary(&wireSalary{Currency: "RUR"}); got != "Не указана" {
		t.Errorf("zero bounds: got %q", got)
	}

	// Unknown currency codes pass through untranslated.
	if got := FormatSalary(&wireSalary{From: 1000, Currency: "GBP"}); !strings.HasSuffix(got, "GBP") {
		t.Errorf("unknown currency: got %q", got)
	}
}

func TestFormatSalary_AllKnownCurrencySymbols(t *testing.T) {
	cases := map[string]string{
		"RUR": "₽", "RUB": "₽", "USD": "$", "EUR": "€",
		"KZT": "₸", "UAH": "₴", "BYR": "Br",
	}
	for currency, symbol := range cases {
		got := FormatSalary(&wireSalary{From: 1, Currency: currency})
		if !strings.HasSuffix(got, symbol) {
			t.Errorf("%s: got %q, want suffix %q", currency, got, symbol)
		}
	}
}

func TestCleanSnippet(t *testing.T) {
	in := "Опыт работы с <highlighttext>React</highlighttext> и <b>Redux</b>"
	got := cleanSnippet(in)

	if strings.Contains(got, "<") || strings.Contains(got, "highlighttext") {
		t.Errorf("markup survived: %q", got)
	}
	if !strings.Contains(got, "React") || !strings.Contains(got, "Redux") {
		t.Errorf("text content lost: %q", got)
	}
}

func TestParsePublishedAt_UnparseableFallsBackToNow(t *testing.T) {
	got := parsePublishedAt("not-a-date")
	if got.IsZero() {
		t.Error("expected a non-zero fallback time")
	}
}

func TestTransformVacancies_DefaultsForMissingFields(t *testing.T) {
	vacancies := transformVacancies([]wireVacancy{
		{ID: "1", Name: "Bare vacancy", URL: "https://hh.example/1", PublishedAt: "2025-06-01T10:00:00+0300"},
	})

	if len(vacancies) != 1 {
		t.Fatalf("expected 1 vacancy, got %d", len(vacancies))
	}

	v := vacancies[0]
	if v.Salary != "Не указана" {
		t.Errorf("salary default = %q", v.Salary)
	}
	if v.Company != "Не указана" {
		t.Errorf("company default = %q", v.Company)
	}
	if v.Requirements != "Не указаны" {
		t.Errorf("requirements default = %q", v.Requirements)
	}
}
