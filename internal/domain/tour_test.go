package domain

import "testing"

func TestTourLocalizedFields(t *testing.T) {
	tour := Tour{NameEN: "City Walk", NamePT: "Passeio", DescriptionEN: "  ", Duration: "2 hours", Price: 49.5}

	if got := tour.Name(LocaleEN); got != "City Walk" {
		t.Fatalf("expected English name, got %q", got)
	}
	if got := tour.Name(LocalePT); got != "Passeio" {
		t.Fatalf("expected Portuguese name, got %q", got)
	}
	if got := tour.Description(LocaleEN); got != "" {
		t.Fatalf("expected blank description to read as unset, got %q", got)
	}
	if got := tour.FormattedPrice(); got != "49.50" {
		t.Fatalf("expected price 49.50, got %q", got)
	}
}

func TestParseLocale(t *testing.T) {
	cases := map[string]Locale{
		"":    LocaleEN,
		"en":  LocaleEN,
		"PT":  LocalePT,
		" pt": LocalePT,
		"fr":  LocaleEN,
	}
	for raw, want := range cases {
		if got := ParseLocale(raw); got != want {
			t.Fatalf("ParseLocale(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestFindTour(t *testing.T) {
	tours := []Tour{{ID: "a"}, {ID: "b", NameEN: "Louvre"}}
	found, ok := FindTour(tours, "b")
	if !ok || found.NameEN != "Louvre" {
		t.Fatalf("expected to find tour b, got %+v ok=%v", found, ok)
	}
	if _, ok := FindTour(tours, "missing"); ok {
		t.Fatalf("expected missing tour lookup to fail")
	}
}
