package i18n

import "testing"

func TestParse(t *testing.T) {
	if Parse("en-US") != EN {
		t.Fatalf("expected en-US to parse as EN")
	}
	if Parse("he-IL") != HE || Parse("iw") != HE {
		t.Fatalf("expected Hebrew codes to parse as HE")
	}
	if Parse("fr") != HE {
		t.Fatalf("expected unknown language to default to HE")
	}
}

func TestTFallsBack(t *testing.T) {
	if got := T(EN, ErrPhone); got != "Phone number must start with 05 and have 10 digits" {
		t.Fatalf("unexpected EN message %q", got)
	}
	if got := T(Lang("fr"), ErrPhone); got != catalog[HE][ErrPhone] {
		t.Fatalf("expected Hebrew fallback, got %q", got)
	}
	if got := T(EN, "missing_key"); got != "missing_key" {
		t.Fatalf("expected key fallback, got %q", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalog[HE] {
		if _, ok := catalog[EN][key]; !ok {
			t.Errorf("EN catalog missing %q", key)
		}
	}
	for key := range catalog[EN] {
		if _, ok := catalog[HE][key]; !ok {
			t.Errorf("HE catalog missing %q", key)
		}
	}
}
