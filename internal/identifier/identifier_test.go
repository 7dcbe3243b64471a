package identifier

import "testing"

func TestORCID(t *testing.T) {
	if got := ORCID("https://orcid.org/0000-0001-2345-6789"); got != "0000-0001-2345-6789" {
		t.Errorf("expected bare ORCID, got %q", got)
	}
	if got := ORCID("0000-0001-2345-6789"); got != "0000-0001-2345-6789" {
		t.Errorf("bare ORCID should pass through, got %q", got)
	}
	if got := ORCID(""); got != "" {
		t.Errorf("empty input should yield empty string, got %q", got)
	}
}

func TestOpenAlex(t *testing.T) {
	if got := OpenAlex("https://openalex.org/A5023888391"); got != "A5023888391" {
		t.Errorf("expected bare OpenAlex ID, got %q", got)
	}
	if got := OpenAlex("A5023888391"); got != "A5023888391" {
		t.Errorf("bare ID should pass through, got %q", got)
	}
}

func TestROR(t *testing.T) {
	if got := ROR("https://ror.org/04pp8hn57"); got != "04pp8hn57" {
		t.Errorf("expected bare ROR, got %q", got)
	}
}

func TestDOI(t *testing.T) {
	want := "10.1000/xyz"
	for _, raw := range []string{
		"10.1000/XYZ",
		"https://doi.org/10.1000/xyz",
		"https://doi.org/10.1000/XYZ",
		"doi.org/10.1000/xyz",
	} {
		if got := DOI(raw); got != want {
			t.Errorf("DOI(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	// normalize(prefix+value) == normalize(value) == value
	cases := []struct {
		scheme Scheme
		prefix string
		value  string
	}{
		{SchemeORCID, "https://orcid.org/", "0000-0002-1825-0097"},
		{SchemeOpenAlex, "https://openalex.org/", "W2741809807"},
		{SchemeROR, "https://ror.org/", "04pp8hn57"},
	}
	for _, c := range cases {
		if got := Normalize(c.scheme, c.prefix+c.value); got != c.value {
			t.Errorf("Normalize(%s, prefixed) = %q, want %q", c.scheme, got, c.value)
		}
		if got := Normalize(c.scheme, c.value); got != c.value {
			t.Errorf("Normalize(%s, bare) = %q, want %q", c.scheme, got, c.value)
		}
	}
}

func TestValidateDOI(t *testing.T) {
	valid := []string{
		"10.1000/xyz",
		"10.6084/M9.FIGSHARE.21829182",
		"https://doi.org/10.5061/dryad.tn70pf1",
	}
	for _, doi := range valid {
		if err := ValidateDOI(doi); err != nil {
			t.Errorf("ValidateDOI(%q) = %v, want nil", doi, err)
		}
	}

	invalid := []string{"", "DOI3", "not-a-doi", "11.1000/xyz", "10.12/short"}
	for _, doi := range invalid {
		if err := ValidateDOI(doi); err == nil {
			t.Errorf("ValidateDOI(%q) = nil, want error", doi)
		}
	}
}
