package validate

import "testing"

func TestLeadName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid", "Ada Lovelace", ""},
		{"empty", "", ""},
		{"at limit", string(make([]byte, MaxLeadNameLength)), ""},
		{"over limit", string(make([]byte, MaxLeadNameLength+1)), "name must be 200 characters or fewer"},
	}
	for _, tt := range tests {
		if got := LeadName(tt.input); got != tt.want {
			t.Errorf("LeadName(%q [len=%d]) = %q, want %q", tt.name, len(tt.input), got, tt.want)
		}
	}
}

func TestLeadEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid", "a@b.com", ""},
		{"at limit", string(make([]byte, MaxLeadEmailLength)), ""},
		{"over limit", string(make([]byte, MaxLeadEmailLength+1)), "email must be 320 characters or fewer"},
	}
	for _, tt := range tests {
		if got := LeadEmail(tt.input); got != tt.want {
			t.Errorf("LeadEmail(%q [len=%d]) = %q, want %q", tt.name, len(tt.input), got, tt.want)
		}
	}
}

func TestCompanyName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid", "Canvas Space Inc.", ""},
		{"at limit", string(make([]byte, MaxCompanyNameLength)), ""},
		{"over limit", string(make([]byte, MaxCompanyNameLength+1)), "company name must be 200 characters or fewer"},
	}
	for _, tt := range tests {
		if got := CompanyName(tt.input); got != tt.want {
			t.Errorf("CompanyName(%q [len=%d]) = %q, want %q", tt.name, len(tt.input), got, tt.want)
		}
	}
}

func TestFieldLimitsCoversFormFields(t *testing.T) {
	limits := FieldLimits()
	for _, field := range []string{"name", "email", "company"} {
		if limits[field] == 0 {
			t.Errorf("expected a limit for %q", field)
		}
	}
}
