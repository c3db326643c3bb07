package validate

import "fmt"

// Text field length limits for lead capture.
const (
	MaxLeadNameLength    = 200
	MaxLeadEmailLength   = 320
	MaxCompanyNameLength = 200
	MaxUserAgentLength   = 512
)

func checkLen(value string, max int, field string) string {
	if len(value) > max {
		return fmt.Sprintf("%s must be %d characters or fewer", field, max)
	}
	return ""
}

func LeadName(s string) string    { return checkLen(s, MaxLeadNameLength, "name") }
func LeadEmail(s string) string   { return checkLen(s, MaxLeadEmailLength, "email") }
func CompanyName(s string) string { return checkLen(s, MaxCompanyNameLength, "company name") }

// FieldLimits maps lead form fields to their maximum lengths.
func FieldLimits() map[string]int {
	return map[string]int{
		"name":    MaxLeadNameLength,
		"email":   MaxLeadEmailLength,
		"company": MaxCompanyNameLength,
	}
}
