package gate

import (
	"net/mail"
	"strings"

	"github.com/canvasspace/canvasaem/internal/validate"
)

const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldCompany = "company"
)

// RequiredFields lists the lead form fields in display order.
var RequiredFields = []string{FieldName, FieldEmail, FieldCompany}

// Lead is an accepted lead form submission.
type Lead struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

// LeadForm buffers the in-progress field values of the lead form.
type LeadForm struct {
	fields map[string]string
}

func NewLeadForm() *LeadForm {
	f := &LeadForm{fields: make(map[string]string, len(RequiredFields))}
	for _, name := range RequiredFields {
		f.fields[name] = ""
	}
	return f
}

// SetField stores value as typed; validation happens on submit.
func (f *LeadForm) SetField(name, value string) error {
	if _, ok := f.fields[name]; !ok {
		return ErrUnknownField
	}
	f.fields[name] = value
	return nil
}

func (f *LeadForm) Field(name string) string {
	return f.fields[name]
}

// Fields returns a copy of the buffered values.
func (f *LeadForm) Fields() map[string]string {
	out := make(map[string]string, len(f.fields))
	for k, v := range f.fields {
		out[k] = v
	}
	return out
}

// TrySubmit validates the buffered values. It returns a *ValidationError
// when a field is blank, too long, or the email does not parse.
func (f *LeadForm) TrySubmit() (Lead, error) {
	verr := &ValidationError{}
	for _, name := range RequiredFields {
		value := strings.TrimSpace(f.fields[name])
		if value == "" {
			verr.Missing = append(verr.Missing, name)
			continue
		}
		if msg := fieldLimit(name, value); msg != "" {
			verr.Invalid = append(verr.Invalid, name)
			continue
		}
		if name == FieldEmail && !validEmail(value) {
			verr.Invalid = append(verr.Invalid, name)
		}
	}
	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return Lead{}, verr
	}
	return Lead{
		Name:    strings.TrimSpace(f.fields[FieldName]),
		Email:   strings.TrimSpace(f.fields[FieldEmail]),
		Company: strings.TrimSpace(f.fields[FieldCompany]),
	}, nil
}

func fieldLimit(name, value string) string {
	switch name {
	case FieldName:
		return validate.LeadName(value)
	case FieldEmail:
		return validate.LeadEmail(value)
	case FieldCompany:
		return validate.CompanyName(value)
	}
	return ""
}

// validEmail accepts a bare addr-spec, the same shape an email-typed input
// accepts; display names and domain literals are rejected.
func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(value, '@')
	return at > 0 && !strings.HasPrefix(value[at+1:], "[")
}
