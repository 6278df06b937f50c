package forms

import (
	"regexp"
	"strings"

	"portfolio-contact/internal/domain/models"
)

// Address grammar carried over from the contact form: quoted or dotted
// local part, then a bracketed IPv4 or a dotted domain with an alpha TLD.
var emailRe = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}))$`)

type Mark string

const (
	MarkOK       Mark = "ok"
	MarkRequired Mark = "required"
	MarkInvalid  Mark = "invalid"
)

const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldSubject = "subject"
	FieldMessage = "message"
)

// Raw holds the form fields exactly as entered.
type Raw struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Marks carries a per-field verdict so every field can be highlighted,
// not just the first failing one.
type Marks map[string]Mark

func (m Marks) Valid() bool {
	for _, mark := range m {
		if mark != MarkOK {
			return false
		}
	}

	return true
}

// Validate trims the raw fields and checks them: name and message must be
// non-empty, email must also match the address grammar, phone and subject
// are optional. The payload is only usable when Marks.Valid() is true.
func Validate(raw Raw) (models.ContactPayload, Marks) {
	payload := models.ContactPayload{
		Name:    strings.TrimSpace(raw.Name),
		Email:   strings.TrimSpace(raw.Email),
		Phone:   strings.TrimSpace(raw.Phone),
		Subject: strings.TrimSpace(raw.Subject),
		Message: strings.TrimSpace(raw.Message),
	}

	marks := Marks{
		FieldName:    MarkOK,
		FieldEmail:   MarkOK,
		FieldPhone:   MarkOK,
		FieldSubject: MarkOK,
		FieldMessage: MarkOK,
	}

	if payload.Name == "" {
		marks[FieldName] = MarkRequired
	}

	if payload.Message == "" {
		marks[FieldMessage] = MarkRequired
	}

	switch {
	case payload.Email == "":
		marks[FieldEmail] = MarkRequired
	case !emailRe.MatchString(strings.ToLower(payload.Email)):
		marks[FieldEmail] = MarkInvalid
	}

	return payload, marks
}
