package models

import (
	"github.com/starford/syndic/internal/apperr"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ContactType groups directory entries.
type ContactType string

const (
	ContactSyndicat ContactType = "SYNDICAT"
	ContactAvocat   ContactType = "AVOCAT"
	ContactAutre    ContactType = "AUTRE"
)

var contactTypes = []any{ContactSyndicat, ContactAvocat, ContactAutre}

// Contact is a directory entry.
type Contact struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Type        ContactType `json:"type"`
	Phone       string      `json:"phone,omitempty"`
	Email       string      `json:"email,omitempty"`
	Address     string      `json:"address,omitempty"`
	Description string      `json:"description,omitempty"`
}

// Validate checks the fields required to store a contact.
func (c Contact) Validate() error {
	return apperr.Invalid("contact", validation.ValidateStruct(&c,
		validation.Field(&c.Name, notBlank),
		validation.Field(&c.Type, validation.Required, validation.In(contactTypes...)),
		validation.Field(&c.Email, is.EmailFormat),
	))
}

// ContactPatch carries the contact fields to change; nil fields are kept.
type ContactPatch struct {
	Name        *string      `json:"name,omitempty"`
	Type        *ContactType `json:"type,omitempty"`
	Phone       *string      `json:"phone,omitempty"`
	Email       *string      `json:"email,omitempty"`
	Address     *string      `json:"address,omitempty"`
	Description *string      `json:"description,omitempty"`
}

// Validate checks the provided fields.
func (p ContactPatch) Validate() error {
	return apperr.Invalid("contact", validation.ValidateStruct(&p,
		validation.Field(&p.Name, notBlankPtr),
		validation.Field(&p.Type, validation.In(contactTypes...)),
		validation.Field(&p.Email, is.EmailFormat),
	))
}
