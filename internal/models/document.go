package models

import (
	"time"

	"github.com/starford/syndic/internal/apperr"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DocumentCategory classifies archived documents.
type DocumentCategory string

const (
	CategoryPV      DocumentCategory = "PV"
	CategoryContrat DocumentCategory = "CONTRAT"
	CategoryFacture DocumentCategory = "FACTURE"
	CategoryAutre   DocumentCategory = "AUTRE"
)

// DocumentCategories lists every valid category.
var DocumentCategories = []any{CategoryPV, CategoryContrat, CategoryFacture, CategoryAutre}

// Document is the metadata row of an archived file. URI points into the
// application-owned file directory.
type Document struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Category  DocumentCategory `json:"category"`
	URI       string           `json:"uri"`
	Size      int64            `json:"size"`
	CreatedAt time.Time        `json:"created_at"`
	MeetingID *int64           `json:"meeting_id"`
}

// Validate checks the fields required to store a document.
func (d Document) Validate() error {
	return apperr.Invalid("document", validation.ValidateStruct(&d,
		validation.Field(&d.Name, notBlank),
		validation.Field(&d.Category, validation.Required, validation.In(DocumentCategories...)),
		validation.Field(&d.URI, validation.Required),
		validation.Field(&d.Size, validation.Min(int64(0))),
	))
}

// DocumentPatch carries the document fields to change. DetachMeeting clears
// the meeting link and takes precedence over MeetingID.
type DocumentPatch struct {
	Name          *string           `json:"name,omitempty"`
	Category      *DocumentCategory `json:"category,omitempty"`
	URI           *string           `json:"uri,omitempty"`
	Size          *int64            `json:"size,omitempty"`
	MeetingID     *int64            `json:"meeting_id,omitempty"`
	DetachMeeting bool              `json:"detach_meeting,omitempty"`
}

// Validate checks the provided fields.
func (p DocumentPatch) Validate() error {
	return apperr.Invalid("document", validation.ValidateStruct(&p,
		validation.Field(&p.Name, notBlankPtr),
		validation.Field(&p.Category, validation.In(DocumentCategories...)),
		validation.Field(&p.URI, validation.NilOrNotEmpty),
	))
}
