// Package service coordinates the file store and the document repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/syndic/internal/apperr"
	"github.com/starford/syndic/internal/filestore"
	"github.com/starford/syndic/internal/models"
)

// FileStore keeps the bytes of imported documents.
type FileStore interface {
	Save(name string, r io.Reader) (string, int64, error)
	Open(uri string) (*os.File, error)
	Remove(uri string) error
}

// DocumentStore keeps the document rows.
type DocumentStore interface {
	Create(ctx context.Context, d models.Document) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Document, error)
	GetByURI(ctx context.Context, uri string) (*models.Document, error)
}

// ImportRequest describes a file picked by the user.
type ImportRequest struct {
	Name      string
	Category  models.DocumentCategory
	MeetingID *int64
	Body      io.Reader
}

// Validate checks the metadata before anything is copied.
func (r ImportRequest) Validate() error {
	return apperr.Invalid("document", validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.By(func(any) error {
			if strings.TrimSpace(r.Name) == "" {
				return errors.New("cannot be blank")
			}
			return nil
		})),
		validation.Field(&r.Category, validation.Required, validation.In(models.DocumentCategories...)),
		validation.Field(&r.Body, validation.NotNil),
	))
}

// Documents imports and shares document files.
type Documents struct {
	files  FileStore
	repo   DocumentStore
	logger *slog.Logger
}

// NewDocuments wires the document service.
func NewDocuments(files FileStore, repo DocumentStore, logger *slog.Logger) *Documents {
	return &Documents{files: files, repo: repo, logger: logger}
}

// Import copies the file into application storage, then records it. A failed
// copy inserts nothing; a failed insert removes the copy.
func (d *Documents) Import(ctx context.Context, req ImportRequest) (models.Document, error) {
	if err := req.Validate(); err != nil {
		return models.Document{}, err
	}

	uri, size, err := d.files.Save(req.Name, req.Body)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %v", apperr.ErrFileStorage, err)
	}

	doc := models.Document{
		Name:      req.Name,
		Category:  req.Category,
		URI:       uri,
		Size:      size,
		MeetingID: req.MeetingID,
	}
	id, err := d.repo.Create(ctx, doc)
	if err != nil {
		if rmErr := d.files.Remove(uri); rmErr != nil {
			d.logger.Warn("import: remove orphan copy failed", slog.String("uri", uri), slog.String("error", rmErr.Error()))
		}
		return models.Document{}, err
	}

	stored, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return models.Document{}, err
	}
	if stored == nil {
		return models.Document{}, apperr.ErrNotFound
	}
	d.logger.Info("document imported", slog.Int64("id", id), slog.String("uri", uri), slog.String("size", filestore.HumanSize(size)))
	return *stored, nil
}

// Open returns the document row and its file, ready to be streamed.
func (d *Documents) Open(ctx context.Context, id int64) (*models.Document, *os.File, error) {
	doc, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, apperr.ErrNotFound
	}
	f, err := d.files.Open(doc.URI)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("document %d file missing: %w", id, apperr.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("%w: %v", apperr.ErrFileStorage, err)
	}
	return doc, f, nil
}

// FileEvent reacts to the file store watcher: a removed file that a document
// row still references is reported.
func (d *Documents) FileEvent(ctx context.Context, kind filestore.EventKind, uri string) {
	if kind != filestore.EventRemoved {
		return
	}
	doc, err := d.repo.GetByURI(ctx, uri)
	if err != nil {
		d.logger.Warn("watcher: lookup failed", slog.String("uri", uri), slog.String("error", err.Error()))
		return
	}
	if doc != nil {
		d.logger.Warn("document file removed outside the app",
			slog.Int64("id", doc.ID), slog.String("name", doc.Name), slog.String("uri", uri))
	}
}
