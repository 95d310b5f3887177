package mcpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/syndic/internal/filestore"
	"github.com/starford/syndic/internal/models"
	"github.com/starford/syndic/internal/service"
)

const maxDocumentSize = 10 << 20 // 10 MB

const guideURI = "syndic://guide"

// Guide lists the values the tools accept.
const Guide = `# Syndic Organizer Guide

## Formats

- Timestamps are RFC 3339 with an offset, e.g. ` + "`2024-06-16T10:00:00+02:00`" + `.
- Months are ` + "`YYYY-MM`" + `.
- Durations are reported as ` + "`<h>h <mm>m`" + `.

## Enumerations

- Document categories: PV, CONTRAT, FACTURE, AUTRE.
- Contact types: SYNDICAT, AVOCAT, AUTRE.
- Task statuses: TODO, DONE. Toggling any other status does nothing.
- Task priorities: LOW, MEDIUM, HIGH. Defaults to MEDIUM.
- Finance types: INCOME, EXPENSE. Amounts are strictly positive.

## Documents

Pass the file content of import_document as a base64 data URI:
` + "`data:application/pdf;base64,JVBERi0xLjQK...`" + `
Documents are limited to 10 MB.

## Time sessions

Only one session can be open at a time. Stop it with stop_session before
starting another.
`

func (s *Server) readGuide(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      guideURI,
			MIMEType: "text/markdown",
			Text:     Guide,
		},
	}, nil
}

type importResult struct {
	models.Document
	SizeHuman string `json:"size_human"`
}

func (s *Server) importDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := req.RequireString("data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := decodeDataURI(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(data) > maxDocumentSize {
		return mcp.NewToolResultError(fmt.Sprintf("file too large: %d bytes (max %d)", len(data), maxDocumentSize)), nil
	}

	doc, err := s.docs.Import(ctx, service.ImportRequest{
		Name:      name,
		Category:  models.DocumentCategory(strings.ToUpper(category)),
		MeetingID: optionalID(req, "meeting_id"),
		Body:      bytes.NewReader(data),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(importResult{Document: doc, SizeHuman: filestore.HumanSize(doc.Size)})
}

// decodeDataURI parses a data:[<mediatype>];base64,<data> URI.
func decodeDataURI(uri string) ([]byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("invalid data URI: must start with data:")
	}
	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URI: missing comma separator")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("only base64 data URIs are supported")
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data: %w", err)
		}
	}
	return data, nil
}
