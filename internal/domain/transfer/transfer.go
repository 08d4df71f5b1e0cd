// Package transfer encodes the indicator store into a portable document and
// parses such documents back.
package transfer

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/okian/riskgauge/internal/domain/model"
)

const (
	filenamePrefix = "crypto-risk-data-"
	filenameExt    = ".json"
	filenameDate   = "2006-01-02"
	indent         = "  "
)

// Document is the export and import artifact.
type Document struct {
	Indicators model.Categories `json:"indicators"`
	ExportDate time.Time        `json:"exportDate"`
}

// Export encodes cats with the given export time as indented JSON.
func Export(cats model.Categories, now time.Time) ([]byte, error) {
	doc := Document{Indicators: cats, ExportDate: now.UTC()}
	data, err := json.MarshalIndent(doc, "", indent)
	if err != nil {
		return nil, goerr.Wrap(err, "encode export document")
	}
	return data, nil
}

// Filename names the export artifact after the export date.
func Filename(now time.Time) string {
	return filenamePrefix + now.UTC().Format(filenameDate) + filenameExt
}

// Parse decodes an import document. The indicators field is required;
// exportDate is informational and may be missing.
func Parse(data []byte) (Document, error) {
	var raw struct {
		Indicators json.RawMessage `json:"indicators"`
		ExportDate *time.Time      `json:"exportDate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, goerr.Wrap(ErrMalformedDocument, "decode document", goerr.V("cause", err.Error()))
	}
	trimmed := bytes.TrimSpace(raw.Indicators)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Document{}, goerr.Wrap(ErrMissingIndicators, "decode document")
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc.Indicators); err != nil {
		return Document{}, goerr.Wrap(ErrMalformedDocument, "decode indicators", goerr.V("cause", err.Error()))
	}
	if raw.ExportDate != nil {
		doc.ExportDate = *raw.ExportDate
	}
	return doc, nil
}
