// Package pipeline runs raw XML through extraction, classification and WGS84
// enrichment to produce parcel records ready for export.
package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/cadxml/internal/cadastre"
	"github.com/woozymasta/cadxml/internal/geo"
	"github.com/woozymasta/cadxml/internal/xmldoc"
)

// DocumentParser turns raw bytes into an element tree.
type DocumentParser interface {
	ParseDocument(r io.Reader) (*xmldoc.Document, error)
}

// Pipeline processes documents. The zero value is not usable, use New.
type Pipeline struct {
	Parser DocumentParser
}

// New returns a pipeline backed by the xmldoc parser.
func New() *Pipeline {
	return &Pipeline{Parser: xmldoc.Parser{}}
}

// Process parses data and returns a classified, enriched record. The only
// error it returns is a *xmldoc.ParseError; missing fields degrade to
// defaults instead.
func (p *Pipeline) Process(data []byte) (*cadastre.Record, error) {
	doc, err := p.Parser.ParseDocument(bytes.NewReader(data))
	if err != nil {
		var perr *xmldoc.ParseError
		if !errors.As(err, &perr) {
			perr = &xmldoc.ParseError{Err: err}
		}
		return nil, perr
	}

	rec := cadastre.Parse(doc)
	rec.System = geo.Classify(rec.Points)
	rec.Points = geo.Enrich(rec.Points, rec.System)

	return &rec, nil
}

// ProcessFile reads and processes a single file.
func (p *Pipeline) ProcessFile(path string) (*cadastre.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	rec, err := p.Process(data)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", path, err)
	}
	return rec, nil
}
