// Package pdftext extracts plain text from PDF resumes.
//
// The PDF reader is set up on first use, so processes that never extract
// text never pay for it. Parsing runs on a background goroutine and callers
// may abandon the wait through their context.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
)

// Document is an opened PDF.
type Document interface {
	NumPage() int
	// PageText returns the plain text of page n (1-based).
	PageText(n int) (string, error)
}

// Opener opens PDF content.
type Opener func(data []byte) (Document, error)

// Loader prepares an Opener. It runs at most once per Extractor.
type Loader func() (Opener, error)

// Extractor is the local PDF text extraction engine.
type Extractor struct {
	load Loader

	once   sync.Once
	opener Opener
	err    error
}

// New returns an Extractor backed by github.com/ledongthuc/pdf.
func New() *Extractor {
	return NewWithLoader(func() (Opener, error) { return openLedongthuc, nil })
}

// NewWithLoader returns an Extractor that calls load lazily.
func NewWithLoader(load Loader) *Extractor {
	return &Extractor{load: load}
}

func (e *Extractor) loadOpener() (Opener, error) {
	e.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				e.err = fmt.Errorf("pdf reader initialisation panicked: %v", r)
			}
		}()
		e.opener, e.err = e.load()
		if e.err == nil && e.opener == nil {
			e.err = fmt.Errorf("pdf reader loader returned no opener")
		}
	})
	return e.opener, e.err
}

type result struct {
	text string
	err  error
}

// ExtractText returns the text of every page, in page order, joined by
// newlines. A failure on any page fails the whole extraction.
func (e *Extractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &Error{Message: "empty PDF content"}
	}
	open, err := e.loadOpener()
	if err != nil {
		return "", &Error{Message: "PDF reader unavailable", Cause: err}
	}

	done := make(chan result, 1)
	go func() {
		text, err := extractAll(ctx, open, data)
		done <- result{text: text, err: err}
	}()

	select {
	case r := <-done:
		return r.text, r.err
	case <-ctx.Done():
		return "", &Error{Message: "extraction abandoned", Cause: ctx.Err()}
	}
}

func extractAll(ctx context.Context, open Opener, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Message: fmt.Sprintf("PDF parser panicked: %v", r)}
		}
	}()

	doc, err := open(data)
	if err != nil {
		return "", &Error{Message: "could not open document", Cause: err}
	}
	n := doc.NumPage()
	if n <= 0 {
		return "", &Error{Message: "document has no pages"}
	}

	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if ctx.Err() != nil {
			return "", &Error{Page: i, Message: "extraction abandoned", Cause: ctx.Err()}
		}
		pageText, err := pageTextSafe(doc, i)
		if err != nil {
			return "", &Error{Page: i, Message: "could not extract page text", Cause: err}
		}
		pages = append(pages, pageText)
	}
	return strings.Join(pages, "\n"), nil
}

func pageTextSafe(doc Document, n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", n, r)
		}
	}()
	return doc.PageText(n)
}

type ledongthucDoc struct {
	r *pdf.Reader
}

func openLedongthuc(data []byte) (Document, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &ledongthucDoc{r: r}, nil
}

func (d *ledongthucDoc) NumPage() int {
	return d.r.NumPage()
}

func (d *ledongthucDoc) PageText(n int) (string, error) {
	page := d.r.Page(n)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d missing from page tree", n)
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
