// Package intake validates a selected resume file before any network or
// compute cost is incurred.
package intake

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jonathan/jobmatch/internal/failure"
)

const (
	// PDFMIMEType is the only media type accepted for resumes.
	PDFMIMEType = "application/pdf"
	// DefaultMaxBytes is the client-side upload ceiling.
	DefaultMaxBytes int64 = 5 * 1024 * 1024
)

// Selection is a file chosen by the user.
type Selection struct {
	Bytes    []byte
	MIMEType string
	Size     int64
	FileName string
}

// Policy is the type and size policy applied to selections.
type Policy struct {
	MaxBytes int64
}

// DefaultPolicy returns the policy with the default size ceiling.
func DefaultPolicy() Policy {
	return Policy{MaxBytes: DefaultMaxBytes}
}

// Validate checks the selection's media type, then its size. It performs no I/O.
func (p Policy) Validate(sel Selection) error {
	if sel.MIMEType != PDFMIMEType {
		return failure.Newf(failure.KindUnsupportedType, nil,
			"Only PDF files are supported (got %s).", displayType(sel.MIMEType))
	}
	limit := p.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if sel.Size > limit {
		return failure.Newf(failure.KindTooLarge, nil,
			"The file is %s; the maximum upload size is %s.", humanSize(sel.Size), humanSize(limit))
	}
	return nil
}

// Open reads a file from disk and detects its media type from its content.
func Open(path string) (Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Selection{}, &Error{Path: path, Message: "failed to read file", Cause: err}
	}
	return FromBytes(filepath.Base(path), data), nil
}

// FromBytes builds a Selection from in-memory content.
func FromBytes(name string, data []byte) Selection {
	return Selection{
		Bytes:    data,
		MIMEType: mimetype.Detect(data).String(),
		Size:     int64(len(data)),
		FileName: name,
	}
}

func displayType(mime string) string {
	if mime == "" {
		return "unknown type"
	}
	return mime
}

func humanSize(n int64) string {
	const mb = 1024 * 1024
	if n >= mb {
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	}
	return fmt.Sprintf("%d KB", n/1024)
}
