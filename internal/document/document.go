// Package document validates uploaded resume files and extracts their text.
package document

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the declared document format used for extraction dispatch.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindWord Kind = "docx"
)

// Upload is a candidate document as received at the request boundary.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// KindFor maps a declared filename to its extraction kind.
func KindFor(filename string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF, nil
	case ".doc", ".docx":
		return KindWord, nil
	default:
		return "", fmt.Errorf("unsupported file extension %q", filepath.Ext(filename))
	}
}
