package document

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jatinkmr/ai-candidate-analysis/internal/utils"
)

const (
	// MaxUploadSize is the payload ceiling for uploaded documents.
	MaxUploadSize = 10 << 20

	// MinWordCount is the smallest extracted text accepted as a resume.
	MinWordCount = 50
)

// allowedTypes maps each accepted extension to its expected content type.
// A mismatch between the two is rejected to defend against spoofed metadata.
var allowedTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// resumeLexicon are the terms at least one of which a resume is expected to
// contain. Matching is case-insensitive substring matching.
var resumeLexicon = []string{
	"experience",
	"education",
	"skills",
	"skill",
	"certification",
	"employment",
	"qualification",
	"objective",
	"summary",
	"work history",
	"projects",
}

// ContentTypeFor returns the expected content type for a filename, used when
// a document enters from disk rather than an HTTP upload.
func ContentTypeFor(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	ct, ok := allowedTypes[ext]
	if !ok {
		return "", fmt.Errorf("only PDF, DOC, or DOCX files are allowed, got %q", filename)
	}

	return ct, nil
}

// Validate runs the pre-extraction checks: declared type allow-list,
// extension/content-type agreement and payload size.
func Validate(up *Upload) error {
	ext := strings.ToLower(filepath.Ext(up.Filename))

	expectedType, ok := allowedTypes[ext]
	if !ok {
		return fmt.Errorf("only PDF, DOC, or DOCX files are allowed, got %q", up.Filename)
	}

	if !strings.EqualFold(strings.TrimSpace(up.ContentType), expectedType) {
		return fmt.Errorf("content type %q does not match file extension %q", up.ContentType, ext)
	}

	if len(up.Data) == 0 {
		return fmt.Errorf("uploaded file is empty")
	}

	if len(up.Data) > MaxUploadSize {
		return fmt.Errorf("uploaded file is too large: %d bytes exceeds the %d byte limit", len(up.Data), MaxUploadSize)
	}

	return nil
}

// ValidateContent runs the post-extraction checks on extracted text: minimum
// word count and presence of at least one resume-indicative term. It gates
// the pipeline before any network call is spent on a non-resume document.
func ValidateContent(text string) error {
	words := utils.CountWords(text)
	if words < MinWordCount {
		return fmt.Errorf("extracted text has %d words, at least %d required", words, MinWordCount)
	}

	lowered := strings.ToLower(text)
	for _, term := range resumeLexicon {
		if strings.Contains(lowered, term) {
			return nil
		}
	}

	return fmt.Errorf("document does not look like a resume: no resume-related terms found")
}
