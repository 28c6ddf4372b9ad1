package document

import (
	"bytes"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		upload  Upload
		wantSub string
	}{
		{
			name: "valid pdf",
			upload: Upload{
				Filename:    "resume.pdf",
				ContentType: "application/pdf",
				Data:        []byte("%PDF-1.4 data"),
			},
		},
		{
			name: "valid docx",
			upload: Upload{
				Filename:    "resume.docx",
				ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
				Data:        []byte("PK data"),
			},
		},
		{
			name: "unsupported extension",
			upload: Upload{
				Filename:    "resume.txt",
				ContentType: "text/plain",
				Data:        []byte("text"),
			},
			wantSub: "only PDF, DOC, or DOCX",
		},
		{
			name: "content type does not match extension",
			upload: Upload{
				Filename:    "resume.pdf",
				ContentType: "application/msword",
				Data:        []byte("data"),
			},
			wantSub: "does not match file extension",
		},
		{
			name: "empty payload",
			upload: Upload{
				Filename:    "resume.pdf",
				ContentType: "application/pdf",
			},
			wantSub: "empty",
		},
		{
			name: "oversized payload",
			upload: Upload{
				Filename:    "resume.pdf",
				ContentType: "application/pdf",
				Data:        bytes.Repeat([]byte("a"), MaxUploadSize+1),
			},
			wantSub: "10485761 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(&tt.upload)
			if tt.wantSub == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("expected error to contain %q, got %q", tt.wantSub, err.Error())
			}
		})
	}
}

func TestValidateContent(t *testing.T) {
	t.Parallel()

	longResume := strings.Repeat("word ", 60) + "relevant work experience and education"
	longNonResume := strings.Repeat("lorem ipsum dolor sit amet ", 20)

	tests := []struct {
		name    string
		text    string
		wantSub string
	}{
		{
			name: "valid resume text",
			text: longResume,
		},
		{
			name: "case-insensitive lexicon match",
			text: strings.Repeat("word ", 60) + "EDUCATION",
		},
		{
			name:    "too few words",
			text:    "Hello World",
			wantSub: "2 words",
		},
		{
			name:    "no resume terms",
			text:    longNonResume,
			wantSub: "no resume-related terms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateContent(tt.text)
			if tt.wantSub == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("expected error to contain %q, got %q", tt.wantSub, err.Error())
			}
		})
	}
}

func TestKindFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		kind     Kind
		wantErr  bool
	}{
		{filename: "resume.pdf", kind: KindPDF},
		{filename: "Resume.PDF", kind: KindPDF},
		{filename: "resume.doc", kind: KindWord},
		{filename: "resume.docx", kind: KindWord},
		{filename: "resume.odt", wantErr: true},
		{filename: "resume", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()

			kind, err := KindFor(tt.filename)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.filename)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if kind != tt.kind {
				t.Fatalf("expected kind %q, got %q", tt.kind, kind)
			}
		})
	}
}
