package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/jatinkmr/ai-candidate-analysis/internal/ai"
	"github.com/jatinkmr/ai-candidate-analysis/internal/github"
	"github.com/jatinkmr/ai-candidate-analysis/internal/pipeline"
)

type stubRunner struct {
	report *pipeline.Report
	err    error

	lastReq *pipeline.Request
	calls   int
}

func (s *stubRunner) Run(_ context.Context, req *pipeline.Request) (*pipeline.Report, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func multipartBody(t *testing.T, filename, contentType, username string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if filename != "" {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		hdr.Set("Content-Type", contentType)

		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}

	if username != "" {
		if err := mw.WriteField("githubUserName", username); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return &buf, mw.FormDataContentType()
}

func sampleReport() *pipeline.Report {
	return &pipeline.Report{
		GithubUserInfo: &github.Profile{
			User:         github.User{Login: "octocat"},
			TotalRepos:   3,
			TotalCommits: 7,
		},
		ResumeAnalysis:     &ai.ResumeAnalysis{Skills: []string{"Go"}},
		GithubAnalysisInfo: &ai.ProfileAnalysis{Summary: "active"},
		FinalAnalysisInfo:  &ai.CredibilityAnalysis{OverallCredibilityScore: 81},
	}
}

func TestHandleWelcome(t *testing.T) {
	srv := New(&stubRunner{}, zap.NewNop(), ":0")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] == "" {
		t.Fatalf("expected welcome message, got %q", rec.Body.String())
	}
}

func TestHandleAnalyzeSuccess(t *testing.T) {
	runner := &stubRunner{report: sampleReport()}
	srv := New(runner, zap.NewNop(), ":0")

	body, contentType := multipartBody(t, "resume.pdf", "application/pdf", "octocat", []byte("%PDF-1.4"))

	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message  string `json:"message"`
		Response struct {
			GithubUserInfo struct {
				TotalCommits int `json:"total_commits"`
			} `json:"github_user_info"`
			FinalAnalysisInfo struct {
				OverallCredibilityScore int `json:"overall_credibility_score"`
			} `json:"final_analysis_info"`
		} `json:"response"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if !strings.Contains(resp.Message, "resume.pdf") {
		t.Fatalf("expected filename in message, got %q", resp.Message)
	}
	if resp.Response.GithubUserInfo.TotalCommits != 7 {
		t.Fatalf("expected total_commits 7, got %d", resp.Response.GithubUserInfo.TotalCommits)
	}
	if resp.Response.FinalAnalysisInfo.OverallCredibilityScore != 81 {
		t.Fatalf("expected score 81, got %d", resp.Response.FinalAnalysisInfo.OverallCredibilityScore)
	}

	if runner.lastReq.Username != "octocat" {
		t.Fatalf("expected username passed through, got %q", runner.lastReq.Username)
	}
	if runner.lastReq.Upload.ContentType != "application/pdf" {
		t.Fatalf("expected content type passed through, got %q", runner.lastReq.Upload.ContentType)
	}
}

func TestHandleAnalyzeMissingFields(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		username string
		want     string
	}{
		{name: "no file", filename: "", username: "octocat", want: "missing file field"},
		{name: "no username", filename: "resume.pdf", username: "", want: "missing githubUserName field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &stubRunner{report: sampleReport()}
			srv := New(runner, zap.NewNop(), ":0")

			body, contentType := multipartBody(t, tt.filename, "application/pdf", tt.username, []byte("%PDF-1.4"))

			req := httptest.NewRequest(http.MethodPost, "/analyze", body)
			req.Header.Set("Content-Type", contentType)

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}

			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if resp["detail"] != tt.want {
				t.Fatalf("expected detail %q, got %q", tt.want, resp["detail"])
			}

			if runner.calls != 0 {
				t.Fatalf("pipeline must not run for an incomplete form")
			}
		})
	}
}

func TestHandleAnalyzeErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{
			name:   "validation failure",
			err:    &pipeline.Error{Kind: pipeline.KindValidation, Stage: pipeline.StageValidating, Err: errors.New("bad file")},
			status: http.StatusBadRequest,
		},
		{
			name:   "extraction failure",
			err:    &pipeline.Error{Kind: pipeline.KindExtraction, Stage: pipeline.StageExtracting, Err: errors.New("image-based pdf")},
			status: http.StatusBadRequest,
		},
		{
			name:   "external failure",
			err:    &pipeline.Error{Kind: pipeline.KindExternalService, Stage: pipeline.StageFetching, Err: errors.New("user not found")},
			status: http.StatusInternalServerError,
		},
		{
			name:   "untyped failure",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(&stubRunner{err: tt.err}, zap.NewNop(), ":0")

			body, contentType := multipartBody(t, "resume.pdf", "application/pdf", "octocat", []byte("%PDF-1.4"))

			req := httptest.NewRequest(http.MethodPost, "/analyze", body)
			req.Header.Set("Content-Type", contentType)

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}

			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if resp["detail"] == "" {
				t.Fatalf("expected detail message, got %q", rec.Body.String())
			}
		})
	}
}

func TestHandleUnknownPath(t *testing.T) {
	srv := New(&stubRunner{}, zap.NewNop(), ":0")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
