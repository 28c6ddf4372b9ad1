package server

import (
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/jatinkmr/ai-candidate-analysis/internal/document"
	"github.com/jatinkmr/ai-candidate-analysis/internal/pipeline"
)

const welcomeMessage = "Welcome to the candidate analysis server!"

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeDetail(w, http.StatusNotFound, "not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	if err := r.ParseMultipartForm(maxRequestBody); err != nil {
		s.writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeDetail(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	username := r.FormValue("githubUserName")
	if username == "" {
		s.writeDetail(w, http.StatusBadRequest, "missing githubUserName field")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeDetail(w, http.StatusBadRequest, fmt.Sprintf("read uploaded file: %v", err))
		return
	}

	req := &pipeline.Request{
		Upload: &document.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		},
		Username: username,
	}

	report, err := s.runner.Run(r.Context(), req)
	if err != nil {
		status := pipeline.StatusFor(err)
		s.logger.Warn("analysis failed",
			zap.String("github_user", username),
			zap.String("filename", header.Filename),
			zap.Int("status", status),
			zap.Error(err),
		)
		s.writeDetail(w, status, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":  fmt.Sprintf("File '%s' uploaded, scraped & analysis successfully.", header.Filename),
		"response": report,
	})
}
