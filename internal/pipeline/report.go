package pipeline

import (
	"errors"

	"github.com/jatinkmr/ai-candidate-analysis/internal/ai"
	"github.com/jatinkmr/ai-candidate-analysis/internal/github"
)

// Report is the terminal artifact of a successful run. Field names and
// nesting are a fixed contract with the HTTP surface.
type Report struct {
	GithubUserInfo     *github.Profile         `json:"github_user_info"`
	ResumeAnalysis     *ai.ResumeAnalysis      `json:"resume_analysis,omitempty"`
	GithubAnalysisInfo *ai.ProfileAnalysis     `json:"github_analysis_info"`
	FinalAnalysisInfo  *ai.CredibilityAnalysis `json:"final_analysis_info"`
}

// buildReport merges the stage outputs into the combined report. It performs
// no I/O; a nil input here is a stage contract violation, never coerced into
// a partial result.
func buildReport(profile *github.Profile, resumeAnalysis *ai.ResumeAnalysis, result *ai.CredibilityResult) (*Report, error) {
	if profile == nil {
		return nil, errors.New("profile is missing from stage outputs")
	}
	if resumeAnalysis == nil {
		return nil, errors.New("resume analysis is missing from stage outputs")
	}
	if result == nil || result.Final == nil {
		return nil, errors.New("credibility analysis is missing from stage outputs")
	}

	return &Report{
		GithubUserInfo:     profile,
		ResumeAnalysis:     resumeAnalysis,
		GithubAnalysisInfo: result.GithubAnalysis,
		FinalAnalysisInfo:  result.Final,
	}, nil
}
