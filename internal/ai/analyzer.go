// Package ai defines the typed contract between the analysis pipeline and a
// generative backend. Each analyzer call produces one validated envelope.
package ai

import (
	"context"

	"github.com/jatinkmr/ai-candidate-analysis/internal/github"
)

// Analyzer turns unstructured inputs into validated analysis envelopes. Each
// method performs exactly one generation round trip; callers decide whether a
// failed call is retried.
type Analyzer interface {
	// AnalyzeResume structures raw resume text.
	AnalyzeResume(ctx context.Context, text string) (*ResumeAnalysis, error)
	// AnalyzeProfile summarizes a fetched GitHub profile.
	AnalyzeProfile(ctx context.Context, profile *github.Profile) (*ProfileAnalysis, error)
	// AnalyzeCredibility cross-verifies the structured resume against the
	// profile. The same round trip re-derives the profile summary, so the
	// result carries both envelopes.
	AnalyzeCredibility(ctx context.Context, resume *ResumeAnalysis, profile *github.Profile) (*CredibilityResult, error)
}

// CredibilityResult is the outcome of the credibility call: the cross
// verification envelope plus the profile summary restated in the same
// response. GithubAnalysis may be empty when the backend answered with the
// flat legacy shape.
type CredibilityResult struct {
	GithubAnalysis *ProfileAnalysis
	Final          *CredibilityAnalysis
	Raw            string
}
