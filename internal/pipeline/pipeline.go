// Package pipeline orchestrates the candidate analysis run: document
// validation, text extraction, the concurrent profile fetch and resume
// analysis, the final credibility analysis and result aggregation.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jatinkmr/ai-candidate-analysis/internal/ai"
	"github.com/jatinkmr/ai-candidate-analysis/internal/document"
	"github.com/jatinkmr/ai-candidate-analysis/internal/github"
	logutil "github.com/jatinkmr/ai-candidate-analysis/internal/logger"
	"github.com/jatinkmr/ai-candidate-analysis/internal/utils"
)

const defaultFetchTimeout = 30 * time.Second

// Fetcher retrieves a candidate's public source-control profile.
type Fetcher interface {
	FetchProfile(ctx context.Context, username string) (*github.Profile, error)
}

// Request is one analysis invocation. All derived state is owned by the
// single run and discarded when it returns.
type Request struct {
	Upload   *document.Upload
	Username string
}

// Pipeline coordinates the analysis stages. The fetcher and analyzer are
// stateless collaborators injected at construction time and may be shared
// across concurrent runs.
type Pipeline struct {
	fetcher  Fetcher
	analyzer ai.Analyzer
	logger   *zap.Logger

	fetchTimeout time.Duration

	// Seams over the document package, replaceable in tests.
	validate        func(*document.Upload) error
	validateContent func(string) error
	extract         func([]byte, document.Kind) (string, error)
}

func New(fetcher Fetcher, analyzer ai.Analyzer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		fetcher:         fetcher,
		analyzer:        analyzer,
		logger:          logger,
		fetchTimeout:    defaultFetchTimeout,
		validate:        document.Validate,
		validateContent: document.ValidateContent,
		extract:         document.Extract,
	}
}

// SetFetchTimeout overrides the profile fetch timeout.
func (p *Pipeline) SetFetchTimeout(d time.Duration) {
	if d > 0 {
		p.fetchTimeout = d
	}
}

// Run executes the pipeline for a single request. It returns either the full
// report or exactly one typed error; a failed stage short-circuits every
// stage after it and no partial result is ever returned.
func (p *Pipeline) Run(ctx context.Context, req *Request) (*Report, error) {
	log := logutil.WithAnalysisFields(p.logger, req.Username, req.Upload.Filename)

	if err := p.validate(req.Upload); err != nil {
		return nil, &Error{Kind: KindValidation, Stage: StageValidating, Err: err}
	}

	kind, err := document.KindFor(req.Upload.Filename)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Stage: StageValidating, Err: err}
	}

	log.Info("document accepted",
		zap.String("kind", string(kind)),
		zap.Int("size_bytes", len(req.Upload.Data)),
	)

	text, err := p.extract(req.Upload.Data, kind)
	if err != nil {
		return nil, &Error{Kind: KindExtraction, Stage: StageExtracting, Err: err}
	}

	log.Info("text extracted",
		zap.Int("word_count", utils.CountWords(text)),
		zap.String("preview", utils.TruncateForLog(text, 120)),
	)

	// Content is checked before any network call so a non-resume upload
	// never costs a profile lookup.
	if err := p.validateContent(text); err != nil {
		return nil, &Error{Kind: KindValidation, Stage: StageContentChecking, Err: err}
	}

	// Fan-out: the profile fetch and the resume analysis are independent
	// and both network-bound. The group context cancels the sibling when
	// either branch fails; Wait still lets both branches finish.
	var (
		profile        *github.Profile
		resumeAnalysis *ai.ResumeAnalysis
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fctx, cancel := context.WithTimeout(gctx, p.fetchTimeout)
		defer cancel()

		fetched, err := p.fetcher.FetchProfile(fctx, req.Username)
		if err != nil {
			return &Error{Kind: KindExternalService, Stage: StageFetching, Err: err}
		}

		profile = fetched
		return nil
	})

	g.Go(func() error {
		analyzed, err := p.analyzer.AnalyzeResume(gctx, text)
		if err != nil {
			return &Error{Kind: KindAnalysis, Stage: StageResumeAnalyzing, Err: err}
		}

		resumeAnalysis = analyzed
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("fetch and resume analysis joined",
		zap.Int("total_repos", profile.TotalRepos),
		zap.Int("total_commits", profile.TotalCommits),
	)

	result, err := p.analyzer.AnalyzeCredibility(ctx, resumeAnalysis, profile)
	if err != nil {
		return nil, &Error{Kind: KindAnalysis, Stage: StageFinalAnalyzing, Err: err}
	}

	report, err := buildReport(profile, resumeAnalysis, result)
	if err != nil {
		return nil, &Error{Kind: KindAggregation, Stage: StageAggregating, Err: err}
	}

	log.Info("analysis completed",
		zap.Int("credibility_score", report.FinalAnalysisInfo.OverallCredibilityScore),
	)

	return report, nil
}
