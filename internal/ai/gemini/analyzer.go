package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/jatinkmr/ai-candidate-analysis/internal/ai"
	"github.com/jatinkmr/ai-candidate-analysis/internal/github"
	"github.com/jatinkmr/ai-candidate-analysis/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

//go:embed resume_prompt.md
var resumePromptTemplate string

//go:embed profile_prompt.md
var profilePromptTemplate string

//go:embed credibility_prompt.md
var credibilityPromptTemplate string

const (
	defaultMaxLogLength = 200
	defaultCallTimeout  = 120 * time.Second
)

// Analyzer implements ai.Analyzer on top of a Gemini content generator. One
// generation round trip per call; responses are normalized and decoded into
// typed envelopes before they cross the package boundary.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
	timeout   time.Duration
}

func NewAnalyzer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
		timeout:   defaultCallTimeout,
	}
}

// SetTimeout overrides the per-call generation timeout.
func (a *Analyzer) SetTimeout(d time.Duration) {
	if d > 0 {
		a.timeout = d
	}
}

// AnalyzeResume structures raw resume text into a resume envelope.
func (a *Analyzer) AnalyzeResume(ctx context.Context, text string) (*ai.ResumeAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("resume text is required")
	}

	prompt := strings.ReplaceAll(resumePromptTemplate, "{{RESUME_TEXT}}", text)

	obj, _, err := a.generate(ctx, "resume_analysis", prompt)
	if err != nil {
		return nil, err
	}

	var result ai.ResumeAnalysis
	if err := decodeEnvelope(obj, &result); err != nil {
		return nil, fmt.Errorf("resume analysis: %w", err)
	}

	return &result, nil
}

// AnalyzeProfile summarizes a fetched GitHub profile into a profile envelope.
func (a *Analyzer) AnalyzeProfile(ctx context.Context, profile *github.Profile) (*ai.ProfileAnalysis, error) {
	if profile == nil {
		return nil, errors.New("github profile is required")
	}

	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profile payload: %w", err)
	}

	prompt := strings.ReplaceAll(profilePromptTemplate, "{{PROFILE_JSON}}", string(profileJSON))

	obj, _, err := a.generate(ctx, "profile_analysis", prompt)
	if err != nil {
		return nil, err
	}

	var result ai.ProfileAnalysis
	if err := decodeEnvelope(obj, &result); err != nil {
		return nil, fmt.Errorf("profile analysis: %w", err)
	}

	return &result, nil
}

// AnalyzeCredibility cross-verifies the structured resume against the raw
// profile data. The canonical response nests a restated profile summary next
// to the credibility object; a flat credibility object is accepted for
// compatibility and yields an empty profile summary.
func (a *Analyzer) AnalyzeCredibility(ctx context.Context, resume *ai.ResumeAnalysis, profile *github.Profile) (*ai.CredibilityResult, error) {
	if resume == nil {
		return nil, errors.New("resume analysis is required")
	}
	if profile == nil {
		return nil, errors.New("github profile is required")
	}

	resumeJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resume analysis payload: %w", err)
	}

	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profile payload: %w", err)
	}

	prompt := strings.ReplaceAll(credibilityPromptTemplate, "{{RESUME_ANALYSIS_JSON}}", string(resumeJSON))
	prompt = strings.ReplaceAll(prompt, "{{PROFILE_JSON}}", string(profileJSON))

	obj, raw, err := a.generate(ctx, "final_analysis", prompt)
	if err != nil {
		return nil, err
	}

	result := &ai.CredibilityResult{
		GithubAnalysis: &ai.ProfileAnalysis{},
		Final:          &ai.CredibilityAnalysis{},
		Raw:            raw,
	}

	switch {
	case obj["final_analysis"] != nil:
		var wrapper struct {
			GithubAnalysis ai.ProfileAnalysis     `json:"github_analysis"`
			Final          ai.CredibilityAnalysis `json:"final_analysis"`
		}
		if err := decodeEnvelope(obj, &wrapper); err != nil {
			return nil, fmt.Errorf("final analysis: %w", err)
		}
		*result.GithubAnalysis = wrapper.GithubAnalysis
		*result.Final = wrapper.Final
	case obj["overall_credibility_score"] != nil:
		// Flat legacy shape: the whole object is the credibility envelope.
		if err := decodeEnvelope(obj, result.Final); err != nil {
			return nil, fmt.Errorf("final analysis: %w", err)
		}
	default:
		return nil, fmt.Errorf("final analysis: unexpected response shape (response preview: %q)",
			utils.TruncateForLog(raw, a.maxLogLen))
	}

	if err := result.Final.Validate(); err != nil {
		return nil, fmt.Errorf("final analysis failed validation: %w", err)
	}

	if result.Final.Timestamp == "" {
		result.Final.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	return result, nil
}

// generate performs one generation round trip under the call timeout and
// normalizes the response into a JSON object.
func (a *Analyzer) generate(ctx context.Context, kind, prompt string) (map[string]any, string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	a.logger.Debug("gemini generate content request",
		zap.String("kind", kind),
		zap.String("model", a.generator.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", kind, err)
	}

	a.logger.Debug("gemini generate content response",
		zap.String("kind", kind),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	span, err := extractJSON(raw)
	if err != nil {
		return nil, "", fmt.Errorf("parse %s response: %w (response preview: %q)",
			kind, err, utils.TruncateForLog(raw, a.maxLogLen))
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, "", fmt.Errorf("parse %s response: %w (response preview: %q)",
			kind, err, utils.TruncateForLog(raw, a.maxLogLen))
	}

	return obj, raw, nil
}

// extractJSON strips a fenced code block wrapper if present and returns the
// outermost balanced {...} span, discarding surrounding prose.
func extractJSON(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
		if idx := strings.LastIndex(cleaned, "```"); idx != -1 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	start := strings.IndexByte(cleaned, '{')
	if start == -1 {
		return "", errors.New("no JSON object found")
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(cleaned); i++ {
		ch := cleaned[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return cleaned[start : i+1], nil
				}
			}
		}
	}

	return "", errors.New("unbalanced braces in JSON object")
}

// decodeEnvelope maps a parsed JSON object onto a typed envelope, reusing the
// json tag names and tolerating string/number looseness in model output.
func decodeEnvelope(data map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	return nil
}
