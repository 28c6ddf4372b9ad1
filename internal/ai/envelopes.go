package ai

import (
	"github.com/go-playground/validator/v10"
)

// ResumeAnalysis is the structured form of a candidate's resume text.
// Unknown fields come back as empty values, never omitted.
type ResumeAnalysis struct {
	PersonalInfo           PersonalInfo `json:"personal_info"`
	Education              []Education  `json:"education"`
	ProfessionalExperience []Experience `json:"professional_experience"`
	Skills                 []string     `json:"skills"`
	Certifications         []string     `json:"certifications"`
	Projects               []string     `json:"projects"`
}

type PersonalInfo struct {
	Name string `json:"name"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
}

type Experience struct {
	JobTitle         string   `json:"job_title"`
	Company          string   `json:"company"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	Location         string   `json:"location"`
	Responsibilities []string `json:"responsibilities"`
}

// ProfileAnalysis summarizes a candidate's GitHub activity.
type ProfileAnalysis struct {
	Summary         string          `json:"summary"`
	SkillsInferred  []string        `json:"skills_inferred"`
	ActivityLevel   string          `json:"activity_level"`
	TopRepositories []TopRepository `json:"top_repositories"`
	CommitPatterns  string          `json:"commit_patterns"`
	LanguagesUsed   []string        `json:"languages_used"`
	OverallRating   string          `json:"overall_rating"`
}

type TopRepository struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	CommitsCount   int    `json:"commits_count"`
	LastCommitDate string `json:"last_commit_date"`
}

// CredibilityAnalysis is the final cross-verification envelope.
type CredibilityAnalysis struct {
	Timestamp               string              `json:"timestamp"`
	OverallCredibilityScore int                 `json:"overall_credibility_score" validate:"min=0,max=100"`
	DetailedScores          DetailedScores      `json:"detailed_scores"`
	ResumeSummary           ResumeSummary       `json:"resume_summary"`
	GithubSummary           GithubSummary       `json:"github_summary"`
	VerificationResults     VerificationResults `json:"verification_results"`
	DetailedAnalysis        string              `json:"detailed_analysis"`
	Recommendations         []string            `json:"recommendations"`
}

type DetailedScores struct {
	TechnologyMatchScore       int `json:"technology_match_score" validate:"min=0,max=100"`
	ProjectVerificationScore   int `json:"project_verification_score" validate:"min=0,max=100"`
	ActivityAuthenticityScore  int `json:"activity_authenticity_score" validate:"min=0,max=100"`
	ExperienceConsistencyScore int `json:"experience_consistency_score" validate:"min=0,max=100"`
}

type ResumeSummary struct {
	ClaimedSkills     []string `json:"claimed_skills"`
	ProjectsMentioned int      `json:"projects_mentioned"`
	ExperienceYears   float64  `json:"experience_years"`
}

type GithubSummary struct {
	TotalRepositories int      `json:"total_repositories"`
	TotalCommits      int      `json:"total_commits"`
	LanguagesUsed     []string `json:"languages_used"`
	ActiveSince       string   `json:"active_since"`
}

type VerificationResults struct {
	Strengths []string `json:"strengths"`
	Concerns  []string `json:"concerns"`
}

// Validate checks the score bounds of the credibility envelope.
func (a *CredibilityAnalysis) Validate() error {
	validate := validator.New()
	return validate.Struct(a)
}
