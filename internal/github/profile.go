package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// User holds the public identity fields of a GitHub account.
type User struct {
	Login       string     `json:"login"`
	Name        string     `json:"name,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	Location    string     `json:"location,omitempty"`
	PublicRepos int        `json:"public_repos"`
	Followers   int        `json:"followers"`
	Following   int        `json:"following"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	HTMLURL     string     `json:"html_url,omitempty"`
}

// Commit is a single commit observed in a repository.
type Commit struct {
	Message string     `json:"message"`
	Date    *time.Time `json:"date,omitempty"`
}

// Repository holds one repository with its enumerated commits. A repository
// whose commit enumeration failed carries an empty commit list and FetchError.
type Repository struct {
	Name       string   `json:"name"`
	HTMLURL    string   `json:"html_url"`
	Commits    []Commit `json:"commits"`
	FetchError string   `json:"fetch_error,omitempty"`
}

// Profile aggregates a user, their repositories and derived activity fields.
type Profile struct {
	User         User         `json:"user_info"`
	Repositories []Repository `json:"repositories"`
	TotalRepos   int          `json:"total_repos"`
	TotalCommits int          `json:"total_commits"`
	ActiveSince  time.Time    `json:"active_since"`
}

type repoItem struct {
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

type commitItem struct {
	Commit struct {
		Message string `json:"message"`
		Author  *struct {
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// FetchProfile retrieves the user's identity, all visible repositories and
// their commit histories. A single failing repository never aborts the fetch;
// user-level and transport-level failures do.
func (c *Client) FetchProfile(ctx context.Context, username string) (*Profile, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}

	var user User
	if err := c.getJSON(ctx, fmt.Sprintf("%s/users/%s", c.APIURL, username), nil, &user); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return nil, fmt.Errorf("fetching user %s: %w", username, err)
	}

	repoItems, err := getPaged[repoItem](ctx, c, fmt.Sprintf("%s/users/%s/repos", c.APIURL, username), nil, 0)
	if err != nil {
		return nil, fmt.Errorf("listing repositories for %s: %w", username, err)
	}

	c.logger.Debug("enumerating repositories",
		zap.String("username", username),
		zap.Int("count", len(repoItems)),
	)

	profile := &Profile{
		User:         user,
		Repositories: make([]Repository, 0, len(repoItems)),
	}

	for _, item := range repoItems {
		repo := Repository{
			Name:    item.Name,
			HTMLURL: item.HTMLURL,
			Commits: []Commit{},
		}

		commits, err := c.fetchCommits(ctx, username, item.Name)
		if err != nil {
			// A bad repository must not abort the whole fetch. Keep the
			// repository with an error note and continue.
			c.logger.Warn("commit enumeration failed",
				zap.String("repo", item.Name),
				zap.Error(err),
			)
			repo.FetchError = err.Error()
		} else {
			repo.Commits = commits
		}

		profile.Repositories = append(profile.Repositories, repo)
	}

	profile.TotalRepos = len(profile.Repositories)
	profile.TotalCommits = countCommits(profile.Repositories)
	profile.ActiveSince = activeSince(user.CreatedAt, profile.Repositories)

	return profile, nil
}

func (c *Client) fetchCommits(ctx context.Context, username, repo string) ([]Commit, error) {
	items, err := getPaged[commitItem](ctx, c,
		fmt.Sprintf("%s/repos/%s/%s/commits", c.APIURL, username, repo), nil, c.MaxCommitsPerRepo)
	if err != nil {
		// 409 means the repository has no commits at all.
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusConflict {
			return []Commit{}, nil
		}
		return nil, err
	}

	commits := make([]Commit, 0, len(items))
	for _, item := range items {
		commit := Commit{Message: item.Commit.Message}
		if item.Commit.Author != nil && !item.Commit.Author.Date.IsZero() {
			date := item.Commit.Author.Date
			commit.Date = &date
		}
		commits = append(commits, commit)
	}

	return commits, nil
}

func countCommits(repos []Repository) int {
	total := 0
	for _, repo := range repos {
		total += len(repo.Commits)
	}
	return total
}

// activeSince is the earliest observed activity: the account creation time or
// the oldest commit timestamp, whichever came first.
func activeSince(createdAt time.Time, repos []Repository) time.Time {
	earliest := createdAt
	for _, repo := range repos {
		for _, commit := range repo.Commits {
			if commit.Date != nil && commit.Date.Before(earliest) {
				earliest = *commit.Date
			}
		}
	}
	return earliest
}
