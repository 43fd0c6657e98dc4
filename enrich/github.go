package enrich

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/nuxtcare/nuxtcare-backend/model"
	"github.com/nuxtcare/nuxtcare-backend/util"
)

var (
	nuxt4Mention = regexp.MustCompile(`(?i)nuxt\s*4`)
	chorePrefix  = regexp.MustCompile(`(?i)^(chore|docs|style|ci|build|test)(\(.+\))?:`)
)

type ghRepoResponse struct {
	FullName      string   `json:"full_name"`
	DefaultBranch string   `json:"default_branch"`
	Stars         int      `json:"stargazers_count"`
	Forks         int      `json:"forks_count"`
	OpenIssues    int      `json:"open_issues_count"`
	Archived      bool     `json:"archived"`
	PushedAt      string   `json:"pushed_at"`
	Topics        []string `json:"topics"`
	License       *struct {
		SpdxID string `json:"spdx_id"`
	} `json:"license"`
}

type ghReleaseResponse struct {
	Name        string `json:"name"`
	TagName     string `json:"tag_name"`
	PublishedAt string `json:"published_at"`
	Body        string `json:"body"`
}

type ghCommitResponse struct {
	Sha    string `json:"sha"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
	Commit *struct {
		Message string `json:"message"`
		Author  *struct {
			Date string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

type ghWorkflowRunsResponse struct {
	WorkflowRuns []struct {
		Name       string `json:"name"`
		Conclusion string `json:"conclusion"`
		UpdatedAt  string `json:"updated_at"`
	} `json:"workflow_runs"`
}

// RepoInfo fetches and normalizes the repository record. Returns nil on any
// upstream failure.
func (c *Client) RepoInfo(ctx context.Context, repoPath string) *model.RepositoryInfo {
	var res ghRepoResponse
	if err := c.ghJSON(ctx, fmt.Sprintf("%s/repos/%s", c.GitHubAPI, repoPath), &res); err != nil {
		return nil
	}

	info := &model.RepositoryInfo{
		FullName:      res.FullName,
		DefaultBranch: res.DefaultBranch,
		Stars:         res.Stars,
		Forks:         res.Forks,
		OpenIssues:    res.OpenIssues,
		Archived:      res.Archived,
		PushedAt:      res.PushedAt,
		Topics:        res.Topics,
	}
	if res.License != nil {
		info.License = res.License.SpdxID
	}
	return info
}

// Releases fetches the five most recent releases and derives the latest-tag
// summary, including whether any release notes mention Nuxt 4.
func (c *Client) Releases(ctx context.Context, repoPath string) *model.ReleaseInfo {
	var releases []ghReleaseResponse
	if err := c.ghJSON(ctx, fmt.Sprintf("%s/repos/%s/releases?per_page=5", c.GitHubAPI, repoPath), &releases); err != nil {
		return nil
	}
	if len(releases) == 0 {
		return nil
	}

	mentioned := false
	for _, r := range releases {
		if nuxt4Mention.MatchString(r.Body) || nuxt4Mention.MatchString(r.Name) {
			mentioned = true
			break
		}
	}

	latest := releases[0]
	days, _ := util.DaysSince(latest.PublishedAt, time.Now())
	return &model.ReleaseInfo{
		Tag:            latest.TagName,
		Date:           latest.PublishedAt,
		DaysSince:      days,
		Nuxt4Mentioned: mentioned,
	}
}

// Contributors fetches up to 100 commits from the trailing 365-day window and
// deduplicates by author login. The sample list carries at most five logins.
func (c *Client) Contributors(ctx context.Context, repoPath string) *model.ContributorsInfo {
	since := time.Now().AddDate(0, 0, -365).UTC().Format(time.RFC3339)
	commits := c.commitsSince(ctx, repoPath, since)
	if len(commits) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var logins []string
	for _, commit := range commits {
		if commit.Author == nil || commit.Author.Login == "" {
			continue
		}
		if !seen[commit.Author.Login] {
			seen[commit.Author.Login] = true
			logins = append(logins, commit.Author.Login)
		}
	}

	sample := logins
	if len(sample) > 5 {
		sample = sample[:5]
	}
	return &model.ContributorsInfo{
		CommitsLastYear:    len(commits),
		UniqueContributors: len(logins),
		Contributors:       sample,
	}
}

// CIStatus fetches the most recent workflow run on the given branch. No runs
// means no CI signal, which is nil rather than an error.
func (c *Client) CIStatus(ctx context.Context, repoPath, branch string) *model.CIStatusInfo {
	var res ghWorkflowRunsResponse
	u := fmt.Sprintf("%s/repos/%s/actions/runs?branch=%s&per_page=1", c.GitHubAPI, repoPath, url.QueryEscape(branch))
	if err := c.ghJSON(ctx, u, &res); err != nil {
		return nil
	}
	if len(res.WorkflowRuns) == 0 {
		return nil
	}

	latest := res.WorkflowRuns[0]
	return &model.CIStatusInfo{
		HasCI:             true,
		LastRunConclusion: latest.Conclusion,
		LastRunDate:       latest.UpdatedAt,
		WorkflowName:      latest.Name,
	}
}

// PendingCommits counts commits landed since the last release. When the last
// release date is unknown the pending state is unknown too, so it returns nil
// instead of pretending nothing is pending. A release with zero commits since
// yields explicit zero counts.
func (c *Client) PendingCommits(ctx context.Context, repoPath, lastReleaseDate string) *model.PendingCommitsInfo {
	if lastReleaseDate == "" {
		return nil
	}

	var commits []ghCommitResponse
	u := fmt.Sprintf("%s/repos/%s/commits?since=%s&per_page=100", c.GitHubAPI, repoPath, url.QueryEscape(lastReleaseDate))
	if err := c.ghJSON(ctx, u, &commits); err != nil {
		return nil
	}
	if len(commits) == 0 {
		return &model.PendingCommitsInfo{Total: 0, NonChore: 0, Commits: []model.CommitSummary{}}
	}

	var nonChore []ghCommitResponse
	for _, commit := range commits {
		msg := ""
		if commit.Commit != nil {
			msg = commit.Commit.Message
		}
		if !chorePrefix.MatchString(msg) {
			nonChore = append(nonChore, commit)
		}
	}

	info := &model.PendingCommitsInfo{
		Total:    len(commits),
		NonChore: len(nonChore),
		Commits:  []model.CommitSummary{},
	}
	for i, commit := range nonChore {
		if i == 5 {
			break
		}
		summary := model.CommitSummary{Sha: shortSha(commit.Sha)}
		if commit.Commit != nil {
			summary.Message = firstLine(commit.Commit.Message, 80)
			if commit.Commit.Author != nil {
				summary.Date = commit.Commit.Author.Date
			}
		}
		info.Commits = append(info.Commits, summary)
	}
	return info
}

// Starred checks whether the given user token has starred the repository.
// The host answers 204 for starred and 404 for not starred; 404 is a valid
// answer here, not a failure.
func (c *Client) Starred(ctx context.Context, token, repoPath string) (bool, error) {
	status, err := c.userStarRequest(ctx, http.MethodGet, token, repoPath)
	if err != nil {
		return false, err
	}
	return status == http.StatusNoContent, nil
}

// ToggleStar stars the repository if unstarred and unstars it otherwise,
// returning the new starred state.
func (c *Client) ToggleStar(ctx context.Context, token, repoPath string) (bool, error) {
	starred, err := c.Starred(ctx, token, repoPath)
	if err != nil {
		return false, err
	}

	method := http.MethodPut
	if starred {
		method = http.MethodDelete
	}
	status, err := c.userStarRequest(ctx, method, token, repoPath)
	if err != nil {
		return false, err
	}
	if status != http.StatusNoContent && status != http.StatusNotFound {
		return false, fmt.Errorf("star toggle failed: status %d", status)
	}
	return !starred, nil
}

func (c *Client) userStarRequest(ctx context.Context, method, token, repoPath string) (int, error) {
	if token == "" {
		return 0, &AuthError{Status: http.StatusUnauthorized}
	}

	u := fmt.Sprintf("%s/user/starred/%s", c.GitHubAPI, repoPath)
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return 0, &AuthError{Status: resp.StatusCode}
	}
	return resp.StatusCode, nil
}

// IsReauthError reports whether err is the typed token-invalid condition.
func IsReauthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

func (c *Client) commitsSince(ctx context.Context, repoPath, since string) []ghCommitResponse {
	var commits []ghCommitResponse
	u := fmt.Sprintf("%s/repos/%s/commits?since=%s&per_page=100", c.GitHubAPI, repoPath, url.QueryEscape(since))
	if err := c.ghJSON(ctx, u, &commits); err != nil {
		return nil
	}
	return commits
}

func shortSha(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func firstLine(msg string, limit int) string {
	line := strings.SplitN(msg, "\n", 2)[0]
	if len(line) > limit {
		return line[:limit]
	}
	return line
}
