// Package gateway provides a gateway to the GitHub REST API,
// abstracting away the underlying go-github client.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/merged-pr-export/internal/domain"
	"golang.org/x/oauth2"
)

// UserAgent is sent with every request.
const UserAgent = "merged-pr-export (+https://github.com/naka-gawa/merged-pr-export)"

// tokenType makes oauth2 send "Authorization: token <value>".
const tokenType = "token"

// Fetcher defines the behavior of a gateway for fetching pull requests from GitHub.
type Fetcher interface {
	// ListClosedPullRequests returns one page of closed pull requests, merged or not.
	ListClosedPullRequests(ctx context.Context, owner, repo string, page, perPage int) ([]*domain.PullRequest, error)
	// GetPullRequest returns the detail record including additions, deletions and merger.
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*domain.PullRequest, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	logger     *log.Logger
}

// NewGitHubGateway creates a gateway talking to apiURL (api.github.com when empty).
// The token is optional; without it requests are sent unauthenticated.
// A zero timeout keeps the default transport behavior.
func NewGitHubGateway(token, apiURL string, timeout time.Duration, logger *log.Logger) (*GitHubGateway, error) {
	httpClient := &http.Client{Timeout: timeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: tokenType})
		httpClient.Transport = &oauth2.Transport{
			Base:   http.DefaultTransport,
			Source: ts,
		}
	}

	restClient := github.NewClient(httpClient)
	restClient.UserAgent = UserAgent
	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		baseURL, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid api url %q: %w", apiURL, err)
		}
		restClient.BaseURL = baseURL
	}

	return &GitHubGateway{
		restClient: restClient,
		logger:     logger,
	}, nil
}

// ListClosedPullRequests calls GET /repos/{owner}/{repo}/pulls?state=closed.
func (g *GitHubGateway) ListClosedPullRequests(ctx context.Context, owner, repo string, page, perPage int) ([]*domain.PullRequest, error) {
	g.logger.Printf("  Fetching closed pull requests page %d (per_page=%d)...", page, perPage)
	opts := &github.PullRequestListOptions{
		State:       "closed",
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	}
	prs, resp, err := g.restClient.PullRequests.List(ctx, owner, repo, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed pull requests: %w", asRemoteAPIError(err))
	}
	if err := requireOK(resp); err != nil {
		return nil, fmt.Errorf("failed to list closed pull requests: %w", err)
	}

	result := make([]*domain.PullRequest, 0, len(prs))
	for _, pr := range prs {
		result = append(result, toDomain(pr))
	}
	return result, nil
}

// GetPullRequest calls GET /repos/{owner}/{repo}/pulls/{number}.
func (g *GitHubGateway) GetPullRequest(ctx context.Context, owner, repo string, number int) (*domain.PullRequest, error) {
	g.logger.Printf("  Fetching pull request #%d...", number)
	pr, resp, err := g.restClient.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request #%d: %w", number, asRemoteAPIError(err))
	}
	if err := requireOK(resp); err != nil {
		return nil, fmt.Errorf("failed to get pull request #%d: %w", number, err)
	}
	return toDomain(pr), nil
}

func toDomain(pr *github.PullRequest) *domain.PullRequest {
	result := &domain.PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Author:    toActor(pr.GetUser()),
		Additions: pr.GetAdditions(),
		Deletions: pr.GetDeletions(),
		CreatedAt: pr.GetCreatedAt().Time,
	}
	if pr.MergedBy != nil {
		mergedBy := toActor(pr.MergedBy)
		result.MergedBy = &mergedBy
	}
	if pr.MergedAt != nil {
		mergedAt := pr.MergedAt.Time
		result.MergedAt = &mergedAt
	}
	return result
}

func toActor(u *github.User) domain.Actor {
	return domain.Actor{Login: u.GetLogin(), Name: u.GetName()}
}

// requireOK rejects successful-but-not-200 answers, which go-github lets through.
func requireOK(resp *github.Response) error {
	if resp == nil || resp.Response == nil || resp.StatusCode == http.StatusOK {
		return nil
	}
	return newRemoteAPIError(resp.Response, "")
}

// asRemoteAPIError converts go-github's HTTP error types into a RemoteAPIError.
// Transport failures are returned unchanged.
func asRemoteAPIError(err error) error {
	var (
		errResp   *github.ErrorResponse
		rateErr   *github.RateLimitError
		abuseErr  *github.AbuseRateLimitError
		acceptErr *github.AcceptedError
	)
	switch {
	case errors.As(err, &rateErr):
		return newRemoteAPIError(rateErr.Response, rateErr.Message)
	case errors.As(err, &abuseErr):
		return newRemoteAPIError(abuseErr.Response, abuseErr.Message)
	case errors.As(err, &errResp):
		return newRemoteAPIError(errResp.Response, errResp.Message)
	case errors.As(err, &acceptErr):
		return &domain.RemoteAPIError{Method: http.MethodGet, StatusCode: http.StatusAccepted, Body: string(acceptErr.Raw)}
	}
	return err
}

func newRemoteAPIError(resp *http.Response, fallback string) *domain.RemoteAPIError {
	apiErr := &domain.RemoteAPIError{Method: http.MethodGet, Body: fallback}
	if resp == nil {
		return apiErr
	}
	apiErr.StatusCode = resp.StatusCode
	if resp.Request != nil {
		apiErr.Method = resp.Request.Method
		apiErr.URL = resp.Request.URL.String()
	}
	// go-github re-populates the body after decoding the error message.
	if resp.Body != nil {
		if body, err := io.ReadAll(resp.Body); err == nil && len(body) > 0 {
			apiErr.Body = strings.TrimSpace(string(body))
		}
	}
	return apiErr
}
