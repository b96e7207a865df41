package gateway

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/merged-pr-export/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	// Setup REST client to point to the mock server.
	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL
	restClient.UserAgent = UserAgent

	gateway := &GitHubGateway{
		restClient: restClient,
		logger:     log.New(io.Discard, "", 0),
	}
	return gateway, server
}

const closedPage = `[
  {"number": 12, "title": "Add feature", "user": {"login": "alice"}, "created_at": "2024-01-01T00:00:00Z", "merged_at": "2024-01-01T02:30:00Z"},
  {"number": 11, "title": "Abandoned", "user": {"login": "bob"}, "created_at": "2024-01-01T00:00:00Z", "merged_at": null}
]`

const detail = `{
  "number": 12, "title": "Add feature",
  "user": {"login": "alice", "name": "Alice"},
  "merged_by": {"login": "carol"},
  "additions": 10, "deletions": 3,
  "created_at": "2024-01-01T00:00:00Z", "merged_at": "2024-01-01T02:30:00Z"
}`

func TestGitHubGateway_ListClosedPullRequests(t *testing.T) {
	testCases := []struct {
		name           string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		expectedLen    int
		expectError    bool
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "happy path - returns merged and unmerged items",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/octo/hello/pulls", r.URL.Path)
				assert.Equal(t, "closed", r.URL.Query().Get("state"))
				assert.Equal(t, "2", r.URL.Query().Get("page"))
				assert.Equal(t, "5", r.URL.Query().Get("per_page"))
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, closedPage)
			},
			expectedLen: 2,
		},
		{
			name: "empty page",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `[]`)
			},
			expectedLen: 0,
		},
		{
			name: "error case - repository not found",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message": "Not Found"}`)
			},
			expectError:    true,
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Not Found",
		},
		{
			name: "error case - server error",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message": "Internal Server Error"}`)
			},
			expectError:    true,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Internal Server Error",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()

			prs, err := gateway.ListClosedPullRequests(context.Background(), "octo", "hello", 2, 5)
			if tc.expectError {
				var apiErr *domain.RemoteAPIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tc.expectedStatus, apiErr.StatusCode)
				assert.Contains(t, apiErr.Body, tc.expectedBody)
				assert.Contains(t, err.Error(), "failed to list closed pull requests")
				return
			}
			require.NoError(t, err)
			assert.Len(t, prs, tc.expectedLen)
		})
	}
}

func TestGitHubGateway_ListClosedPullRequests_Mapping(t *testing.T) {
	gateway, server := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, closedPage)
	}))
	defer server.Close()

	prs, err := gateway.ListClosedPullRequests(context.Background(), "octo", "hello", 1, 30)
	require.NoError(t, err)
	require.Len(t, prs, 2)

	assert.Equal(t, 12, prs[0].Number)
	assert.True(t, prs[0].IsMerged())
	assert.Equal(t, time.Date(2024, 1, 1, 2, 30, 0, 0, time.UTC), prs[0].MergedAt.UTC())

	assert.Equal(t, 11, prs[1].Number)
	assert.False(t, prs[1].IsMerged())
	assert.Nil(t, prs[1].MergedBy)
}

func TestGitHubGateway_GetPullRequest(t *testing.T) {
	gateway, server := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/hello/pulls/12", r.URL.Path)
		fmt.Fprint(w, detail)
	}))
	defer server.Close()

	pr, err := gateway.GetPullRequest(context.Background(), "octo", "hello", 12)
	require.NoError(t, err)

	merged := time.Date(2024, 1, 1, 2, 30, 0, 0, time.UTC)
	expected := &domain.PullRequest{
		Number:    12,
		Title:     "Add feature",
		Author:    domain.Actor{Login: "alice", Name: "Alice"},
		MergedBy:  &domain.Actor{Login: "carol"},
		Additions: 10,
		Deletions: 3,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MergedAt:  &merged,
	}
	assert.Equal(t, expected.Number, pr.Number)
	assert.Equal(t, expected.Title, pr.Title)
	assert.Equal(t, expected.Author, pr.Author)
	assert.Equal(t, expected.MergedBy, pr.MergedBy)
	assert.Equal(t, expected.Additions, pr.Additions)
	assert.Equal(t, expected.Deletions, pr.Deletions)
	assert.True(t, expected.CreatedAt.Equal(pr.CreatedAt))
	require.NotNil(t, pr.MergedAt)
	assert.True(t, expected.MergedAt.Equal(*pr.MergedAt))
}

func TestGitHubGateway_GetPullRequest_NonOKSuccess(t *testing.T) {
	gateway, server := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, detail)
	}))
	defer server.Close()

	_, err := gateway.GetPullRequest(context.Background(), "octo", "hello", 12)
	var apiErr *domain.RemoteAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusCreated, apiErr.StatusCode)
	assert.Contains(t, apiErr.URL, "/repos/octo/hello/pulls/12")
}

func TestNewGitHubGateway_Headers(t *testing.T) {
	testCases := []struct {
		name         string
		token        string
		expectedAuth string
	}{
		{name: "with token", token: "abc123", expectedAuth: "token abc123"},
		{name: "without token", token: "", expectedAuth: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got http.Header
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Clone()
				fmt.Fprint(w, `[]`)
			}))
			defer server.Close()

			// No trailing slash: the constructor must add it.
			gateway, err := NewGitHubGateway(tc.token, server.URL, 5*time.Second, log.New(io.Discard, "", 0))
			require.NoError(t, err)

			_, err = gateway.ListClosedPullRequests(context.Background(), "octo", "hello", 1, 30)
			require.NoError(t, err)

			assert.Equal(t, "application/vnd.github.v3+json", got.Get("Accept"))
			assert.Equal(t, UserAgent, got.Get("User-Agent"))
			assert.Equal(t, tc.expectedAuth, got.Get("Authorization"))
		})
	}
}
