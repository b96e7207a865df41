// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"time"

	"github.com/montanaflynn/stats"
)

// NotAvailable is written wherever the API does not supply a value.
const NotAvailable = "N/A"

// Actor is a GitHub account that authored or merged a pull request.
type Actor struct {
	Login string
	// Name is the display name. The pulls endpoints usually leave it empty.
	Name string
}

// PullRequest is the subset of a GitHub pull request this tool consumes.
// Records from the list endpoint carry no additions, deletions or merger;
// the detail endpoint fills those in.
type PullRequest struct {
	Number    int
	Title     string
	Author    Actor
	MergedBy  *Actor
	Additions int
	Deletions int
	CreatedAt time.Time
	// MergedAt is nil for pull requests that were closed without merging.
	MergedAt *time.Time
}

// IsMerged reports whether the pull request carries a merge timestamp.
func (pr *PullRequest) IsMerged() bool {
	return pr.MergedAt != nil
}

// Merger returns the account that merged the pull request, falling back to
// the author when the API did not report one.
func (pr *PullRequest) Merger() Actor {
	if pr.MergedBy == nil {
		return pr.Author
	}
	return *pr.MergedBy
}

// ResolveDisplayName returns the actor's display name or NotAvailable.
func ResolveDisplayName(a Actor) string {
	if a.Name == "" {
		return NotAvailable
	}
	return a.Name
}

// TimeToMergeHours returns the hours between creation and merge, rounded
// half away from zero to two decimal places. ok is false for unmerged pull requests.
func (pr *PullRequest) TimeToMergeHours() (hours float64, ok bool) {
	if !pr.IsMerged() {
		return 0, false
	}
	raw := pr.MergedAt.Sub(pr.CreatedAt).Hours()
	rounded, err := stats.Round(raw, 2)
	if err != nil {
		return 0, false
	}
	return rounded, true
}

// MergeSummary aggregates time-to-merge over an exported set.
type MergeSummary struct {
	Count       int     `json:"count"`
	MeanHours   float64 `json:"mean_hours"`
	MedianHours float64 `json:"median_hours"`
	P90Hours    float64 `json:"p90_hours"`
}
