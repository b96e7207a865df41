package usecase

import (
	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/merged-pr-export/internal/domain"
)

// Summarize computes time-to-merge statistics, in hours, over merged pull requests.
// Unmerged records are ignored.
func Summarize(prs []*domain.PullRequest) (domain.MergeSummary, error) {
	var hours stats.Float64Data
	for _, pr := range prs {
		if h, ok := pr.TimeToMergeHours(); ok {
			hours = append(hours, h)
		}
	}
	summary := domain.MergeSummary{Count: len(hours)}
	if len(hours) == 0 {
		return summary, nil
	}

	var err error
	if summary.MeanHours, err = hours.Mean(); err != nil {
		return summary, err
	}
	if summary.MedianHours, err = hours.Median(); err != nil {
		return summary, err
	}
	if summary.P90Hours, err = hours.Percentile(90); err != nil {
		return summary, err
	}
	for _, v := range []*float64{&summary.MeanHours, &summary.MedianHours, &summary.P90Hours} {
		if *v, err = stats.Round(*v, 2); err != nil {
			return summary, err
		}
	}
	return summary, nil
}
