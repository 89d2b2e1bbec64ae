// Package academics computes derived academic metrics from a user's
// semester scores.
//
// A semester score of exactly 0 records a backlog for that term, not a GPA
// of zero, so backlog semesters are excluded from the average. A nil score
// means the semester has not been entered yet and counts toward neither
// metric.
package academics

import (
	"math"

	"github.com/placementhub/placementhub/internal/domain/models"
)

// AverageCGPA returns the arithmetic mean of the user's strictly positive
// semester scores, rounded to two decimal places (half-up on the third
// digit). It returns 0 when no semester carries a positive score.
func AverageCGPA(u *models.User) float64 {
	var sum float64
	var n int
	for _, s := range u.Semesters() {
		if s != nil && *s > 0 {
			sum += *s
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round2(sum / float64(n))
}

// ActiveBacklogs returns the number of semesters recorded as exactly 0.
func ActiveBacklogs(u *models.User) int {
	count := 0
	for _, s := range u.Semesters() {
		if s != nil && *s == 0 {
			count++
		}
	}
	return count
}

func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
