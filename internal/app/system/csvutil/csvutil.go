// Package csvutil renders directory exports as CSV for download into
// spreadsheet tools.
package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/placementhub/placementhub/internal/app/system/academics"
	"github.com/placementhub/placementhub/internal/domain/models"
)

// userHeader is the column order of a user directory export.
var userHeader = []string{
	"Name", "Email", "Course", "Stream", "Batch", "Institute",
	"Phone", "Avg CGPA", "Active Backlogs", "Onboarded",
}

// WriteUsers writes the user directory as CSV, one row per user, with a
// header row first. The CGPA column uses the same averaging rule as the
// eligibility pipeline.
func WriteUsers(w io.Writer, users []models.User) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(userHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range users {
		u := &users[i]
		row := []string{
			u.Name,
			u.Email,
			u.Course,
			u.Stream,
			u.Batch,
			u.Institute,
			u.Phone,
			strconv.FormatFloat(academics.AverageCGPA(u), 'f', 2, 64),
			strconv.Itoa(academics.ActiveBacklogs(u)),
			strconv.FormatBool(u.IsCompleted),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
