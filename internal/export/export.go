// Package export turns a filtered result list into a downloadable workbook.
package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"applyboard-engine/internal/domain"
)

const sheetName = "Applications"

// ErrNoRows signals an export over an empty result set; callers treat it as
// a no-op, never a user-facing failure.
var ErrNoRows = errors.New("nothing to export")

// View says which result set the export came from. Closed set: the two
// surfaces the dashboard can show.
type View int

const (
	ViewGlobal View = iota
	ViewSingleDay
)

// Header order is fixed; S.No numbers the whole filtered list, not the page.
var header = []any{
	"S.No", "Applied Date", "Job Boards", "Job Title",
	"Job ID", "Company", "Job Type", "Link",
}

// Write serializes results as an xlsx workbook.
func Write(w io.Writer, results []domain.FlattenedApplication) error {
	if len(results) == 0 {
		return ErrNoRows
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("export sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("export header: %w", err)
	}

	for i, app := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			i + 1, app.DateAdded, app.Website, app.Position,
			app.JobID, app.Company, app.JobType, app.Link,
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("export row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export write: %w", err)
	}
	return nil
}

// Filename reflects whether a global filter or a single-day view produced
// the rows.
func Filename(view View, dayKey string, now time.Time) string {
	switch view {
	case ViewSingleDay:
		return fmt.Sprintf("applications-%s.xlsx", dayKey)
	default:
		return fmt.Sprintf("applications-all-%s.xlsx", now.Format("20060102-150405"))
	}
}
