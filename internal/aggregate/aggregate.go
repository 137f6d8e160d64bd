// Package aggregate turns a full snapshot of service registrations into the
// query-ready views the dashboard reads. It is a pure transform: same input,
// same output, no I/O.
package aggregate

import (
	"time"

	"applyboard-engine/internal/dates"
	"applyboard-engine/internal/domain"
)

// Derived holds the four collections rebuilt on every snapshot. A Derived is
// always published as a whole; consumers never see a partial one.
type Derived struct {
	Flattened  []domain.FlattenedApplication
	DayBuckets map[string][]domain.FlattenedApplication
	Interviews []domain.JobApplication
	Files      []domain.FileRecord
}

// Aggregate makes one linear pass over the registrations.
//
// Fold order per registration is registration files first, then each
// application's attachments, in registration traversal order. A duplicate
// downloadUrl overwrites the earlier entry in place, so "most recent" means
// traversal order, not timestamp.
func Aggregate(regs []domain.ServiceRegistration) Derived {
	d := Derived{
		Flattened:  []domain.FlattenedApplication{},
		DayBuckets: map[string][]domain.FlattenedApplication{},
		Interviews: []domain.JobApplication{},
		Files:      []domain.FileRecord{},
	}
	fileIdx := map[string]int{} // downloadUrl -> position in d.Files

	fold := func(url, name string, origin domain.FileOrigin) {
		if url == "" {
			return
		}
		rec := domain.FileRecord{DownloadURL: url, Name: name, Origin: origin}
		if i, ok := fileIdx[url]; ok {
			d.Files[i] = rec
			return
		}
		fileIdx[url] = len(d.Files)
		d.Files = append(d.Files, rec)
	}

	for _, reg := range regs {
		for _, f := range reg.Files {
			fold(f.DownloadURL, f.Name, domain.OriginRegistration)
		}
		for _, app := range reg.JobApplications {
			key := dates.ToDisplayKey(app.AppliedDate)
			flat := domain.FlattenedApplication{
				ID:          app.ID,
				JobID:       app.JobID,
				Website:     app.JobBoards,
				Position:    app.JobTitle,
				Company:     app.Company,
				JobType:     app.JobType,
				Link:        app.DisplayLink(),
				Description: app.Description,
				DateAdded:   key,
			}
			d.Flattened = append(d.Flattened, flat)
			// an empty key means the applied date never parsed; the record
			// stays out of every day bucket but keeps its place in Flattened
			if key != "" {
				d.DayBuckets[key] = append(d.DayBuckets[key], flat)
			}
			if app.Status == domain.StatusInterview {
				d.Interviews = append(d.Interviews, app)
			}
			for _, att := range app.Attachments {
				fold(att.DownloadURL, att.Name, domain.OriginAttachment)
			}
		}
	}
	return d
}

// Counters are the dashboard head-line numbers for one snapshot.
type Counters struct {
	Total        int     `json:"total"`
	AppliedToday int     `json:"appliedToday"`
	Interviews   int     `json:"interviews"`
	ResponseRate float64 `json:"responseRate"` // percent
}

func (d Derived) Counters(now time.Time) Counters {
	c := Counters{
		Total:        len(d.Flattened),
		AppliedToday: len(d.DayBuckets[dates.Today(now)]),
		Interviews:   len(d.Interviews),
	}
	if c.Total > 0 {
		c.ResponseRate = float64(c.Interviews) / float64(c.Total) * 100
	}
	return c
}
