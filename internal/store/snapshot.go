package store

import (
	"context"
	"database/sql"
	"fmt"

	"applyboard-engine/internal/domain"
)

// LoadSnapshot reads one full, self-consistent copy of the registration
// tree. Registrations come back in key order and applications in insertion
// order, so replaying the same data always yields the same traversal.
func LoadSnapshot(ctx context.Context, db *sql.DB) ([]domain.ServiceRegistration, error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("snapshot begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	regs, order, err := loadRegistrations(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := loadRegistrationFiles(ctx, tx, regs); err != nil {
		return nil, err
	}
	atts, err := loadAttachments(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := loadApplications(ctx, tx, regs, atts); err != nil {
		return nil, err
	}

	out := make([]domain.ServiceRegistration, 0, len(order))
	for _, key := range order {
		out = append(out, *regs[key])
	}
	return out, tx.Commit()
}

func loadRegistrations(ctx context.Context, tx *sql.Tx) (map[string]*domain.ServiceRegistration, []string, error) {
	rows, err := tx.QueryContext(ctx, `
SELECT key, service FROM registrations ORDER BY key;`)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot registrations: %w", err)
	}
	defer rows.Close()

	regs := map[string]*domain.ServiceRegistration{}
	var order []string
	for rows.Next() {
		var r domain.ServiceRegistration
		if err := rows.Scan(&r.Key, &r.Service); err != nil {
			return nil, nil, err
		}
		regs[r.Key] = &r
		order = append(order, r.Key)
	}
	return regs, order, rows.Err()
}

func loadRegistrationFiles(ctx context.Context, tx *sql.Tx, regs map[string]*domain.ServiceRegistration) error {
	rows, err := tx.QueryContext(ctx, `
SELECT registration_key, download_url, name, type
FROM registration_files ORDER BY registration_key, rowid;`)
	if err != nil {
		return fmt.Errorf("snapshot files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var f domain.FileRef
		if err := rows.Scan(&key, &f.DownloadURL, &f.Name, &f.Type); err != nil {
			return err
		}
		if r, ok := regs[key]; ok {
			r.Files = append(r.Files, f)
		}
	}
	return rows.Err()
}

// loadAttachments runs before loadApplications so each application can be
// assembled in one piece.
func loadAttachments(ctx context.Context, tx *sql.Tx) (map[string][]domain.Attachment, error) {
	rows, err := tx.QueryContext(ctx, `
SELECT application_id, download_url, name
FROM attachments ORDER BY application_id, rowid;`)
	if err != nil {
		return nil, fmt.Errorf("snapshot attachments: %w", err)
	}
	defer rows.Close()

	out := map[string][]domain.Attachment{}
	for rows.Next() {
		var id string
		var att domain.Attachment
		if err := rows.Scan(&id, &att.DownloadURL, &att.Name); err != nil {
			return nil, err
		}
		out[id] = append(out[id], att)
	}
	return out, rows.Err()
}

func loadApplications(ctx context.Context, tx *sql.Tx, regs map[string]*domain.ServiceRegistration, atts map[string][]domain.Attachment) error {
	rows, err := tx.QueryContext(ctx, `
SELECT id, registration_key, job_id, job_title, company, applied_date,
       job_boards, job_description_url, link, job_type, status, description,
       interview_time, round, recruiter_mail
FROM applications ORDER BY registration_key, rowid;`)
	if err != nil {
		return fmt.Errorf("snapshot applications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var a domain.JobApplication
		if err := rows.Scan(&a.ID, &key, &a.JobID, &a.JobTitle, &a.Company,
			&a.AppliedDate, &a.JobBoards, &a.JobDescriptionURL, &a.Link,
			&a.JobType, &a.Status, &a.Description,
			&a.InterviewTime, &a.Round, &a.RecruiterMail); err != nil {
			return err
		}
		a.Attachments = atts[a.ID]
		if r, ok := regs[key]; ok {
			r.JobApplications = append(r.JobApplications, a)
		}
	}
	return rows.Err()
}
