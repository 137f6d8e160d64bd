package store

import (
	"context"
	"database/sql"
	"fmt"

	"applyboard-engine/internal/domain"
)

// EnsureRegistration creates the registration row if it does not exist.
func EnsureRegistration(ctx context.Context, db *sql.DB, key, service string) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO registrations (key, service) VALUES (?, ?)
ON CONFLICT(key) DO NOTHING;`, key, service)
	if err != nil {
		return fmt.Errorf("ensure registration: %w", err)
	}
	return nil
}

// InsertApplication inserts one application under a registration. A
// duplicate id is ignored; added reports whether a row actually landed.
func InsertApplication(ctx context.Context, db *sql.DB, regKey string, a domain.JobApplication) (added bool, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("insert application begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
INSERT OR IGNORE INTO applications
  (id, registration_key, job_id, job_title, company, applied_date,
   job_boards, job_description_url, link, job_type, status, description,
   interview_time, round, recruiter_mail)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		a.ID, regKey, a.JobID, a.JobTitle, a.Company, a.AppliedDate,
		a.JobBoards, a.JobDescriptionURL, a.Link, a.JobType, string(a.Status),
		a.Description, a.InterviewTime, a.Round, a.RecruiterMail)
	if err != nil {
		return false, fmt.Errorf("insert application: %w", err)
	}

	var changes int
	if err := tx.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); err != nil {
		return false, err
	}
	if changes == 0 {
		return false, tx.Commit()
	}

	for _, att := range a.Attachments {
		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO attachments (application_id, download_url, name)
VALUES (?, ?, ?);`, a.ID, att.DownloadURL, att.Name); err != nil {
			return false, fmt.Errorf("insert attachment: %w", err)
		}
	}
	return true, tx.Commit()
}

func DeleteApplication(ctx context.Context, db *sql.DB, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM attachments WHERE application_id = ?;`, id); err != nil {
		return fmt.Errorf("delete attachments: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	return nil
}

// AddRegistrationFile records a raw file on a registration; same url on the
// same registration replaces the name/type.
func AddRegistrationFile(ctx context.Context, db *sql.DB, regKey string, f domain.FileRef) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO registration_files (registration_key, download_url, name, type)
VALUES (?, ?, ?, ?)
ON CONFLICT(registration_key, download_url)
DO UPDATE SET name = excluded.name, type = excluded.type;`,
		regKey, f.DownloadURL, f.Name, f.Type)
	if err != nil {
		return fmt.Errorf("add registration file: %w", err)
	}
	return nil
}

// MissingDescription lists applications that carry a job-description URL but
// no extracted text yet, oldest first.
type MissingDescription struct {
	ID  string
	URL string
}

func ListMissingDescriptions(ctx context.Context, db *sql.DB, limit int) ([]MissingDescription, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, job_description_url FROM applications
WHERE job_description_url != '' AND description = ''
ORDER BY rowid LIMIT ?;`, limit)
	if err != nil {
		return nil, fmt.Errorf("list missing descriptions: %w", err)
	}
	defer rows.Close()

	var out []MissingDescription
	for rows.Next() {
		var m MissingDescription
		if err := rows.Scan(&m.ID, &m.URL); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func UpdateDescription(ctx context.Context, db *sql.DB, id, text string) error {
	_, err := db.ExecContext(ctx, `
UPDATE applications SET description = ? WHERE id = ?;`, text, id)
	if err != nil {
		return fmt.Errorf("update description: %w", err)
	}
	return nil
}
