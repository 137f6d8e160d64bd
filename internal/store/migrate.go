package store

import "database/sql"

// Migrate brings the schema to the current version, tracked with
// PRAGMA user_version.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS registrations (
  key TEXT PRIMARY KEY,
  service TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS registration_files (
  registration_key TEXT NOT NULL REFERENCES registrations(key),
  download_url TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (registration_key, download_url)
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS applications (
  id TEXT PRIMARY KEY,
  registration_key TEXT NOT NULL REFERENCES registrations(key),
  job_id TEXT NOT NULL DEFAULT '',
  job_title TEXT NOT NULL DEFAULT '',
  company TEXT NOT NULL DEFAULT '',
  applied_date TEXT NOT NULL DEFAULT '',
  job_boards TEXT NOT NULL DEFAULT '',
  job_description_url TEXT NOT NULL DEFAULT '',
  link TEXT NOT NULL DEFAULT '',
  job_type TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  interview_time TEXT NOT NULL DEFAULT '',
  round TEXT NOT NULL DEFAULT '',
  recruiter_mail TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS attachments (
  application_id TEXT NOT NULL REFERENCES applications(id),
  download_url TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (application_id, download_url)
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_applications_registration
ON applications(registration_key);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_applications_status
ON applications(status);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}
