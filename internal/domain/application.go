package domain

type Status string

const (
	StatusApplied    Status = "Applied"
	StatusInterview  Status = "Interview"
	StatusOffer      Status = "Offer"
	StatusRejected   Status = "Rejected"
	StatusNoResponse Status = "No Response"
)

// JobApplication is one application event as delivered by the store.
// AppliedDate stays a raw source string; the day-key is always derived
// from it, never stored alongside it.
type JobApplication struct {
	ID                string       `json:"id"`
	JobID             string       `json:"jobId,omitempty"`
	JobTitle          string       `json:"jobTitle"`
	Company           string       `json:"company"`
	AppliedDate       string       `json:"appliedDate"`
	JobBoards         string       `json:"jobBoards"`
	JobDescriptionURL string       `json:"jobDescriptionUrl,omitempty"`
	Link              string       `json:"link,omitempty"`
	JobType           string       `json:"jobType,omitempty"`
	Status            Status       `json:"status"`
	Description       string       `json:"description,omitempty"`
	Attachments       []Attachment `json:"attachments,omitempty"`

	// Set only while Status is Interview.
	InterviewTime string `json:"interviewTime,omitempty"`
	Round         string `json:"round,omitempty"`
	RecruiterMail string `json:"recruiterMail,omitempty"`
}

// DisplayLink prefers the job-description URL over the generic link.
func (a JobApplication) DisplayLink() string {
	if a.JobDescriptionURL != "" {
		return a.JobDescriptionURL
	}
	if a.Link != "" {
		return a.Link
	}
	return ""
}

// ServiceRegistration is one service a client signed up for, owning its
// uploaded files and the applications submitted under it.
type ServiceRegistration struct {
	Key             string           `json:"key"`
	Service         string           `json:"service"`
	Files           []FileRef        `json:"files,omitempty"`
	JobApplications []JobApplication `json:"jobApplications,omitempty"`
}

// FlattenedApplication is the display projection of one application,
// independent of which registration it came from. Recomputed on every
// snapshot, never persisted.
type FlattenedApplication struct {
	ID          string `json:"id"`
	JobID       string `json:"jobId"`
	Website     string `json:"website"`
	Position    string `json:"position"`
	Company     string `json:"company"`
	JobType     string `json:"jobType"`
	Link        string `json:"link"`
	Description string `json:"description,omitempty"`
	DateAdded   string `json:"dateAdded"` // DD-MM-YYYY day-key, "" if unparseable
}
