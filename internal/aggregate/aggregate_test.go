package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applyboard-engine/internal/domain"
)

func sampleRegs() []domain.ServiceRegistration {
	return []domain.ServiceRegistration{
		{
			Key:     "reg-a",
			Service: "premium",
			Files: []domain.FileRef{
				{DownloadURL: "https://files/resume.pdf", Name: "resume-v1.pdf", Type: "resume"},
				{DownloadURL: "https://files/cover.pdf", Name: "cover.pdf"},
			},
			JobApplications: []domain.JobApplication{
				{
					ID: "app-1", JobID: "J-100", JobTitle: "Backend Engineer",
					Company: "Acme", AppliedDate: "2024-05-01", JobBoards: "LinkedIn",
					JobDescriptionURL: "https://acme/jobs/100", Link: "https://fallback",
					JobType: "Full-time", Status: domain.StatusApplied,
				},
				{
					ID: "app-2", JobTitle: "Platform Engineer", Company: "Globex",
					AppliedDate: "2024-05-01", JobBoards: "Indeed",
					Link: "https://globex/apply", Status: domain.StatusInterview,
					InterviewTime: "10:00", Round: "2",
					Attachments: []domain.Attachment{
						{DownloadURL: "https://files/resume.pdf", Name: "resume-v2.pdf"},
					},
				},
			},
		},
		{
			Key:     "reg-b",
			Service: "basic",
			JobApplications: []domain.JobApplication{
				{
					ID: "app-3", JobTitle: "SRE", Company: "Initech",
					AppliedDate: "bogus", JobBoards: "Dice",
					Status: domain.StatusApplied,
				},
			},
		},
	}
}

func TestAggregateFlattens(t *testing.T) {
	d := Aggregate(sampleRegs())

	require.Len(t, d.Flattened, 3)
	assert.Equal(t, "app-1", d.Flattened[0].ID)
	assert.Equal(t, "LinkedIn", d.Flattened[0].Website)
	assert.Equal(t, "Backend Engineer", d.Flattened[0].Position)
	assert.Equal(t, "01-05-2024", d.Flattened[0].DateAdded)

	// job-description URL wins over the generic link
	assert.Equal(t, "https://acme/jobs/100", d.Flattened[0].Link)
	// generic link is the fallback
	assert.Equal(t, "https://globex/apply", d.Flattened[1].Link)
}

func TestAggregateDayBuckets(t *testing.T) {
	d := Aggregate(sampleRegs())

	require.Len(t, d.DayBuckets["01-05-2024"], 2)
	assert.Equal(t, "app-1", d.DayBuckets["01-05-2024"][0].ID)
	assert.Equal(t, "app-2", d.DayBuckets["01-05-2024"][1].ID)

	// unparseable appliedDate: visible in Flattened, absent from every bucket
	assert.Equal(t, "", d.Flattened[2].DateAdded)
	total := 0
	for _, b := range d.DayBuckets {
		total += len(b)
	}
	assert.Equal(t, 2, total)
}

func TestAggregateInterviews(t *testing.T) {
	d := Aggregate(sampleRegs())

	require.Len(t, d.Interviews, 1)
	assert.Equal(t, "app-2", d.Interviews[0].ID)
	assert.Equal(t, "10:00", d.Interviews[0].InterviewTime)
}

func TestAggregateFileDedup(t *testing.T) {
	d := Aggregate(sampleRegs())

	require.Len(t, d.Files, 2)
	seen := map[string]int{}
	for _, f := range d.Files {
		seen[f.DownloadURL]++
	}
	for url, n := range seen {
		assert.Equalf(t, 1, n, "duplicate entry for %s", url)
	}

	// the attachment folded after the registration file wins, in place
	assert.Equal(t, "https://files/resume.pdf", d.Files[0].DownloadURL)
	assert.Equal(t, "resume-v2.pdf", d.Files[0].Name)
	assert.Equal(t, domain.OriginAttachment, d.Files[0].Origin)
}

func TestAggregateIdempotent(t *testing.T) {
	regs := sampleRegs()
	first := Aggregate(regs)
	second := Aggregate(regs)

	assert.Equal(t, first.Flattened, second.Flattened)
	assert.Equal(t, first.DayBuckets, second.DayBuckets)
	assert.Equal(t, first.Interviews, second.Interviews)
	assert.Equal(t, first.Files, second.Files)
}

func TestAggregateEmpty(t *testing.T) {
	d := Aggregate(nil)
	assert.Empty(t, d.Flattened)
	assert.Empty(t, d.DayBuckets)
	assert.Empty(t, d.Interviews)
	assert.Empty(t, d.Files)
}

func TestCounters(t *testing.T) {
	d := Aggregate(sampleRegs())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	c := d.Counters(now)
	assert.Equal(t, 3, c.Total)
	assert.Equal(t, 2, c.AppliedToday)
	assert.Equal(t, 1, c.Interviews)
	assert.InDelta(t, 33.33, c.ResponseRate, 0.01)

	empty := Aggregate(nil).Counters(now)
	assert.Zero(t, empty.ResponseRate)
}
