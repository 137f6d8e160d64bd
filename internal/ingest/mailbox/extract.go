package mailbox

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"applyboard-engine/internal/domain"
)

// Confirmation subject shapes the big boards send. First capture is the
// position, second (when present) the company.
var subjectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)your application (?:was sent|to)\s+(?:for\s+(.+?)\s+at\s+)?(.+)`),
	regexp.MustCompile(`(?i)thank you for applying (?:for\s+(.+?)\s+)?(?:to|at)\s+(.+)`),
	regexp.MustCompile(`(?i)application received[:\s-]+(.+?)(?:\s+at\s+(.+))?$`),
	regexp.MustCompile(`(?i)you applied (?:for\s+(.+?)\s+)?(?:to|at)\s+(.+)`),
}

var boardDomains = map[string]string{
	"linkedin.com": "LinkedIn",
	"indeed.com":   "Indeed",
	"glassdoor":    "Glassdoor",
	"dice.com":     "Dice",
	"monster":      "Monster",
	"ziprecruiter": "ZipRecruiter",
}

// ExtractApplication builds a JobApplication from a confirmation email's
// envelope. Returns false when the subject matches none of the known shapes.
func ExtractApplication(messageID, subject, from string, date time.Time) (domain.JobApplication, bool) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return domain.JobApplication{}, false
	}

	var title, company string
	for _, re := range subjectPatterns {
		m := re.FindStringSubmatch(subject)
		if m == nil {
			continue
		}
		title = clean(m[1])
		company = clean(m[2])
		break
	}
	if title == "" && company == "" {
		return domain.JobApplication{}, false
	}

	app := domain.JobApplication{
		ID:          mailID(messageID, subject, from),
		JobTitle:    title,
		Company:     company,
		AppliedDate: date.UTC().Format("2006-01-02"),
		JobBoards:   boardFromSender(from),
		Status:      domain.StatusApplied,
	}
	return app, true
}

// mailID is stable per message so repeated polls dedup at the store.
func mailID(messageID, subject, from string) string {
	seed := messageID
	if seed == "" {
		seed = subject + "|" + from
	}
	sum := sha256.Sum256([]byte(seed))
	return "mail-" + hex.EncodeToString(sum[:12])
}

func boardFromSender(from string) string {
	f := strings.ToLower(from)
	for needle, board := range boardDomains {
		if strings.Contains(f, needle) {
			return board
		}
	}
	return "Email"
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	// subjects often end with a trailing punctuation fragment
	return strings.TrimRight(s, ".!")
}
