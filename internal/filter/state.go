package filter

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

var ErrInvalidRange = errors.New("date range start is after end")

// DateRange is an optional inclusive [Start, End] day range; a nil bound is
// open on that side.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// State is one submitted filter. The engine treats it as a value: Apply and
// the aggregator never write to it.
type State struct {
	SearchTerm string
	Websites   []string
	Positions  []string
	Companies  []string
	Range      DateRange

	// SelectedDay is consulted only when no global dimension is active.
	SelectedDay string
}

// HasGlobal reports whether any dimension forces the full flattened pool as
// the base set.
func (s State) HasGlobal() bool {
	return s.Range.Start != nil || s.Range.End != nil ||
		strings.TrimSpace(s.SearchTerm) != "" ||
		len(s.Websites) > 0 || len(s.Positions) > 0 || len(s.Companies) > 0
}

// Validate rejects a range whose start falls after its end. Callers keep the
// previously applied state when this fails.
func (s State) Validate() error {
	if s.Range.Start != nil && s.Range.End != nil && s.Range.Start.After(*s.Range.End) {
		return ErrInvalidRange
	}
	return nil
}

// Fingerprint identifies a state for the "filters changed -> page 1" rule.
// Two states with identical dimensions share a fingerprint.
func (s State) Fingerprint() string {
	var b strings.Builder
	b.WriteString(s.SearchTerm)
	for _, set := range [][]string{s.Websites, s.Positions, s.Companies} {
		b.WriteByte('|')
		b.WriteString(strings.Join(set, ","))
	}
	b.WriteByte('|')
	if s.Range.Start != nil {
		b.WriteString(s.Range.Start.Format("02-01-2006"))
	}
	b.WriteByte('|')
	if s.Range.End != nil {
		b.WriteString(s.Range.End.Format("02-01-2006"))
	}
	b.WriteByte('|')
	b.WriteString(s.SelectedDay)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}
