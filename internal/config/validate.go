package config

import (
	"fmt"
	"strings"

	"applyboard-engine/internal/dates"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus validation results.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Ingest.SearchSubjectAny = trimList(out.Ingest.SearchSubjectAny)

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Display.PageSize <= 0 {
		res.addErr("display.page_size must be > 0")
	} else if out.Display.PageSize > 500 {
		res.addWarn("display.page_size is very large (%d); the UI may struggle.", out.Display.PageSize)
	}

	if out.Ingest.Enabled {
		if strings.TrimSpace(out.Ingest.IMAPHost) == "" {
			res.addErr("ingest.imap_host is required when ingest.enabled=true")
		}
		if out.Ingest.IMAPPort == 0 {
			res.addErr("ingest.imap_port is required when ingest.enabled=true")
		}
		if strings.TrimSpace(out.Ingest.Username) == "" {
			res.addErr("ingest.username is required when ingest.enabled=true")
		}
		if strings.TrimSpace(out.Ingest.Mailbox) == "" {
			res.addErr("ingest.mailbox is required when ingest.enabled=true")
		}
		if len(out.Ingest.SearchSubjectAny) == 0 {
			res.addWarn("ingest.search_subject_any is empty; mailbox ingest may find nothing.")
		}
		if out.Ingest.PollSeconds > 0 && out.Ingest.PollSeconds < 30 {
			res.addWarn("ingest.poll_seconds is very low (%d) and may cause rate limits.", out.Ingest.PollSeconds)
		}
	}

	if out.Enrich.Enabled {
		if out.Enrich.ReqPerSec <= 0 {
			res.addErr("enrich.req_per_sec must be > 0 when enrich.enabled=true")
		}
		if out.Enrich.Burst <= 0 {
			res.addErr("enrich.burst must be > 0 when enrich.enabled=true")
		}
	}

	for i, l := range out.Leaves {
		from := dates.ToDisplayKey(l.From)
		to := dates.ToDisplayKey(l.To)
		if from == "" {
			res.addErr("leaves[%d].from is not a valid date: %q", i, l.From)
		}
		if to == "" {
			res.addErr("leaves[%d].to is not a valid date: %q", i, l.To)
		}
		if from != "" && to != "" {
			f, _ := dates.ToComparableDate(from)
			t, _ := dates.ToComparableDate(to)
			if f.After(t) {
				res.addErr("leaves[%d] starts after it ends", i)
			}
		}
	}

	return out, res
}
