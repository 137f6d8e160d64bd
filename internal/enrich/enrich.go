// Package enrich fills the free-text description the search predicate reads,
// by fetching each application's job-description page.
package enrich

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"applyboard-engine/internal/config"
	"applyboard-engine/internal/store"
)

const maxDescriptionLen = 2000

// RunOnce fetches descriptions for applications that still lack one.
func RunOnce(ctx context.Context, db *sql.DB, cfg config.Config, limiter *HostLimiter) (updated int, err error) {
	if !cfg.Enrich.Enabled {
		return 0, nil
	}

	missing, err := store.ListMissingDescriptions(ctx, db, 20)
	if err != nil {
		return 0, err
	}

	timeout := time.Duration(cfg.Enrich.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	for _, m := range missing {
		if err := limiter.WaitURL(ctx, m.URL); err != nil {
			return updated, err
		}
		text, ferr := FetchDescription(ctx, client, m.URL)
		if ferr != nil {
			log.Printf("[enrich] fetch error url=%q err=%v", m.URL, ferr)
			continue
		}
		if text == "" {
			continue
		}
		if uerr := store.UpdateDescription(ctx, db, m.ID, text); uerr != nil {
			log.Printf("[enrich] update error id=%s err=%v", m.ID, uerr)
			continue
		}
		updated++
	}
	return updated, nil
}

// FetchDescription pulls a page and extracts searchable text: the title,
// the meta description, and the first paragraphs.
func FetchDescription(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("enrich request: %w", err)
	}
	req.Header.Set("User-Agent", "applyboard-engine/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("enrich get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("enrich get: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("enrich parse: %w", err)
	}
	return ExtractText(doc), nil
}

// ExtractText flattens the interesting parts of a job page into one string,
// capped so a giant page does not bloat the store.
func ExtractText(doc *goquery.Document) string {
	var parts []string

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		parts = append(parts, title)
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		if desc = strings.TrimSpace(desc); desc != "" {
			parts = append(parts, desc)
		}
	}
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t := collapse(s.Text()); t != "" {
			parts = append(parts, t)
		}
		return len(strings.Join(parts, " ")) < maxDescriptionLen
	})

	out := collapse(strings.Join(parts, " "))
	if len(out) > maxDescriptionLen {
		out = out[:maxDescriptionLen]
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
