// Package mailbox polls an IMAP inbox for application-confirmation emails
// and feeds them into the store, so tracked applications created by email
// flow through the same snapshot path as everything else.
package mailbox

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"applyboard-engine/internal/config"
	"applyboard-engine/internal/store"
)

// fallback registration everything ingested by mail lands under
const defaultRegistrationKey = "email-ingest"

type message struct {
	uid       imap.UID
	messageID string
	subject   string
	from      string
	date      time.Time
}

// RunOnce polls the configured mailbox and inserts any extracted
// applications. Returns how many new rows landed.
func RunOnce(ctx context.Context, db *sql.DB, cfg config.Config, password string) (added int, err error) {
	if !cfg.Ingest.Enabled {
		return 0, nil
	}
	addr := fmt.Sprintf("%s:%d", cfg.Ingest.IMAPHost, cfg.Ingest.IMAPPort)

	c, err := dialAndLogin(ctx, addr, cfg.Ingest.Username, password, cfg.Ingest.IMAPHost)
	if err != nil {
		return 0, err
	}
	defer logoutAndClose(c)

	mailboxName := cfg.Ingest.Mailbox
	if mailboxName == "" {
		mailboxName = "INBOX"
	}
	if _, err := c.Select(mailboxName, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return 0, fmt.Errorf("imap select %s: %w", mailboxName, err)
	}

	msgs, err := fetchUnseen(ctx, c, cfg.Ingest.MaxMessages)
	if err != nil {
		return 0, err
	}

	regKey := cfg.Ingest.RegistrationKey
	if regKey == "" {
		regKey = defaultRegistrationKey
	}
	if err := store.EnsureRegistration(ctx, db, regKey, "email"); err != nil {
		return 0, err
	}

	for _, m := range msgs {
		if !subjectMatches(cfg.Ingest.SearchSubjectAny, m.subject) {
			continue
		}
		app, ok := ExtractApplication(m.messageID, m.subject, m.from, m.date)
		if !ok {
			log.Printf("[ingest] unrecognized subject %q uid=%d", m.subject, m.uid)
			continue
		}
		inserted, ierr := store.InsertApplication(ctx, db, regKey, app)
		if ierr != nil {
			log.Printf("[ingest] insert error: %v subject=%q", ierr, m.subject)
			continue
		}
		if inserted {
			added++
		}
	}
	return added, nil
}

// subjectMatches applies the configured allowlist; empty means accept all.
func subjectMatches(any []string, subject string) bool {
	if len(any) == 0 {
		return true
	}
	s := strings.ToLower(subject)
	for _, needle := range any {
		if strings.Contains(s, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}

func dialAndLogin(ctx context.Context, addr, username, password, serverName string) (*imapclient.Client, error) {
	if username == "" || password == "" {
		return nil, errors.New("imap username/password is required")
	}

	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12, ServerName: serverName},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}

	// best-effort close on context cancel
	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(username, password).Wait(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	return c, nil
}

// fetchUnseen pulls up to max unseen messages by UID, envelope only.
// Read-only select plus no store of \Seen keeps the mailbox untouched.
func fetchUnseen(ctx context.Context, c *imapclient.Client, max int) ([]message, error) {
	if max <= 0 {
		max = 50
	}

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   time.Now().AddDate(0, -3, 0),
	}
	searchData, err := c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search unseen: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	// newest first
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > max {
		uids = uids[:max]
	}

	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:      true,
		Envelope: true,
	})
	defer func() { _ = fetchCmd.Close() }()

	out := make([]message, 0, len(uids))
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch collect: %w", err)
		}

		m := message{uid: buf.UID}
		if buf.Envelope != nil {
			m.messageID = buf.Envelope.MessageID
			m.subject = buf.Envelope.Subject
			m.date = buf.Envelope.Date
			m.from = joinAddrs(buf.Envelope.From)
		}
		out = append(out, m)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}
	return out, nil
}

func joinAddrs(addrs []imap.Address) string {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		parts = append(parts, a.Addr())
	}
	return strings.Join(parts, ", ")
}

func logoutAndClose(c *imapclient.Client) {
	if c == nil {
		return
	}
	if err := c.Logout().Wait(); err != nil {
		log.Printf("[ingest] imap logout: %v", err)
	}
	_ = c.Close()
}
