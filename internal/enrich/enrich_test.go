package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobPage = `<html>
<head>
  <title>Backend Engineer - Acme Careers</title>
  <meta name="description" content="Build distributed systems in Go.">
</head>
<body>
  <nav>ignored</nav>
  <p>We run   Kubernetes
  and Postgres.</p>
  <p>   </p>
  <p>Remote friendly.</p>
</body>
</html>`

func TestExtractText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(jobPage))
	require.NoError(t, err)

	got := ExtractText(doc)
	assert.Contains(t, got, "Backend Engineer - Acme Careers")
	assert.Contains(t, got, "Build distributed systems in Go.")
	assert.Contains(t, got, "We run Kubernetes and Postgres.")
	assert.Contains(t, got, "Remote friendly.")
	assert.NotContains(t, got, "  ")
}

func TestExtractTextCapped(t *testing.T) {
	huge := "<html><body><p>" + strings.Repeat("golang ", 2000) + "</p></body></html>"
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(huge))
	require.NoError(t, err)

	assert.LessOrEqual(t, len(ExtractText(doc)), maxDescriptionLen)
}

func TestFetchDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(jobPage))
	}))
	defer srv.Close()

	got, err := FetchDescription(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, got, "Backend Engineer")
}

func TestFetchDescriptionNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := FetchDescription(context.Background(), srv.Client(), srv.URL)
	assert.Error(t, err)
}

func TestHostLimiterSeparatesHosts(t *testing.T) {
	hl := NewHostLimiter(1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	// distinct hosts each get their own full burst
	start := time.Now()
	require.NoError(t, hl.WaitURL(ctx, "https://a.example/jobs/1"))
	require.NoError(t, hl.WaitURL(ctx, "https://b.example/jobs/1"))
	assert.Less(t, time.Since(start), 200*time.Millisecond)

	// second hit on the same host has to wait for the refill
	ctx2, cancel2 := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel2()
	assert.Error(t, hl.WaitURL(ctx2, "https://a.example/jobs/2"))
}
