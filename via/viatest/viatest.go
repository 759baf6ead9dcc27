// Package viatest drives Via pages over real HTTP in tests: it loads a page,
// fires its actions the way the Datastar runtime does and reads the patches
// streamed back on the SSE connection.
package viatest

import (
	"bufio"
	"context"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Timeout bounds every wait on the server.
var Timeout = 3 * time.Second

// Browser is an HTTP client with a cookie jar talking to a test server.
type Browser struct {
	t      testing.TB
	srv    *httptest.Server
	client *http.Client
}

// New starts a test server for h. It is closed when the test ends.
func New(t testing.TB, h http.Handler) *Browser {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &Browser{
		t:      t,
		srv:    srv,
		client: &http.Client{Jar: jar, Timeout: Timeout},
	}
}

// Page is a loaded document.
type Page struct {
	b *Browser
	// Status is the HTTP status of the page response.
	Status int
	// Body is the HTML document with entities unescaped, so tests can match
	// Datastar expressions literally.
	Body string
	// CtxID and CSRF identify the live page context.
	CtxID string
	CSRF  string
	// Signals holds the initial signal values of the page.
	Signals map[string]any
}

var signalsMeta = regexp.MustCompile(`<meta data-signals="([^"]*)"`)

// Get loads the document at path.
func (b *Browser) Get(path string) *Page {
	b.t.Helper()
	resp, err := b.client.Get(b.srv.URL + path)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)

	p := &Page{b: b, Status: resp.StatusCode, Body: html.UnescapeString(string(raw))}
	if m := signalsMeta.FindStringSubmatch(string(raw)); m != nil {
		require.NoError(b.t, json.Unmarshal([]byte(html.UnescapeString(m[1])), &p.Signals))
		p.CtxID, _ = p.Signals["via-ctx"].(string)
		p.CSRF, _ = p.Signals["via-csrf"].(string)
	}
	return p
}

// Find returns the submatches of re in the page body, or fails the test.
func (p *Page) Find(re string) []string {
	p.b.t.Helper()
	return Match(p.b.t, p.Body, re)
}

// FindAll returns the submatches of every match of re in the page body.
func (p *Page) FindAll(re string) [][]string {
	return regexp.MustCompile(re).FindAllStringSubmatch(p.Body, -1)
}

// Match returns the submatches of re in s, or fails the test.
func Match(t testing.TB, s, re string) []string {
	t.Helper()
	m := regexp.MustCompile(re).FindStringSubmatch(s)
	require.NotNil(t, m, "no match for %s", re)
	return m
}

var actionRef = regexp.MustCompile(`@get\('/_action/([0-9a-f]+)'\)`)

// ActionIDs lists the action ids referenced by the page, in document order.
func (p *Page) ActionIDs() []string {
	var ids []string
	for _, m := range actionRef.FindAllStringSubmatch(p.Body, -1) {
		ids = append(ids, m[1])
	}
	return ids
}

// Action fires action id with the given signal values and returns the HTTP
// status of the call.
func (p *Page) Action(id string, sigs map[string]any) int {
	p.b.t.Helper()
	payload := map[string]any{"via-ctx": p.CtxID, "via-csrf": p.CSRF}
	for k, v := range sigs {
		payload[k] = v
	}
	data, err := json.Marshal(payload)
	require.NoError(p.b.t, err)
	resp, err := p.b.client.Get(p.b.srv.URL + "/_action/" + id + "?datastar=" + url.QueryEscape(string(data)))
	require.NoError(p.b.t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode
}

// Stream is the live SSE connection of a page.
type Stream struct {
	t      testing.TB
	cancel context.CancelFunc
	events chan string
}

// Connect opens the SSE stream of the page. The stream is closed when the
// test ends, which disposes the page context on the server.
func (p *Page) Connect() *Stream {
	p.b.t.Helper()
	sigs, err := json.Marshal(map[string]any{"via-ctx": p.CtxID, "via-csrf": p.CSRF})
	require.NoError(p.b.t, err)

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.b.srv.URL+"/_sse?datastar="+url.QueryEscape(string(sigs)), nil)
	require.NoError(p.b.t, err)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Accept-Encoding", "identity")

	// the stream outlives the client timeout
	client := &http.Client{Jar: p.b.client.Jar}
	resp, err := client.Do(req)
	if err != nil {
		cancel()
		require.NoError(p.b.t, err)
	}
	require.Equal(p.b.t, http.StatusOK, resp.StatusCode)

	s := &Stream{t: p.b.t, cancel: cancel, events: make(chan string, 256)}
	go s.read(resp.Body)
	p.b.t.Cleanup(s.Close)
	return s
}

func (s *Stream) read(body io.ReadCloser) {
	defer close(s.events)
	defer body.Close()
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var data []string
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if len(data) > 0 {
				s.events <- html.UnescapeString(strings.Join(data, "\n"))
				data = nil
			}
		case strings.HasPrefix(line, "data: "):
			line = strings.TrimPrefix(line, "data: ")
			data = append(data, strings.TrimPrefix(line, "elements "))
		}
	}
}

// WaitFor returns the first event whose data contains every one of parts,
// skipping earlier events.
func (s *Stream) WaitFor(parts ...string) string {
	s.t.Helper()
	deadline := time.After(Timeout)
	for {
		select {
		case ev, ok := <-s.events:
			require.True(s.t, ok, "stream closed while waiting for %q", parts)
			if containsAll(ev, parts) {
				return ev
			}
		case <-deadline:
			require.FailNow(s.t, "timed out", "no event containing %q", parts)
			return ""
		}
	}
}

// WaitForEach waits until each of parts has shown up in some event. Use it
// when several components sync independently and their order is unknown.
func (s *Stream) WaitForEach(parts ...string) {
	s.t.Helper()
	pending := slices.Clone(parts)
	deadline := time.After(Timeout)
	for len(pending) > 0 {
		select {
		case ev, ok := <-s.events:
			require.True(s.t, ok, "stream closed while waiting for %q", pending)
			pending = slices.DeleteFunc(pending, func(p string) bool { return strings.Contains(ev, p) })
		case <-deadline:
			require.FailNow(s.t, "timed out", "never saw %q", pending)
			return
		}
	}
}

func containsAll(s string, parts []string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

// Close ends the stream.
func (s *Stream) Close() {
	s.cancel()
}
