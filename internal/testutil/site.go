package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/vrsandeep/tokyo-links/internal/models"
)

// Candidate describes one download block on a fixture item page.
type Candidate struct {
	Label    string
	Size     string
	Count    string
	Uploader string
	Date     string
	URL      string
}

// CatalogPage renders a catalog page for series. Links are listed newest
// first, as on the real site, so episode N appears before episode 1.
func CatalogPage(series string, counts map[models.ContentType]int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<html><head><title>%s</title></head><body><div id=\"inner_page\">\n", series)
	for _, t := range models.ContentTypes {
		for n := counts[t]; n >= 1; n-- {
			fmt.Fprintf(&b,
				"<div class=\"%s c_h2\"><a class=\"download-link\" href=\"%s\"><strong>%s</strong> <em>%s</em> <strong>%d</strong></a></div>\n",
				t, ItemPath(series, t, n), series, t, n)
		}
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

// ItemPath is the site-relative path of a fixture item page.
func ItemPath(series string, t models.ContentType, n int) string {
	return fmt.Sprintf("/anime/%s/%s/%s/%d", strings.ToUpper(series[:1]), series, t, n)
}

// ItemPage renders an item page listing the given candidates.
func ItemPage(cands ...Candidate) string {
	var b strings.Builder
	b.WriteString("<html><body><div id=\"inner_page\">\n")
	for i, c := range cands {
		class := "c_h2"
		if i%2 == 1 {
			class = "c_h2b"
		}
		fmt.Fprintf(&b, `<div class="%s">
  <div><a href="/comment/%d"><img src="/c.png"></a> <a href="%s">%s</a></div>
  <div class="finfo"><b>%s</b> Size: <b>%s</b> Downloads: <b>%s</b> Uploader: <b>%s</b> Added On: <b>%s</b></div>
</div>
`, class, i, c.URL, c.URL, c.Label, c.Size, c.Count, c.Uploader, c.Date)
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

// Site is an httptest server serving fixture pages by path.
type Site struct {
	*httptest.Server

	mu       sync.Mutex
	pages    map[string]string
	status   map[string]int
	requests []*http.Request
}

// NewSite starts a fixture site that is closed when the test ends.
func NewSite(t *testing.T) *Site {
	t.Helper()
	s := &Site{pages: map[string]string{}, status: map[string]int{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Page registers body under path.
func (s *Site) Page(path, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[path] = body
}

// Fail makes path answer with status.
func (s *Site) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[path] = status
}

// Requests returns a copy of the requests received so far.
func (s *Site) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

func (s *Site) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r)
	status, failing := s.status[r.URL.Path]
	body, ok := s.pages[r.URL.Path]
	s.mu.Unlock()

	if failing {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, body)
}
