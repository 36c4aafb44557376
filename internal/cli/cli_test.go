package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrsandeep/tokyo-links/internal/models"
	"github.com/vrsandeep/tokyo-links/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, dir string, history bool) string {
	t.Helper()
	content := fmt.Sprintf(`
site:
  base_url: "https://www.example.com"
fetch:
  workers: 2
database:
  path: %q
history:
  enabled: %t
log:
  level: error
`, filepath.Join(dir, "history.db"), history)
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func serveShow(t *testing.T) string {
	t.Helper()
	site := testutil.NewSite(t)
	site.Page("/anime/S/Show", testutil.CatalogPage("Show", map[models.ContentType]int{models.Episode: 2, models.Movie: 1}))
	for _, item := range []struct {
		t models.ContentType
		n int
	}{{models.Episode, 1}, {models.Episode, 2}, {models.Movie, 1}} {
		site.Page(testutil.ItemPath("Show", item.t, item.n), testutil.ItemPage(
			testutil.Candidate{
				Label: fmt.Sprintf("%s %d", item.t, item.n), Size: "700 MB", Count: "12", Uploader: "someone", Date: "05/06/11",
				URL: fmt.Sprintf("https://media.example.com/%s%d.mkv", item.t, item.n),
			},
		))
	}
	return site.URL + "/anime/S/Show"
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tokyo-links version dev\n", out)
}

func TestBuildRequest(t *testing.T) {
	str := func(s string) *string { return &s }
	opts := &fetchOptions{
		url: " https://www.tokyoinsider.com/anime/B/Bleach_(TV) ",
		ranges: map[models.ContentType]*string{
			models.Episode: str("1-12"),
			models.OVA:     str("none"),
			models.Movie:   str("all"),
		},
		metric: "downloads",
		rename: true,
		order:  []string{"movie", "episode"},
	}

	req, err := buildRequest(opts)
	require.NoError(t, err)
	assert.Equal(t, "https://www.tokyoinsider.com/anime/B/Bleach_(TV)", req.CatalogURL)
	assert.Equal(t, models.IndexRange{Start: 1, End: 12}, req.Ranges[models.Episode])
	assert.True(t, req.Ranges[models.OVA].IsNone())
	assert.True(t, req.Ranges[models.Movie].All)
	assert.Equal(t, models.MostDownloaded, req.Metric)
	require.NotNil(t, req.Template)
	assert.Equal(t, "", *req.Template)
	assert.Equal(t, []models.ContentType{models.Movie, models.Episode}, req.TypeOrder)

	opts.ranges[models.Episode] = str("12-1")
	_, err = buildRequest(opts)
	assert.ErrorIs(t, err, models.ErrInvalidRange)

	opts.ranges[models.Episode] = str("1")
	opts.template = "{anime_name}"
	_, err = buildRequest(opts)
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}

func TestFetchWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, true)
	catalogURL := serveShow(t)
	output := filepath.Join(dir, "out", "links.txt")

	_, stderr, err := execute(t, "fetch", "--config", cfgPath, "--url", catalogURL, "--output", output, "--rename")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Saved 3 of 3 links")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"https://media.example.com/episode1.mkv|Show - episode1 [someone].mkv",
		"https://media.example.com/episode2.mkv|Show - episode2 [someone].mkv",
		"https://media.example.com/movie1.mkv|Show - movie1 [someone].mkv",
	}, "\n")+"\n", string(data))

	out, _, err := execute(t, "history", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, catalogURL)
	assert.Contains(t, out, "3/3")

	out, _, err = execute(t, "history", "--config", cfgPath, "--run", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "https://media.example.com/movie1.mkv")
}

func TestFetchToStdout(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, false)
	catalogURL := serveShow(t)

	out, _, err := execute(t, "fetch", "--config", cfgPath, "--url", catalogURL,
		"--episode", "2", "--movie", "none", "--output", "-")
	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com/episode2.mkv\n", out)

	_, _, err = execute(t, "history", "--config", cfgPath)
	assert.Error(t, err)
}

func TestFetchRejectsBadInput(t *testing.T) {
	_, _, err := execute(t, "fetch")
	assert.Error(t, err)

	_, _, err = execute(t, "fetch", "--url", "https://www.tokyoinsider.com/anime/B/Bleach", "--metric", "smallest")
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}
