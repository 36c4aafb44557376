package aggregate

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/tokyo-links/internal/models"
)

const site = "https://www.tokyoinsider.com/anime/B/Bleach_(TV)"

func success(t models.ContentType, n int) models.ItemOutcome {
	d := models.ItemDescriptor{Type: t, Index: n, Number: fmt.Sprint(n), PageURL: fmt.Sprintf("%s/%s/%d", site, t, n)}
	return models.Success(d, models.CandidateEntry{
		DownloadURL: fmt.Sprintf("https://media.tokyoinsider.com:8080/%s_%d.mkv", t, n),
		Uploader:    "uploader",
		RawSize:     "200.02 MB",
		RawDate:     "09/13/11",
	})
}

func failure(t models.ContentType, n int) models.ItemOutcome {
	d := models.ItemDescriptor{Type: t, Index: n, PageURL: fmt.Sprintf("%s/%s/%d", site, t, n)}
	return models.Failure(d, models.FailureFetch, models.ErrFetch)
}

func sampleOutcomes() []models.ItemOutcome {
	return []models.ItemOutcome{
		success(models.Movie, 1),
		success(models.Episode, 10),
		failure(models.Episode, 3),
		success(models.Episode, 2),
		success(models.OVA, 1),
		success(models.Episode, 1),
		success(models.Special, 2),
		success(models.Special, 1),
	}
}

func TestAggregateOrder(t *testing.T) {
	lines := Aggregate(sampleOutcomes(), models.SelectionRequest{})

	var got []string
	for _, l := range lines {
		got = append(got, l.URL[strings.LastIndex(l.URL, "/")+1:])
	}
	assert.Equal(t, []string{
		"episode_1.mkv", "episode_2.mkv", "episode_10.mkv",
		"ova_1.mkv", "special_1.mkv", "special_2.mkv", "movie_1.mkv",
	}, got)
}

func TestAggregateCustomTypeOrder(t *testing.T) {
	lines := Aggregate(sampleOutcomes(), models.SelectionRequest{
		TypeOrder: []models.ContentType{models.Movie, models.Episode},
	})
	require.Len(t, lines, 7)
	assert.Contains(t, lines[0].URL, "movie_1")
	assert.Contains(t, lines[1].URL, "episode_1")
	// Types outside the order follow it.
	assert.Contains(t, lines[4].URL, "ova_1")
	assert.Contains(t, lines[6].URL, "special_2")
}

func TestAggregateShuffleInvariant(t *testing.T) {
	tmpl := ""
	req := models.SelectionRequest{
		Template: &tmpl,
		Ranges:   map[models.ContentType]models.IndexRange{models.Episode: {Start: 1, End: 10}},
	}
	want := Aggregate(sampleOutcomes(), req)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := sampleOutcomes()
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, Aggregate(shuffled, req))
	}
}

func TestAggregateDropsFailures(t *testing.T) {
	outcomes := sampleOutcomes()
	lines := Aggregate(outcomes, models.SelectionRequest{})
	assert.LessOrEqual(t, len(lines), len(outcomes))
	assert.Len(t, lines, len(outcomes)-1)
	for _, l := range lines {
		assert.NotContains(t, l.URL, "episode_3")
	}
}

func TestAggregateBareURLs(t *testing.T) {
	lines := Aggregate([]models.ItemOutcome{success(models.Episode, 1)}, models.SelectionRequest{})
	require.Len(t, lines, 1)
	assert.Equal(t, "https://media.tokyoinsider.com:8080/episode_1.mkv", lines[0].String())
}

func TestAggregateDefaultTemplate(t *testing.T) {
	tmpl := ""
	req := models.SelectionRequest{
		Template: &tmpl,
		Ranges:   map[models.ContentType]models.IndexRange{models.Episode: {Start: 1, End: 120}},
	}
	lines := Aggregate([]models.ItemOutcome{success(models.Episode, 7)}, req)
	require.Len(t, lines, 1)
	assert.Equal(t, "Bleach_(TV) - episode007 [uploader].mkv", lines[0].Filename)
}

func TestAggregateCustomTemplate(t *testing.T) {
	tmpl := "{anime_name} {type} {episode_number} {size} {uploader} {upload_date}"
	req := models.SelectionRequest{
		Template: &tmpl,
		Ranges:   map[models.ContentType]models.IndexRange{models.OVA: {Start: 1, End: 2}},
	}
	lines := Aggregate([]models.ItemOutcome{success(models.OVA, 2)}, req)
	require.Len(t, lines, 1)
	assert.Equal(t, "Bleach_(TV) ova 2 200.02 MB uploader 09-13-11.mkv", lines[0].Filename)
}

func TestRenderedLineRoundTrip(t *testing.T) {
	tmpl := "{anime_name} | {type}{episode_number} [{uploader}]"
	req := models.SelectionRequest{Template: &tmpl}
	o := success(models.Episode, 3)
	o.Selected.Uploader = "a|b"

	lines := Aggregate([]models.ItemOutcome{o}, req)
	require.Len(t, lines, 1)

	parsed := models.ParseOutputLine(lines[0].String())
	assert.Equal(t, o.Selected.DownloadURL, parsed.URL)
	assert.Equal(t, lines[0].Filename, parsed.Filename)
	assert.NotContains(t, parsed.Filename, "|")
}

func TestPadWidthFallsBackToSeenIndexes(t *testing.T) {
	tmpl := "{episode_number}"
	req := models.SelectionRequest{Template: &tmpl}
	lines := Aggregate([]models.ItemOutcome{success(models.Episode, 3), success(models.Episode, 12)}, req)
	require.Len(t, lines, 2)
	assert.Equal(t, "03.mkv", lines[0].Filename)
	assert.Equal(t, "12.mkv", lines[1].Filename)
}

func TestPadNumber(t *testing.T) {
	assert.Equal(t, "007", padNumber("7", 3))
	assert.Equal(t, "012.5", padNumber("12.5", 3))
	assert.Equal(t, "1234", padNumber("1234", 2))
	assert.Equal(t, "SP", padNumber("SP", 3))
}

func TestWriteLines(t *testing.T) {
	var buf bytes.Buffer
	err := WriteLines(&buf, []models.OutputLine{
		{URL: "https://a/1.mkv"},
		{URL: "https://a/2.mkv", Filename: "two.mkv"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://a/1.mkv\nhttps://a/2.mkv|two.mkv\n", buf.String())
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleOutcomes())
	assert.Equal(t, 8, s.Total)
	assert.Equal(t, 7, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.ByReason[models.FailureFetch])
	require.Len(t, s.Failures, 1)
	assert.Equal(t, 3, s.Failures[0].Descriptor.Index)
}
