package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/tokyo-links/internal/models"
	"github.com/vrsandeep/tokyo-links/internal/testutil"
)

const base = "https://www.tokyoinsider.com"

func catalogPage() []byte {
	return []byte(testutil.CatalogPage("Bleach_(TV)", map[models.ContentType]int{
		models.Episode: 12,
		models.OVA:     2,
		models.Movie:   4,
	}))
}

func TestExtractIndexOneIsChronologicallyFirst(t *testing.T) {
	descs, err := Extract(catalogPage(), map[models.ContentType]models.IndexRange{
		models.Episode: {Start: 1, End: 2},
	}, base)
	require.NoError(t, err)
	require.Len(t, descs, 2)

	// The page lists episode 12 first; index 1 must still be episode 1.
	assert.Equal(t, models.ItemDescriptor{
		Type:    models.Episode,
		Index:   1,
		Number:  "1",
		PageURL: base + "/anime/B/Bleach_(TV)/episode/1",
	}, descs[0])
	assert.Equal(t, 2, descs[1].Index)
	assert.Equal(t, "2", descs[1].Number)
}

func TestExtractCountMatchesRangeSizes(t *testing.T) {
	ranges := map[models.ContentType]models.IndexRange{
		models.Episode: {Start: 3, End: 10},
		models.OVA:     {},
		models.Movie:   {Start: 2, End: 4},
	}
	descs, err := Extract(catalogPage(), ranges, base)
	require.NoError(t, err)

	want := 0
	for _, r := range ranges {
		want += r.Size()
	}
	assert.Len(t, descs, want)

	// Declared type order, ascending index.
	assert.Equal(t, models.Episode, descs[0].Type)
	assert.Equal(t, 3, descs[0].Index)
	last := descs[len(descs)-1]
	assert.Equal(t, models.Movie, last.Type)
	assert.Equal(t, 4, last.Index)
}

func TestExtractAllRanges(t *testing.T) {
	descs, err := Extract(catalogPage(), map[models.ContentType]models.IndexRange{
		models.Episode: {All: true},
		models.Special: {All: true}, // not on the page
	}, base)
	require.NoError(t, err)
	assert.Len(t, descs, 12)
}

func TestExtractInvalidRange(t *testing.T) {
	for _, rng := range []models.IndexRange{{Start: 10, End: 13}, {Start: 0, End: 2}, {Start: 5, End: 4}} {
		_, err := Extract(catalogPage(), map[models.ContentType]models.IndexRange{models.Episode: rng}, base)
		assert.ErrorIs(t, err, models.ErrInvalidRange, rng.String())
	}

	_, err := Extract(catalogPage(), map[models.ContentType]models.IndexRange{
		models.Special: {Start: 1, End: 1},
	}, base)
	assert.ErrorIs(t, err, models.ErrInvalidRange)
}

func TestExtractMissingMarkers(t *testing.T) {
	_, err := Extract([]byte("<html><body>Not found</body></html>"), map[models.ContentType]models.IndexRange{
		models.Episode: {All: true},
	}, base)
	assert.ErrorIs(t, err, models.ErrParse)
}

func TestDescriptorsCustomOrder(t *testing.T) {
	listing, err := Discover(catalogPage())
	require.NoError(t, err)
	assert.Equal(t, 12, listing.Count(models.Episode))
	assert.Equal(t, 0, listing.Count(models.Special))

	resolved, err := listing.Resolve(map[models.ContentType]models.IndexRange{
		models.Episode: {Start: 1, End: 1},
		models.Movie:   {Start: 1, End: 1},
	})
	require.NoError(t, err)

	descs, err := listing.Descriptors(resolved, []models.ContentType{models.Movie, models.Episode}, base)
	require.NoError(t, err)
	require.Len(t, descs, 2)
	assert.Equal(t, models.Movie, descs[0].Type)
	assert.Equal(t, models.Episode, descs[1].Type)
}

func TestDescriptorsPartialOrderKeepsEveryType(t *testing.T) {
	listing, err := Discover(catalogPage())
	require.NoError(t, err)

	resolved, err := listing.Resolve(map[models.ContentType]models.IndexRange{
		models.Episode: {Start: 1, End: 2},
		models.OVA:     {All: true},
		models.Movie:   {All: true},
	})
	require.NoError(t, err)

	descs, err := listing.Descriptors(resolved, []models.ContentType{models.Movie, models.Episode, models.Movie}, base)
	require.NoError(t, err)

	// 4 movies + 2 episodes + 2 OVAs, each exactly once.
	require.Len(t, descs, 8)
	var types []models.ContentType
	for _, d := range descs {
		if len(types) == 0 || types[len(types)-1] != d.Type {
			types = append(types, d.Type)
		}
	}
	assert.Equal(t, []models.ContentType{models.Movie, models.Episode, models.OVA}, types)
	assert.Equal(t, 1, descs[6].Index)
	assert.Equal(t, 2, descs[7].Index)
}
