package tgaz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// headings parses a report as markdown and returns "level title" for every heading in order.
func headings(t *testing.T, report string) []string {
	t.Helper()
	src := []byte(report)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var out []string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		var title strings.Builder
		for c := h.FirstChild(); c != nil; c = c.NextSibling() {
			if tx, ok := c.(*ast.Text); ok {
				title.Write(tx.Segment.Value(src))
			}
		}
		out = append(out, strings.Repeat("#", h.Level)+" "+title.String())
		return ast.WalkSkipChildren, nil
	})
	require.NoError(t, err)
	return out
}

func TestRenderPlaceDetails(t *testing.T) {
	t.Parallel()

	t.Run("full record", func(t *testing.T) {
		t.Parallel()
		rec, err := ExtractPlaceRecord(readFixture(t, "place_hvd_32180.json"), "hvd_32180")
		require.NoError(t, err)

		expected := "# Place Details\n\n" +
			"**System ID**: hvd_32180\n" +
			"**URI**: http://maps.cga.harvard.edu/tgaz/placename/hvd_32180\n" +
			"**Data Source**: CHGIS\n" +
			"**License**: CC BY-NC 4.0\n\n" +
			"## Place Names\n\n" +
			"- **traditional Chinese**: 杭州府\n" +
			"- **simplified Chinese**: 杭州府\n" +
			"- **Latin**: Hangzhou Fu\n" +
			"- **Unknown script**: 杭州\n\n" +
			"## Administrative Type\n\n" +
			"- **Chinese Name**: 府\n" +
			"- **Pinyin**: fu\n" +
			"- **English Translation**: prefecture\n\n" +
			"## Time Period\n\n" +
			"- **Start Year**: 1368\n" +
			"- **End Year**: 1911\n" +
			"- **Duration**: 543 years\n\n" +
			"## Geographic Information\n\n" +
			"- **Coordinate Type**: POINT\n" +
			"- **Coordinates**: 120.16°E, 30.27°N\n" +
			"- **Present Location**: 浙江省杭州市\n\n"
		assert.Equal(t, expected, RenderPlaceDetails(rec))
	})

	t.Run("sparse record omits empty sections", func(t *testing.T) {
		t.Parallel()
		payload := `{"sys_id":"hvd_1","uri":"http://example.org/hvd_1","system":"CHGIS","spellings":[],"temporal":{"begin":-206,"end":220}}`
		rec, err := ExtractPlaceRecord([]byte(payload), "hvd_1")
		require.NoError(t, err)

		report := RenderPlaceDetails(rec)
		assert.Equal(t, []string{"# Place Details", "## Time Period"}, headings(t, report))
		assert.Contains(t, report, "**License**: CC BY-NC 4.0\n")
		assert.Contains(t, report, "**Data Source**: CHGIS\n")
		assert.Contains(t, report, "- **Duration**: 426 years\n")
		assert.NotContains(t, report, "Place Names")
		assert.NotContains(t, report, "Administrative Type")
	})

	t.Run("coordinates need both halves", func(t *testing.T) {
		t.Parallel()
		report := RenderPlaceDetails(PlaceRecord{
			SystemID: "hvd_1",
			Spatial:  &SpatialInfo{CoordinateType: "POINT", Longitude: "120.1"},
		})
		assert.Contains(t, report, "## Geographic Information\n\n- **Coordinate Type**: POINT\n\n")
		assert.NotContains(t, report, "**Coordinates**")
	})

	t.Run("feature type without translation", func(t *testing.T) {
		t.Parallel()
		report := RenderPlaceDetails(PlaceRecord{
			SystemID:    "hvd_1",
			FeatureType: &FeatureType{Name: "县", Transcription: "xian"},
		})
		assert.Contains(t, report, "## Administrative Type\n\n- **Chinese Name**: 县\n- **Pinyin**: xian\n\n")
		assert.NotContains(t, report, "English Translation")
	})
}

func TestRenderSearchResults(t *testing.T) {
	t.Parallel()

	t.Run("results in upstream order", func(t *testing.T) {
		t.Parallel()
		set, err := ExtractSearchResults(readFixture(t, "search_hangzhou.json"))
		require.NoError(t, err)

		report := RenderSearchResults(set)
		assert.Equal(t, []string{
			"# CHGIS Place Search Results",
			"## Search Results",
			"### 1. 杭州府",
			"### 2. 杭州",
		}, headings(t, report))
		assert.Contains(t, report, "**Query Description**: Results for query: Placename like '杭州'\n")
		assert.Contains(t, report, "**Displayed Results**: 2\n**Total Results**: 3\n\n")
		assert.Contains(t, report, "- **Coordinates**: 120.16, 30.27\n")
		assert.Contains(t, report, "- **Detail Link**: http://maps.cga.harvard.edu/tgaz/placename/hvd_80050\n\n")
		assert.Equal(t, 1, strings.Count(report, "**Coordinates**"))
	})

	t.Run("empty result list", func(t *testing.T) {
		t.Parallel()
		set, err := ExtractSearchResults([]byte(`{"memo":"none","count of displayed results":"0","count of total results":"0","placenames":[]}`))
		require.NoError(t, err)

		report := RenderSearchResults(set)
		_, section, found := strings.Cut(report, "## Search Results\n\n")
		require.True(t, found)
		assert.Equal(t, "No matching place records found.\n", section)
		assert.NotContains(t, report, "###")
	})
}

func TestRenderHistoricalContext(t *testing.T) {
	t.Parallel()

	t.Run("skips parent blocks without a name", func(t *testing.T) {
		t.Parallel()
		payload := `<placename>
  <part-of from="960" to="1127"><parent-name>兩浙路</parent-name></part-of>
  <part-of from="1127" to="1276"><parent-id>hvd_5</parent-id></part-of>
</placename>`
		report := RenderHistoricalContext(ExtractHistoricalContext("hvd_42", []byte(payload)))

		assert.Equal(t, []string{
			"# Place Historical Context",
			"## Historical Administrative Relationships",
			"### 1. 兩浙路",
		}, headings(t, report))
		assert.Contains(t, report, "### 1. 兩浙路\n- **Period**: 960 - 1127\n\n")
		assert.NotContains(t, report, "1276")
	})

	t.Run("duration from begin and end", func(t *testing.T) {
		t.Parallel()
		report := RenderHistoricalContext(ExtractHistoricalContext("hvd_7", []byte("<begin>906</begin><end>1127</end>")))
		assert.Contains(t, report, "## Time Period\n\n- **Start Year**: 906\n- **End Year**: 1127\n- **Duration**: 221 years\n\n")
	})

	t.Run("full document", func(t *testing.T) {
		t.Parallel()
		report := RenderHistoricalContext(ExtractHistoricalContext("hvd_9910", readFixture(t, "context_hvd_9910.xml")))

		expected := "# Place Historical Context\n\n" +
			"**System ID**: hvd_9910\n\n" +
			"## Historical Names\n\n" +
			"- **traditional Chinese**: 臨安府\n" +
			"- **Latin**: Lin'an Fu\n" +
			"- **Unknown script**: 临安府\n\n" +
			"## Time Period\n\n" +
			"- **Start Year**: 906\n" +
			"- **End Year**: 1127\n" +
			"- **Duration**: 221 years\n\n" +
			"## Historical Administrative Relationships\n\n" +
			"### 1. 吳越\n" +
			"- **Period**: 906 - 978\n\n" +
			"### 2. 兩浙路 & 東南\n\n" +
			"## Subordinate Units\n\n" +
			"### 1. 錢塘縣\n" +
			"- **Pinyin**: Qiantang Xian\n" +
			"- **Jurisdiction Period**: 906 - 1127\n\n" +
			"### 2. 仁和縣\n\n" +
			"\n---\n\n" +
			"*Data source: CHGIS (China Historical Geographic Information System)*"
		assert.Equal(t, expected, report)
	})

	t.Run("empty payload keeps header and footer", func(t *testing.T) {
		t.Parallel()
		report := RenderHistoricalContext(ExtractHistoricalContext("hvd_1", nil))
		assert.Equal(t, "# Place Historical Context\n\n**System ID**: hvd_1\n\n\n---\n\n"+attribution, report)
	})
}

func TestRenderRaw(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "# Place Details (XML Format)\n\n```xml\n<placename/>\n```",
		RenderRaw("Place Details", FormatXML, []byte("<placename/>")))
	assert.Equal(t, "# Search Results (HTML Format)\n\n```html\n<p>x</p>\n```",
		RenderRaw("Search Results", FormatHTML, []byte("<p>x</p>")))
}

func TestRenderingIsDeterministic(t *testing.T) {
	t.Parallel()

	place := readFixture(t, "place_hvd_32180.json")
	search := readFixture(t, "search_hangzhou.json")
	context := readFixture(t, "context_hvd_9910.xml")

	render := func() [3]string {
		rec, err := ExtractPlaceRecord(place, "hvd_32180")
		require.NoError(t, err)
		set, err := ExtractSearchResults(search)
		require.NoError(t, err)
		return [3]string{
			RenderPlaceDetails(rec),
			RenderSearchResults(set),
			RenderHistoricalContext(ExtractHistoricalContext("hvd_9910", context)),
		}
	}

	first := render()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, render())
	}
}
