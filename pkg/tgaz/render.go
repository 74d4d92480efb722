package tgaz

import (
	"fmt"
	"strings"
)

const attribution = "*Data source: CHGIS (China Historical Geographic Information System)*"

// RenderPlaceDetails renders the place-detail report. Sections without data are omitted.
func RenderPlaceDetails(rec PlaceRecord) string {
	var b strings.Builder

	b.WriteString("# Place Details\n\n")
	fmt.Fprintf(&b, "**System ID**: %s\n", rec.SystemID)
	fmt.Fprintf(&b, "**URI**: %s\n", rec.URI)
	fmt.Fprintf(&b, "**Data Source**: %s\n", orDefault(rec.DataSource, "Unknown"))
	fmt.Fprintf(&b, "**License**: %s\n\n", orDefault(rec.License, DefaultLicense))

	if len(rec.Spellings) > 0 {
		b.WriteString("## Place Names\n\n")
		writeSpellings(&b, rec.Spellings)
		b.WriteString("\n")
	}

	if ft := rec.FeatureType; ft != nil {
		b.WriteString("## Administrative Type\n\n")
		writeField(&b, "Chinese Name", ft.Name)
		writeField(&b, "Pinyin", ft.Transcription)
		writeField(&b, "English Translation", ft.Translation)
		b.WriteString("\n")
	}

	if rec.Temporal.Complete() {
		writeTimePeriod(&b, rec.Temporal.Begin.String(), rec.Temporal.End.String(), rec.Temporal.Duration())
	}

	if sp := rec.Spatial; sp != nil {
		b.WriteString("## Geographic Information\n\n")
		writeField(&b, "Coordinate Type", sp.CoordinateType)
		if sp.HasCoordinates() {
			fmt.Fprintf(&b, "- **Coordinates**: %s°E, %s°N\n", sp.Longitude, sp.Latitude)
		}
		writeField(&b, "Present Location", sp.PresentLocation)
		b.WriteString("\n")
	}

	return b.String()
}

// RenderSearchResults renders the search-result-list report in upstream order.
func RenderSearchResults(set SearchResultSet) string {
	var b strings.Builder

	b.WriteString("# CHGIS Place Search Results\n\n")
	fmt.Fprintf(&b, "**Query Description**: %s\n", set.Memo)
	fmt.Fprintf(&b, "**Displayed Results**: %s\n", set.DisplayedCount)
	fmt.Fprintf(&b, "**Total Results**: %s\n\n", set.TotalCount)

	b.WriteString("## Search Results\n\n")
	if len(set.Places) == 0 {
		b.WriteString("No matching place records found.\n")
		return b.String()
	}

	for i, p := range set.Places {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, p.Name)
		fmt.Fprintf(&b, "- **System ID**: %s\n", p.SystemID)
		fmt.Fprintf(&b, "- **Pinyin**: %s\n", p.Transcription)
		fmt.Fprintf(&b, "- **Years**: %s\n", p.YearsText)
		fmt.Fprintf(&b, "- **Feature Type**: %s\n", p.FeatureType)
		fmt.Fprintf(&b, "- **Parent Unit**: %s\n", p.ParentName)
		writeField(&b, "Coordinates", p.CoordinatesText)
		fmt.Fprintf(&b, "- **Data Source**: %s\n", p.DataSource)
		fmt.Fprintf(&b, "- **Detail Link**: %s\n\n", p.URI)
	}

	return b.String()
}

// RenderHistoricalContext renders the historical-context report followed by the attribution footer.
func RenderHistoricalContext(hc HistoricalContext) string {
	var b strings.Builder

	b.WriteString("# Place Historical Context\n\n")
	fmt.Fprintf(&b, "**System ID**: %s\n\n", hc.SystemID)

	if len(hc.Spellings) > 0 {
		b.WriteString("## Historical Names\n\n")
		writeSpellings(&b, hc.Spellings)
		b.WriteString("\n")
	}

	if hc.Temporal.Complete() {
		writeTimePeriod(&b, hc.Temporal.Begin.String(), hc.Temporal.End.String(), hc.Temporal.Duration())
	}

	if len(hc.Parents) > 0 {
		b.WriteString("## Historical Administrative Relationships\n\n")
		for i, p := range hc.Parents {
			fmt.Fprintf(&b, "### %d. %s\n", i+1, p.ParentName)
			if p.Period.Complete() {
				fmt.Fprintf(&b, "- **Period**: %s\n", p.Period)
			}
			b.WriteString("\n")
		}
	}

	if len(hc.Subordinates) > 0 {
		b.WriteString("## Subordinate Units\n\n")
		for i, u := range hc.Subordinates {
			fmt.Fprintf(&b, "### %d. %s\n", i+1, u.Name)
			writeField(&b, "Pinyin", u.Transcription)
			if u.Period.Complete() {
				fmt.Fprintf(&b, "- **Jurisdiction Period**: %s\n", u.Period)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n---\n\n")
	b.WriteString(attribution)
	return b.String()
}

// RenderRaw embeds an upstream payload verbatim in a fenced block labeled with its format.
func RenderRaw(title string, format Format, payload []byte) string {
	return fmt.Sprintf("# %s (%s Format)\n\n```%s\n%s\n```",
		title, strings.ToUpper(string(format)), format, payload)
}

func writeSpellings(b *strings.Builder, spellings []Spelling) {
	for _, s := range spellings {
		fmt.Fprintf(b, "- **%s**: %s\n", s.Script, s.WrittenForm)
	}
}

func writeTimePeriod(b *strings.Builder, begin, end string, duration int) {
	b.WriteString("## Time Period\n\n")
	fmt.Fprintf(b, "- **Start Year**: %s\n", begin)
	fmt.Fprintf(b, "- **End Year**: %s\n", end)
	fmt.Fprintf(b, "- **Duration**: %d years\n\n", duration)
}

// writeField writes a bullet only when value is present.
func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "- **%s**: %s\n", label, value)
}
