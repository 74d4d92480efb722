package tgaz

import (
	"html"
	"regexp"
	"strings"

	"github.com/janisz/chgis-mcp/pkg/common"
)

// The XML payload is scanned as text. Each pass is independent, keeps document
// order and yields nothing when it finds no match.
var (
	writtenFormRe     = regexp.MustCompile(`<written-form(\s[^>]*)?>([^<]+)</written-form>`)
	scriptAttrRe      = regexp.MustCompile(`\sscript="([^"]+)"`)
	beginRe           = regexp.MustCompile(`<begin>([^<]+)</begin>`)
	endRe             = regexp.MustCompile(`<end>([^<]+)</end>`)
	partOfRe          = regexp.MustCompile(`(?s)<part-of(?:\s[^>]*)?>.*?</part-of>`)
	parentNameRe      = regexp.MustCompile(`<parent-name>([^<]+)</parent-name>`)
	subordinateRe     = regexp.MustCompile(`(?s)<subordinate-unit(?:\s[^>]*)?>.*?</subordinate-unit>`)
	nameRe            = regexp.MustCompile(`<name>([^<]+)</name>`)
	transcribedNameRe = regexp.MustCompile(`<transcribed-name>([^<]+)</transcribed-name>`)
	fromAttrRe        = regexp.MustCompile(`\sfrom="([^"]+)"`)
	toAttrRe          = regexp.MustCompile(`\sto="([^"]+)"`)
)

// ExtractHistoricalContext scans a place XML payload. It never fails:
// malformed or unexpected markup only shrinks the result.
func ExtractHistoricalContext(id string, payload []byte) HistoricalContext {
	doc := string(payload)
	return HistoricalContext{
		SystemID:     id,
		Spellings:    scanSpellings(doc),
		Temporal:     scanTemporal(doc),
		Parents:      scanParents(doc),
		Subordinates: scanSubordinates(doc),
	}
}

func scanSpellings(doc string) []Spelling {
	var out []Spelling
	for _, m := range writtenFormRe.FindAllStringSubmatch(doc, -1) {
		form := cleanText(m[2])
		if form == "" {
			continue
		}
		out = append(out, Spelling{
			Script:      orDefault(capture(scriptAttrRe, m[1]), unknownScript),
			WrittenForm: form,
		})
	}
	return out
}

func scanTemporal(doc string) common.Range {
	return common.Range{
		Begin: common.ParseYear(capture(beginRe, doc)),
		End:   common.ParseYear(capture(endRe, doc)),
	}
}

func scanParents(doc string) []ParentRelation {
	var out []ParentRelation
	for _, block := range partOfRe.FindAllString(doc, -1) {
		name := capture(parentNameRe, block)
		if name == "" {
			continue
		}
		out = append(out, ParentRelation{
			ParentName: name,
			Period:     scanPeriod(block),
		})
	}
	return out
}

func scanSubordinates(doc string) []SubordinateUnit {
	var out []SubordinateUnit
	for _, block := range subordinateRe.FindAllString(doc, -1) {
		name := capture(nameRe, block)
		if name == "" {
			continue
		}
		out = append(out, SubordinateUnit{
			Name:          name,
			Transcription: capture(transcribedNameRe, block),
			Period:        scanPeriod(block),
		})
	}
	return out
}

func scanPeriod(block string) common.Period {
	return common.Period{
		From: capture(fromAttrRe, block),
		To:   capture(toAttrRe, block),
	}
}

// capture returns the first submatch of re in s, unescaped and trimmed.
func capture(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return cleanText(m[1])
}

func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}
