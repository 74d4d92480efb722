package tgaz

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"

	"github.com/janisz/chgis-mcp/pkg/common"
)

const unknownScript = "Unknown script"

// ExtractPlaceRecord reads a place-detail JSON payload.
// Only an unreadable payload is an error; missing fields are left empty.
// requestedID stands in for a missing sys_id.
func ExtractPlaceRecord(data []byte, requestedID string) (PlaceRecord, error) {
	root, err := parseObject(data)
	if err != nil {
		return PlaceRecord{}, err
	}

	rec := PlaceRecord{
		SystemID:   firstString(root, "sys_id"),
		URI:        firstString(root, "uri"),
		DataSource: firstString(root, "data source", "system"),
		License:    firstString(root, "license"),
	}
	if rec.SystemID == "" {
		rec.SystemID = requestedID
	}

	for _, s := range root.Get("spellings").Array() {
		form := firstString(s, "written form", "written-form")
		if form == "" {
			continue
		}
		rec.Spellings = append(rec.Spellings, Spelling{
			Script:      orDefault(firstString(s, "script"), unknownScript),
			WrittenForm: form,
		})
	}

	if ft := root.Get("feature-type"); ft.IsObject() {
		f := FeatureType{
			Name:          firstString(ft, "name"),
			Transcription: firstString(ft, "transcription"),
			Translation:   firstString(ft, "translation"),
		}
		if f != (FeatureType{}) {
			rec.FeatureType = &f
		}
	}

	if t := root.Get("temporal"); t.IsObject() {
		rec.Temporal = common.Range{
			Begin: common.ParseYear(t.Get("begin").String()),
			End:   common.ParseYear(t.Get("end").String()),
		}
	}

	if sp := root.Get("spatial"); sp.IsObject() {
		info := SpatialInfo{
			CoordinateType:  firstString(sp, "object-type"),
			Longitude:       firstString(sp, "degrees-longitude"),
			Latitude:        firstString(sp, "degrees-latitude"),
			PresentLocation: firstString(sp, "present-location"),
		}
		if info != (SpatialInfo{}) {
			rec.Spatial = &info
		}
	}

	return rec, nil
}

// ExtractSearchResults reads a search JSON payload, keeping upstream order.
func ExtractSearchResults(data []byte) (SearchResultSet, error) {
	root, err := parseObject(data)
	if err != nil {
		return SearchResultSet{}, err
	}

	set := SearchResultSet{
		Memo:           firstString(root, "memo"),
		DisplayedCount: firstString(root, "count of displayed results"),
		TotalCount:     firstString(root, "count of total results"),
	}

	for _, p := range root.Get("placenames").Array() {
		if !p.IsObject() {
			continue
		}
		set.Places = append(set.Places, PlaceSummary{
			Name:            firstString(p, "name"),
			SystemID:        firstString(p, "sys_id"),
			Transcription:   firstString(p, "transcription"),
			YearsText:       firstString(p, "years"),
			FeatureType:     firstString(p, "feature type"),
			ParentName:      firstString(p, "parent name"),
			CoordinatesText: firstString(p, "xy coordinates"),
			DataSource:      firstString(p, "data source"),
			URI:             firstString(p, "uri"),
		})
	}

	return set, nil
}

func parseObject(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, errors.Mark(errors.New("failed to parse response: invalid JSON"), ErrMalformedPayload)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return gjson.Result{}, errors.Mark(errors.Newf("failed to parse response: expected a JSON object, got %s", root.Type), ErrMalformedPayload)
	}
	return root, nil
}

// firstString returns the first non-empty value among keys. Key names contain
// spaces and dashes but never gjson path metacharacters.
func firstString(r gjson.Result, keys ...string) string {
	for _, k := range keys {
		v := r.Get(k)
		if !v.Exists() || v.Type == gjson.Null || v.IsObject() || v.IsArray() {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			return s
		}
	}
	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
