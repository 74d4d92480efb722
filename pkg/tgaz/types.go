// Package tgaz translates tool calls into requests against the TGAZ historical
// gazetteer (CHGIS) and turns its JSON and XML responses into markdown reports.
//
// The package is pure: it validates parameters, builds request descriptions,
// extracts facts from payloads and renders them. Performing the HTTP call is
// left to the caller.
package tgaz

import (
	"github.com/janisz/chgis-mcp/pkg/common"
)

// Tool names advertised to MCP clients.
const (
	ToolPlaceByID         = "search_place_by_id"
	ToolSearchPlaces      = "search_places"
	ToolHistoricalContext = "get_place_historical_context"
)

// DefaultBaseURL is the public TGAZ endpoint.
const DefaultBaseURL = "http://tgaz.fudan.edu.cn/tgaz"

// DefaultLicense is reported when a place record carries no license of its own.
const DefaultLicense = "CC BY-NC 4.0"

// Format is an upstream output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatHTML Format = "html"
)

// Accept returns the HTTP Accept header value for the format.
func (f Format) Accept() string {
	switch f {
	case FormatXML:
		return "application/xml"
	case FormatHTML:
		return "text/html"
	default:
		return "application/json"
	}
}

// Spelling is one written form of a place name.
type Spelling struct {
	Script      string
	WrittenForm string
}

// FeatureType is the administrative classification of a place.
type FeatureType struct {
	Name          string
	Transcription string
	Translation   string
}

// SpatialInfo describes where a place is. Longitude and Latitude are kept as upstream text.
type SpatialInfo struct {
	CoordinateType  string
	Longitude       string
	Latitude        string
	PresentLocation string
}

// HasCoordinates reports whether both halves of the coordinate pair are present.
func (s SpatialInfo) HasCoordinates() bool {
	return s.Longitude != "" && s.Latitude != ""
}

// PlaceRecord is the content of a place-detail JSON payload.
type PlaceRecord struct {
	SystemID    string
	URI         string
	DataSource  string
	License     string
	Spellings   []Spelling
	FeatureType *FeatureType
	Temporal    common.Range
	Spatial     *SpatialInfo
}

// PlaceSummary is one entry of a search result list.
type PlaceSummary struct {
	Name            string
	SystemID        string
	Transcription   string
	YearsText       string
	FeatureType     string
	ParentName      string
	CoordinatesText string
	DataSource      string
	URI             string
}

// SearchResultSet is the content of a search JSON payload.
type SearchResultSet struct {
	Memo           string
	DisplayedCount string
	TotalCount     string
	Places         []PlaceSummary
}

// ParentRelation is a time-bounded part-of relation to a parent unit.
type ParentRelation struct {
	ParentName string
	Period     common.Period
}

// SubordinateUnit is a time-bounded child administrative unit.
type SubordinateUnit struct {
	Name          string
	Transcription string
	Period        common.Period
}

// HistoricalContext is what the context report is built from.
// SystemID is the identifier the caller asked for, never one read from the payload.
type HistoricalContext struct {
	SystemID     string
	Spellings    []Spelling
	Temporal     common.Range
	Parents      []ParentRelation
	Subordinates []SubordinateUnit
}
