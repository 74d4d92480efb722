package tgaz

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Tool is one entry of the advertised tool catalog.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// Catalog returns the three gazetteer tools with input schemas reflected from the parameter structs.
func Catalog() []Tool {
	return []Tool{
		{
			Name:        ToolPlaceByID,
			Description: "Query historical place details by unique ID. Returns names in every recorded script, the administrative type, the period of validity and geographic information from the China Historical Geographic Information System (CHGIS) gazetteer.",
			InputSchema: inputSchema(PlaceByIDParams{}),
		},
		{
			Name:        ToolSearchPlaces,
			Description: "Search places by name, year, administrative level, etc. At least one filter is required. Years range from -222 to 1911.",
			InputSchema: inputSchema(SearchParams{}),
		},
		{
			Name:        ToolHistoricalContext,
			Description: "Get historical context and hierarchical relationships of a place: historical names, period of validity, parent administrative units and subordinate units.",
			InputSchema: inputSchema(ContextParams{}),
		},
	}
}

func inputSchema(v any) json.RawMessage {
	r := &jsonschema.Reflector{
		Anonymous:                  true,
		ExpandedStruct:             true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  true,
	}
	s := r.Reflect(v)
	s.Version = ""

	raw, err := json.Marshal(s)
	if err != nil {
		panic("tgaz: cannot marshal input schema: " + err.Error())
	}
	return raw
}
