package tgaz

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// Historical calendar bounds accepted by the search endpoint.
const (
	MinYear = -222
	MaxYear = 1911
)

var placeIDPattern = regexp.MustCompile(`^hvd_\d+$`)

// PlaceByIDParams are the arguments of search_place_by_id.
type PlaceByIDParams struct {
	ID     string `json:"id" validate:"required,placeid" jsonschema:"required,pattern=^hvd_\\d+$,description=Place unique ID (format: hvd_numbers e.g. hvd_32180)"`
	Format Format `json:"format,omitempty" validate:"oneof=json xml" jsonschema:"enum=json,enum=xml,default=json,description=Return data format"`
}

// SearchParams are the arguments of search_places.
type SearchParams struct {
	Name        string `json:"name,omitempty" jsonschema:"description=Place name (supports Chinese and Pinyin)"`
	Year        *int   `json:"year,omitempty" validate:"omitempty,min=-222,max=1911" jsonschema:"minimum=-222,maximum=1911,description=Historical year (range: -222 to 1911)"`
	FeatureType string `json:"feature_type,omitempty" jsonschema:"description=Administrative level type (e.g. zhou or xian or fu)"`
	Parent      string `json:"parent,omitempty" jsonschema:"description=Parent place or administrative division"`
	Source      string `json:"source,omitempty" validate:"omitempty,oneof=CHGIS RAS" jsonschema:"enum=CHGIS,enum=RAS,description=Data source (CHGIS or RAS)"`
	Format      Format `json:"format,omitempty" validate:"oneof=json xml html" jsonschema:"enum=json,enum=xml,enum=html,default=json,description=Return data format"`
}

// HasFilter reports whether at least one search criterion is set.
func (p SearchParams) HasFilter() bool {
	return p.Name != "" || p.Year != nil || p.FeatureType != "" || p.Parent != "" || p.Source != ""
}

// ContextParams are the arguments of get_place_historical_context.
// The upstream format is always xml and is not exposed to callers.
type ContextParams struct {
	ID string `json:"id" validate:"required,placeid" jsonschema:"required,pattern=^hvd_\\d+$,description=Place unique ID (format: hvd_numbers)"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("placeid", func(fl validator.FieldLevel) bool {
		return placeIDPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ParsePlaceByID normalizes and validates search_place_by_id arguments.
func ParsePlaceByID(args map[string]any) (PlaceByIDParams, error) {
	var p PlaceByIDParams

	id, err := stringArg(args, "id")
	if err != nil {
		return p, err
	}
	format, err := stringArg(args, "format")
	if err != nil {
		return p, err
	}

	p.ID = strings.TrimSpace(id)
	p.Format = normalizeFormat(format)
	if err := validate.Struct(p); err != nil {
		return p, describeValidation(err, nil)
	}
	return p, nil
}

// ParseSearch normalizes and validates search_places arguments.
// A search without any filter is rejected: there is no implicit "list all" query.
func ParseSearch(args map[string]any) (SearchParams, error) {
	var p SearchParams

	fields := []struct {
		key    string
		target *string
	}{
		{"name", &p.Name},
		{"feature_type", &p.FeatureType},
		{"parent", &p.Parent},
		{"source", &p.Source},
	}
	for _, f := range fields {
		v, err := stringArg(args, f.key)
		if err != nil {
			return p, err
		}
		*f.target = strings.TrimSpace(v)
	}
	p.Source = strings.ToUpper(p.Source)

	year, err := yearArg(args, "year")
	if err != nil {
		return p, err
	}
	p.Year = year

	format, err := stringArg(args, "format")
	if err != nil {
		return p, err
	}
	p.Format = normalizeFormat(format)

	if !p.HasFilter() {
		return p, invalidParamsf("At least one search parameter must be provided (name, year, feature_type, parent or source)")
	}
	if err := validate.Struct(p); err != nil {
		return p, describeValidation(err, p.Year)
	}
	return p, nil
}

// ParseContext validates get_place_historical_context arguments.
// Any format argument is ignored.
func ParseContext(args map[string]any) (ContextParams, error) {
	var p ContextParams

	id, err := stringArg(args, "id")
	if err != nil {
		return p, err
	}
	p.ID = strings.TrimSpace(id)
	if err := validate.Struct(p); err != nil {
		return p, describeValidation(err, nil)
	}
	return p, nil
}

func normalizeFormat(s string) Format {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatJSON
	}
	return Format(s)
}

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", invalidParamsf("Parameter '%s' must be a string", key)
	}
	return s, nil
}

func yearArg(args map[string]any, key string) (*int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}

	switch n := v.(type) {
	case bool:
		return nil, invalidParamsf("Parameter '%s' must be an integer", key)
	case string:
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, nil
		}
		// Decimal only: "0100" is not octal and "0x7B" is not a year.
		year, err := strconv.Atoi(n)
		if err != nil {
			return nil, invalidParamsf("Parameter '%s' must be an integer", key)
		}
		return &year, nil
	case float64:
		if n != math.Trunc(n) {
			return nil, invalidParamsf("Parameter '%s' must be an integer, got %v", key, n)
		}
	}

	year, err := cast.ToIntE(v)
	if err != nil {
		return nil, invalidParamsf("Parameter '%s' must be an integer", key)
	}
	return &year, nil
}

func describeValidation(err error, year *int) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Mark(errors.Wrap(err, "invalid parameters"), ErrInvalidParams)
	}

	fe := verrs[0]
	switch fe.Field() {
	case "id":
		if fe.Tag() == "required" {
			return invalidParamsf("Missing required parameter 'id'. Expected format: hvd_numbers (e.g., hvd_32180)")
		}
		return invalidParamsf("Invalid ID format. Expected format: hvd_numbers (e.g., hvd_32180)")
	case "year":
		got := ""
		if year != nil {
			got = fmt.Sprintf(", got %d", *year)
		}
		return invalidParamsf("Year out of range: expected a value between %d and %d%s", MinYear, MaxYear, got)
	case "format", "source":
		return invalidParamsf("Unsupported %s %q. Expected one of: %s",
			fe.Field(), fmt.Sprint(fe.Value()), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return invalidParamsf("Invalid parameter '%s': failed %s check", fe.Field(), fe.Tag())
	}
}
