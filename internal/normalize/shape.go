// Package normalize coerces loosely-typed backend fields into canonical shapes.
//
// Every exported normalizer is total: it never panics and always returns a
// usable value. The Parse* variants additionally report a *ShapeError when
// part of the input had to be discarded, so callers can log it.
package normalize

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"partner-sync/internal/model"
)

// ShapeError describes input that did not match any accepted shape.
type ShapeError struct {
	Field string // canonical field name, may be empty for nested values
	Got   string // Go type of the offending value
	Err   error  // underlying decode error, if any
}

func (e *ShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: unexpected %s: %v", e.Field, e.Got, e.Err)
	}
	return fmt.Sprintf("%s: unexpected %s", e.Field, e.Got)
}

// Is lets errors.Is(err, model.ErrMalformedShape) match.
func (e *ShapeError) Is(target error) bool {
	return target == model.ErrMalformedShape
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

func shapeErr(field string, v any, err error) *ShapeError {
	return &ShapeError{Field: field, Got: fmt.Sprintf("%T", v), Err: err}
}

// decodeEmbedded parses JSON-encoded strings. Non-string values are returned
// as-is. A blank string decodes to nil.
func decodeEmbedded(field string, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, shapeErr(field, v, err)
	}
	return out, nil
}

// lookup returns the first present, non-null value among keys.
func lookup(doc map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := doc[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// scalarString renders a scalar as a form string. Objects and arrays yield "".
func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return model.FormatAmount(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// truthy mirrors how flag objects mark a selection: true, non-zero
// numbers and non-empty strings other than "false"/"0"/"no".
func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "false", "0", "no", "off":
			return false
		}
		return true
	default:
		return false
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// isScalarNumeric reports values that can never hold a pricing list:
// numbers, booleans and numeric strings.
func isScalarNumeric(v any) bool {
	switch x := v.(type) {
	case float64, int, int64, json.Number, bool:
		return true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return true
		}
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	default:
		return false
	}
}
