package probe

import (
	"encoding/json"
	"math"
	"regexp"
)

const (
	TypeUnknown   = "unknown"
	TypeText      = "text"
	TypeTimestamp = "timestamp"
	TypeInteger   = "integer"
	TypeDecimal   = "decimal"
	TypeBoolean   = "boolean"
	TypeArray     = "array"
	TypeObject    = "object"
)

var isoTimestamp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)

// InferType guesses a column type from one sample value. A null sample says
// nothing about the column, so it maps to TypeUnknown.
func InferType(v any) string {
	switch val := v.(type) {
	case nil:
		return TypeUnknown
	case string:
		if isoTimestamp.MatchString(val) {
			return TypeTimestamp
		}
		return TypeText
	case json.Number:
		if _, err := val.Int64(); err == nil {
			return TypeInteger
		}
		f, err := val.Float64()
		if err != nil {
			return TypeDecimal
		}
		return numberType(f)
	case float64:
		return numberType(val)
	case bool:
		return TypeBoolean
	case []any:
		return TypeArray
	case map[string]any:
		return TypeObject
	default:
		return TypeUnknown
	}
}

func numberType(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return TypeInteger
	}
	return TypeDecimal
}
