package request

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Number is a float that also decodes from a numeric JSON string such as
// "4.3". Anything else is reported as a type error on the field.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = Number(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			*n = Number(f)
			return nil
		}
	}

	return &json.UnmarshalTypeError{
		Value: jsonKind(data),
		Type:  reflect.TypeOf(float64(0)),
	}
}

// Float returns n as a float64.
func (n Number) Float() float64 {
	return float64(n)
}

func jsonKind(data []byte) string {
	if len(data) == 0 {
		return "value"
	}
	switch data[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "bool"
	default:
		return "number"
	}
}
