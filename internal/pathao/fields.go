package pathao

import (
	"strconv"
)

// Pathao is loose with scalar types: ids come as numbers or strings, flags as
// numbers or bools. These helpers read a decoded JSON object without failing.

// numberField reads a numeric field sent as a number, a numeric string or a bool.
func numberField(data map[string]any, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// stringField reads a field sent as a string or a number. null and anything else read as "".
func stringField(data map[string]any, key string) string {
	switch v := data[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}
