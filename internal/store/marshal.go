package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/sieve/internal/ir"
)

// marshalColumn converts an IRValue to the value stored in a column.
// Arrays and objects are stored as RFC 8785 canonical JSON text.
func marshalColumn(v ir.IRValue) (any, error) {
	switch val := v.(type) {
	case nil, ir.IRNull:
		return nil, nil
	case ir.IRString:
		return string(val), nil
	case ir.IRInt:
		return int64(val), nil
	case ir.IRDecimal:
		return val.Float64(), nil
	case ir.IRBool:
		return bool(val), nil
	case ir.IRTime:
		return val.String(), nil
	case ir.IRArray, ir.IRObject:
		data, err := ir.MarshalCanonical(val)
		if err != nil {
			return nil, fmt.Errorf("marshal column: %w", err)
		}
		return string(data), nil
	default:
		return nil, fmt.Errorf("unsupported IRValue type for column: %T", v)
	}
}

// unmarshalColumn converts a scanned column back to an IRValue.
// Text that holds a JSON array or object decodes to IRArray or IRObject.
func unmarshalColumn(v any) (ir.IRValue, error) {
	switch val := v.(type) {
	case nil:
		return ir.IRNull{}, nil
	case int64:
		return ir.IRInt(val), nil
	case float64:
		return ir.FromGo(val)
	case bool:
		return ir.IRBool(val), nil
	case []byte:
		return unmarshalText(string(val)), nil
	case string:
		return unmarshalText(val), nil
	default:
		return ir.FromGo(val)
	}
}

func unmarshalText(s string) ir.IRValue {
	if len(s) > 1 && (s[0] == '[' || s[0] == '{') && json.Valid([]byte(s)) {
		if decoded, err := ir.UnmarshalIRValue([]byte(s)); err == nil {
			return decoded
		}
	}
	return ir.IRString(s)
}
