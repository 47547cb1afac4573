package compiler

import "github.com/reaper-esi/esi2ddl/internal/ir"

// MapType returns the SQL column type for a schema type and format. An empty
// format means the format is absent.
func MapType(typ, format string) (string, error) {
	switch typ {
	case "string":
		switch format {
		case "date":
			return ir.TypeDate, nil
		case "date-time":
			return ir.TypeTimestamp, nil
		case "":
			return ir.TypeVarchar, nil
		}
	case "integer":
		switch format {
		case "int32", "":
			return ir.TypeInteger, nil
		case "int64":
			return ir.TypeBigint, nil
		}
	case "boolean":
		return ir.TypeBoolean, nil
	case "number":
		switch format {
		case "float":
			return ir.TypeFloat, nil
		case "double":
			return ir.TypeDoublePrecision, nil
		}
	case "array":
		// Arrays of scalars are stored as their text rendering.
		return ir.TypeVarchar, nil
	}
	return "", errorf(ErrUnsupportedType, "type %q, format %q", typ, format)
}
