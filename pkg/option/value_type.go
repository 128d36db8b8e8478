package option

import "strings"

// ValueType tags the declared type of an option's value. It only drives typed
// retrieval from ParsedOptions, never the parsing itself.
type ValueType string

const (
	StringType  ValueType = "string"
	IntType     ValueType = "int"
	LongType    ValueType = "long"
	FloatType   ValueType = "float"
	DoubleType  ValueType = "double"
	BooleanType ValueType = "boolean"
	FileType    ValueType = "file"
)

// ResolveValueType maps a type alias to a ValueType. Unknown aliases resolve to String.
func ResolveValueType(alias string) ValueType {
	switch strings.ToLower(strings.TrimSpace(alias)) {
	case "int", "integer":
		return IntType
	case "long", "int64":
		return LongType
	case "float", "float32":
		return FloatType
	case "double", "float64":
		return DoubleType
	case "bool", "boolean":
		return BooleanType
	case "file", "path":
		return FileType
	default:
		return StringType
	}
}

func (t ValueType) String() string {
	return string(t)
}
