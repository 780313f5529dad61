package models

import "strings"

// SchemaType is a canonical (upper-case) column schema type.
type SchemaType string

const (
	TypeNull    SchemaType = "NULL"
	TypeBoolean SchemaType = "BOOLEAN"
	TypeInt     SchemaType = "INT"
	TypeLong    SchemaType = "LONG"
	TypeFloat   SchemaType = "FLOAT"
	TypeDouble  SchemaType = "DOUBLE"
	TypeBytes   SchemaType = "BYTES"
	TypeString  SchemaType = "STRING"
	TypeEnum    SchemaType = "ENUM"
	TypeArray   SchemaType = "ARRAY"
	TypeMap     SchemaType = "MAP"
	TypeRecord  SchemaType = "RECORD"
	TypeUnion   SchemaType = "UNION"
)

var schemaTypes = map[SchemaType]struct{}{
	TypeNull: {}, TypeBoolean: {}, TypeInt: {}, TypeLong: {}, TypeFloat: {},
	TypeDouble: {}, TypeBytes: {}, TypeString: {}, TypeEnum: {}, TypeArray: {},
	TypeMap: {}, TypeRecord: {}, TypeUnion: {},
}

// ParseType resolves raw case-insensitively. Surrounding whitespace is ignored.
func ParseType(raw string) (SchemaType, bool) {
	t := SchemaType(strings.ToUpper(strings.TrimSpace(raw)))
	_, ok := schemaTypes[t]
	return t, ok
}

// SameType compares two raw type names case-insensitively.
func SameType(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
