package format

import "fmt"

// Kind is the declared element type of a column.
type Kind uint8

const (
	KindBoolean Kind = iota
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindString
	KindBinary
	KindTimestamp
	KindList
	KindMap
	KindStruct
	KindUnion
	KindDecimal
	KindDate
	KindVarchar
	KindChar
)

var kindNames = [...]string{
	KindBoolean:   "boolean",
	KindByte:      "tinyint",
	KindShort:     "smallint",
	KindInt:       "int",
	KindLong:      "bigint",
	KindFloat:     "float",
	KindDouble:    "double",
	KindString:    "string",
	KindBinary:    "binary",
	KindTimestamp: "timestamp",
	KindList:      "array",
	KindMap:       "map",
	KindStruct:    "struct",
	KindUnion:     "uniontype",
	KindDecimal:   "decimal",
	KindDate:      "date",
	KindVarchar:   "varchar",
	KindChar:      "char",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Unknown(%d)", k)
}

// Column identifies a logical column within a stripe. It is immutable for the
// lifetime of the stripe.
type Column struct {
	ID       uint32
	Name     string
	Kind     Kind
	Encoding ColumnEncoding
}

// StreamName formats a (column, kind) pair for error messages and logs.
func (c Column) StreamName(kind StreamKind) string {
	return fmt.Sprintf("column=%d(%s) kind=%s", c.ID, c.Name, kind)
}

func (c Column) String() string {
	return fmt.Sprintf("%s:%s#%d", c.Name, c.Kind, c.ID)
}
