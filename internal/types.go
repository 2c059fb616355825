package internal

import (
	"strconv"
	"strings"
)

// DataType is the type tag of a value. The numeric values are part of the
// binary format.
type DataType uint16

// Data types.
const (
	Empty    DataType = 0
	Null     DataType = 1
	Integer  DataType = 2  // int16
	Long     DataType = 3  // int32
	Single   DataType = 4  // float32
	Double   DataType = 5  // float64
	Currency DataType = 6  // int64 scaled by 10000
	Date     DataType = 7  // days since 1899-12-30
	String   DataType = 8
	ObjectT  DataType = 9
	ErrorT   DataType = 10
	Bool     DataType = 11
	Variant  DataType = 12
	Decimal  DataType = 14
	Char     DataType = 16
	Byte     DataType = 17
	UShort   DataType = 18
	ULong    DataType = 19
	Int64    DataType = 20
	UInt64   DataType = 21
)

var typeNames = map[DataType]string{
	Empty:    "Empty",
	Null:     "Null",
	Integer:  "Integer",
	Long:     "Long",
	Single:   "Single",
	Double:   "Double",
	Currency: "Currency",
	Date:     "Date",
	String:   "String",
	ObjectT:  "Object",
	ErrorT:   "Error",
	Bool:     "Boolean",
	Variant:  "Variant",
	Decimal:  "Decimal",
	Char:     "Char",
	Byte:     "Byte",
	UShort:   "UShort",
	ULong:    "ULong",
	Int64:    "Int64",
	UInt64:   "UInt64",
}

func (t DataType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "DataType(" + strconv.Itoa(int(t)) + ")"
}

// valid reports whether t is a known data type.
func (t DataType) valid() bool {
	_, ok := typeNames[t]
	return ok
}

// suffix returns the Basic type-declaration character for t, if it has one.
func (t DataType) suffix() string {
	switch t {
	case Integer:
		return "%"
	case Long:
		return "&"
	case Single:
		return "!"
	case Double:
		return "#"
	case Currency:
		return "@"
	case String:
		return "$"
	}
	return ""
}

// Class is the kind of a variable. It is fixed when the variable is created
// and selects the array of an Object in which the variable lives.
type Class int

// Classes.
const (
	ClassDontCare Class = iota
	ClassArray
	ClassValue
	ClassVariable
	ClassMethod
	ClassProperty
	ClassObject
)

func (c Class) String() string {
	switch c {
	case ClassDontCare:
		return "DontCare"
	case ClassArray:
		return "Array"
	case ClassValue:
		return "Value"
	case ClassVariable:
		return "Variable"
	case ClassMethod:
		return "Method"
	case ClassProperty:
		return "Property"
	case ClassObject:
		return "Object"
	}
	return "Class(" + strconv.Itoa(int(c)) + ")"
}

// Flags is the attribute set of a variable or array. Each flag has its own
// bit.
type Flags uint32

// Flag bits.
const (
	FlagRead Flags = 1 << iota
	FlagWrite
	FlagDontStore
	FlagModified
	FlagFixed
	FlagConst
	FlagOptional
	FlagHidden
	FlagInvisible
	FlagExtSearch
	FlagExtFound
	FlagGlobalSearch
	FlagNoBroadcast
	FlagNoModify
	FlagDimAsNew
	FlagReference
	FlagPrivate

	FlagReadWrite = FlagRead | FlagWrite

	// persistFlags are the flags written into records.
	persistFlags = ^(FlagModified | FlagExtFound)
)

var flagNames = []struct {
	f    Flags
	name string
}{
	{FlagRead, "Read"},
	{FlagWrite, "Write"},
	{FlagDontStore, "DontStore"},
	{FlagModified, "Modified"},
	{FlagFixed, "Fixed"},
	{FlagConst, "Const"},
	{FlagOptional, "Optional"},
	{FlagHidden, "Hidden"},
	{FlagInvisible, "Invisible"},
	{FlagExtSearch, "ExtSearch"},
	{FlagExtFound, "ExtFound"},
	{FlagGlobalSearch, "GlobalSearch"},
	{FlagNoBroadcast, "NoBroadcast"},
	{FlagNoModify, "NoModify"},
	{FlagDimAsNew, "DimAsNew"},
	{FlagReference, "Reference"},
	{FlagPrivate, "Private"},
}

func (f Flags) String() string {
	var b strings.Builder
	for _, n := range flagNames {
		if f&n.f != 0 {
			if b.Len() > 0 {
				b.WriteByte('|')
			}
			b.WriteString(n.name)
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}
