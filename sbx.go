/*
Package sbx implements an embeddable runtime of named, dynamically typed
variables and the objects that contain them, in the manner of the object
model behind classic Basic dialects.

Everything the runtime manipulates is a variable. A Variable is a named cell
holding a Value of some DataType, plus flags that govern how it may be read,
written, stored, and found. Methods and Properties are variables whose values
are supplied by the object holding them. An Object is a variable that
contains three arrays of members: methods, properties, and sub-objects.

Objects listen to their members. Reading a variable broadcasts a DataWanted
hint to its listeners before the value is returned, and writing it
broadcasts DataChanged afterward. This is how an object computes the values
of its properties and runs its methods: calling a method is reading it.

	root := sbx.NewObject("Root")
	total := root.Make("Total", sbx.ClassMethod, sbx.Integer, false)
	sbx.StartListening(myImpl, sbx.Base(total).Broadcaster(), sbx.DuplicatePrevent)
	if err := root.Call("Total", nil); err != nil {
		// no such method
	}

Every object has two live pseudo-properties, Name and Parent, whose
identifiers are localized through the name table. Reading Name yields the
object's name, and writing it renames the object. Reading Parent yields the
object that contains it.

Member names are case-insensitive. Find looks a name up in an object's own
arrays, then in sub-objects that take part in extended search, then, if the
object has the GlobalSearch flag, in each of its ancestors. FindQualified
resolves dotted paths such as "Sub.Item".

Objects and their members persist through Store and Load, which write and
read a little-endian record format. Record kinds beyond the built-in ones are
created by factories registered with RegisterFactory; the coreext/collection
package registers the Collection object this way.

Errors are returned as values and also recorded in a process-wide error slot,
which keeps the first error until ResetError.
*/
package sbx

import (
	"io"
	"log/slog"

	"github.com/zephyrtronium/sbx/internal"
	"golang.org/x/text/language"
)

// Var is any variable of the runtime.
type Var = internal.Var

// Variable is a named, typed, reference-counted value cell.
//
// Always use NewVariable or the constructor of a specialization to obtain
// variables.
type Variable = internal.Variable

// Method is a variable whose value is produced on demand by the object that
// holds it.
type Method = internal.Method

// Property is a variable whose value is computed or consumed by the object
// that holds it.
type Property = internal.Property

// Object is a variable that contains methods, properties, and sub-objects.
//
// Always use NewObject or a factory to obtain new objects. Creating objects
// directly will result in arbitrary failures.
type Object = internal.Object

// Array is an indexed sequence of variables.
type Array = internal.Array

// Value is a typed payload.
type Value = internal.Value

// DataType identifies the type of a Value.
type DataType = internal.DataType

// Class is the kind of a variable.
type Class = internal.Class

// Flags is the attribute set of a variable or array.
type Flags = internal.Flags

// Info is descriptive metadata attached to a variable.
type Info = internal.Info

// ParamInfo describes one parameter of a method.
type ParamInfo = internal.ParamInfo

// Broadcaster is the notification endpoint of a variable.
type Broadcaster = internal.Broadcaster

// Listener receives notifications from broadcasters.
type Listener = internal.Listener

// Hint is a notification about a variable.
type Hint = internal.Hint

// HintID identifies the kind of a Hint.
type HintID = internal.HintID

// DuplicatePolicy decides whether a listener may register more than once.
type DuplicatePolicy = internal.DuplicatePolicy

// Factory creates variables for records and objects for classes.
type Factory = internal.Factory

// Stream reads and writes the binary record format.
type Stream = internal.Stream

// MemBuffer is an in-memory io.ReadWriteSeeker.
type MemBuffer = internal.MemBuffer

// ErrCode is a runtime error code.
type ErrCode = internal.ErrCode

// Error is a runtime error with the text it concerns.
type Error = internal.Error

// NameTable holds the localized pseudo-property identifiers.
type NameTable = internal.NameTable

// Config holds the tunable settings of the runtime.
type Config = internal.Config

// Data types.
const (
	Empty    = internal.Empty
	Null     = internal.Null
	Integer  = internal.Integer
	Long     = internal.Long
	Single   = internal.Single
	Double   = internal.Double
	Currency = internal.Currency
	Date     = internal.Date
	String   = internal.String
	ObjectT  = internal.ObjectT
	ErrorT   = internal.ErrorT
	Bool     = internal.Bool
	Variant  = internal.Variant
	Decimal  = internal.Decimal
	Char     = internal.Char
	Byte     = internal.Byte
	UShort   = internal.UShort
	ULong    = internal.ULong
	Int64    = internal.Int64
	UInt64   = internal.UInt64
)

// Classes.
const (
	ClassDontCare = internal.ClassDontCare
	ClassArray    = internal.ClassArray
	ClassValue    = internal.ClassValue
	ClassVariable = internal.ClassVariable
	ClassMethod   = internal.ClassMethod
	ClassProperty = internal.ClassProperty
	ClassObject   = internal.ClassObject
)

// Flags.
const (
	FlagRead         = internal.FlagRead
	FlagWrite        = internal.FlagWrite
	FlagReadWrite    = internal.FlagReadWrite
	FlagDontStore    = internal.FlagDontStore
	FlagModified     = internal.FlagModified
	FlagFixed        = internal.FlagFixed
	FlagConst        = internal.FlagConst
	FlagOptional     = internal.FlagOptional
	FlagHidden       = internal.FlagHidden
	FlagInvisible    = internal.FlagInvisible
	FlagExtSearch    = internal.FlagExtSearch
	FlagExtFound     = internal.FlagExtFound
	FlagGlobalSearch = internal.FlagGlobalSearch
	FlagNoBroadcast  = internal.FlagNoBroadcast
	FlagNoModify     = internal.FlagNoModify
	FlagDimAsNew     = internal.FlagDimAsNew
	FlagReference    = internal.FlagReference
	FlagPrivate      = internal.FlagPrivate
)

// Hints.
const (
	HintDataWanted  = internal.HintDataWanted
	HintDataChanged = internal.HintDataChanged
	HintDying       = internal.HintDying
)

// Duplicate policies.
const (
	DuplicatePrevent = internal.DuplicatePrevent
	DuplicateAllow   = internal.DuplicateAllow
)

// Error codes.
const (
	ErrNone          = internal.ErrNone
	ErrSyntax        = internal.ErrSyntax
	ErrNoMethod      = internal.ErrNoMethod
	ErrPropReadOnly  = internal.ErrPropReadOnly
	ErrPropWriteOnly = internal.ErrPropWriteOnly
	ErrConversion    = internal.ErrConversion
	ErrOverflow      = internal.ErrOverflow
	ErrBadFormat     = internal.ErrBadFormat
	ErrNoObject      = internal.ErrNoObject
	ErrBadArgument   = internal.ErrBadArgument
	ErrWrongArgs     = internal.ErrWrongArgs
	ErrBadIndex      = internal.ErrBadIndex
)

// Record creator and ids of the built-in kinds.
const (
	CreatorSBX = internal.CreatorSBX
	IDVariable = internal.IDVariable
	IDMethod   = internal.IDMethod
	IDProperty = internal.IDProperty
	IDObject   = internal.IDObject
)

// NewVariable creates a plain variable. Any type other than Variant makes
// the variable Fixed to that type.
func NewVariable(name string, t DataType) *Variable {
	return internal.NewVariable(name, t)
}

// NewMethod creates a method returning t.
func NewMethod(name string, t DataType, runtime bool) *Method {
	return internal.NewMethod(name, t, runtime)
}

// NewProperty creates a property of type t.
func NewProperty(name string, t DataType) *Property {
	return internal.NewProperty(name, t)
}

// NewObject creates an object of the given class.
func NewObject(class string) *Object {
	return internal.NewObject(class)
}

// NewArray creates an empty array.
func NewArray() *Array {
	return internal.NewArray()
}

// Base returns the Variable underlying v.
func Base(v Var) *Variable {
	return internal.Base(v)
}

// AsObject returns the Object underlying v, or nil.
func AsObject(v Var) *Object {
	return internal.AsObject(v)
}

// StartListening registers l with b.
func StartListening(l Listener, b *Broadcaster, p DuplicatePolicy) {
	internal.StartListening(l, b, p)
}

// EndListening removes registrations of l from b.
func EndListening(l Listener, b *Broadcaster, all bool) {
	internal.EndListening(l, b, all)
}

// RegisterFactory registers a factory. It must be called before any object
// is created, typically from an init func.
func RegisterFactory(f Factory) {
	internal.RegisterFactory(f)
}

// CreateObject returns a new object of the given class from the registered
// factories.
func CreateObject(class string) Var {
	return internal.CreateObject(class)
}

// NewStream creates a stream over rw.
func NewStream(rw io.ReadWriteSeeker) *Stream {
	return internal.NewStream(rw)
}

// NewMemStream creates a stream over an in-memory buffer initialized with b.
func NewMemStream(b []byte) (*Stream, *MemBuffer) {
	return internal.NewMemStream(b)
}

// Store writes v as a record.
func Store(s *Stream, v Var) error {
	return internal.Store(s, v)
}

// Load reads a record and returns the variable it describes.
func Load(s *Stream) (Var, error) {
	return internal.Load(s)
}

// SetError records an error in the process-wide error slot.
func SetError(code ErrCode, context string) *Error {
	return internal.SetError(code, context)
}

// LastError returns the pending error, or nil.
func LastError() *Error {
	return internal.LastError()
}

// IsError reports whether an error is pending.
func IsError() bool {
	return internal.IsError()
}

// ResetError clears the pending error.
func ResetError() {
	internal.ResetError()
}

// Names returns the process-wide name table.
func Names() *NameTable {
	return internal.Names()
}

// InitNames resolves the pseudo-property identifiers for a language.
func InitNames(tag language.Tag) error {
	return internal.InitNames(tag)
}

// HashName computes the lookup hash of a name.
func HashName(name string) uint16 {
	return internal.HashName(name)
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return internal.DefaultConfig()
}

// ParseConfig reads a YAML configuration.
func ParseConfig(r io.Reader) (Config, error) {
	return internal.ParseConfig(r)
}

// Configure applies a configuration.
func Configure(c Config) error {
	return internal.Configure(c)
}

// SetLogger replaces the logger used for runtime diagnostics.
func SetLogger(l *slog.Logger) {
	internal.SetLogger(l)
}

// Zero returns the zero value of type t.
func Zero(t DataType) Value {
	return internal.Zero(t)
}

// IntValue returns an Integer value.
func IntValue(n int16) Value {
	return internal.IntValue(n)
}

// LongValue returns a Long value.
func LongValue(n int32) Value {
	return internal.LongValue(n)
}

// DoubleValue returns a Double value.
func DoubleValue(f float64) Value {
	return internal.DoubleValue(f)
}

// StringValue returns a String value.
func StringValue(s string) Value {
	return internal.StringValue(s)
}

// BoolValue returns a Boolean value.
func BoolValue(b bool) Value {
	return internal.BoolValue(b)
}

// ObjectValue returns an Object value referring to o.
func ObjectValue(o *Object) Value {
	return internal.ObjectValue(o)
}
