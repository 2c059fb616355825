package internal

import (
	"strings"
	"sync/atomic"
	"time"
	"weak"

	"github.com/shopspring/decimal"
)

// Var is any variable of the runtime: *Variable, *Method, *Property,
// *Object, or a type built around one of those. The methods below dispatch
// to the outermost type, so specializations override them.
type Var interface {
	base() *Variable
	asObject() *Object

	// Name returns the variable's name.
	Name() string
	// SetName renames the variable.
	SetName(name string)
	// Class returns the variable's class, fixed at construction.
	Class() Class
	// Parent returns the object that contains the variable, if it is alive.
	Parent() *Object
	// SetParent sets the containing object. It does not keep p alive.
	SetParent(p *Object)
	// Clear resets the variable's contents.
	Clear()
	// SbxID returns the record id used to serialize the variable.
	SbxID() uint16
	// StoreData writes the variable's record body.
	StoreData(s *Stream) error
	// LoadData reads a record body written by StoreData.
	LoadData(s *Stream, version uint16) error
}

// Base returns the Variable underlying v, or nil if v is nil.
func Base(v Var) *Variable {
	if v == nil {
		return nil
	}
	return v.base()
}

// AsObject returns the Object underlying v, or nil if v is not an object.
func AsObject(v Var) *Object {
	if v == nil {
		return nil
	}
	return v.asObject()
}

// idcounter is the source of unique variable IDs. All accesses to this must
// be atomic.
var idcounter uintptr

// nextID increments the ID counter and returns its value as a unique ID for
// a new variable.
func nextID() uintptr {
	return atomic.AddUintptr(&idcounter, 1)
}

// ParamInfo describes one parameter of a method.
type ParamInfo struct {
	Name  string
	Type  DataType
	Flags Flags
}

// Info is descriptive metadata attached to a variable, usually a method's
// parameter list.
type Info struct {
	Comment string
	Params  []ParamInfo
}

// Variable is a named, typed, reference-counted value cell.
//
// Always use NewVariable or the constructor of a specialization to obtain
// variables. A new variable holds one reference, owned by the caller.
type Variable struct {
	name   string
	folded string
	hash   uint16
	class  Class
	flags  Flags

	// data is the payload; declared is the type given at construction,
	// which the payload keeps while the variable is Fixed.
	data     Value
	declared DataType

	refs int
	// parent is the containing object. It is never an ownership edge.
	parent weak.Pointer[Object]
	// bc is the notification endpoint, created on demand.
	bc *Broadcaster
	// params is the argument array of a pending call.
	params *Array

	userData uint32
	info     *Info

	id       uintptr
	self     Var
	disposed bool
}

// init sets up a new variable. self is the outermost value wrapping v.
func (v *Variable) init(self Var, name string, t DataType, c Class) {
	v.self = self
	v.class = c
	v.id = nextID()
	v.refs = 1
	v.flags = FlagReadWrite
	v.declared = t
	if t != Variant {
		v.flags |= FlagFixed
	}
	v.data = Zero(t)
	v.SetName(name)
}

// NewVariable creates a plain variable. Any type other than Variant makes
// the variable Fixed to that type.
func NewVariable(name string, t DataType) *Variable {
	v := &Variable{}
	v.init(v, name, t, ClassVariable)
	return v
}

func (v *Variable) base() *Variable   { return v }
func (v *Variable) asObject() *Object { return nil }

// Self returns the outermost value of the variable, e.g. the *Method that
// embeds it.
func (v *Variable) Self() Var {
	return v.self
}

// ID returns the variable's unique ID.
func (v *Variable) ID() uintptr {
	return v.id
}

// Name returns the variable's name.
func (v *Variable) Name() string {
	return v.name
}

// SetName renames the variable and recomputes its lookup hash.
func (v *Variable) SetName(name string) {
	v.name = name
	v.folded = FoldName(name)
	v.hash = hashFolded(v.folded)
}

// Hash returns the lookup hash of the variable's name.
func (v *Variable) Hash() uint16 {
	return v.hash
}

// Is reports whether the variable is named name, ignoring case.
func (v *Variable) Is(name string) bool {
	f := FoldName(name)
	return hashFolded(f) == v.hash && f == v.folded
}

// Class returns the variable's class.
func (v *Variable) Class() Class {
	return v.class
}

// SbxID returns the record id of plain variables.
func (v *Variable) SbxID() uint16 {
	return IDVariable
}

// Parent returns the containing object. It is nil if the variable is not
// contained, or if the object has been disposed or collected.
func (v *Variable) Parent() *Object {
	p := v.parent.Value()
	if p == nil || p.disposed {
		return nil
	}
	return p
}

// parentIs reports whether the parent link points at o, even if o is being
// disposed.
func (v *Variable) parentIs(o *Object) bool {
	return o != nil && v.parent.Value() == o
}

// SetParent sets the containing object.
func (v *Variable) SetParent(p *Object) {
	if p == nil {
		v.parent = weak.Pointer[Object]{}
		return
	}
	v.parent = weak.Make(p)
}

// Flags returns the variable's flags.
func (v *Variable) Flags() Flags {
	return v.flags
}

// SetFlags replaces the variable's flags.
func (v *Variable) SetFlags(f Flags) {
	v.flags = f
}

// SetFlag sets flags.
func (v *Variable) SetFlag(f Flags) {
	v.flags |= f
}

// ResetFlag clears flags.
func (v *Variable) ResetFlag(f Flags) {
	v.flags &^= f
}

// IsSet reports whether all of f are set.
func (v *Variable) IsSet(f Flags) bool {
	return v.flags&f == f
}

// saveFlags returns a function that restores the current flags. Use it as
// defer v.saveFlags()().
func (v *Variable) saveFlags() func() {
	f := v.flags
	return func() { v.flags = f }
}

// CanRead reports whether the variable may be read.
func (v *Variable) CanRead() bool { return v.IsSet(FlagRead) }

// CanWrite reports whether the variable may be written.
func (v *Variable) CanWrite() bool { return v.IsSet(FlagWrite) }

// IsFixed reports whether the variable keeps its declared type.
func (v *Variable) IsFixed() bool { return v.IsSet(FlagFixed) }

// IsVisible reports whether lookups can see the variable.
func (v *Variable) IsVisible() bool { return !v.IsSet(FlagInvisible) }

// IsHidden reports whether the variable is hidden from listings.
func (v *Variable) IsHidden() bool { return v.IsSet(FlagHidden) }

// IsModified reports whether the variable changed since it was last marked
// clean.
func (v *Variable) IsModified() bool { return v.IsSet(FlagModified) }

// SetModified marks the variable changed or clean. Marking a variable
// changed also marks its containing objects.
func (v *Variable) SetModified(b bool) {
	if v.IsSet(FlagNoModify) {
		return
	}
	if !b {
		v.ResetFlag(FlagModified)
		return
	}
	v.SetFlag(FlagModified)
	if p := v.Parent(); p != nil && p.self != v.self && !p.IsModified() {
		p.SetModified(true)
	}
}

// AddRef adds a reference to the variable.
func (v *Variable) AddRef() {
	if v.disposed {
		misuse("AddRef on disposed variable", "name", v.name)
		return
	}
	v.refs++
}

// Release drops a reference. The variable is disposed when the last one is
// released.
func (v *Variable) Release() {
	if v.refs <= 0 {
		return
	}
	v.refs--
	if v.refs == 0 {
		v.dispose()
	}
}

// RefCount returns the number of references to the variable.
func (v *Variable) RefCount() int {
	return v.refs
}

// IsDisposed reports whether the last reference was released.
func (v *Variable) IsDisposed() bool {
	return v.disposed
}

// dispose tears the variable down. Specializations that need more teardown
// implement teardown, which runs first.
func (v *Variable) dispose() {
	if v.disposed {
		return
	}
	v.disposed = true
	if t, ok := v.self.(interface{ teardown() }); ok {
		t.teardown()
	}
	if bc := v.bc; bc != nil {
		v.bc = nil
		bc.Broadcast(Hint{ID: HintDying, Var: v.self})
		bc.listeners = nil
	}
	v.releaseData()
	v.params = nil
	v.parent = weak.Pointer[Object]{}
}

// Broadcaster returns the variable's notification endpoint, creating it if
// needed.
func (v *Variable) Broadcaster() *Broadcaster {
	if v.bc == nil {
		v.bc = &Broadcaster{}
	}
	return v.bc
}

// IsBroadcaster reports whether the variable has a notification endpoint.
func (v *Variable) IsBroadcaster() bool {
	return v.bc != nil
}

// Broadcast notifies the variable's listeners. A read hint requires read
// permission and a write hint requires write permission. While listeners
// run, the variable is readable and writable and its own broadcasts are
// suppressed, so listeners can store into it.
func (v *Variable) Broadcast(id HintID) {
	if v.bc == nil || v.IsSet(FlagNoBroadcast) {
		return
	}
	switch id {
	case HintDataWanted:
		if !v.CanRead() {
			return
		}
	case HintDataChanged:
		if !v.CanWrite() {
			return
		}
	}
	if v.refs > 0 {
		v.refs++
		defer v.Release()
	}
	bc := v.bc
	v.bc = nil
	defer v.saveFlags()()
	defer func() { v.bc = bc }()
	v.flags |= FlagReadWrite
	if v.params != nil {
		v.params.PutDirect(v.self, 0)
	}
	bc.Broadcast(Hint{ID: id, Var: v.self})
}

// Type returns the type of the current payload.
func (v *Variable) Type() DataType {
	return v.data.typ
}

// DeclaredType returns the type the variable was created with.
func (v *Variable) DeclaredType() DataType {
	return v.declared
}

// Peek returns the payload without notifying listeners.
func (v *Variable) Peek() Value {
	return v.data
}

// Get notifies listeners that the value is wanted, then returns it.
func (v *Variable) Get() Value {
	if !v.CanRead() {
		SetError(ErrPropWriteOnly, v.name)
		return Value{}
	}
	v.Broadcast(HintDataWanted)
	return v.data
}

// Put stores a value and notifies listeners of the change. Fixed variables
// convert the value to their declared type.
func (v *Variable) Put(x Value) error {
	if !v.CanWrite() {
		return SetError(ErrPropReadOnly, v.name)
	}
	if v.IsFixed() {
		c, err := x.Convert(v.declared)
		if err != nil {
			return SetError(codeOf(err), v.name)
		}
		x = c
	}
	v.setData(x)
	v.SetModified(true)
	v.Broadcast(HintDataChanged)
	return nil
}

// setData replaces the payload, taking a reference to a newly held object
// and releasing the previously held one.
func (v *Variable) setData(x Value) {
	if x.typ == ObjectT && x.obj != nil {
		if x.obj == v.self.asObject() {
			x.alias = true
		}
		if !x.alias {
			x.obj.AddRef()
		}
	}
	old := v.data
	v.data = x
	releaseValue(old)
}

// SetValue stores a value without marking the variable modified or
// notifying listeners. Listeners use it to answer DataWanted. A Fixed
// variable converts the value to its declared type.
func (v *Variable) SetValue(x Value) {
	if v.IsFixed() {
		c, err := x.Convert(v.declared)
		if err != nil {
			SetError(codeOf(err), v.name)
			return
		}
		x = c
	}
	v.setData(x)
}

// putAlias stores an object reference that does not hold a reference count.
func (v *Variable) putAlias(o *Object) {
	if v.IsFixed() && v.declared != ObjectT {
		SetError(ErrConversion, v.name)
		return
	}
	v.setData(Value{typ: ObjectT, obj: o, alias: true})
}

func releaseValue(x Value) {
	if x.typ == ObjectT && x.obj != nil && !x.alias {
		x.obj.Release()
	}
}

// releaseData drops the payload and leaves the variable Empty.
func (v *Variable) releaseData() {
	old := v.data
	v.data = Value{}
	releaseValue(old)
}

// Clear releases the payload. A Fixed variable keeps its declared type.
func (v *Variable) Clear() {
	v.releaseData()
	if v.IsFixed() {
		v.data = Zero(v.declared)
	}
}

func codeOf(err error) ErrCode {
	if c, ok := err.(ErrCode); ok {
		return c
	}
	return ErrConversion
}

// getAs reads the value converted to t, recording conversion errors.
func (v *Variable) getAs(t DataType) Value {
	x := v.Get()
	c, err := x.Convert(t)
	if err != nil {
		SetError(codeOf(err), v.name)
		return Zero(t)
	}
	return c
}

// GetInteger reads the value as an Integer.
func (v *Variable) GetInteger() int16 { return int16(v.getAs(Integer).i) }

// GetLong reads the value as a Long.
func (v *Variable) GetLong() int32 { return int32(v.getAs(Long).i) }

// GetInt64 reads the value as an Int64.
func (v *Variable) GetInt64() int64 { return v.getAs(Int64).i }

// GetDouble reads the value as a Double.
func (v *Variable) GetDouble() float64 { return v.getAs(Double).f }

// GetString reads the value as a String.
func (v *Variable) GetString() string { return v.getAs(String).s }

// GetBool reads the value as a Boolean.
func (v *Variable) GetBool() bool { return v.getAs(Bool).i != 0 }

// GetDecimal reads the value as a Decimal.
func (v *Variable) GetDecimal() decimal.Decimal { return v.getAs(Decimal).dec }

// GetDate reads the value as a Date.
func (v *Variable) GetDate() time.Time { return dateToTime(v.getAs(Date).f) }

// GetObject reads the value as an object reference.
func (v *Variable) GetObject() *Object { return v.getAs(ObjectT).obj }

// PutInteger stores an Integer.
func (v *Variable) PutInteger(n int16) error { return v.Put(IntValue(n)) }

// PutLong stores a Long.
func (v *Variable) PutLong(n int32) error { return v.Put(LongValue(n)) }

// PutInt64 stores an Int64.
func (v *Variable) PutInt64(n int64) error { return v.Put(Int64Value(n)) }

// PutDouble stores a Double.
func (v *Variable) PutDouble(f float64) error { return v.Put(DoubleValue(f)) }

// PutString stores a String.
func (v *Variable) PutString(s string) error { return v.Put(StringValue(s)) }

// PutBool stores a Boolean.
func (v *Variable) PutBool(b bool) error { return v.Put(BoolValue(b)) }

// PutDecimal stores a Decimal.
func (v *Variable) PutDecimal(d decimal.Decimal) error { return v.Put(DecimalValue(d)) }

// PutDate stores a Date.
func (v *Variable) PutDate(t time.Time) error { return v.Put(DateValue(t)) }

// PutObject stores an object reference, taking a reference to o.
func (v *Variable) PutObject(o *Object) error { return v.Put(ObjectValue(o)) }

// UserData returns the variable's user data word.
func (v *Variable) UserData() uint32 {
	return v.userData
}

// SetUserData sets the variable's user data word.
func (v *Variable) SetUserData(n uint32) {
	v.userData = n
}

// Info returns the variable's metadata, if any.
func (v *Variable) Info() *Info {
	return v.info
}

// SetInfo attaches metadata to the variable.
func (v *Variable) SetInfo(info *Info) {
	v.info = info
}

// ShortName returns the name decorated with its type character and, when
// the variable has parameter metadata, its parameter list.
func (v *Variable) ShortName() string {
	var b strings.Builder
	b.WriteString(v.name)
	b.WriteString(v.data.typ.suffix())
	if v.info != nil && len(v.info.Params) > 0 {
		b.WriteByte('(')
		for i, p := range v.info.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Name)
			b.WriteString(p.Type.suffix())
		}
		b.WriteByte(')')
	}
	return b.String()
}
