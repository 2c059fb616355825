package internal

// Method is a variable whose value is produced on demand. Reading it is a
// call: the object holding it computes the value in response to the
// DataWanted broadcast, with the caller's arguments in Parameters.
type Method struct {
	Variable

	runtime bool
	rtType  DataType
}

// NewMethod creates a method returning t. A runtime method is one whose
// return type is chosen by its implementation rather than its declaration.
func NewMethod(name string, t DataType, runtime bool) *Method {
	m := &Method{runtime: runtime}
	m.init(m, name, t, ClassMethod)
	return m
}

// SbxID returns the record id of methods.
func (m *Method) SbxID() uint16 {
	return IDMethod
}

// IsRuntimeFunction reports whether the method is a runtime function.
func (m *Method) IsRuntimeFunction() bool {
	return m.runtime
}

// RuntimeReturnType returns the return type set by the implementation.
func (m *Method) RuntimeReturnType() DataType {
	return m.rtType
}

// SetRuntimeReturnType sets the return type of a runtime method.
func (m *Method) SetRuntimeReturnType(t DataType) {
	m.rtType = t
}

// Parameters returns the argument array of the pending call. Index 0 holds
// the method itself while listeners run.
func (m *Method) Parameters() *Array {
	return m.params
}

// SetParameters sets the argument array for the next call.
func (m *Method) SetParameters(a *Array) {
	m.params = a
}

// Clear releases the result of the last call. A Fixed method keeps its
// declared type, or its runtime type if it has one.
func (m *Method) Clear() {
	m.releaseData()
	if !m.IsFixed() {
		return
	}
	t := m.declared
	if m.runtime && m.rtType != Empty {
		t = m.rtType
	}
	m.data = Zero(t)
}

// StoreData writes the method's record body. The result of the last call is
// not stored.
func (m *Method) StoreData(s *Stream) error {
	defer m.saveFlags()()
	m.SetFlag(FlagNoBroadcast | FlagNoModify)
	old := m.data
	m.data = Zero(m.declared)
	defer func() { m.data = old }()
	return m.Variable.StoreData(s)
}

// Property is a variable whose value is computed or consumed by the object
// that holds it.
type Property struct {
	Variable
}

// NewProperty creates a property of type t.
func NewProperty(name string, t DataType) *Property {
	p := &Property{}
	p.init(p, name, t, ClassProperty)
	return p
}

// SbxID returns the record id of properties.
func (p *Property) SbxID() uint16 {
	return IDProperty
}
