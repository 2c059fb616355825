package internal

import "fmt"

// recordVersion is the version written into record headers.
const recordVersion uint16 = 1

// maxArrayIndex bounds the entry indices a stored array may use.
const maxArrayIndex = 1 << 20

// Creator is implemented by variables whose records belong to a creator
// other than CreatorSBX.
type Creator interface {
	Creator() uint32
}

// Store writes v as a record: its creator, record id, flags, version, and a
// size, followed by the data StoreData writes. Variables marked DontStore
// write nothing.
func Store(s *Stream, v Var) error {
	b := v.base()
	if b.IsSet(FlagDontStore) {
		return nil
	}
	if s.storing[b.id] {
		return SetError(ErrBadFormat, "cyclic reference to "+b.name)
	}
	s.storing[b.id] = true
	defer delete(s.storing, b.id)

	creator := CreatorSBX
	if c, ok := v.(Creator); ok {
		creator = c.Creator()
	}
	s.WriteUint32(creator)
	s.WriteUint16(v.SbxID())
	s.WriteUint32(uint32(b.flags & persistFlags))
	s.WriteUint16(recordVersion)
	pos := s.Tell()
	s.WriteUint32(0)
	if err := v.StoreData(s); err != nil {
		logger().Debug("sbx: store failed", "name", b.name, "err", err)
		return err
	}
	end := s.Tell()
	s.Seek(pos)
	s.WriteUint32(uint32(end - pos))
	s.Seek(end)
	return s.Err()
}

// Load reads a record written by Store and returns the variable it
// describes, created through the registered factories. On failure, nothing
// is returned and no partially loaded variable survives.
func Load(s *Stream) (Var, error) {
	creator := s.ReadUint32()
	id := s.ReadUint16()
	flags := Flags(s.ReadUint32())
	version := s.ReadUint16()
	pos := s.Tell()
	size := s.ReadUint32()
	if err := s.Err(); err != nil {
		return nil, err
	}
	if version == 0 {
		return nil, SetError(ErrBadFormat, "record version 0")
	}
	v := Create(id, creator)
	if v == nil {
		return nil, SetError(ErrBadFormat, fmt.Sprintf("unknown record %#04x from creator %#08x", id, creator))
	}
	b := v.base()
	b.flags = flags & persistFlags
	if err := v.LoadData(s, version); err != nil {
		logger().Debug("sbx: load failed", "id", id, "err", err)
		b.Release()
		return nil, err
	}
	end := pos + int64(size)
	if cur := s.Tell(); cur > end {
		b.Release()
		return nil, SetError(ErrBadFormat, fmt.Sprintf("record data overran its size by %d bytes", cur-end))
	}
	s.Seek(end)
	if err := s.Err(); err != nil {
		b.Release()
		return nil, err
	}
	b.ResetFlag(FlagModified)
	return v, nil
}

// StoreData writes the variable's value, name, user data, and info.
func (v *Variable) StoreData(s *Stream) error {
	s.WriteUint8(0xFF)
	if err := storeValue(s, v, v.data); err != nil {
		return err
	}
	s.WriteString(v.name)
	s.WriteUint32(v.userData)
	if v.info == nil {
		s.WriteUint8(0)
	} else {
		s.WriteUint8(2)
		storeInfo(s, v.info)
	}
	return s.Err()
}

// LoadData reads data written by StoreData. The variable is unchanged if it
// fails.
func (v *Variable) LoadData(s *Stream, version uint16) error {
	st, err := loadVariable(s, v)
	if err != nil {
		return err
	}
	st.apply(v)
	return nil
}

// varState is a decoded variable record that has not been applied yet.
type varState struct {
	data     Value
	name     string
	userData uint32
	info     *Info
}

func loadVariable(s *Stream, v *Variable) (varState, error) {
	var st varState
	if m := s.ReadUint8(); m != 0xFF {
		if err := s.Err(); err != nil {
			return st, err
		}
		return st, SetError(ErrBadFormat, fmt.Sprintf("variable marker %#02x", m))
	}
	x, err := loadValue(s, v)
	if err != nil {
		return st, err
	}
	st.data = x
	st.name = s.ReadString()
	st.userData = s.ReadUint32()
	switch s.ReadUint8() {
	case 0:
	case 2:
		st.info = loadInfo(s)
	default:
		releaseValue(x)
		return st, SetError(ErrBadFormat, "info marker")
	}
	if err := s.Err(); err != nil {
		releaseValue(x)
		return st, err
	}
	return st, nil
}

// apply commits a decoded record. The value's object reference, if strong,
// is handed over to the variable.
func (st varState) apply(v *Variable) {
	old := v.data
	v.data = st.data
	releaseValue(old)
	if v.IsFixed() {
		v.declared = st.data.typ
	} else {
		v.declared = Variant
	}
	v.SetName(st.name)
	v.userData = st.userData
	v.info = st.info
}

func storeInfo(s *Stream, info *Info) {
	s.WriteString(info.Comment)
	s.WriteUint16(uint16(len(info.Params)))
	for _, p := range info.Params {
		s.WriteString(p.Name)
		s.WriteUint16(uint16(p.Type))
		s.WriteUint32(uint32(p.Flags & persistFlags))
	}
}

func loadInfo(s *Stream) *Info {
	info := &Info{Comment: s.ReadString()}
	n := int(s.ReadUint16())
	for i := 0; i < n && s.Err() == nil; i++ {
		info.Params = append(info.Params, ParamInfo{
			Name:  s.ReadString(),
			Type:  DataType(s.ReadUint16()),
			Flags: Flags(s.ReadUint32()),
		})
	}
	return info
}

// Object payload markers.
const (
	objNone   = 0
	objRecord = 1
	objSelf   = 2
)

// storeValue writes a value's type and payload. Strong object references are
// written as nested records; a reference to owner itself is written as a
// marker, and other references are not stored.
func storeValue(s *Stream, owner *Variable, x Value) error {
	s.WriteUint16(uint16(x.typ))
	switch x.typ {
	case Empty, Null:
	case Integer, Bool, Char, UShort:
		s.WriteUint16(uint16(x.i))
	case Byte:
		s.WriteUint8(uint8(x.i))
	case Long, ULong, ErrorT:
		s.WriteUint32(uint32(x.i))
	case Int64, Currency:
		s.WriteUint64(uint64(x.i))
	case UInt64:
		s.WriteUint64(x.u)
	case Single:
		s.WriteFloat32(float32(x.f))
	case Double, Date:
		s.WriteFloat64(x.f)
	case String:
		s.WriteString(x.s)
	case Decimal:
		s.WriteString(x.dec.String())
	case ObjectT:
		switch {
		case x.obj == nil:
			s.WriteUint8(objNone)
		case x.obj.asObject() == owner.self.asObject():
			s.WriteUint8(objSelf)
		case x.alias || x.obj.IsSet(FlagDontStore):
			s.WriteUint8(objNone)
		default:
			s.WriteUint8(objRecord)
			if err := Store(s, x.obj.self); err != nil {
				return err
			}
		}
	default:
		return SetError(ErrBadFormat, "cannot store "+x.typ.String())
	}
	return s.Err()
}

// loadValue reads a value written by storeValue. A nested object record is
// returned as a strong reference holding the reference the load created.
func loadValue(s *Stream, owner *Variable) (Value, error) {
	t := DataType(s.ReadUint16())
	if s.Err() == nil && !t.valid() {
		return Value{}, SetError(ErrBadFormat, "unknown data type "+t.String())
	}
	x := Value{typ: t}
	switch t {
	case Empty, Null:
	case Integer:
		x.i = int64(int16(s.ReadUint16()))
	case Bool:
		if s.ReadUint16() != 0 {
			x.i = -1
		}
	case Char, UShort:
		x.i = int64(s.ReadUint16())
	case Byte:
		x.i = int64(s.ReadUint8())
	case Long, ErrorT:
		x.i = int64(int32(s.ReadUint32()))
	case ULong:
		x.i = int64(s.ReadUint32())
	case Int64, Currency:
		x.i = int64(s.ReadUint64())
	case UInt64:
		x.u = s.ReadUint64()
	case Single:
		x.f = float64(s.ReadFloat32())
	case Double, Date:
		x.f = s.ReadFloat64()
	case String:
		x.s = s.ReadString()
	case Decimal:
		d, err := StringValue(s.ReadString()).Decimal()
		if err != nil && s.Err() == nil {
			return Value{}, SetError(ErrBadFormat, "decimal payload")
		}
		x.dec = d
	case ObjectT:
		switch s.ReadUint8() {
		case objNone:
		case objSelf:
			o := owner.self.asObject()
			if o == nil {
				return Value{}, SetError(ErrBadFormat, "self reference outside an object")
			}
			x.obj, x.alias = o, true
		case objRecord:
			v, err := Load(s)
			if err != nil {
				return Value{}, err
			}
			o := v.asObject()
			if o == nil {
				v.base().Release()
				return Value{}, SetError(ErrBadFormat, "object payload is not an object")
			}
			x.obj = o
		default:
			if err := s.Err(); err != nil {
				return Value{}, err
			}
			return Value{}, SetError(ErrBadFormat, "object marker")
		}
	default:
		if err := s.Err(); err != nil {
			return Value{}, err
		}
		return Value{}, SetError(ErrBadFormat, "cannot load "+t.String())
	}
	if err := s.Err(); err != nil {
		releaseValue(x)
		return Value{}, err
	}
	return x, nil
}

// StoreArray writes the stored members of a: their count, then each
// member's index and record.
func StoreArray(s *Stream, a *Array) error {
	n := 0
	for _, v := range a.entries {
		if v != nil && !v.base().IsSet(FlagDontStore) {
			n++
		}
	}
	s.WriteUint32(uint32(n))
	for i, v := range a.entries {
		if v == nil || v.base().IsSet(FlagDontStore) {
			continue
		}
		s.WriteUint32(uint32(i))
		if err := Store(s, v); err != nil {
			return err
		}
	}
	return s.Err()
}

// LoadArray reads an array written by StoreArray. On failure, every member
// loaded so far is released and no array is returned.
func LoadArray(s *Stream) (*Array, error) {
	n := s.ReadUint32()
	if err := s.Err(); err != nil {
		return nil, err
	}
	a := NewArray()
	for k := uint32(0); k < n; k++ {
		i := s.ReadUint32()
		if err := s.Err(); err != nil {
			a.Clear()
			return nil, err
		}
		if i > maxArrayIndex {
			a.Clear()
			return nil, SetError(ErrBadFormat, fmt.Sprintf("array index %d", i))
		}
		v, err := Load(s)
		if err != nil {
			a.Clear()
			return nil, err
		}
		a.PutDirect(v, int(i))
		v.base().Release()
	}
	return a, nil
}

// StoreData writes the object's variable data, class name, default property
// name, and its three arrays. The arrays are preceded by the size of the
// block before them, so that readers can skip fields added later.
func (o *Object) StoreData(s *Stream) error {
	if err := o.Variable.StoreData(s); err != nil {
		return err
	}
	s.WriteString(o.className)
	s.WriteString(o.dfltName)
	pos := s.Tell()
	s.WriteUint32(0)
	end := s.Tell()
	s.Seek(pos)
	s.WriteUint32(uint32(end - pos))
	s.Seek(end)
	for _, a := range []*Array{o.methods, o.props, o.objs} {
		if err := StoreArray(s, a); err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		return err
	}
	o.SetModified(false)
	return nil
}

// LoadData reads data written by StoreData. All of it is decoded before any
// of it is applied, so the object is unchanged if loading fails. Loaded
// members are appended to the object's existing ones.
func (o *Object) LoadData(s *Stream, version uint16) error {
	st, err := loadVariable(s, &o.Variable)
	if err != nil {
		return err
	}
	class := s.ReadString()
	dflt := s.ReadString()
	pos := s.Tell()
	size := s.ReadUint32()
	cur := s.Tell()
	if err := s.Err(); err != nil {
		releaseValue(st.data)
		return err
	}
	end := pos + int64(size)
	if end < cur {
		releaseValue(st.data)
		return SetError(ErrBadFormat, fmt.Sprintf("object block size %d", size))
	}
	if end > cur {
		s.Seek(end)
	}
	var arrays [3]*Array
	for i := range arrays {
		arrays[i], err = LoadArray(s)
		if err != nil {
			for _, a := range arrays[:i] {
				a.Clear()
			}
			releaseValue(st.data)
			return err
		}
	}

	st.apply(&o.Variable)
	o.className = class
	o.dfltName = dflt
	o.dflt = nil
	l := o.listener()
	for i, dst := range []*Array{o.methods, o.props, o.objs} {
		src := arrays[i]
		for _, v := range src.entries {
			if v == nil {
				continue
			}
			b := v.base()
			b.SetParent(o)
			StartListening(l, b.Broadcaster(), DuplicatePrevent)
		}
		dst.Merge(src)
		src.Clear()
	}
	if o.dfltName != "" {
		folded := FoldName(o.dfltName)
		if v := o.props.Get(o.props.index(folded, hashFolded(folded), ClassProperty)); v != nil {
			o.dflt, _ = v.(*Property)
		}
	}
	o.SetModified(false)
	return nil
}
