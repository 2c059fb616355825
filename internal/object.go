package internal

// Object is a variable that contains other variables: methods, properties,
// and sub-objects, each in its own array. An object listens to all its
// members, which is how the Name and Parent pseudo-properties stay live.
//
// Always use NewObject, NewExtendedObject, or Make to obtain new objects.
// Creating objects directly will result in arbitrary failures.
type Object struct {
	Variable

	className string
	methods   *Array
	props     *Array
	objs      *Array

	// dflt caches the default property; dfltName names it.
	dflt     *Property
	dfltName string

	// collection objects allow sub-objects with duplicate names.
	collection bool
	// finding is set while the object runs a lookup, so that extended
	// searches do not reenter it.
	finding bool
}

// NewObject creates an object of the given class. The object is named after
// its class.
func NewObject(class string) *Object {
	o := &Object{}
	o.initObject(o, class)
	return o
}

// NewExtendedObject creates an object wrapped in a specialized type. wrap
// receives the new object before it is initialized and returns the value
// that represents it; that value's methods override the object's own, in
// particular Notify.
func NewExtendedObject(class string, collection bool, wrap func(*Object) Var) Var {
	o := &Object{collection: collection}
	w := wrap(o)
	o.initObject(w, class)
	return w
}

func (o *Object) initObject(self Var, class string) {
	haveObject = true
	o.init(self, class, ObjectT, ClassObject)
	o.className = class
	o.data = Value{typ: ObjectT, obj: o, alias: true}
	o.Clear()
}

func (o *Object) asObject() *Object { return o }

// SbxID returns the record id of objects.
func (o *Object) SbxID() uint16 {
	return IDObject
}

// listener returns the value that receives the notifications of o's
// members.
func (o *Object) listener() Listener {
	if l, ok := o.self.(Listener); ok {
		return l
	}
	return o
}

// ClassName returns the object's class name.
func (o *Object) ClassName() string {
	return o.className
}

// SetClassName changes the object's class name.
func (o *Object) SetClassName(class string) {
	o.className = class
}

// IsClass reports whether the object's class is class, ignoring case.
func (o *Object) IsClass(class string) bool {
	return FoldName(o.className) == FoldName(class)
}

// IsCollection reports whether the object permits sub-objects with
// duplicate names.
func (o *Object) IsCollection() bool {
	return o.collection
}

// Methods returns the object's method array.
func (o *Object) Methods() *Array {
	return o.methods
}

// Properties returns the object's property array.
func (o *Object) Properties() *Array {
	return o.props
}

// Objects returns the object's sub-object array.
func (o *Object) Objects() *Array {
	return o.objs
}

// arrayFor returns the array that holds members of class c. Plain variables
// live with the properties. Values and arrays are never members, so they
// have no array.
func (o *Object) arrayFor(c Class) *Array {
	switch c {
	case ClassMethod:
		return o.methods
	case ClassProperty, ClassVariable:
		return o.props
	case ClassObject:
		return o.objs
	}
	return nil
}

// Clear removes every member and recreates the Name and Parent
// pseudo-properties.
func (o *Object) Clear() {
	for _, a := range []*Array{o.methods, o.props, o.objs} {
		if a != nil {
			o.detach(a)
			a.Clear()
		}
	}
	o.methods = NewArray()
	o.props = NewArray()
	o.objs = NewArray()

	t := Names()
	name := o.Make(t.Name, ClassProperty, String, false)
	name.base().SetFlag(FlagDontStore)
	parent := o.Make(t.Parent, ClassProperty, ObjectT, false)
	parent.base().ResetFlag(FlagWrite)
	parent.base().SetFlag(FlagDontStore)
	o.dflt = nil
	o.SetModified(false)
}

// ClearObjects removes every sub-object.
func (o *Object) ClearObjects() {
	o.detach(o.objs)
	o.objs.Clear()
	o.SetModified(true)
}

// detach stops listening to the members of a and unlinks those whose parent
// is o.
func (o *Object) detach(a *Array) {
	l := o.listener()
	for _, v := range a.entries {
		if v == nil {
			continue
		}
		b := v.base()
		EndListening(l, b.bc, true)
		if b.parentIs(o) {
			b.SetParent(nil)
		}
	}
}

// DfltPropertyName returns the name of the default property.
func (o *Object) DfltPropertyName() string {
	return o.dfltName
}

// SetDfltProperty names the default property. Naming a different property
// drops the cached one.
func (o *Object) SetDfltProperty(name string) {
	if FoldName(name) != FoldName(o.dfltName) {
		o.dflt = nil
	}
	o.dfltName = name
	o.SetModified(true)
}

// DfltProperty returns the default property, creating it as a Variant
// property if the object has none of that name. It returns nil if no
// default property is named.
func (o *Object) DfltProperty() *Property {
	if o.dflt == nil && o.dfltName != "" {
		v := o.Find(o.dfltName, ClassProperty)
		if v == nil {
			v = o.Make(o.dfltName, ClassProperty, Variant, false)
		}
		o.dflt, _ = v.(*Property)
	}
	return o.dflt
}

// FindVar returns the array that holds or would hold v and the index of the
// entry that is v or has its name. The index is the array's length if there
// is no such entry, and the array is nil if v's class has none.
func (o *Object) FindVar(v Var) (*Array, int) {
	if v == nil {
		return nil, 0
	}
	b := v.base()
	a := o.arrayFor(b.class)
	if a == nil {
		misuse("no array for class", "name", b.name, "class", b.class)
		return nil, 0
	}
	a.ResetFlag(FlagExtSearch)
	if i := a.IndexOf(v); i >= 0 {
		return a, i
	}
	if o.collection && b.class == ClassObject {
		return a, a.Count()
	}
	if i := a.index(b.folded, b.hash, b.class); i >= 0 {
		return a, i
	}
	return a, a.Count()
}

// Make returns the member named name of class ct, creating it with type dt
// if it does not exist. Collections always create new sub-objects.
func (o *Object) Make(name string, ct Class, dt DataType, runtime bool) Var {
	a := o.arrayFor(ct)
	if a == nil {
		misuse("Make with no array for class", "class", ct)
		return nil
	}
	if !o.collection || ct != ClassObject {
		folded := FoldName(name)
		if i := a.index(folded, hashFolded(folded), ct); i >= 0 {
			return a.Get(i)
		}
	}
	var v Var
	switch ct {
	case ClassMethod:
		v = NewMethod(name, dt, runtime)
	case ClassProperty:
		v = NewProperty(name, dt)
	case ClassObject:
		v = CreateObject(name)
	default:
		v = NewVariable(name, dt)
	}
	b := v.base()
	b.SetParent(o)
	a.Put(v, a.Count())
	b.Release()
	o.SetModified(true)
	StartListening(o.listener(), b.Broadcaster(), DuplicatePrevent)
	return v
}

// Insert adds v to the object, replacing a member of the same name and
// class. Collections append sub-objects instead of replacing them.
func (o *Object) Insert(v Var) {
	a, i := o.FindVar(v)
	if a == nil {
		return
	}
	b := v.base()
	if old := a.Get(i); old != nil {
		if old.base() == b {
			return
		}
		ob := old.base()
		EndListening(o.listener(), ob.bc, true)
		if o.dflt != nil && &o.dflt.Variable == ob {
			o.dflt, _ = v.(*Property)
		}
		if ob.parentIs(o) {
			ob.SetParent(nil)
		}
	}
	StartListening(o.listener(), b.Broadcaster(), DuplicatePrevent)
	a.Put(v, i)
	if !b.parentIs(o) {
		b.SetParent(o)
	}
	o.SetModified(true)
}

// QuickInsert appends v without checking for a member of the same name.
func (o *Object) QuickInsert(v Var) {
	if v == nil {
		return
	}
	b := v.base()
	a := o.arrayFor(b.class)
	if a == nil {
		misuse("QuickInsert with no array for class", "name", b.name, "class", b.class)
		return
	}
	StartListening(o.listener(), b.Broadcaster(), DuplicatePrevent)
	a.Put(v, a.Count())
	if !b.parentIs(o) {
		b.SetParent(o)
	}
	o.SetModified(true)
}

// Remove removes v, or the member of v's name and class, from the object.
func (o *Object) Remove(v Var) {
	a, i := o.FindVar(v)
	old := a.Get(i)
	if old == nil {
		return
	}
	b := old.base()
	b.AddRef()
	defer b.Release()
	EndListening(o.listener(), b.bc, true)
	if o.dflt != nil && &o.dflt.Variable == b {
		o.dflt = nil
	}
	a.Remove(i)
	if b.parentIs(o) {
		b.SetParent(nil)
	}
	o.SetModified(true)
}

// RemoveName removes the member named name of class c. With ClassDontCare,
// methods, properties, and sub-objects are tried in that order.
func (o *Object) RemoveName(name string, c Class) {
	v := o.findLocal(FoldName(name), HashName(name), c)
	if v != nil {
		o.Remove(v)
	}
}

// Notify implements Listener. It keeps the Name and Parent pseudo-properties
// live: reading Name yields the object's name and writing it renames the
// object, and reading Parent yields the object's parent or the object
// itself.
func (o *Object) Notify(b *Broadcaster, h Hint) {
	if h.ID != HintDataWanted && h.ID != HintDataChanged {
		return
	}
	v := Base(h.Var)
	if v == nil {
		return
	}
	t := Names()
	switch {
	case t.isName(v):
		if h.ID == HintDataWanted {
			v.SetValue(StringValue(o.name))
		} else if s, err := v.data.Text(); err == nil {
			o.SetName(s)
		}
	case t.isParent(v):
		if h.ID == HintDataWanted {
			p := o.Parent()
			if p == nil {
				p = o
			}
			v.putAlias(p)
		}
	}
}

// teardown runs when the object's last reference is released. Members that
// outlive the object stop pointing at it.
func (o *Object) teardown() {
	l := o.listener()
	for _, a := range []*Array{o.methods, o.props, o.objs} {
		for _, v := range a.entries {
			if v == nil {
				continue
			}
			b := v.base()
			EndListening(l, b.bc, true)
			if b.refs > 1 && b.parentIs(o) {
				b.SetParent(nil)
			}
		}
	}
	o.dflt = nil
	o.methods.Clear()
	o.props.Clear()
	o.objs.Clear()
}
