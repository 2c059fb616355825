package collection

import (
	"strings"

	"github.com/zephyrtronium/sbx"
	"github.com/zephyrtronium/sbx/internal"
)

// ID is the record id of collections.
const ID uint16 = 'C' | 'O'<<8

// Class is the class name of collections.
const Class = "Collection"

// Names of the members every collection has.
const (
	countName  = "Count"
	addName    = "Add"
	itemName   = "Item"
	removeName = "Remove"
)

// Collection is an object whose sub-objects form an ordered list that may
// contain duplicate names. Besides Name and Parent, it has a read-only Count
// property and the methods Add(obj), Item(index or name), and Remove(index).
// Indices start at 1.
type Collection struct {
	*sbx.Object
}

// New creates an empty collection.
func New() *Collection {
	c := &Collection{}
	internal.NewExtendedObject(Class, true, func(o *internal.Object) internal.Var {
		c.Object = o
		return c
	})
	c.initialize()
	return c
}

func (c *Collection) initialize() {
	c.ResetFlag(sbx.FlagWrite)
	p := c.Make(countName, sbx.ClassProperty, sbx.Integer, false)
	sbx.Base(p).ResetFlag(sbx.FlagWrite)
	sbx.Base(p).SetFlag(sbx.FlagDontStore)
	for _, m := range []struct {
		name string
		t    sbx.DataType
	}{
		{addName, sbx.Empty},
		{itemName, sbx.ObjectT},
		{removeName, sbx.Empty},
	} {
		v := c.Make(m.name, sbx.ClassMethod, m.t, false)
		sbx.Base(v).SetFlag(sbx.FlagDontStore)
	}
}

// SbxID returns the record id of collections.
func (c *Collection) SbxID() uint16 {
	return ID
}

// Clear removes every element. The collection keeps its own members.
func (c *Collection) Clear() {
	c.ClearObjects()
}

// Len returns the number of elements.
func (c *Collection) Len() int {
	return c.Objects().Count()
}

// Notify implements sbx.Listener. It runs the collection's methods and
// answers reads of Count; everything else is handled as for any object.
func (c *Collection) Notify(b *sbx.Broadcaster, h sbx.Hint) {
	if h.ID != sbx.HintDataWanted && h.ID != sbx.HintDataChanged {
		c.Object.Notify(b, h)
		return
	}
	v := sbx.Base(h.Var)
	var params *sbx.Array
	if m, ok := h.Var.(*sbx.Method); ok {
		params = m.Parameters()
	}
	switch {
	case v == nil:
	case v.Is(countName):
		v.SetValue(sbx.LongValue(int32(c.Len())))
	case v.Is(addName):
		c.add(params)
	case v.Is(itemName):
		c.item(params)
	case v.Is(removeName):
		c.remove(params)
	default:
		c.Object.Notify(b, h)
	}
}

// add inserts the object in params[1].
func (c *Collection) add(params *sbx.Array) {
	if params.Count() < 2 {
		internal.SetError(sbx.ErrWrongArgs, addName)
		return
	}
	o := argObject(params.Get(1))
	if o == nil {
		internal.SetError(sbx.ErrBadArgument, addName)
		return
	}
	c.Insert(o.Self())
}

// item stores in params[0] the element named or indexed by params[1].
func (c *Collection) item(params *sbx.Array) {
	if params.Count() != 2 {
		internal.SetError(sbx.ErrWrongArgs, itemName)
		return
	}
	var r sbx.Var
	arg := sbx.Base(params.Get(1))
	if arg != nil {
		if arg.Type() == sbx.String {
			r = c.Find(arg.GetString(), sbx.ClassObject)
		} else if n := int(arg.GetInteger()); n >= 1 && n <= c.Len() {
			r = c.Objects().Get(n - 1)
		}
	}
	if r == nil {
		internal.SetError(sbx.ErrBadIndex, itemName)
	}
	if res := sbx.Base(params.Get(0)); res != nil {
		res.SetValue(sbx.ObjectValue(sbx.AsObject(r)))
	}
}

// remove removes the element indexed by params[1].
func (c *Collection) remove(params *sbx.Array) {
	if params.Count() != 2 {
		internal.SetError(sbx.ErrWrongArgs, removeName)
		return
	}
	arg := sbx.Base(params.Get(1))
	n := 0
	if arg != nil {
		n = int(arg.GetInteger())
	}
	if n < 1 || n > c.Len() {
		internal.SetError(sbx.ErrBadIndex, removeName)
		return
	}
	c.Remove(c.Objects().Get(n - 1))
}

// argObject returns the object an argument refers to.
func argObject(v sbx.Var) *sbx.Object {
	if v == nil {
		return nil
	}
	if o := sbx.AsObject(v); o != nil {
		return o
	}
	b := sbx.Base(v)
	if b.Type() != sbx.ObjectT {
		return nil
	}
	return b.GetObject()
}

type factory struct{}

func (factory) Create(id uint16, creator uint32) sbx.Var {
	if id == ID && creator == sbx.CreatorSBX {
		return New()
	}
	return nil
}

func (factory) CreateObject(class string) sbx.Var {
	if strings.EqualFold(class, Class) {
		return New()
	}
	return nil
}

func init() {
	internal.RegisterFactory(factory{})
}
