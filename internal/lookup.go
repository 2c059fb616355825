package internal

/*
This file contains member lookup. A lookup first checks the object's own
arrays, then, for methods and properties, the sub-objects that take part in
extended search, and finally, if the object has GlobalSearch set, each
ancestor in turn.

Extended search and the parent walk are steered by flags rather than by
explicit state. While an ancestor is searched, the object the walk came from
has ExtSearch cleared, so the ancestor's extended search does not descend
back into it, and the ancestor has GlobalSearch cleared, so it does not start
a walk of its own. Those flags are restored by deferred calls however the
search ends.
*/

import (
	"strings"
	"unicode"

	"github.com/zephyrtronium/contains"
)

// Find returns the member named name of class c. With ClassDontCare, methods,
// properties, and sub-objects are searched in that order. Find returns nil if
// there is no such member; that is not an error.
func (o *Object) Find(name string, c Class) Var {
	folded := FoldName(name)
	return o.find(folded, hashFolded(folded), c)
}

func (o *Object) find(folded string, hash uint16, c Class) Var {
	if o.finding {
		return nil
	}
	o.finding = true
	defer func() { o.finding = false }()

	r := o.findOwn(folded, hash, c)
	if r != nil || !o.IsSet(FlagGlobalSearch) {
		return r
	}
	visited := contains.Set{}
	visited.Add(o.id)
	for cur := o; r == nil; {
		p := cur.Parent()
		if p == nil || !visited.Add(p.id) {
			break
		}
		r = cur.findInParent(p, folded, hash, c)
		cur = p
	}
	return r
}

// findOwn searches the object's arrays and, for methods and properties, its
// extended-search sub-objects.
func (o *Object) findOwn(folded string, hash uint16, c Class) Var {
	o.objs.SetFlag(FlagExtSearch)
	var r Var
	if c == ClassDontCare {
		r = o.methods.find(folded, hash, c)
		if r == nil {
			r = o.props.find(folded, hash, c)
		}
		if r == nil {
			r = o.objs.find(folded, hash, c)
		}
	} else if a := o.arrayFor(c); a != nil {
		r = a.find(folded, hash, c)
	}
	if r == nil && (c == ClassMethod || c == ClassProperty) {
		r = o.objs.find(folded, hash, c)
	}
	return r
}

// findInParent runs one hop of the parent walk.
func (o *Object) findInParent(p *Object, folded string, hash uint16, c Class) Var {
	defer o.saveFlags()()
	defer p.saveFlags()()
	o.ResetFlag(FlagExtSearch)
	p.ResetFlag(FlagGlobalSearch)
	// p may be running a lookup of its own that led here.
	if p.finding {
		return p.findOwn(folded, hash, c)
	}
	return p.find(folded, hash, c)
}

// findNoGlobal searches the object without walking its parents. Array
// extended search uses it.
func (o *Object) findNoGlobal(folded string, hash uint16, c Class) Var {
	defer o.saveFlags()()
	o.ResetFlag(FlagGlobalSearch)
	return o.find(folded, hash, c)
}

// findLocal searches only the object's own arrays, without extended search.
func (o *Object) findLocal(folded string, hash uint16, c Class) Var {
	if c != ClassDontCare {
		a := o.arrayFor(c)
		if a == nil {
			return nil
		}
		return a.Get(a.index(folded, hash, c))
	}
	for _, a := range []*Array{o.methods, o.props, o.objs} {
		if i := a.index(folded, hash, c); i >= 0 {
			return a.Get(i)
		}
	}
	return nil
}

// FindQualified resolves a qualified name such as "Sub.Item", "[Odd Name]",
// or "Form!Field". The first segment is looked up with global search; every
// further segment is looked up in the object the previous one named. Only
// the last segment is matched against class c. A name with an argument list
// is a syntax error.
func (o *Object) FindQualified(name string, c Class) Var {
	segs, err := splitQualified(name)
	if err != nil {
		SetError(ErrSyntax, name)
		return nil
	}
	if len(segs) == 0 {
		return nil
	}
	cur := o
	var r Var
	for i, seg := range segs {
		want := c
		if i < len(segs)-1 {
			want = ClassDontCare
		}
		if i == 0 {
			r = cur.findGlobal(seg, want)
		} else {
			r = cur.Find(seg, want)
		}
		if r == nil {
			return nil
		}
		if i == len(segs)-1 {
			break
		}
		cur = objectOf(r)
		if cur == nil {
			SetError(ErrNoObject, seg)
			return nil
		}
	}
	return r
}

// findGlobal runs Find with GlobalSearch set on the object.
func (o *Object) findGlobal(name string, c Class) Var {
	defer o.saveFlags()()
	o.SetFlag(FlagGlobalSearch)
	return o.Find(name, c)
}

// objectOf returns v if it is an object, or else the object v holds.
func objectOf(v Var) *Object {
	if o := v.asObject(); o != nil {
		return o
	}
	b := v.base()
	if b.Type() != ObjectT && b.Type() != Variant {
		return nil
	}
	x := b.Get()
	if x.typ != ObjectT {
		return nil
	}
	return x.obj
}

// splitQualified splits a qualified name into its segments.
func splitQualified(name string) ([]string, error) {
	var segs []string
	s := strings.TrimSpace(name)
	for s != "" {
		var seg string
		if s[0] == '[' {
			k := strings.IndexByte(s, ']')
			if k < 0 {
				return nil, ErrSyntax
			}
			seg, s = s[1:k], s[k+1:]
		} else {
			k := strings.IndexFunc(s, func(r rune) bool {
				return r == '.' || r == '!' || r == '(' || r == '[' || unicode.IsSpace(r)
			})
			if k < 0 {
				k = len(s)
			}
			seg, s = s[:k], s[k:]
		}
		if seg == "" {
			return nil, ErrSyntax
		}
		segs = append(segs, seg)
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		if s == "" {
			break
		}
		if s[0] != '.' && s[0] != '!' {
			return nil, ErrSyntax
		}
		s = strings.TrimLeftFunc(s[1:], unicode.IsSpace)
		if s == "" {
			return nil, ErrSyntax
		}
	}
	return segs, nil
}

// Call invokes the method name with params, which may be nil. Index 0 of
// params is reserved for the method itself. The method's listeners perform
// the call while the method broadcasts DataWanted; their result is the
// method's value afterward. If name does not resolve to a method, Call
// returns an ErrNoMethod error and records it.
func (o *Object) Call(name string, params *Array) error {
	v := o.FindQualified(name, ClassDontCare)
	m, ok := v.(*Method)
	if !ok {
		return SetError(ErrNoMethod, name)
	}
	m.Clear()
	if params != nil {
		m.SetParameters(params)
	}
	m.Broadcast(HintDataWanted)
	m.SetParameters(nil)
	return nil
}
