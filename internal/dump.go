package internal

import (
	"fmt"
	"io"
	"strings"

	"github.com/zephyrtronium/contains"
)

// Dump writes a readable description of the object tree rooted at o: each
// object's header and attributes, then its methods, properties, and
// sub-objects. With fill, the current values of properties and variables are
// included. Reading values for the dump does not notify listeners. Nesting
// beyond the configured depth is elided, and an object that appears more
// than once is only described the first time.
func (o *Object) Dump(w io.Writer, fill bool) error {
	d := dumper{w: w, fill: fill, max: dumpDepth()}
	d.object(o, "", 0)
	return d.err
}

type dumper struct {
	w    io.Writer
	fill bool
	max  int
	seen contains.Set
	err  error
}

func (d *dumper) printf(format string, args ...interface{}) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

func (d *dumper) object(o *Object, indent string, level int) {
	if level > d.max {
		d.printf("<too deep>\n")
		return
	}
	d.printf("Object( '%s', of class '%s', counts %d refs, ", o.name, o.className, o.refs)
	if p := o.Parent(); p != nil {
		d.printf("in parent '%s' )", p.name)
	} else {
		d.printf("no parent )")
	}
	if !d.seen.Add(o.id) {
		d.printf(" <see above>\n")
		return
	}
	d.printf("\n%s{\n", indent)
	if a := attrs(&o.Variable); a != "" {
		d.printf("%s- Flags:%s\n", indent, a)
	}
	d.printf("%s- Methods:\n", indent)
	for _, v := range o.methods.entries {
		if v == nil {
			continue
		}
		d.member(v, indent, level, ClassMethod, "Method")
	}
	d.printf("%s- Properties:\n", indent)
	for _, v := range o.props.entries {
		if v == nil {
			continue
		}
		d.member(v, indent, level, ClassProperty, "Property")
	}
	d.printf("%s- Objects:\n", indent)
	for _, v := range o.objs.entries {
		if v == nil {
			continue
		}
		if sub := v.asObject(); sub != nil {
			d.printf("%s  - Sub-", indent)
			d.object(sub, indent+"    ", level+1)
			continue
		}
		d.member(v, indent, level, ClassVariable, "")
	}
	d.printf("%s}\n", indent)
}

func (d *dumper) member(v Var, indent string, level int, want Class, kind string) {
	b := v.base()
	d.printf("%s  - %s%s", indent, b.ShortName(), attrs(b))
	if kind != "" && b.class != want {
		d.printf("  !! Not a %s !!", kind)
	}
	if d.fill && b.class != ClassMethod {
		d.printf(" = %v", b.data)
	}
	d.printf("\n")
}

// attrs formats the notable flags of v, or returns the empty string if it
// has none.
func attrs(v *Variable) string {
	var l []string
	if v.IsHidden() {
		l = append(l, "Hidden")
	}
	if v.IsSet(FlagExtSearch) {
		l = append(l, "ExtSearch")
	}
	if v.IsSet(FlagGlobalSearch) {
		l = append(l, "GlobalSearch")
	}
	if !v.IsVisible() {
		l = append(l, "Invisible")
	}
	if v.IsSet(FlagDontStore) {
		l = append(l, "DontStore")
	}
	if !v.CanRead() {
		l = append(l, "WriteOnly")
	}
	if !v.CanWrite() {
		l = append(l, "ReadOnly")
	}
	if len(l) == 0 {
		return ""
	}
	return " (" + strings.Join(l, ",") + ")"
}
