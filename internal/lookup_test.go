package internal_test

import (
	"testing"

	"github.com/zephyrtronium/sbx"
	"github.com/zephyrtronium/sbx/testutils"
)

// TestFindGlobal tests that objects with GlobalSearch find members of their
// ancestors and that the walk leaves every object's flags as they were.
func TestFindGlobal(t *testing.T) {
	objs := testutils.Chain("C", "B", "A")
	c, b, a := objs[0], objs[1], objs[2]
	defer c.Release()
	shared := c.Make("Shared", sbx.ClassProperty, sbx.Long, false)
	mid := b.Make("Mid", sbx.ClassMethod, sbx.Empty, false)

	if got := a.Find("Shared", sbx.ClassProperty); got != nil {
		t.Errorf("found %v without GlobalSearch", got)
	}
	a.SetFlag(sbx.FlagGlobalSearch)
	flags := []sbx.Flags{c.Flags(), b.Flags(), a.Flags()}
	if got := a.Find("shared", sbx.ClassProperty); got != shared {
		t.Errorf("global search found %v", got)
	}
	if got := a.Find("Mid", sbx.ClassDontCare); got != mid {
		t.Errorf("global search found %v", got)
	}
	if got := a.Find("Nowhere", sbx.ClassDontCare); got != nil {
		t.Errorf("global search found %v", got)
	}
	for i, o := range []*sbx.Object{c, b, a} {
		if o.Flags() != flags[i] {
			t.Errorf("%s flags changed from %v to %v", o.Name(), flags[i], o.Flags())
		}
	}
	if got := b.Find("Shared", sbx.ClassProperty); got != nil {
		t.Errorf("B without GlobalSearch found %v", got)
	}
}

// TestFindCycle tests that lookups terminate when objects contain each
// other.
func TestFindCycle(t *testing.T) {
	objs := testutils.Chain("Root", "Child")
	root, child := objs[0], objs[1]
	child.Insert(root)
	root.SetFlag(sbx.FlagExtSearch | sbx.FlagGlobalSearch)
	child.SetFlag(sbx.FlagExtSearch | sbx.FlagGlobalSearch)
	if got := root.Find("Nothing", sbx.ClassProperty); got != nil {
		t.Errorf("found %v", got)
	}
	if got := child.Find("Nothing", sbx.ClassDontCare); got != nil {
		t.Errorf("found %v", got)
	}
	p := root.Make("Here", sbx.ClassProperty, sbx.Integer, false)
	if got := child.Find("Here", sbx.ClassProperty); got != p {
		t.Errorf("found %v", got)
	}
	child.Remove(root)
	root.Release()
}

// TestFindExtended tests extended search into sub-objects.
func TestFindExtended(t *testing.T) {
	objs := testutils.Chain("Root", "Sub")
	root, sub := objs[0], objs[1]
	defer root.Release()
	deep := sbx.Base(sub.Make("Deep", sbx.ClassProperty, sbx.Integer, false))

	if got := root.Find("Deep", sbx.ClassProperty); got != nil {
		t.Errorf("found %v without ExtSearch", got)
	}
	sub.SetFlag(sbx.FlagExtSearch)
	got := root.Find("Deep", sbx.ClassProperty)
	if got == nil || sbx.Base(got) != deep {
		t.Fatalf("extended search found %v", got)
	}
	if !deep.IsSet(sbx.FlagExtFound) {
		t.Error("member found by extended search not marked ExtFound")
	}
	if sub.Find("Deep", sbx.ClassProperty) == nil {
		t.Fatal("direct search failed")
	}
	if deep.IsSet(sbx.FlagExtFound) {
		t.Error("member found directly still marked ExtFound")
	}
	if got := root.Find("Deep", sbx.ClassMethod); got != nil {
		t.Errorf("extended search ignored class: %v", got)
	}
	sub.SetFlag(sbx.FlagInvisible)
	if got := root.Find("Deep", sbx.ClassProperty); got != nil {
		t.Errorf("extended search entered invisible object: %v", got)
	}
}

// TestFindQualified tests resolution of qualified names.
func TestFindQualified(t *testing.T) {
	objs := testutils.Chain("Root", "Sub")
	root, sub := objs[0], objs[1]
	defer root.Release()
	root.Make("Count", sbx.ClassProperty, sbx.Integer, false)
	sub.Make("Item", sbx.ClassProperty, sbx.String, false)
	cases := map[string]struct {
		from *sbx.Object
		name string
		c    sbx.Class
		want string
		err  sbx.ErrCode
	}{
		"Simple":        {root, "Count", sbx.ClassDontCare, "Count", sbx.ErrNone},
		"Dotted":        {root, "Sub.Item", sbx.ClassProperty, "Item", sbx.ErrNone},
		"Bang":          {root, "sub!item", sbx.ClassDontCare, "Item", sbx.ErrNone},
		"Bracketed":     {root, "[Sub].Item", sbx.ClassDontCare, "Item", sbx.ErrNone},
		"Spaces":        {root, "  Sub . Item ", sbx.ClassDontCare, "Item", sbx.ErrNone},
		"Global":        {sub, "Count", sbx.ClassProperty, "Count", sbx.ErrNone},
		"ThroughParent": {sub, "Parent.Count", sbx.ClassDontCare, "Count", sbx.ErrNone},
		"LastClass":     {root, "Sub.Item", sbx.ClassMethod, "", sbx.ErrNone},
		"Missing":       {root, "Sub.Missing", sbx.ClassDontCare, "", sbx.ErrNone},
		"Empty":         {root, "", sbx.ClassDontCare, "", sbx.ErrNone},
		"NotObject":     {root, "Count.Item", sbx.ClassDontCare, "", sbx.ErrNoObject},
		"Arguments":     {root, "Sub(1)", sbx.ClassDontCare, "", sbx.ErrSyntax},
		"TrailingDot":   {root, "Sub.", sbx.ClassDontCare, "", sbx.ErrSyntax},
		"Unclosed":      {root, "[Sub.Item", sbx.ClassDontCare, "", sbx.ErrSyntax},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			testutils.ClearErrors(t)
			r := c.from.FindQualified(c.name, c.c)
			got := ""
			if r != nil {
				got = r.Name()
			}
			if got != c.want {
				t.Errorf("wrong result: wanted %q, got %q", c.want, got)
			}
			testutils.CheckError(t, c.err)
		})
	}
	testutils.ClearErrors(t)
	r := sub.FindQualified("Parent.Name", sbx.ClassProperty)
	if r == nil {
		t.Fatal("Parent.Name not found")
	}
	if got := sbx.Base(r).GetString(); got != "Root" {
		t.Errorf("Parent.Name read %q", got)
	}
}
