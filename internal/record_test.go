package internal_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/zephyrtronium/sbx"
	"github.com/zephyrtronium/sbx/testutils"
)

// TestRoundTripVariable tests that a variable's value, name, flags, user
// data, and info survive storing and loading.
func TestRoundTripVariable(t *testing.T) {
	info := &sbx.Info{
		Comment: "sums things",
		Params:  []sbx.ParamInfo{{Name: "a", Type: sbx.Long}, {Name: "b", Type: sbx.Double, Flags: sbx.FlagOptional}},
	}
	cases := map[string]struct {
		v    sbx.Var
		put  sbx.Value
		want string
	}{
		"Integer":  {sbx.NewVariable("n", sbx.Integer), sbx.IntValue(-12), "-12"},
		"Long":     {sbx.NewVariable("l", sbx.Long), sbx.LongValue(1 << 20), "1048576"},
		"Double":   {sbx.NewVariable("d", sbx.Double), sbx.DoubleValue(0.125), "0.125"},
		"String":   {sbx.NewVariable("s", sbx.String), sbx.StringValue("café"), "café"},
		"Bool":     {sbx.NewVariable("b", sbx.Bool), sbx.BoolValue(true), "True"},
		"Variant":  {sbx.NewVariable("x", sbx.Variant), sbx.LongValue(9), "9"},
		"Empty":    {sbx.NewVariable("e", sbx.Variant), sbx.Zero(sbx.Empty), "Empty"},
		"Property": {sbx.NewProperty("p", sbx.Single), sbx.DoubleValue(1.5), "1.5"},
		"Method":   {sbx.NewMethod("m", sbx.Long, false), sbx.LongValue(77), "0"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			testutils.ClearErrors(t)
			b := sbx.Base(c.v)
			defer b.Release()
			if err := b.Put(c.put); err != nil {
				t.Fatal(err)
			}
			b.SetUserData(0xdecade)
			b.SetInfo(info)
			b.SetFlag(sbx.FlagHidden | sbx.FlagPrivate)
			u := testutils.RoundTrip(t, c.v)
			defer sbx.Base(u).Release()
			if u.SbxID() != c.v.SbxID() {
				t.Errorf("wrong record id: wanted %#x, got %#x", c.v.SbxID(), u.SbxID())
			}
			r := sbx.Base(u)
			if r.Name() != b.Name() {
				t.Errorf("wrong name: wanted %q, got %q", b.Name(), r.Name())
			}
			if got := r.Peek().String(); got != c.want {
				t.Errorf("wrong value: wanted %q, got %q", c.want, got)
			}
			if r.DeclaredType() != b.DeclaredType() {
				t.Errorf("wrong declared type: wanted %v, got %v", b.DeclaredType(), r.DeclaredType())
			}
			if r.Flags() != b.Flags()&^sbx.FlagModified {
				t.Errorf("wrong flags: wanted %v, got %v", b.Flags()&^sbx.FlagModified, r.Flags())
			}
			if r.UserData() != 0xdecade {
				t.Errorf("wrong user data %#x", r.UserData())
			}
			if diff := cmp.Diff(info, r.Info()); diff != "" {
				t.Errorf("wrong info (-want +got):\n%s", diff)
			}
		})
	}
}

// TestRoundTripObject tests that an object tree survives storing and
// loading.
func TestRoundTripObject(t *testing.T) {
	testutils.ClearErrors(t)
	root := sbx.NewObject("Root")
	defer root.Release()
	root.SetUserData(42)
	root.SetFlag(sbx.FlagExtSearch)
	sbx.Base(root.Make("Total", sbx.ClassMethod, sbx.Long, false)).SetInfo(&sbx.Info{Params: []sbx.ParamInfo{{Name: "n", Type: sbx.Integer}}})
	sbx.Base(root.Make("Count", sbx.ClassProperty, sbx.Integer, false)).PutInteger(7)
	sbx.Base(root.Make("Amount", sbx.ClassProperty, sbx.Decimal, false)).PutDecimal(decimal.RequireFromString("12.345"))
	when := time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)
	sbx.Base(root.Make("When", sbx.ClassProperty, sbx.Date, false)).PutDate(when)
	secret := sbx.Base(root.Make("Secret", sbx.ClassProperty, sbx.String, false))
	secret.SetFlag(sbx.FlagDontStore)
	child := sbx.AsObject(root.Make("Child", sbx.ClassObject, sbx.ObjectT, false))
	sbx.Base(child.Make("Label", sbx.ClassProperty, sbx.String, false)).PutString("x")
	sbx.Base(root.Make("Note", sbx.ClassVariable, sbx.String, false)).PutString("hi")
	other := sbx.NewObject("Other")
	sbx.Base(root.Make("Ref", sbx.ClassVariable, sbx.ObjectT, false)).PutObject(other)
	other.Release()
	root.SetDfltProperty("Count")

	u := testutils.RoundTrip(t, root)
	o := sbx.AsObject(u)
	if o == nil {
		t.Fatalf("loaded %T", u)
	}
	defer o.Release()
	if o.Name() != "Root" || o.ClassName() != "Root" {
		t.Errorf("loaded object is %q of class %q", o.Name(), o.ClassName())
	}
	if o.UserData() != 42 {
		t.Errorf("wrong user data %d", o.UserData())
	}
	if !o.IsSet(sbx.FlagExtSearch) {
		t.Error("flags not loaded")
	}
	if o.IsModified() {
		t.Error("loaded object is modified")
	}
	if self, _ := o.Peek().Object(); self != o {
		t.Error("loaded object's value is not itself")
	}
	if diff := cmp.Diff([]string{"Total"}, testutils.MemberNames(o.Methods())); diff != "" {
		t.Errorf("wrong methods (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Name", "Parent", "Count", "Amount", "When", "Note", "Ref"}, testutils.MemberNames(o.Properties())); diff != "" {
		t.Errorf("wrong properties (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Child"}, testutils.MemberNames(o.Objects())); diff != "" {
		t.Errorf("wrong objects (-want +got):\n%s", diff)
	}
	for _, a := range []*sbx.Array{o.Methods(), o.Properties(), o.Objects()} {
		for i := 0; i < a.Count(); i++ {
			if v := a.Get(i); v.Parent() != o {
				t.Errorf("%s has parent %v", v.Name(), v.Parent())
			}
		}
	}

	if got := sbx.Base(o.Find("Count", sbx.ClassProperty)).GetInteger(); got != 7 {
		t.Errorf("Count is %d", got)
	}
	if got := sbx.Base(o.Find("Amount", sbx.ClassProperty)).GetDecimal(); !got.Equal(decimal.RequireFromString("12.345")) {
		t.Errorf("Amount is %v", got)
	}
	if got := sbx.Base(o.Find("When", sbx.ClassProperty)).GetDate(); !got.Equal(when) {
		t.Errorf("When is %v", got)
	}
	if got := sbx.Base(o.Find("Note", sbx.ClassVariable)).GetString(); got != "hi" {
		t.Errorf("Note is %q", got)
	}
	if got := sbx.Base(o.Find("Name", sbx.ClassProperty)).GetString(); got != "Root" {
		t.Errorf("Name reads %q", got)
	}
	if d := o.DfltProperty(); d == nil || d.Name() != "Count" {
		t.Errorf("default property is %v", d)
	}
	m := o.Find("Total", sbx.ClassMethod)
	if diff := cmp.Diff([]sbx.ParamInfo{{Name: "n", Type: sbx.Integer}}, sbx.Base(m).Info().Params); diff != "" {
		t.Errorf("wrong method params (-want +got):\n%s", diff)
	}

	c := sbx.AsObject(o.Find("Child", sbx.ClassObject))
	if c == nil {
		t.Fatal("no child")
	}
	if got := sbx.Base(c.Find("Label", sbx.ClassProperty)).GetString(); got != "x" {
		t.Errorf("child Label is %q", got)
	}
	if got := sbx.Base(c.Find("Parent", sbx.ClassProperty)).GetObject(); got != o {
		t.Errorf("child Parent reads %v", got)
	}
	ref := sbx.Base(o.Find("Ref", sbx.ClassVariable)).GetObject()
	if ref == nil || ref.Name() != "Other" {
		t.Fatalf("Ref holds %v", ref)
	}
	if ref.RefCount() != 1 {
		t.Errorf("loaded Ref payload has %d refs, want 1", ref.RefCount())
	}
}

// storedObject returns the record of an object named Root, with members
// added by fill if it is not nil.
func storedObject(t *testing.T, fill func(o *sbx.Object)) []byte {
	t.Helper()
	o := sbx.NewObject("Root")
	defer o.Release()
	if fill != nil {
		fill(o)
	}
	s, buf := sbx.NewMemStream(nil)
	if err := sbx.Store(s, o); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	// The block size field of the object follows the header, the variable
	// data, and the class and default property names.
	if b[39] != 4 {
		t.Fatalf("unexpected record layout: % x", b)
	}
	return b
}

// TestLoadCorrupt tests that damaged records fail to load and produce no
// variable.
func TestLoadCorrupt(t *testing.T) {
	cases := map[string]struct {
		damage func([]byte) []byte
		format bool
	}{
		"BlockSize": {func(b []byte) []byte { b[39] = 0; return b }, true},
		"Version":   {func(b []byte) []byte { b[10], b[11] = 0, 0; return b }, true},
		"UnknownID": {func(b []byte) []byte { b[4], b[5] = 'Z', 'Z'; return b }, true},
		"Creator":   {func(b []byte) []byte { b[0] = 'Q'; return b }, true},
		"DataType":  {func(b []byte) []byte { b[17], b[18] = 0xff, 0x7f; return b }, true},
		"Marker":    {func(b []byte) []byte { b[16] = 0; return b }, true},
		"Truncated": {func(b []byte) []byte { return b[:len(b)-3] }, false},
		"Empty":     {func(b []byte) []byte { return nil }, false},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			testutils.ClearErrors(t)
			b := c.damage(storedObject(t, nil))
			s, _ := sbx.NewMemStream(b)
			v, err := sbx.Load(s)
			if v != nil {
				t.Errorf("loaded %v from damaged record", v.Name())
			}
			if err == nil {
				t.Fatal("no error")
			}
			if c.format && !errors.Is(err, sbx.ErrBadFormat) {
				t.Errorf("wrong error: wanted bad format, got %v", err)
			}
		})
	}
}

// TestLoadLongerBlock tests that loading skips object fields written by a
// newer version of the format.
func TestLoadLongerBlock(t *testing.T) {
	testutils.ClearErrors(t)
	b := storedObject(t, func(o *sbx.Object) {
		o.Make("Total", sbx.ClassMethod, sbx.Long, false)
		sbx.Base(o.Make("Count", sbx.ClassProperty, sbx.Integer, false)).PutInteger(4)
		o.Make("Child", sbx.ClassObject, sbx.ObjectT, false)
	})
	b = append(b[:43], append([]byte{0xde, 0xad, 0xbe, 0xef}, b[43:]...)...)
	b[39] = 8
	binary.LittleEndian.PutUint32(b[12:16], binary.LittleEndian.Uint32(b[12:16])+4)
	s, _ := sbx.NewMemStream(b)
	v, err := sbx.Load(s)
	if err != nil {
		t.Fatal(err)
	}
	o := sbx.AsObject(v)
	if o == nil {
		t.Fatalf("loaded %T", v)
	}
	defer o.Release()
	if s.Tell() != int64(len(b)) {
		t.Errorf("load stopped at %d of %d", s.Tell(), len(b))
	}
	if diff := cmp.Diff([]string{"Total"}, testutils.MemberNames(o.Methods())); diff != "" {
		t.Errorf("wrong methods (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Name", "Parent", "Count"}, testutils.MemberNames(o.Properties())); diff != "" {
		t.Errorf("wrong properties (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Child"}, testutils.MemberNames(o.Objects())); diff != "" {
		t.Errorf("wrong objects (-want +got):\n%s", diff)
	}
	if got := sbx.Base(o.Find("Count", sbx.ClassProperty)).GetInteger(); got != 4 {
		t.Errorf("Count is %d", got)
	}
	testutils.CheckError(t, sbx.ErrNone)
}

// TestStoreCycle tests that a cycle of object references fails to store.
func TestStoreCycle(t *testing.T) {
	testutils.ClearErrors(t)
	a, b := sbx.NewObject("A"), sbx.NewObject("B")
	ra := sbx.Base(a.Make("Ref", sbx.ClassProperty, sbx.ObjectT, false))
	rb := sbx.Base(b.Make("Ref", sbx.ClassProperty, sbx.ObjectT, false))
	ra.PutObject(b)
	rb.PutObject(a)
	s, _ := sbx.NewMemStream(nil)
	if err := sbx.Store(s, a); !errors.Is(err, sbx.ErrBadFormat) {
		t.Errorf("storing a cycle gave %v", err)
	}
	ra.Clear()
	rb.Clear()
	a.Release()
	b.Release()
}

// TestStoreDontStore tests that DontStore variables write nothing.
func TestStoreDontStore(t *testing.T) {
	v := sbx.NewVariable("v", sbx.Integer)
	defer v.Release()
	v.SetFlag(sbx.FlagDontStore)
	s, buf := sbx.NewMemStream(nil)
	if err := sbx.Store(s, v); err != nil {
		t.Fatal(err)
	}
	if len(buf.Bytes()) != 0 {
		t.Errorf("DontStore variable wrote % x", buf.Bytes())
	}
}

// TestStreamString tests the Windows-1252 string encoding.
func TestStreamString(t *testing.T) {
	s, buf := sbx.NewMemStream(nil)
	s.WriteString("héllo")
	s.WriteString("a日b")
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	want := []byte{5, 0, 'h', 0xe9, 'l', 'l', 'o', 3, 0, 'a', 0x1a, 'b'}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("wrong encoding: wanted % x, got % x", want, buf.Bytes())
	}
	r, _ := sbx.NewMemStream(buf.Bytes())
	if got := r.ReadString(); got != "héllo" {
		t.Errorf("wrong decoding: %q", got)
	}
	r.ReadString()
	r.ReadString()
	if r.Err() == nil {
		t.Error("reading past the end gave no error")
	}
}
