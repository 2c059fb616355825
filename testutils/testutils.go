// Package testutils provides utilities for testing code built on sbx.
package testutils

import (
	"fmt"
	"strings"
	"testing"

	"github.com/zephyrtronium/sbx"
)

// A Note is one notification received by a Recorder.
type Note struct {
	ID   sbx.HintID
	Name string
}

func (n Note) String() string {
	return fmt.Sprintf("%v(%s)", n.ID, n.Name)
}

// Recorder is a listener that records the notifications it receives. If
// Func is not nil, it is called for each notification after it is recorded.
type Recorder struct {
	Notes []Note
	Func  func(b *sbx.Broadcaster, h sbx.Hint)
}

// Notify implements sbx.Listener.
func (r *Recorder) Notify(b *sbx.Broadcaster, h sbx.Hint) {
	r.Notes = append(r.Notes, Note{ID: h.ID, Name: h.Var.Name()})
	if r.Func != nil {
		r.Func(b, h)
	}
}

// Count returns the number of recorded notifications with the given hint.
func (r *Recorder) Count(id sbx.HintID) int {
	n := 0
	for _, note := range r.Notes {
		if note.ID == id {
			n++
		}
	}
	return n
}

// Reset forgets all recorded notifications.
func (r *Recorder) Reset() {
	r.Notes = r.Notes[:0]
}

// Listen returns a new Recorder registered with v's broadcaster.
func Listen(v sbx.Var) *Recorder {
	r := &Recorder{}
	sbx.StartListening(r, sbx.Base(v).Broadcaster(), sbx.DuplicatePrevent)
	return r
}

// Chain creates a line of objects, each inserted into the one before it, and
// returns them from root to leaf. The caller keeps a reference only to the
// root; the others are held by their parents.
func Chain(names ...string) []*sbx.Object {
	r := make([]*sbx.Object, len(names))
	for i, name := range names {
		o := sbx.NewObject(name)
		r[i] = o
		if i > 0 {
			r[i-1].Insert(o)
			o.Release()
		}
	}
	return r
}

// RoundTrip stores v into a memory stream and loads it back.
func RoundTrip(t *testing.T, v sbx.Var) sbx.Var {
	t.Helper()
	s, buf := sbx.NewMemStream(nil)
	if err := sbx.Store(s, v); err != nil {
		t.Fatalf("could not store %s: %v", v.Name(), err)
	}
	r, _ := sbx.NewMemStream(buf.Bytes())
	u, err := sbx.Load(r)
	if err != nil {
		t.Fatalf("could not load %s: %v", v.Name(), err)
	}
	return u
}

// ClearErrors resets the process-wide error slot now and when the test ends.
func ClearErrors(t *testing.T) {
	t.Helper()
	sbx.ResetError()
	t.Cleanup(sbx.ResetError)
}

// CheckError fails the test unless the pending error has code want. A want
// of sbx.ErrNone checks that no error is pending. The slot is reset
// afterward.
func CheckError(t *testing.T, want sbx.ErrCode) {
	t.Helper()
	defer sbx.ResetError()
	err := sbx.LastError()
	switch {
	case want == sbx.ErrNone && err != nil:
		t.Errorf("unexpected error: %v", err)
	case want != sbx.ErrNone && err == nil:
		t.Errorf("no error; wanted %v", want)
	case want != sbx.ErrNone && err.Code != want:
		t.Errorf("wrong error: wanted %v, got %v", want, err)
	}
}

// MemberNames returns the names of a's members, with nil entries as "<nil>".
func MemberNames(a *sbx.Array) []string {
	r := make([]string, a.Count())
	for i := range r {
		if v := a.Get(i); v != nil {
			r[i] = v.Name()
		} else {
			r[i] = "<nil>"
		}
	}
	return r
}

// Lines splits text into lines without their terminators, dropping a final
// empty line.
func Lines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
