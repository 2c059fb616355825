package internal

// HintID identifies the kind of notification sent through a Broadcaster.
type HintID int

// Hints.
const (
	// HintDataWanted is sent before a variable's value is read.
	HintDataWanted HintID = iota + 1
	// HintDataChanged is sent after a variable's value is written.
	HintDataChanged
	// HintDying is sent when a variable is disposed.
	HintDying
)

func (h HintID) String() string {
	switch h {
	case HintDataWanted:
		return "DataWanted"
	case HintDataChanged:
		return "DataChanged"
	case HintDying:
		return "Dying"
	}
	return "HintID(?)"
}

// Hint is a notification about a variable.
type Hint struct {
	ID  HintID
	Var Var
}

// Listener receives notifications from the broadcasters it listens to.
// Notify is called synchronously from within the read or write that caused
// it.
type Listener interface {
	Notify(b *Broadcaster, h Hint)
}

// DuplicatePolicy decides whether a listener may register more than once.
type DuplicatePolicy int

// Duplicate policies.
const (
	DuplicatePrevent DuplicatePolicy = iota
	DuplicateAllow
)

// Broadcaster is the notification endpoint of a variable. Registration does
// not keep either side alive.
type Broadcaster struct {
	listeners []Listener
}

// Listeners returns the number of registrations.
func (b *Broadcaster) Listeners() int {
	if b == nil {
		return 0
	}
	return len(b.listeners)
}

// HasListener reports whether l is registered.
func (b *Broadcaster) HasListener(l Listener) bool {
	if b == nil {
		return false
	}
	for _, r := range b.listeners {
		if r == l {
			return true
		}
	}
	return false
}

// Broadcast sends h to every listener registered when the broadcast starts.
func (b *Broadcaster) Broadcast(h Hint) {
	if b == nil || len(b.listeners) == 0 {
		return
	}
	ls := make([]Listener, len(b.listeners))
	copy(ls, b.listeners)
	for _, l := range ls {
		l.Notify(b, h)
	}
}

// StartListening registers l with b.
func StartListening(l Listener, b *Broadcaster, p DuplicatePolicy) {
	if b == nil || l == nil {
		return
	}
	if p == DuplicatePrevent && b.HasListener(l) {
		return
	}
	b.listeners = append(b.listeners, l)
}

// EndListening removes registrations of l from b: all of them if all is
// true, otherwise the first.
func EndListening(l Listener, b *Broadcaster, all bool) {
	if b == nil {
		return
	}
	k := 0
	removed := false
	for _, r := range b.listeners {
		if r == l && (all || !removed) {
			removed = true
			continue
		}
		b.listeners[k] = r
		k++
	}
	for i := k; i < len(b.listeners); i++ {
		b.listeners[i] = nil
	}
	b.listeners = b.listeners[:k]
}
