package core

import (
	"sync"
	"time"
)

// Result is the outcome of one container operation: either a value or the
// reason the operation failed.
type Result[T any] struct {
	Value T
	Err   error
}

func ok[T any](v T) Result[T] { return Result[T]{Value: v} }

func failed[T any](err error) Result[T] { return Result[T]{Err: err} }

// OK reports whether the operation succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// OpKind names a container operation.
type OpKind string

const (
	OpFetch  OpKind = "fetch"
	OpAdd    OpKind = "add"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// OpStatus is the position of an operation in its lifecycle.
type OpStatus string

const (
	StatusIdle     OpStatus = "idle"
	StatusInFlight OpStatus = "in-flight"
	StatusSuccess  OpStatus = "success"
	StatusFailed   OpStatus = "failed"
)

// OpState is a snapshot of one operation's state machine.
type OpState struct {
	Status   OpStatus
	InFlight int
	Resolved int
	Err      error
	Updated  time.Time
}

// opTracker moves each operation kind through idle -> in-flight -> success|failed.
// Several calls of the same kind may overlap; the kind stays in-flight until
// the last one resolves and then reports that call's outcome.
type opTracker struct {
	mu     sync.Mutex
	states map[OpKind]OpState
	now    func() time.Time
}

func newOpTracker(now func() time.Time) *opTracker {
	return &opTracker{states: map[OpKind]OpState{}, now: now}
}

func (t *opTracker) begin(kind OpKind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.states[kind]
	st.InFlight++
	st.Status = StatusInFlight
	st.Updated = t.now()
	t.states[kind] = st
}

func (t *opTracker) end(kind OpKind, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.states[kind]
	if st.InFlight > 0 {
		st.InFlight--
	}
	st.Resolved++
	st.Err = err
	st.Updated = t.now()
	switch {
	case st.InFlight > 0:
		st.Status = StatusInFlight
	case err != nil:
		st.Status = StatusFailed
	default:
		st.Status = StatusSuccess
	}
	t.states[kind] = st
}

func (t *opTracker) get(kind OpKind) OpState {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, found := t.states[kind]
	if !found {
		return OpState{Status: StatusIdle}
	}
	return st
}
