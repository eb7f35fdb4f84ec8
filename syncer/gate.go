package syncer

import "sync"

// idGate serializes sync invocations per deal id. The idempotent
// lookup-before-create pattern is safe under redelivery only as long
// as two concurrent invocations for the same id cannot both observe
// "not found" and proceed to create; the gate closes that window
// in-process. Different ids do not block each other.
type idGate struct {
	mu    sync.Mutex
	locks map[string]*idLock
}

type idLock struct {
	mu   sync.Mutex
	refs int
}

func newIDGate() *idGate {
	return &idGate{locks: map[string]*idLock{}}
}

// acquire blocks until the id is free and returns the release func.
func (g *idGate) acquire(id string) func() {
	g.mu.Lock()
	l, exists := g.locks[id]
	if !exists {
		l = &idLock{}
		g.locks[id] = l
	}
	l.refs++
	g.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		g.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(g.locks, id)
		}
		g.mu.Unlock()
	}
}
