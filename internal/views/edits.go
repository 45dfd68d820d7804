package views

import "slices"

// edit is one targeted change applied while a full reload may be in flight.
type edit[K comparable, V any] struct {
	key     K
	value   V
	deleted bool
}

// editLog lets a full reload that finishes late keep the targeted edits made
// while it was fetching, and drops a reload overtaken by a newer one. All
// methods must be called with the owning view's lock held.
type editLog[K comparable, V any] struct {
	started  uint64
	applied  uint64
	inflight int
	edits    []edit[K, V]
}

// begin starts a reload and returns its sequence number and the position of
// the first edit it has not seen.
func (l *editLog[K, V]) begin() (seq uint64, mark int) {
	l.started++
	l.inflight++
	return l.started, len(l.edits)
}

// record notes an edit if any reload is in flight.
func (l *editLog[K, V]) record(key K, value V, deleted bool) {
	if l.inflight > 0 {
		l.edits = append(l.edits, edit[K, V]{key: key, value: value, deleted: deleted})
	}
}

// finish ends a successful reload. ok is false when a reload that began later
// has already been applied; otherwise pending holds the edits to replay over
// the fetched state, oldest first.
func (l *editLog[K, V]) finish(seq uint64, mark int) (pending []edit[K, V], ok bool) {
	if seq > l.applied {
		l.applied = seq
		pending = slices.Clone(l.edits[mark:])
		ok = true
	}
	l.done()
	return pending, ok
}

// abort ends a failed reload.
func (l *editLog[K, V]) abort() {
	l.done()
}

func (l *editLog[K, V]) done() {
	l.inflight--
	if l.inflight == 0 {
		l.edits = nil
	}
}
