package engine

import "sync"

// importTracker is the ImportTracker of spec.md §3: per-top-level-call
// state shared by every nested context frame produced during a single call
// (spec.md §4.9's "Clarification" — a single tracker, not one per nested
// context, so the documented limits in §4.3 bound the whole invocation).
type importTracker struct {
	mu     sync.Mutex
	count  int
	stack  []string
	hashes map[uint64]bool
}

func newImportTracker() *importTracker {
	return &importTracker{hashes: make(map[uint64]bool)}
}

func (t *importTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

func (t *importTracker) StackDepth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.stack)
}

func (t *importTracker) HasHash(h uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hashes[h]
}

// record marks a successful resolution: increments the total-imports count
// and the content hash, both permanent for the remaining top-level call
// (spec.md §4.9 "Cleanup" — counter and content-set are never decremented).
// This is independent of the call stack below, since resolving an import
// and producing its callable does not by itself nest execution.
func (t *importTracker) record(hash uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count++
	t.hashes[hash] = true
}

// pushFrame/popFrame bracket the actual invocation of an imported callable,
// the span during which further nested importScript calls would run one
// level deeper. A callable may be invoked any number of times after a
// single resolution, so depth must track live invocations, not
// resolutions.
func (t *importTracker) pushFrame(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stack = append(t.stack, id)
}

func (t *importTracker) popFrame() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.stack) > 0 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}
