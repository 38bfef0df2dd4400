package smt

import (
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Update is a single key/value pair submitted as part of a batch.
type Update struct {
	Key   string
	Value string
}

// UpdateBatch plans and executes a whole batch of updates concurrently
// using the conflict-prefix partitioning protocol (spec §4.4): the batch is
// sorted once, the conflict-prefix nodes (the deepest ancestors shared by
// two adjacent sorted updates) are identified, and workerCount workers then
// drain the sorted batch, synchronizing only at those conflict nodes so
// that exactly one worker finalizes each. It returns the wall-clock
// duration of the execution phase.
//
// Duplicate keys within pairs are permitted; the sort is stable, and only
// the last of the duplicates in sorted order (the last one in pairs) is
// applied.
func (t *Tree) UpdateBatch(pairs []Update, workerCount int) (time.Duration, error) {
	if len(pairs) == 0 {
		return 0, nil
	}
	if workerCount < 1 {
		workerCount = 1
	}

	// --- Planning phase (single-threaded) ---
	sorted := make([]Update, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	// Keep only the last of each run of equal keys, so that value is the
	// one that lands.
	deduped := sorted[:0]
	for i, u := range sorted {
		if i+1 < len(sorted) && sorted[i+1].Key == u.Key {
			continue
		}
		deduped = append(deduped, u)
	}
	sorted = deduped

	conflictPrefixes := make(map[string]struct{})
	for i := 0; i+1 < len(sorted); i++ {
		conflictPrefixes[lcp(sorted[i].Key, sorted[i+1].Key)] = struct{}{}
	}

	for prefix := range conflictPrefixes {
		n, err := t.nodeByPrefix(prefix)
		if err != nil {
			return 0, err
		}
		n.visited.Store(false)
	}

	// --- Execution phase (concurrent) ---
	var nextIdx atomic.Int64
	total := int64(len(sorted))

	start := time.Now()

	g := new(errgroup.Group)
	for w := 0; w < workerCount; w++ {
		g.Go(func() error {
			for {
				idx := nextIdx.Add(1) - 1
				if idx >= total {
					return nil
				}
				u := sorted[idx]
				if err := t.applyBatchUpdate(u, conflictPrefixes); err != nil {
					return err
				}
			}
		})
	}
	err := g.Wait()

	return time.Since(start), err
}

// applyBatchUpdate writes one leaf and percolates upward, stopping at the
// first conflict-prefix node it reaches (first arriver) or finalizing and
// continuing past it (second/later arriver).
func (t *Tree) applyBatchUpdate(u Update, conflictPrefixes map[string]struct{}) error {
	leaf, err := t.leafNode(u.Key)
	if err != nil {
		return err
	}

	leaf.mu.Lock()
	leaf.digest = hashValue(u.Value)
	leaf.mu.Unlock()

	current := leaf
	for current != t.root {
		parent := current.parent
		_, isConflict := conflictPrefixes[parent.key]

		parent.mu.Lock()
		if isConflict {
			if parent.visited.CompareAndSwap(false, true) {
				// First arriver: the sibling subtree isn't finalized yet.
				// Stop the ascent here; a later arriver will combine.
				parent.mu.Unlock()
				return nil
			}
			// Second (or later) arriver: the sibling subtree is finalized.
			// Recompute and keep ascending.
		}

		left, right := parent.left, parent.right
		left.mu.Lock()
		leftDigest := left.digest
		left.mu.Unlock()
		right.mu.Lock()
		rightDigest := right.digest
		right.mu.Unlock()

		parent.digest = hashChildren(leftDigest, rightDigest)
		parent.mu.Unlock()

		current = parent
	}
	return nil
}

// nodeByPrefix walks from the root following '0'/'1' digits of prefix.
func (t *Tree) nodeByPrefix(prefix string) (*Node, error) {
	n := t.root
	for _, c := range prefix {
		if n == nil {
			return nil, ErrLeafNotFound
		}
		if c == '0' {
			n = n.left
		} else {
			n = n.right
		}
	}
	if n == nil {
		return nil, ErrLeafNotFound
	}
	return n, nil
}

// lcp returns the longest common prefix of a and b.
func lcp(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
