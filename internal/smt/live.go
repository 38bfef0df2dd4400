package smt

// UpdateLive performs a single concurrent point-update using the streaming,
// cooperative-preemption protocol (spec §4.3). Multiple writers may call
// UpdateLive concurrently against overlapping root-to-leaf paths; a writer
// preempted by a later writer on the same path abandons its walk and
// returns normally — preemption is not an error.
//
// tag.Seq must strictly increase per tag.ThreadID; the caller (the
// dispatcher) is responsible for minting that sequence.
func (t *Tree) UpdateLive(key, value string, tag WriterTag) error {
	leaf, err := t.leafNode(key)
	if err != nil {
		return err
	}

	// --- Leaf phase ---
	leaf.mu.Lock()
	if !leaf.isLeaf {
		leaf.mu.Unlock()
		return ErrNonLeafUpdate
	}

	// Step 1: stale-leaf rejection. The incoming update is stale relative
	// to whatever last finalized this leaf; return without modification.
	// This check is thread-id-agnostic by design (see DESIGN.md's record
	// of the corresponding Open Question in spec §9): it compares only
	// sequence numbers, which is exactly scenario 5's documented guard.
	if tag.Seq <= leaf.lastWriter.Seq {
		leaf.mu.Unlock()
		return nil
	}

	// Step 2: if a different, known writer last touched this leaf, raise
	// its stop-table entry so it abandons any walk still in flight.
	old := leaf.lastWriter
	if old.ThreadID != tag.ThreadID && old.ThreadID >= 0 {
		t.stop.raise(old.ThreadID, old.Seq)
	}

	// Step 3: finalize the leaf.
	leaf.digest = hashValue(value)
	leaf.lastWriter = tag
	leaf.mu.Unlock()

	// --- Percolation phase ---
	current := leaf
	for current != t.root {
		parent := current.parent

		// Lock acquisition order is parent-then-children, bottom-up, one
		// level at a time: every writer takes locks in this order, so no
		// writer ever holds a grandparent while requesting a parent, and
		// deadlock cannot form.
		parent.mu.Lock()

		// Stop check: has this writer's walk been preempted?
		if t.stop.stopped(tag.ThreadID, tag.Seq) {
			parent.mu.Unlock()
			return nil
		}

		// Redundancy check: the parent already reflects this writer's
		// digest for this child side.
		isLeft := parent.left == current
		if isLeft {
			if parent.leftWriter == tag {
				parent.mu.Unlock()
				return nil
			}
		} else if parent.rightWriter == tag {
			parent.mu.Unlock()
			return nil
		}

		left, right := parent.left, parent.right

		left.mu.Lock()
		leftDigest := left.digest
		leftWriter := left.lastWriter
		left.mu.Unlock()

		right.mu.Lock()
		rightDigest := right.digest
		rightWriter := right.lastWriter
		right.mu.Unlock()

		// If a different, known writer last finalized this parent,
		// preempt it: the winning writer here supersedes it.
		prevParentWriter := parent.lastWriter
		if prevParentWriter.ThreadID != tag.ThreadID && prevParentWriter.ThreadID >= 0 {
			t.stop.raise(prevParentWriter.ThreadID, prevParentWriter.Seq)
		}

		parent.digest = hashChildren(leftDigest, rightDigest)
		parent.leftWriter = leftWriter
		parent.rightWriter = rightWriter
		parent.lastWriter = tag

		parent.mu.Unlock()
		current = parent
	}
	return nil
}
