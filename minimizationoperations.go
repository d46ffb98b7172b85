package automaton

import (
	"log/slog"
	"slices"
)

// Minimize
// Minimizes the given deterministic automaton by partition refinement (Moore's algorithm). States
// without a transition on a used label are treated as moving to an implicit dead state; the dead state,
// every state equivalent to it and every unreachable block are dropped from the result. States of the
// result are numbered breadth-first from the initial state, following labels in ascending order, so two
// automata accepting the same language minimize to identical automata.
//
// A non-deterministic input is rejected; Determinize it first.
func Minimize(a *Automaton) (*Automaton, error) {
	if a == nil {
		return nil, preconditionf("minimize", "automaton is nil")
	}
	if !a.IsDeterministic() {
		return nil, preconditionf("minimize", "input automaton must be deterministic")
	}

	numStates := a.GetNumStates()
	labels := a.GetLabels()
	k := len(labels)
	dead := numStates

	// Total transition function over used labels, dead state included:
	delta := make([]int, (numStates+1)*k)
	for s := 0; s < numStates; s++ {
		for j, label := range labels {
			dest := a.Step(s, label)
			if dest == -1 {
				dest = dead
			}
			delta[s*k+j] = dest
		}
	}
	for j := range labels {
		delta[dead*k+j] = dead
	}

	// Initial partition: non-accepting (with the dead state) and accepting.
	block := make([]int, numStates+1)
	numBlocks := 1
	for s := 0; s < numStates; s++ {
		if a.IsAccept(s) {
			block[s] = 1
			numBlocks = 2
		}
	}

	passes := 0
	sig := make(blockSignature, k+1)
	for {
		passes++
		ids := NewHashMap[int](WithCapacity(2*numBlocks), WithLoadFactory(contentKeyLoadFactor))
		next := make([]int, numStates+1)
		for s := 0; s <= numStates; s++ {
			sig[0] = block[s]
			for j := 0; j < k; j++ {
				sig[j+1] = block[delta[s*k+j]]
			}
			id, ok := ids.Get(sig)
			if !ok {
				id = ids.Size()
				ids.Set(slices.Clone(sig), id)
			}
			next[s] = id
		}
		block = next
		// Refinement only splits blocks, so an unchanged count is the fixed point.
		if ids.Size() == numBlocks {
			break
		}
		numBlocks = ids.Size()
	}

	result, err := buildQuotient(a, labels, delta, block, numBlocks)
	if err != nil {
		return nil, err
	}
	getLogger().Debug("minimized automaton",
		slog.Int("states_in", numStates),
		slog.Int("states_out", result.GetNumStates()),
		slog.Int("passes", passes))
	return result, nil
}

// buildQuotient creates one state per block reachable from the initial block, skipping the dead block.
func buildQuotient(a *Automaton, labels []byte, delta, block []int, numBlocks int) (*Automaton, error) {
	numStates := a.GetNumStates()
	k := len(labels)
	deadBlock := block[numStates]
	if block[0] == deadBlock {
		return (&Automata{alphabet: a.alphabet}).MakeEmpty(), nil
	}

	rep := make([]int, numBlocks)
	newID := make([]int, numBlocks)
	for i := range rep {
		rep[i] = -1
		newID[i] = -1
	}
	for s := numStates - 1; s >= 0; s-- {
		rep[block[s]] = s
	}

	b := NewBuilderV1(a.alphabet, numBlocks, numBlocks*k)
	newID[block[0]] = b.CreateState()
	queue := []int{block[0]}
	for len(queue) > 0 {
		blk := queue[0]
		queue = queue[1:]
		s := rep[blk]
		b.SetAccept(newID[blk], a.IsAccept(s))
		for j, label := range labels {
			dest := block[delta[s*k+j]]
			if dest == deadBlock {
				continue
			}
			if newID[dest] == -1 {
				newID[dest] = b.CreateState()
				queue = append(queue, dest)
			}
			b.AddTransition(newID[blk], newID[dest], label)
		}
	}
	return b.Finish()
}

var _ Hashable = blockSignature{}

// blockSignature is the block of a state followed by the blocks its transitions lead to.
type blockSignature []int

func (b blockSignature) Hash() uint64 {
	h := uint64(len(b))
	for _, v := range b {
		h = h*31 + uint64(mix(v))
	}
	return h
}

func (b blockSignature) Equals(other Hashable) bool {
	o, ok := other.(blockSignature)
	return ok && slices.Equal(b, o)
}
