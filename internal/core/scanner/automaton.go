package scanner

// Aho-Corasick automaton over raw bytes of the marker set.
// A fixed 256-way transition table per node keeps the hot loop free of map
// lookups; marker sets are tiny so the table cost is a few KB

type acNode struct {
	trans  [256]int32 // next state or -1
	fail   int32
	output []int // marker ids ending here
}

type automaton struct {
	nodes []acNode
	lens  []int // marker length by id
}

func newNode() acNode {
	var n acNode
	for i := range n.trans {
		n.trans[i] = -1
	}
	return n
}

func newAutomaton(markers []string) *automaton {
	a := &automaton{nodes: []acNode{newNode()}, lens: make([]int, len(markers))}
	for id, m := range markers {
		a.add(m, id)
	}
	a.build()
	return a
}

func (a *automaton) add(pat string, id int) {
	a.lens[id] = len(pat)
	if pat == "" {
		return
	}
	state := int32(0)
	for i := 0; i < len(pat); i++ {
		b := pat[i]
		nxt := a.nodes[state].trans[b]
		if nxt == -1 {
			nxt = int32(len(a.nodes))
			a.nodes[state].trans[b] = nxt
			a.nodes = append(a.nodes, newNode())
		}
		state = nxt
	}
	a.nodes[state].output = append(a.nodes[state].output, id)
}

// build computes failure links breadth first and merges outputs along them
func (a *automaton) build() {
	q := make([]int32, 0, len(a.nodes))
	for b := range 256 {
		if s := a.nodes[0].trans[b]; s != -1 {
			a.nodes[s].fail = 0
			q = append(q, s)
		}
	}
	for qi := 0; qi < len(q); qi++ {
		r := q[qi]
		for b := range 256 {
			s := a.nodes[r].trans[b]
			if s == -1 {
				continue
			}
			q = append(q, s)

			f := a.nodes[r].fail
			for f != 0 && a.nodes[f].trans[b] == -1 {
				f = a.nodes[f].fail
			}
			if nxt := a.nodes[f].trans[b]; nxt != -1 && nxt != s {
				a.nodes[s].fail = nxt
			} else {
				a.nodes[s].fail = 0
			}
			a.nodes[s].output = append(a.nodes[s].output, a.nodes[a.nodes[s].fail].output...)
		}
	}
}

// find reports every match, overlapping ones included, as (start, id) in end order
func (a *automaton) find(text string, emit func(start, id int), stop func() bool) bool {
	state := int32(0)
	for i := 0; i < len(text); i++ {
		if i&checkMask == 0 && stop != nil && stop() {
			return false
		}
		b := text[i]
		for state != 0 && a.nodes[state].trans[b] == -1 {
			state = a.nodes[state].fail
		}
		if nxt := a.nodes[state].trans[b]; nxt != -1 {
			state = nxt
		}
		for _, id := range a.nodes[state].output {
			emit(i+1-a.lens[id], id)
		}
	}
	return true
}

// naive checks every offset against every marker; O(n·m), kept as the reference fallback
type naive struct{ markers []string }

func (n naive) find(text string, emit func(start, id int), stop func() bool) bool {
	for i := 0; i < len(text); i++ {
		if i&checkMask == 0 && stop != nil && stop() {
			return false
		}
		for id, m := range n.markers {
			if m != "" && len(text)-i >= len(m) && text[i:i+len(m)] == m {
				emit(i, id)
			}
		}
	}
	return true
}

// checkMask spaces out cancellation checks to every 64Ki digits
const checkMask = 1<<16 - 1

type matcher interface {
	find(text string, emit func(start, id int), stop func() bool) bool
}
