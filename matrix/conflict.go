package matrix

import (
	"sort"

	shypn "github.com/simao-eugenio/shypn-sub007"
)

// ConflictGroups partitions the ready transitions into groups that compete
// for tokens. Two transitions land in the same group when they consume from
// a common contended place: one whose tokens cannot satisfy the summed
// demand of all its ready consumers. Transitions without contention come
// back as singleton groups.
//
// Groups are ordered by their smallest member and members are ascending, so
// the partition is deterministic for a given marking.
func (m *Manager) ConflictGroups(ready []int, mk shypn.Marking) [][]int {
	if len(ready) == 0 {
		return nil
	}
	pos := make(map[int]int, len(ready))
	for i, t := range ready {
		pos[t] = i
	}
	parent := make([]int, len(ready))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	demand := make(map[int]float64)
	consumers := make(map[int][]int)
	for _, t := range ready {
		for _, e := range m.store.inputs(t) {
			demand[e.Place] += e.Weight
			consumers[e.Place] = append(consumers[e.Place], t)
		}
	}
	for p, d := range demand {
		if d <= mk[p]+tol {
			continue
		}
		cc := consumers[p]
		for _, t := range cc[1:] {
			union(pos[cc[0]], pos[t])
		}
	}

	byRoot := make(map[int][]int)
	for i, t := range ready {
		r := find(i)
		byRoot[r] = append(byRoot[r], t)
	}
	groups := make([][]int, 0, len(byRoot))
	for _, g := range byRoot {
		sort.Ints(g)
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}
