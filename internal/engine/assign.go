package engine

import (
	"fmt"
	"math/rand"
)

// wishScale makes a declared preference dominate the random perturbation
// at any sane randomness weight.
const wishScale = 100000

// AssignRoles maps each member to one role slot so that the role multiset
// equals the quota exactly, maximizing total preference score. wish
// returns a member's declared desirability for a role (neutral when no
// preferences were collected), randWeight scales the tie-breaking
// perturbation. Deterministic for a fixed rng seed and fixed wishes.
func AssignRoles(q Quota, memberIDs []string, wish func(string, Role) int, randWeight float64, rng *rand.Rand) (map[string]Role, error) {
	var slots []Role
	for _, r := range q.Active() {
		for i := 0; i < q[r]; i++ {
			slots = append(slots, r)
		}
	}
	if len(slots) != len(memberIDs) {
		return nil, fmt.Errorf("quota sum %d != member count %d", len(slots), len(memberIDs))
	}
	members := append([]string(nil), memberIDs...)
	rng.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })
	rng.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })

	n := len(members)
	mat := make([][]int64, n)
	for i := 0; i < n; i++ {
		mat[i] = make([]int64, n)
		for j := 0; j < n; j++ {
			perturb := int64(rng.Float64() * randWeight * wishScale)
			mat[i][j] = perturb + wishScale*int64(wish(members[i], slots[j]))
		}
	}

	x := hungarian(mat)
	out := make(map[string]Role, n)
	for i, id := range members {
		out[id] = slots[x[i]]
	}
	return out, nil
}

// hungarian solves the n×n maximum-weight bipartite assignment by the
// classical O(n³) primal-dual method. Returns the column matched to each
// row.
func hungarian(mat [][]int64) []int {
	n := len(mat)
	const inf = int64(1) << 60
	fx := make([]int64, n)
	fy := make([]int64, n)
	x := make([]int, n)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		fx[i] = -inf
		x[i] = -1
		y[i] = -1
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if mat[i][j] > fx[i] {
				fx[i] = mat[i][j]
			}
		}
	}
	for i := 0; i < n; {
		t := make([]int, n)
		for j := range t {
			t[j] = -1
		}
		s := make([]int, n+1)
		for k := range s {
			s[k] = i
		}
		q := 0
		for p := 0; p <= q && x[i] < 0; p++ {
			for k, j := s[p], 0; j < n && x[i] < 0; j++ {
				if fx[k]+fy[j] != mat[k][j] || t[j] >= 0 {
					continue
				}
				q++
				s[q] = y[j]
				t[j] = k
				if s[q] >= 0 {
					continue
				}
				// Augment along the alternating path back to row i.
				for p = j; p >= 0; j = p {
					k = t[j]
					y[j] = k
					p = x[k]
					x[k] = j
				}
			}
		}
		if x[i] < 0 {
			d := inf
			for k := 0; k <= q; k++ {
				for j := 0; j < n; j++ {
					if t[j] >= 0 {
						continue
					}
					if v := fx[s[k]] + fy[j] - mat[s[k]][j]; v < d {
						d = v
					}
				}
			}
			for j := 0; j < n; j++ {
				if t[j] >= 0 {
					fy[j] += d
				}
			}
			for k := 0; k <= q; k++ {
				fx[s[k]] -= d
			}
		} else {
			i++
		}
	}
	return x
}
