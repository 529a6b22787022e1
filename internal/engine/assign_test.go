package engine

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func neutralWish(string, Role) int { return 3 }

func TestAssignRoles_QuotaIsExactlySatisfied(t *testing.T) {
	q := Quota{RoleVillager: 3, RoleSeer: 1, RoleWerewolf: 2, RoleKnight: 1}
	ids := make([]string, q.Sum())
	for i := range ids {
		ids[i] = fmt.Sprintf("p%d", i)
	}

	got, err := AssignRoles(q, ids, neutralWish, 1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, got, len(ids))

	counts := Quota{}
	for _, id := range ids {
		role, ok := got[id]
		require.True(t, ok, "member %s got no role", id)
		counts[role]++
	}
	require.Equal(t, q, counts)
}

func TestAssignRoles_CountMismatch(t *testing.T) {
	q := Quota{RoleVillager: 2, RoleWerewolf: 1}
	_, err := AssignRoles(q, []string{"a", "b"}, neutralWish, 1, rand.New(rand.NewSource(1)))
	require.Error(t, err)
}

func TestAssignRoles_DeterministicForFixedSeed(t *testing.T) {
	q := Quota{RoleVillager: 4, RoleSeer: 1, RoleWerewolf: 2}
	ids := []string{"a", "b", "c", "d", "e", "f", "g"}
	wish := func(id string, r Role) int {
		if id == "c" && r == RoleSeer {
			return 5
		}
		return 3
	}

	first, err := AssignRoles(q, ids, wish, 1, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	second, err := AssignRoles(q, ids, wish, 1, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

// With the random perturbation dialed down, a lone strong preference
// must always win its role: the wish term dominates every cell.
func TestAssignRoles_StrongPreferenceWins(t *testing.T) {
	q := Quota{RoleVillager: 3, RoleWerewolf: 1}
	ids := []string{"a", "b", "c", "d"}
	wish := func(id string, r Role) int {
		if r == RoleWerewolf {
			if id == "d" {
				return 5
			}
			return 1
		}
		return 3
	}

	for seed := int64(0); seed < 20; seed++ {
		got, err := AssignRoles(q, ids, wish, 0.5, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		require.Equal(t, RoleWerewolf, got["d"], "seed %d", seed)
	}
}

// All-neutral wishes degenerate to a shuffle: over many seeds every
// member should land the wolf role at least once.
func TestAssignRoles_NeutralWishesVary(t *testing.T) {
	q := Quota{RoleVillager: 2, RoleWerewolf: 1}
	ids := []string{"a", "b", "c"}

	wolves := map[string]bool{}
	for seed := int64(0); seed < 200; seed++ {
		got, err := AssignRoles(q, ids, neutralWish, 1, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		for id, r := range got {
			if r == RoleWerewolf {
				wolves[id] = true
			}
		}
	}
	require.Len(t, wolves, 3, "every member should draw the wolf sometimes")
}
