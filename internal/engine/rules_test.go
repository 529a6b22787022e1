package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyEdits_ValidLinesApply(t *testing.T) {
	r := DefaultRules()
	errs := r.ApplyEdits("day.day_time=240\nvote.when_even random\ncontinuous_guard: on\nrole_nums.Knight=1")
	require.Empty(t, errs)
	require.Equal(t, 240, r.Day.Length)
	require.Equal(t, EvenRandom, r.Vote.WhenEven)
	require.True(t, r.ContinuousGuard)
	require.Equal(t, 1, r.RoleNums[RoleKnight])
}

// Edits are best-effort: a bad line yields its own error while the
// good lines still land.
func TestApplyEdits_BadLinesReportedIndividually(t *testing.T) {
	r := DefaultRules()
	errs := r.ApplyEdits("day.day_time=oops\nnight.length=60\nno_such_attr=1\nvote.talk=definitely")
	require.Len(t, errs, 3)
	require.Equal(t, 60, r.Night.Length)
	require.Equal(t, DefaultRules().Day.Length, r.Day.Length)
}

func TestApplyEdits_ChoiceValidation(t *testing.T) {
	r := DefaultRules()
	errs := r.ApplyEdits("first_nights_fortune=sideways")
	require.Len(t, errs, 1)
	require.Equal(t, FortuneRandom, r.FirstNightFortune)

	errs = r.ApplyEdits("first_nights_fortune=no_fortune")
	require.Empty(t, errs)
	require.Equal(t, FortuneNone, r.FirstNightFortune)
}

func TestParseRoleLetters(t *testing.T) {
	q, errs := ParseRoleLetters("VVVSKW")
	require.Empty(t, errs)
	require.Equal(t, Quota{RoleVillager: 3, RoleSeer: 1, RoleKnight: 1, RoleWerewolf: 1}, q)
	require.Equal(t, 6, q.Sum())
}

func TestParseRoleLetters_UnknownLettersPerCharacter(t *testing.T) {
	q, errs := ParseRoleLetters("VXWZ")
	require.Len(t, errs, 2)
	require.Equal(t, 1, q[RoleVillager])
	require.Equal(t, 1, q[RoleWerewolf])
}
