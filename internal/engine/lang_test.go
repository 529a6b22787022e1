package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableF_SubstitutesPlaceholders(t *testing.T) {
	tbl := Table{"x": "{user} voted on day {n}"}
	got := tbl.F("x", map[string]string{"user": "Alice", "n": "2"})
	require.Equal(t, "Alice voted on day 2", got)
}

// A missing key falls back to the key itself so a translation hole
// never swallows game state.
func TestTableF_UnknownKeyFallsBack(t *testing.T) {
	require.Equal(t, "no.such.key", Table{}.T("no.such.key"))
}

func TestDefaultTable_CoversEveryKey(t *testing.T) {
	tbl := DefaultTable()
	keys := []string{
		TxtRecruitOpen, TxtRecruitJoined, TxtVoteOpen, TxtVoteExecuted,
		TxtFortuneResult, TxtGameEndTitle, TxtRemainingTime, TxtTimeUp,
		TxtDictatorInvoked, TxtCutTimeApproved, TxtBakerBread, TxtNeedGM,
	}
	for _, k := range keys {
		_, ok := tbl[k]
		require.True(t, ok, "missing %s", k)
	}
}
