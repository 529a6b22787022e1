package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTally(t *testing.T) {
	eligible := []string{"a", "b", "c", "d"}

	cases := []struct {
		name        string
		votes       map[string]string
		wantTop     []string
		wantMax     int
		wantTurnout int
	}{
		{
			name:        "clear winner",
			votes:       map[string]string{"a": "b", "b": "c", "c": "b", "d": "b"},
			wantTop:     []string{"b"},
			wantMax:     3,
			wantTurnout: 4,
		},
		{
			name:        "two way tie ordered by eligibility",
			votes:       map[string]string{"a": "b", "b": "a", "c": "b", "d": "a"},
			wantTop:     []string{"a", "b"},
			wantMax:     2,
			wantTurnout: 4,
		},
		{
			name:        "abstentions count toward turnout only",
			votes:       map[string]string{"a": "c", "b": "", "c": "", "d": ""},
			wantTop:     []string{"c"},
			wantMax:     1,
			wantTurnout: 4,
		},
		{
			name:        "all abstain leaves every candidate on top",
			votes:       map[string]string{"a": "", "b": "", "c": "", "d": ""},
			wantTop:     []string{"a", "b", "c", "d"},
			wantMax:     0,
			wantTurnout: 4,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Tally(tc.votes, eligible)
			require.Equal(t, tc.wantTop, out.Top)
			require.Equal(t, tc.wantMax, out.Max)
			require.Equal(t, tc.wantTurnout, out.Turnout)
		})
	}
}

func TestOutcomeUnique(t *testing.T) {
	u, ok := Outcome{Top: []string{"a"}}.Unique()
	require.True(t, ok)
	require.Equal(t, "a", u)

	_, ok = Outcome{Top: []string{"a", "b"}}.Unique()
	require.False(t, ok)
}
