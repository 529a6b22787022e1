package engine

// Outcome is the result of one tally round. Counts carries the full
// distribution for display; resolution only needs Top and Max.
type Outcome struct {
	Top     []string       // targets holding the maximum count
	Max     int            // the maximum count
	Counts  map[string]int // votes per target, zero entries omitted
	Turnout int            // ballots cast, abstentions included
}

// Unique returns the single winner when exactly one target strictly
// holds the maximum.
func (o Outcome) Unique() (string, bool) {
	if len(o.Top) == 1 {
		return o.Top[0], true
	}
	return "", false
}

// Tally counts one vote or action round. votes maps voter to chosen
// target; an empty target is an abstention and counts toward turnout
// only. eligible fixes the candidate set and the order of Top.
func Tally(votes map[string]string, eligible []string) Outcome {
	o := Outcome{Counts: make(map[string]int)}
	for _, target := range votes {
		o.Turnout++
		if target == "" {
			continue
		}
		o.Counts[target]++
		if o.Counts[target] > o.Max {
			o.Max = o.Counts[target]
		}
	}
	for _, id := range eligible {
		if o.Counts[id] == o.Max && o.Max >= 0 {
			o.Top = append(o.Top, id)
		}
	}
	return o
}
