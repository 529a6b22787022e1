package engine

import "fmt"

type Team string

const (
	TeamGood  Team = "Good"
	TeamEvil  Team = "Evil"
	TeamOther Team = "Other"
)

type Role string

const (
	RoleVillager       Role = "Villager"
	RoleSeer           Role = "Seer"
	RolePriest         Role = "Priest"
	RoleKnight         Role = "Knight"
	RoleWerewolf       Role = "Werewolf"
	RoleTraitor        Role = "Traitor"
	RoleMason          Role = "Mason"
	RoleDictator       Role = "Dictator"
	RoleBaker          Role = "Baker"
	RoleCommunicatable Role = "Communicatable"
)

// AllRoles fixes the iteration order everywhere a quota is walked.
var AllRoles = []Role{
	RoleVillager, RoleSeer, RolePriest, RoleKnight, RoleWerewolf,
	RoleTraitor, RoleMason, RoleDictator, RoleBaker, RoleCommunicatable,
}

// Team is the default team, used for win-condition counting.
func (r Role) Team() Team {
	switch r {
	case RoleWerewolf, RoleTraitor, RoleCommunicatable:
		return TeamEvil
	default:
		return TeamGood
	}
}

// FortuneTeam is the team an investigation reports for this role. The
// Traitor and the Communicatable sit in the Evil roster but investigate
// as Good; only the Werewolf itself reads Evil.
func (r Role) FortuneTeam() Team {
	if r == RoleWerewolf {
		return TeamEvil
	}
	return TeamGood
}

// InWolfDen reports whether the role reads and writes the werewolf room.
func (r Role) InWolfDen() bool {
	return r == RoleWerewolf || r == RoleCommunicatable
}

var roleLetters = map[byte]Role{
	'V': RoleVillager,
	'S': RoleSeer,
	'P': RolePriest,
	'K': RoleKnight,
	'W': RoleWerewolf,
	'T': RoleTraitor,
	'M': RoleMason,
	'D': RoleDictator,
	'B': RoleBaker,
	'C': RoleCommunicatable,
}

// Quota maps each role to its required count. The sum is the number of
// participants needed to start.
type Quota map[Role]int

func (q Quota) Sum() int {
	n := 0
	for _, r := range AllRoles {
		n += q[r]
	}
	return n
}

// Active returns the roles with a positive count, in fixed order.
func (q Quota) Active() []Role {
	out := make([]Role, 0, len(q))
	for _, r := range AllRoles {
		if q[r] > 0 {
			out = append(out, r)
		}
	}
	return out
}

func (q Quota) Clone() Quota {
	out := make(Quota, len(q))
	for r, n := range q {
		out[r] = n
	}
	return out
}

// ParseRoleLetters builds a quota from shorthand like "VVVSW". Unknown
// letters are reported individually; the known ones still apply.
func ParseRoleLetters(s string) (Quota, []error) {
	q := make(Quota)
	var errs []error
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' {
			continue
		}
		r, ok := roleLetters[c]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown role letter %q at position %d", string(c), i))
			continue
		}
		q[r]++
	}
	return q, errs
}
