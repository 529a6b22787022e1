package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// FirstNightFortune values.
const (
	FortuneNone        = "no_fortune"
	FortuneRandom      = "random"
	FortuneRandomWhite = "random_white"
)

// Vote.WhenEven values.
const (
	EvenRandom = "random"
	EvenNoExec = "no_exec"
)

// Day.CutTime values.
const (
	CutTimeAll      = "all"
	CutTimeMajority = "majority"
)

type TimedPhaseRules struct {
	Length     int
	AlertTimes []int
}

type DayRules struct {
	Length     int
	Reduction  int // seconds removed from the day per elapsed day
	AlertTimes []int
	CutTime    string // all | majority
}

type VoteRules struct {
	Length     int
	AlertTimes []int
	Talk       bool
	RevoteNum  int    // extra rounds after the first
	WhenEven   string // random | no_exec
}

// Rules is the active rule set. Mutable until the session starts, via
// bulk load or per-line edits.
type Rules struct {
	RoleNums Quota

	FirstNightFortune string // no_fortune | random | random_white
	ContinuousGuard   bool
	ConfirmationSec   int

	WishRoleTime       int // 0 disables preference collection
	WishRoleRandWeight float64

	FirstNight TimedPhaseRules
	Day        DayRules
	Night      TimedPhaseRules
	AfterGame  TimedPhaseRules
	Vote       VoteRules
}

func DefaultRules() Rules {
	return Rules{
		RoleNums:          Quota{RoleVillager: 3, RoleSeer: 1, RoleWerewolf: 1},
		FirstNightFortune: FortuneRandom,
		ContinuousGuard:   false,
		ConfirmationSec:   30,

		WishRoleTime:       0,
		WishRoleRandWeight: 1,

		FirstNight: TimedPhaseRules{Length: 90, AlertTimes: []int{30}},
		Day:        DayRules{Length: 300, Reduction: 0, AlertTimes: []int{120, 60, 30}, CutTime: CutTimeMajority},
		Night:      TimedPhaseRules{Length: 120, AlertTimes: []int{30}},
		AfterGame:  TimedPhaseRules{Length: 180, AlertTimes: []int{60}},
		Vote:       VoteRules{Length: 90, AlertTimes: []int{30}, Talk: false, RevoteNum: 1, WhenEven: EvenNoExec},
	}
}

// ApplyEdits applies line-delimited "attribute=value" edits best-effort:
// each offending line produces its own error and the valid lines still
// take hold. attribute may use '.' to reach nested sections, and ':' or
// a space work as the delimiter too.
func (r *Rules) ApplyEdits(text string) []error {
	var errs []error
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		attr, value, ok := splitEdit(line)
		if !ok {
			errs = append(errs, fmt.Errorf("malformed rule edit %q", line))
			continue
		}
		if err := r.set(attr, value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", attr, err))
		}
	}
	return errs
}

func splitEdit(line string) (attr, value string, ok bool) {
	pos := len(line)
	for _, d := range []string{"=", ":", " "} {
		if i := strings.Index(line, d); i >= 1 && i < pos {
			pos = i
		}
	}
	if pos >= len(line) {
		return "", "", false
	}
	attr = strings.TrimSpace(line[:pos])
	value = strings.TrimSpace(line[pos+1:])
	return attr, value, attr != "" && value != ""
}

// set is deliberately an exhaustive switch over the rule shape rather
// than anything reflective: unknown attributes fail loudly and the
// compiler sees every reachable field.
func (r *Rules) set(attr, value string) error {
	switch attr {
	case "first_nights_fortune":
		return setChoice(&r.FirstNightFortune, value, FortuneNone, FortuneRandom, FortuneRandomWhite)
	case "continuous_guard":
		return setBool(&r.ContinuousGuard, value)
	case "confirmation_sec":
		return setInt(&r.ConfirmationSec, value)
	case "wish_role_time":
		return setInt(&r.WishRoleTime, value)
	case "wish_role_rand_weight":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", value)
		}
		r.WishRoleRandWeight = f
		return nil
	case "first_night.first_night_time":
		return setInt(&r.FirstNight.Length, value)
	case "day.day_time":
		return setInt(&r.Day.Length, value)
	case "day.reduction_time":
		return setInt(&r.Day.Reduction, value)
	case "day.cut_time":
		return setChoice(&r.Day.CutTime, value, CutTimeAll, CutTimeMajority)
	case "night.length":
		return setInt(&r.Night.Length, value)
	case "after_game.length":
		return setInt(&r.AfterGame.Length, value)
	case "vote.length":
		return setInt(&r.Vote.Length, value)
	case "vote.talk":
		return setBool(&r.Vote.Talk, value)
	case "vote.revote_num":
		return setInt(&r.Vote.RevoteNum, value)
	case "vote.when_even":
		return setChoice(&r.Vote.WhenEven, value, EvenRandom, EvenNoExec)
	default:
		if role, n, ok := roleNumEdit(attr, value); ok {
			if n < 0 {
				return fmt.Errorf("negative count %d", n)
			}
			r.RoleNums[role] = n
			return nil
		}
		return fmt.Errorf("unknown attribute")
	}
}

func roleNumEdit(attr, value string) (Role, int, bool) {
	name, ok := strings.CutPrefix(attr, "role_nums.")
	if !ok {
		return "", 0, false
	}
	for _, role := range AllRoles {
		if strings.EqualFold(name, string(role)) {
			n, err := strconv.Atoi(value)
			if err != nil {
				return "", 0, false
			}
			return role, n, true
		}
	}
	return "", 0, false
}

func setInt(dst *int, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("not an integer: %q", value)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, value string) error {
	switch strings.ToLower(value) {
	case "on", "yes", "y", "true", "t", "1":
		*dst = true
	case "off", "no", "n", "false", "f", "0":
		*dst = false
	default:
		return fmt.Errorf("not a boolean: %q", value)
	}
	return nil
}

func setChoice(dst *string, value string, choices ...string) error {
	for _, c := range choices {
		if strings.EqualFold(value, c) {
			*dst = c
			return nil
		}
	}
	return fmt.Errorf("must be one of %s, got %q", strings.Join(choices, "|"), value)
}
