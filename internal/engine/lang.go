package engine

import "strings"

// Text keys. Every human-readable string the engine emits is looked up
// by one of these constants so the hosting bot can swap the table out
// for another language.
const (
	TxtRecruitOpen       = "recruit.open"
	TxtRecruitJoined     = "recruit.joined"
	TxtRecruitAlreadyIn  = "recruit.already_in"
	TxtRecruitLeft       = "recruit.left"
	TxtRecruitNotIn      = "recruit.not_in"
	TxtRecruitFull       = "recruit.full"
	TxtRecruitNotEnough  = "recruit.not_enough"
	TxtRecruitTooMany    = "recruit.too_many"
	TxtRecruitCount      = "recruit.count"
	TxtRoleBreakdown     = "recruit.role_breakdown"
	TxtRuleEditRejected  = "rules.edit_rejected"
	TxtNeedGM            = "sys.need_gm"
	TxtMemberList        = "sys.member_list"
	TxtRemainingTime     = "sys.remaining_time"
	TxtTimeUp            = "sys.time_up"
	TxtTimerStopped      = "sys.timer_stopped"
	TxtTimerResumed      = "sys.timer_resumed"
	TxtNoTimer           = "sys.no_timer"
	TxtCollabDegraded    = "sys.collab_degraded"
	TxtPrepStart         = "prep.start"
	TxtPrepRole          = "prep.your_role"
	TxtPrepWishOpen      = "prep.wish_open"
	TxtPrepAccepted      = "prep.accepted"
	TxtPrepAlreadyAcc    = "prep.already_accepted"
	TxtPrepAllAccepted   = "prep.all_accepted"
	TxtPrepLaggards      = "prep.laggards"
	TxtPrepForceStart    = "prep.force_start"
	TxtPrepNoForceYet    = "prep.no_force_yet"
	TxtFirstNightStart   = "p3.start"
	TxtFortuneResult     = "fortune.result"
	TxtFortuneNoTarget   = "fortune.no_target"
	TxtDayMorningKilled  = "p4.morning_killed"
	TxtDayMorningQuiet   = "p4.morning_quiet"
	TxtDayLength         = "p4.length"
	TxtBakerBread        = "p4.baker_bread"
	TxtBakerDead         = "p4.baker_dead"
	TxtClaimOpen         = "p4.claim_open"
	TxtClaimRole         = "p4.claim_role"
	TxtClaimMark         = "p4.claim_mark"
	TxtCutTimeCount      = "p4.cut_time_count"
	TxtCutTimeApproved   = "p4.cut_time_approved"
	TxtDictatorInvoked   = "p4.dictator_invoked"
	TxtVoteOpen          = "p5.open"
	TxtVoteCast          = "p5.cast"
	TxtVoteExecuted      = "p5.executed"
	TxtVoteRevote        = "p5.revote"
	TxtVoteEven          = "p5.even"
	TxtNightStart        = "p6.start"
	TxtKnightChoose      = "knight.choose"
	TxtKnightNoSelect    = "knight.no_select"
	TxtSeerChoose        = "seer.choose"
	TxtWolfChoose        = "werewolf.choose"
	TxtWolfAutoTarget    = "werewolf.auto_target"
	TxtWelcomeDead       = "sys.welcome_dead"
	TxtGameEndTitle      = "p7.title"
	TxtGameEndContinue   = "p7.continue"
	TxtGameEndBreakup    = "p7.breakup"
	TxtPhaseName         = "sys.phase_name"
)

// Table maps text keys to template strings with {name} placeholders.
type Table map[string]string

// F renders key, substituting {k} for args["k"]. Unknown keys fall back
// to the key itself so a hole in a translation never hides game state.
func (t Table) F(key string, args map[string]string) string {
	s, ok := t[key]
	if !ok {
		s = key
	}
	for k, v := range args {
		s = strings.ReplaceAll(s, "{"+k+"}", v)
	}
	return s
}

func (t Table) T(key string) string { return t.F(key, nil) }

// DefaultTable is the built-in English table.
func DefaultTable() Table {
	return Table{
		TxtRecruitOpen:      "Recruiting players for a new game!",
		TxtRecruitJoined:    "{user} joined the game.",
		TxtRecruitAlreadyIn: "{user} is already in.",
		TxtRecruitLeft:      "{user} left the game.",
		TxtRecruitNotIn:     "{user} has not joined.",
		TxtRecruitFull:      "All seats taken, waiting for start.",
		TxtRecruitNotEnough: "Not enough players: {num} of {req}.",
		TxtRecruitTooMany:   "Too many players: {num} of {req}.",
		TxtRecruitCount:     "Players: {num} / {req}",
		TxtRoleBreakdown:    "Current role breakdown ({num} players)",
		TxtRuleEditRejected: "Some rule edits were rejected",
		TxtNeedGM:           "This command needs GM permission.",
		TxtMemberList:       "Joined players",
		TxtRemainingTime:    "Remaining time: {time}",
		TxtTimeUp:           "Time is up.",
		TxtTimerStopped:     "Timer stopped at {time}.",
		TxtTimerResumed:     "Timer resumed at {time}.",
		TxtNoTimer:          "No timer is running.",
		TxtCollabDegraded:   "A delivery failure occurred; continuing in degraded mode.",
		TxtPrepStart:        "Preparing the game.",
		TxtPrepRole:         "Your role is {role} ({team}).",
		TxtPrepWishOpen:     "Declare role preferences within {sec} seconds.",
		TxtPrepAccepted:     "{user} accepted their role.",
		TxtPrepAlreadyAcc:   "Role already accepted.",
		TxtPrepAllAccepted:  "Everyone accepted. Starting the first night.",
		TxtPrepLaggards:     "Still waiting on: {users}. A GM may force-start.",
		TxtPrepForceStart:   "The GM force-started the game.",
		TxtPrepNoForceYet:   "Cannot force-start before the confirmation window ({sec}s) elapses.",
		TxtFirstNightStart:  "The first night lasts {time}.",
		TxtFortuneResult:    "{user} is on the {team} side.",
		TxtFortuneNoTarget:  "No one can be investigated tonight.",
		TxtDayMorningKilled: "Morning of day {n}: {user} was killed.",
		TxtDayMorningQuiet:  "Morning of day {n}: nobody died.",
		TxtDayLength:        "The day lasts {time}.",
		TxtBakerBread:       "The baker delivers {bread}.",
		TxtBakerDead:        "No bread today. The baker is dead.",
		TxtClaimOpen:        "Claim a role or mark other players.",
		TxtClaimRole:        "{user} claims {role}.",
		TxtClaimMark:        "{user} marks {target} as {mark}.",
		TxtCutTimeCount:     "Cut-time votes: {now} / {req}",
		TxtCutTimeApproved:  "Cut-time approved. Time shortened.",
		TxtDictatorInvoked:  "The dictator forces an immediate vote!",
		TxtVoteOpen:         "Vote for the player to execute (day {n}{round}).",
		TxtVoteCast:         "{user} voted.",
		TxtVoteExecuted:     "{user} was executed.",
		TxtVoteRevote:       "The vote is even. Revoting.",
		TxtVoteEven:         "The final vote is even. Nobody is executed.",
		TxtNightStart:       "Night falls for {time}.",
		TxtKnightChoose:     "Choose who to guard tonight.",
		TxtKnightNoSelect:   "You guarded nobody tonight.",
		TxtSeerChoose:       "Choose who to investigate tonight.",
		TxtWolfChoose:       "Choose tonight's prey.",
		TxtWolfAutoTarget:   "No target was chosen; {user} was picked.",
		TxtWelcomeDead:      "Welcome to the dead, {user}.",
		TxtGameEndTitle:     "The {team} side wins!",
		TxtGameEndContinue:  "Type continue within {time} for another round, or end to break up.",
		TxtGameEndBreakup:   "The game broke up. Thanks for playing.",
		TxtPhaseName:        "Phase: {phase}",
	}
}

var breadRepertoire = []string{
	"a baguette", "croissants", "rye bread", "bagels", "melon bread", "pretzels",
}
