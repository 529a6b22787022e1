package types

// Client -> Server
// Chat:
//   participant_id: string
//   channel_id: string
//   text: string // "join", "start", "rule day.day_time=240", ...
//
// JoinGame:
//   participant_id: string
//   handle: uuid // from the rendered join controller
//   name: string
//
// AcceptRole:
//   participant_id: string
//   handle: uuid
//
// WishRole:
//   participant_id: string
//   handle: uuid
//   role: "Villager" | "Seer" | "Priest" | "Knight" | "Werewolf" |
//         "Traitor" | "Mason" | "Dictator" | "Baker" | "Communicatable"
//   weight: 1..5 // 3 is neutral
//
// CastVote / GuardTarget / Investigate / WolfTarget:
//   participant_id: string
//   handle: uuid
//   target: string // participant id
//
// ClaimRole:
//   participant_id: string
//   handle: uuid
//   role: string
//
// MarkMember:
//   participant_id: string
//   handle: uuid
//   target: string
//   black: boolean
//
// InvokeDictator / CutTime:
//   participant_id: string
//   handle: uuid

// Server -> Client
// StateSnapshot:
//   version: number
//   state: see snapshot.go
//
// Error:
//   error: string
