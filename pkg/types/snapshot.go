package types

// StateSnapshot.state:
//   phase: "unstarted" | "recruiting" | "preparation" | "first_night" |
//          "daytime" | "vote" | "night" | "game_end"
//   day: number // -1 before the first night, then 0, 1, 2, ...
//   remaining_sec: number // -1 when no timer is running
//   members: [
//     {
//       id: string
//       name: string
//       alive: boolean
//       cause: "executed" | "devoured" // omitted while alive
//     }
//   ]
// Roles are never present in a snapshot; they are delivered over the
// transport's private member channels only.
