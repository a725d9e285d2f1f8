// Package bracket is the single-elimination engine: a guarded per-team
// status table, a pairing scanner, a match runner and the orchestrator that
// ties them together.
//
// # Status Model
//
// Every team is in exactly one [Status]: [Eliminated], [Playing], or
// Ready(r) while it waits to be paired for round r. Only two transitions
// exist:
//
//	Ready(r) --claim--> Playing --resolve--> Ready(r+1) | Eliminated
//
// Claims and resolves each happen inside one critical section of
// [RoundState], so no team is ever in two in-flight matches and no caller
// observes half of a pair updated.
//
// # Execution Modes
//
// In [ModeAuto] the [Orchestrator] sweeps the table with a [Scanner],
// starts one goroutine per claimed match, and sweeps again whenever a
// result comes in until N-1 matches have been claimed. In [ModeManual] it
// claims one pair at a time with [RoundState.TryClaimPair] and plays it to
// completion before the next claim.
//
// A match takes the round of the team that was scanned first. Teams from
// different rounds are never paired.
package bracket
