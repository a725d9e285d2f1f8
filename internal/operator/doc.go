// Package operator is the interactive side of manual mode: a line-based
// console that asks for the run mode, the way each match is decided, live
// overrides during a simulated match, and directly entered scores.
//
// Malformed answers are re-prompted. End of input while an answer is
// required fails with an error wrapping errors.ErrInputClosed.
package operator
