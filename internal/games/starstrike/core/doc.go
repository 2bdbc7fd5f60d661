// Package core implements the starstrike enemy formation and combat engine.
//
// It is UI-agnostic and deterministic: time comes from an injected clock,
// randomness from an injected RNG and sound leaves through an AudioSink.
// One Stage.Tick advances the formation, the divers and the combat
// resolver in a fixed order; nothing here blocks or spawns goroutines.
package core
