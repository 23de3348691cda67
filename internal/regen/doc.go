// SPDX-License-Identifier: MPL-2.0

// Package regen drives regeneration passes in watch mode.
//
// An Orchestrator owns a pass Runner and a change-notification Source. Start
// runs one pass immediately, then one full pass per notification. Passes are
// serialized by a single worker fed through a queue of depth one: a trigger
// that arrives while a pass is running schedules exactly one follow-up pass,
// and any further triggers before that pass starts collapse into it.
package regen
