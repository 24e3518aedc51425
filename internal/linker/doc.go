// Package linker implements the matching engine that proposes and applies
// links among galleries, scenes, and performers.
//
// Candidate generators run in a fixed priority order (linked scenes, then
// name parsing, then the stash-box registry stub) and their proposals are
// merged per performer: the highest score wins and exact ties go to the
// earlier generator. Accepted candidates are applied through the stash
// gateway unless the run is a dry run, and every gallery or scene that was
// attempted lands in exactly one bucket of the final report.
package linker
