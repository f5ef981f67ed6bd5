// Package watch keeps a generated site current while the links document is edited.
//
// A Runner owns one rebuild loop. Triggers come from a FileWatcher on the links
// document (debounced) and, optionally, from a Scheduler for periodic rebuilds.
// Rebuilds never overlap; triggers that arrive during a rebuild collapse into a
// single follow-up.
package watch
