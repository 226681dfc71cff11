// Package hierarchy turns a flat roster into a single displayable tree.
//
// Manager references are matched by display name, so the input may name
// managers that do not exist, name the same person twice, or loop back on
// itself. None of that is an error: affected employees become roots and the
// anomaly is reported as a domain.Diagnostic on the returned forest.
//
// Resolve works per employee; AggregateByRole re-projects the same roster
// onto (title, department) groups and reuses the same cycle severance.
// Both are pure functions of their input and keep no state between calls.
package hierarchy
