// Package generation wraps a slow text generator with the memo store so
// that each (subject, kind) artifact is generated once and served from the
// cache afterwards.
package generation
