// Package memo caches generated documents in a flat row store keyed by
// (subject, kind).
//
// The backing table has no unique index, so Upsert scans before it writes.
// Two callers racing on the same key may both append; reads always return
// the first matching row so the duplicate stays invisible.
package memo
