// Package domain defines the roster records, tree shapes, memo entries and
// storage contracts shared by the hrcore packages.
package domain

import (
	"strings"
	"time"
)

// EntityType identifies what a diagnostic or subject id refers to.
type EntityType string

// Supported entity type identifiers.
const (
	// EntityEmployee identifies an individual roster record.
	EntityEmployee EntityType = "employee"
	// EntityRole identifies a (title, department) role group.
	EntityRole EntityType = "role"
	// EntityRow identifies a raw row from a tabular store.
	EntityRow EntityType = "row"
)

// EmployeeRecord is an immutable snapshot of one roster row after
// normalization. A reload produces a new slice; records are never mutated.
type EmployeeRecord struct {
	ID                 string            `json:"id" validate:"required"`
	DisplayName        string            `json:"display_name" validate:"required"`
	Title              string            `json:"title"`
	ManagerDisplayName *string           `json:"manager_display_name,omitempty"`
	Department         string            `json:"department"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

// HasManager reports whether the record names a manager at all.
func (r EmployeeRecord) HasManager() bool {
	return r.ManagerDisplayName != nil && strings.TrimSpace(*r.ManagerDisplayName) != ""
}

// Role returns the role key the record belongs to.
func (r EmployeeRecord) Role() RoleKey {
	return RoleKey{Title: r.Title, Department: r.Department}
}

// RoleKey is the composite identity of a role group. Department is part of
// the key so that same-named titles in different departments stay apart.
type RoleKey struct {
	Title      string `json:"title"`
	Department string `json:"department"`
}

// String renders the key as "<title>@<department>".
func (k RoleKey) String() string {
	return k.Title + "@" + k.Department
}

// Kind tags the artifact type cached under a subject key.
type Kind string

// Artifact kinds produced by the document-generation workflow.
const (
	KindRoleProfile      Kind = "ROLE_PROFILE"
	KindEvaluationForm   Kind = "EVALUATION_FORM"
	KindEvaluationResult Kind = "EVALUATION_RESULT"
)

// MemoKey addresses a memo entry. SubjectKey is stored normalized (see
// NormalizeSubjectKey); Kind is compared verbatim.
type MemoKey struct {
	SubjectKey string `json:"subject_key"`
	Kind       Kind   `json:"kind"`
}

// MemoEntry is one cached generation result.
type MemoEntry struct {
	Key       MemoKey   `json:"key"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeSubjectKey trims and upper-cases a subject key so that
// "Analyst " and "analyst" address the same entry.
func NormalizeSubjectKey(subject string) string {
	return strings.ToUpper(strings.TrimSpace(subject))
}

// NewMemoKey builds a normalized key.
func NewMemoKey(subject string, kind Kind) MemoKey {
	return MemoKey{SubjectKey: NormalizeSubjectKey(subject), Kind: kind}
}
