package domain

// Scope tells which record attribute a kind's artifacts are cached under.
type Scope string

// Subject scopes.
const (
	ScopeRole     Scope = "role"
	ScopeEmployee Scope = "employee"
)

// AllKinds lists the known kinds in display order.
func AllKinds() []Kind {
	return []Kind{KindRoleProfile, KindEvaluationForm, KindEvaluationResult}
}

// Scope returns the subject scope of k. Profiles and evaluation forms are
// shared by everyone holding a title; evaluation results belong to one
// employee. Unknown kinds are treated as role scoped.
func (k Kind) Scope() Scope {
	if k == KindEvaluationResult {
		return ScopeEmployee
	}
	return ScopeRole
}

// SubjectFor returns the normalized subject key under which the artifact of
// kind for rec is cached. It returns "" when rec lacks the attribute.
func SubjectFor(kind Kind, rec EmployeeRecord) string {
	if kind.Scope() == ScopeEmployee {
		return NormalizeSubjectKey(rec.ID)
	}
	return NormalizeSubjectKey(rec.Title)
}
