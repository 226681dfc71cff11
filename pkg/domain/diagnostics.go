package domain

// Severity grades a diagnostic. Diagnostics never block a resolve; the
// grade only tells the presentation layer how loudly to surface it.
type Severity string

// Diagnostic severities.
const (
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// DiagnosticKind classifies a data-quality anomaly.
type DiagnosticKind string

// Data-quality anomalies reported while normalizing or resolving a roster.
const (
	DiagnosticSeveredCycle   DiagnosticKind = "severed_cycle"
	DiagnosticMissingManager DiagnosticKind = "missing_manager"
	DiagnosticDuplicateName  DiagnosticKind = "duplicate_name"
	DiagnosticDuplicateID    DiagnosticKind = "duplicate_id"
	DiagnosticSkippedRow     DiagnosticKind = "skipped_row"
)

// Diagnostic records one anomaly for operator visibility.
type Diagnostic struct {
	Kind      DiagnosticKind `json:"kind"`
	Severity  Severity       `json:"severity"`
	Entity    EntityType     `json:"entity"`
	SubjectID string         `json:"subject_id"`
	// Related names the other party of the anomaly: the severed manager,
	// the unresolved manager name, or the record that won a duplicate.
	Related string `json:"related,omitempty"`
	Message string `json:"message"`
}

// Diagnostics is an ordered list of anomalies.
type Diagnostics []Diagnostic

// OfKind filters the list, preserving order.
func (d Diagnostics) OfKind(kind DiagnosticKind) Diagnostics {
	var out Diagnostics
	for _, diag := range d {
		if diag.Kind == kind {
			out = append(out, diag)
		}
	}
	return out
}

// HasWarnings reports whether any diagnostic is graded warn.
func (d Diagnostics) HasWarnings() bool {
	for _, diag := range d {
		if diag.Severity == SeverityWarn {
			return true
		}
	}
	return false
}
