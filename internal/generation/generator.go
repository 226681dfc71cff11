package generation

import (
	"context"
	"errors"

	"hrcore/pkg/domain"
)

// ErrEmptyCompletion reports a generator response without content.
var ErrEmptyCompletion = errors.New("generation: empty completion")

// Request describes one artifact to generate.
type Request struct {
	SubjectKey  string
	Kind        domain.Kind
	Description string
}

// Generator produces the text of an artifact. Implementations are expected
// to be slow and billed per call.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// RequestFor builds the request for kind about rec, keyed the way the memo
// coverage report expects.
func RequestFor(kind domain.Kind, rec domain.EmployeeRecord) Request {
	desc := "Title: " + rec.Title + "\nDepartment: " + rec.Department
	if kind.Scope() == domain.ScopeEmployee {
		desc = "Employee: " + rec.DisplayName + "\n" + desc
	}
	return Request{SubjectKey: domain.SubjectFor(kind, rec), Kind: kind, Description: desc}
}
