// Package lookup resolves opaque stored reference values to the display
// text a human sees for them.
package lookup

import (
	"context"
	"fmt"
	"strings"

	"github.com/godamri/helix-audit/schema"
)

// Executor runs a configured lookup query. External collaborator; the
// resolver never sees query text, only results.
type Executor interface {
	// ExecuteSingle runs the lookup identified by businessKey in
	// single-result mode scoped to the owning record. Returns the first
	// result's display column, or ("", false, nil) when there is no
	// match. More than one row is an integrity fault surfaced as error.
	ExecuteSingle(ctx context.Context, businessKey string, trackingID int64) (display string, found bool, err error)

	// ExecuteForValue resolves the display text for one element of a
	// multi-valued field. Same single-result contract, scoped by the
	// element's reference value instead of the owning record.
	ExecuteForValue(ctx context.Context, businessKey string, value any) (display string, found bool, err error)
}

// ResolutionError reports a failed or ambiguous lookup execution.
type ResolutionError struct {
	BusinessKey string
	Field       string
	Cause       error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("lookup: resolution of field %q (lookup %q) failed: %v", e.Field, e.BusinessKey, e.Cause)
}

func (e *ResolutionError) Unwrap() error { return e.Cause }

// Resolver turns raw lookup-bound values into display strings.
type Resolver struct {
	exec Executor

	// delimiter joins the element displays of a multi-valued field. The
	// original platform left multiplicity rendering unresolved, so the
	// join rule is deliberately policy, not hardcoded.
	delimiter string
}

func NewResolver(exec Executor, delimiter string) *Resolver {
	if delimiter == "" {
		delimiter = ", "
	}
	return &Resolver{exec: exec, delimiter: delimiter}
}

// Display resolves the human-readable form of raw for a lookup-bound
// field. Nil raw values and no-match lookups both render as "".
func (r *Resolver) Display(ctx context.Context, desc schema.FieldDescriptor, raw any, trackingID int64) (string, error) {
	if raw == nil {
		return "", nil
	}

	if desc.MultiValued {
		return r.displayMulti(ctx, desc, raw)
	}

	display, found, err := r.exec.ExecuteSingle(ctx, desc.LookupKey, trackingID)
	if err != nil {
		return "", &ResolutionError{BusinessKey: desc.LookupKey, Field: desc.Name, Cause: err}
	}
	if !found {
		return "", nil
	}
	return display, nil
}

func (r *Resolver) displayMulti(ctx context.Context, desc schema.FieldDescriptor, raw any) (string, error) {
	values, err := elements(raw)
	if err != nil {
		return "", &ResolutionError{BusinessKey: desc.LookupKey, Field: desc.Name, Cause: err}
	}

	displays := make([]string, 0, len(values))
	for _, v := range values {
		display, found, err := r.exec.ExecuteForValue(ctx, desc.LookupKey, v)
		if err != nil {
			return "", &ResolutionError{BusinessKey: desc.LookupKey, Field: desc.Name, Cause: err}
		}
		if !found {
			// A dangling reference renders as nothing rather than
			// failing the whole field; order of the rest is preserved.
			continue
		}
		displays = append(displays, display)
	}

	return strings.Join(displays, r.delimiter), nil
}

// elements normalizes the raw multi-valued representation. The store
// hands back []any, but adapters are allowed to be more specific.
func elements(raw any) ([]any, error) {
	switch vs := raw.(type) {
	case []any:
		return vs, nil
	case []string:
		out := make([]any, len(vs))
		for i, v := range vs {
			out[i] = v
		}
		return out, nil
	case []int64:
		out := make([]any, len(vs))
		for i, v := range vs {
			out[i] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("multi-valued field holds %T, want a slice of reference ids", raw)
	}
}
