package lookup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godamri/helix-audit/schema"
)

func severityField() schema.FieldDescriptor {
	return schema.FieldDescriptor{
		Name:        "Severity",
		StorageKey:  "c_severity",
		Kind:        schema.KindText,
		LookupBound: true,
		LookupKey:   "lkp_severity",
	}
}

func TestDisplayScalar(t *testing.T) {
	ctx := context.Background()
	exec := NewMemoryExecutor()
	exec.PutRecordDisplay("lkp_severity", 42, "High")

	r := NewResolver(exec, "")

	display, err := r.Display(ctx, severityField(), int64(7001), 42)
	require.NoError(t, err)
	assert.Equal(t, "High", display)
}

func TestDisplayNilRaw(t *testing.T) {
	r := NewResolver(NewMemoryExecutor(), "")

	display, err := r.Display(context.Background(), severityField(), nil, 42)
	require.NoError(t, err)
	assert.Equal(t, "", display)
}

func TestDisplayNoMatch(t *testing.T) {
	r := NewResolver(NewMemoryExecutor(), "")

	display, err := r.Display(context.Background(), severityField(), int64(7001), 42)
	require.NoError(t, err)
	assert.Equal(t, "", display)
}

func TestDisplayExecutorFault(t *testing.T) {
	exec := NewMemoryExecutor()
	exec.FailNext(errors.New("query engine down"))

	r := NewResolver(exec, "")

	_, err := r.Display(context.Background(), severityField(), int64(7001), 42)
	require.Error(t, err)

	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "lkp_severity", resErr.BusinessKey)
	assert.Equal(t, "Severity", resErr.Field)
}

func tagsField() schema.FieldDescriptor {
	return schema.FieldDescriptor{
		Name:        "Tags",
		StorageKey:  "c_tags",
		Kind:        schema.KindText,
		LookupBound: true,
		MultiValued: true,
		LookupKey:   "lkp_tags",
	}
}

func TestDisplayMultiValued(t *testing.T) {
	ctx := context.Background()
	exec := NewMemoryExecutor()
	exec.PutValueDisplay("lkp_tags", int64(1), "Fraud")
	exec.PutValueDisplay("lkp_tags", int64(2), "Escalated")
	exec.PutValueDisplay("lkp_tags", int64(3), "VIP")

	r := NewResolver(exec, "; ")

	display, err := r.Display(ctx, tagsField(), []int64{3, 1, 2}, 42)
	require.NoError(t, err)
	assert.Equal(t, "VIP; Fraud; Escalated", display, "element order follows the stored order")
}

func TestDisplayMultiValuedDefaultDelimiter(t *testing.T) {
	exec := NewMemoryExecutor()
	exec.PutValueDisplay("lkp_tags", int64(1), "Fraud")
	exec.PutValueDisplay("lkp_tags", int64(2), "Escalated")

	r := NewResolver(exec, "")

	display, err := r.Display(context.Background(), tagsField(), []any{int64(1), int64(2)}, 42)
	require.NoError(t, err)
	assert.Equal(t, "Fraud, Escalated", display)
}

func TestDisplayMultiValuedDanglingReference(t *testing.T) {
	exec := NewMemoryExecutor()
	exec.PutValueDisplay("lkp_tags", int64(1), "Fraud")

	r := NewResolver(exec, ", ")

	display, err := r.Display(context.Background(), tagsField(), []int64{1, 999}, 42)
	require.NoError(t, err)
	assert.Equal(t, "Fraud", display)
}

func TestDisplayMultiValuedBadShape(t *testing.T) {
	r := NewResolver(NewMemoryExecutor(), "")

	_, err := r.Display(context.Background(), tagsField(), "not-a-slice", 42)
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
}
