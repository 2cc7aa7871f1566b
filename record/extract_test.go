package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accessorRecord struct{}

func (accessorRecord) GetStatus() int         { return 1 }
func (accessorRecord) GetNotes() string       { return "hello" }
func (accessorRecord) GetOwner() any          { return nil }
func (accessorRecord) Get() string            { return "bare" }              // no field name, skipped
func (accessorRecord) GetPair() (int, int)    { return 1, 2 }                // two results, skipped
func (accessorRecord) GetWith(s string) string { return s }                  // takes an arg, skipped
func (accessorRecord) Describe() string       { return "not an accessor" }   // wrong prefix, skipped

func TestExtractAccessors(t *testing.T) {
	values, err := Extract(accessorRecord{})
	require.NoError(t, err)

	assert.Equal(t, 1, values["Status"])
	assert.Equal(t, "hello", values["Notes"])
	assert.Nil(t, values["Owner"])
	assert.Contains(t, values, "Owner")

	assert.NotContains(t, values, "")
	assert.NotContains(t, values, "Pair")
	assert.NotContains(t, values, "With")
	assert.NotContains(t, values, "Describe")
}

type structRecord struct {
	Status int
	Notes  string
	hidden string
}

func (r structRecord) GetStatus() int { return r.Status + 10 }

func TestExtractStructFields(t *testing.T) {
	values, err := Extract(structRecord{Status: 1, Notes: "n", hidden: "x"})
	require.NoError(t, err)

	// Accessor wins over the plain field of the same name.
	assert.Equal(t, 11, values["Status"])
	assert.Equal(t, "n", values["Notes"])
	assert.NotContains(t, values, "hidden")
}

type projectionRecord struct{}

func (projectionRecord) Fields() map[string]any {
	return map[string]any{"Status": 1, "Notes": "via projection"}
}

// The projection type also has accessors; the capability path must take
// precedence so adapters control their own view.
func (projectionRecord) GetStatus() int { return 99 }

func TestExtractProjection(t *testing.T) {
	values, err := Extract(projectionRecord{})
	require.NoError(t, err)

	assert.Equal(t, 1, values["Status"])
	assert.Equal(t, "via projection", values["Notes"])
}

type panickyRecord struct{}

func (panickyRecord) GetStatus() int { return 1 }
func (panickyRecord) GetBroken() string {
	panic("host runtime violated the accessor contract")
}

func TestExtractPanicIsFatal(t *testing.T) {
	values, err := Extract(panickyRecord{})
	require.Error(t, err)
	assert.Nil(t, values, "extraction is all-or-nothing, never partial")

	var introErr *IntrospectionError
	require.ErrorAs(t, err, &introErr)
	assert.Equal(t, "GetBroken", introErr.Accessor)
}

type panickyProjection struct{}

func (panickyProjection) Fields() map[string]any { panic("bad projection") }

func TestExtractProjectionPanicIsFatal(t *testing.T) {
	_, err := Extract(panickyProjection{})
	var introErr *IntrospectionError
	require.ErrorAs(t, err, &introErr)
}

func TestExtractNil(t *testing.T) {
	_, err := Extract(nil)
	var introErr *IntrospectionError
	require.ErrorAs(t, err, &introErr)

	var typed *structRecord
	_, err = Extract(typed)
	require.ErrorAs(t, err, &introErr)
}

func TestExtractNothingReadable(t *testing.T) {
	_, err := Extract(42)
	var introErr *IntrospectionError
	require.ErrorAs(t, err, &introErr)
}
