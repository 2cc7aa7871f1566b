package schema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godamri/helix-audit/schema"
	"github.com/godamri/helix-audit/store"
)

func caseType(generation int64) *schema.RecordType {
	return &schema.RecordType{
		Key:        "case",
		Name:       "Case",
		Label:      "Cases",
		Table:      "tbl_case",
		Generation: generation,
		Fields: []schema.FieldDescriptor{
			{Name: "Status", StorageKey: "c_status", Kind: schema.KindYesNo},
			{Name: "Notes", StorageKey: "c_notes", Kind: schema.KindLongText},
		},
	}
}

func TestResolverDescribe(t *testing.T) {
	ctx := context.Background()
	meta := store.NewMemoryMetadataStore()
	meta.Publish(caseType(3))

	r := schema.NewResolver(meta, nil, nil)

	rt, err := r.Describe(ctx, "case")
	require.NoError(t, err)
	assert.Equal(t, "Case", rt.Name)
	assert.Equal(t, int64(3), rt.Generation)
	assert.Len(t, rt.Fields, 2)
	assert.Equal(t, "Status", rt.Fields[0].Name)
}

func TestResolverUnknownType(t *testing.T) {
	r := schema.NewResolver(store.NewMemoryMetadataStore(), nil, nil)

	_, err := r.Describe(context.Background(), "ghost")
	require.Error(t, err)

	var metaErr *schema.MetadataError
	require.ErrorAs(t, err, &metaErr)
	assert.Equal(t, "ghost", metaErr.TypeKey)
	assert.True(t, errors.Is(err, schema.ErrAmbiguousGeneration))
}

func TestResolverAmbiguousGeneration(t *testing.T) {
	meta := store.NewMemoryMetadataStore()
	meta.Publish(caseType(3))
	meta.Publish(caseType(4)) // half-finished publish

	r := schema.NewResolver(meta, nil, nil)

	_, err := r.Describe(context.Background(), "case")
	var metaErr *schema.MetadataError
	require.ErrorAs(t, err, &metaErr)
}

func TestResolverEmptyTypeKey(t *testing.T) {
	r := schema.NewResolver(store.NewMemoryMetadataStore(), nil, nil)

	_, err := r.Describe(context.Background(), "")
	var metaErr *schema.MetadataError
	require.ErrorAs(t, err, &metaErr)
}

// countingMetadataStore wraps the memory store to observe how often the
// resolver actually hits the backend.
type countingMetadataStore struct {
	*store.MemoryMetadataStore
	generationCalls int
	describeCalls   int
}

func (s *countingMetadataStore) PublishedGeneration(ctx context.Context, typeKey string) (int64, error) {
	s.generationCalls++
	return s.MemoryMetadataStore.PublishedGeneration(ctx, typeKey)
}

func (s *countingMetadataStore) DescribeFields(ctx context.Context, typeKey string, generation int64) (*schema.RecordType, error) {
	s.describeCalls++
	return s.MemoryMetadataStore.DescribeFields(ctx, typeKey, generation)
}

func TestResolverCachesByGeneration(t *testing.T) {
	ctx := context.Background()
	meta := &countingMetadataStore{MemoryMetadataStore: store.NewMemoryMetadataStore()}
	meta.Publish(caseType(1))

	r := schema.NewResolver(meta, schema.NewMemoryCache(), nil)

	for i := 0; i < 5; i++ {
		_, err := r.Describe(ctx, "case")
		require.NoError(t, err)
	}

	// The generation is re-read every call so schema publishes are
	// picked up, but the field enumeration is served from cache.
	assert.Equal(t, 5, meta.generationCalls)
	assert.Equal(t, 1, meta.describeCalls)
}
