package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/godamri/helix-audit/schema"
)

// In-memory collaborators. They back unit tests and local development
// the same way the real Postgres adapters back production.

// MemoryRecordStore is a map-backed RecordStore.
type MemoryRecordStore struct {
	mu       sync.RWMutex
	files    map[int64]string
	states   map[string]string // typeKey/trackingID -> label
	users    map[int64]UserDisplay
	failNext error
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{
		files:  make(map[int64]string),
		states: make(map[string]string),
		users:  make(map[int64]UserDisplay),
	}
}

func (s *MemoryRecordStore) PutFile(fileID int64, displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[fileID] = displayName
}

func (s *MemoryRecordStore) PutWorkflowState(typeKey string, trackingID int64, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[stateKey(typeKey, trackingID)] = label
}

func (s *MemoryRecordStore) PutUser(userID int64, u UserDisplay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = u
}

// FailNext makes the next fetch return err once. Lets tests exercise the
// propagate-everything error policy.
func (s *MemoryRecordStore) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

func (s *MemoryRecordStore) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

func (s *MemoryRecordStore) FetchFileDisplayName(_ context.Context, fileID int64) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return "", false, err
	}
	name, ok := s.files[fileID]
	return name, ok, nil
}

func (s *MemoryRecordStore) FetchWorkflowStateLabel(_ context.Context, typeKey string, trackingID int64) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return "", false, err
	}
	label, ok := s.states[stateKey(typeKey, trackingID)]
	return label, ok, nil
}

func (s *MemoryRecordStore) FetchUserDisplay(_ context.Context, userID int64) (UserDisplay, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return UserDisplay{}, false, err
	}
	u, ok := s.users[userID]
	return u, ok, nil
}

func stateKey(typeKey string, trackingID int64) string {
	return fmt.Sprintf("%s/%d", typeKey, trackingID)
}

// MemoryMetadataStore is a map-backed schema.MetadataStore. Register a
// record type with one published generation; registering a second
// published generation for the same key reproduces the ambiguity fault.
type MemoryMetadataStore struct {
	mu    sync.RWMutex
	types map[string][]*schema.RecordType
}

func NewMemoryMetadataStore() *MemoryMetadataStore {
	return &MemoryMetadataStore{types: make(map[string][]*schema.RecordType)}
}

func (s *MemoryMetadataStore) Publish(rt *schema.RecordType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[rt.Key] = append(s.types[rt.Key], rt)
}

func (s *MemoryMetadataStore) PublishedGeneration(_ context.Context, typeKey string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	published := s.types[typeKey]
	if len(published) != 1 {
		return 0, fmt.Errorf("%w: type %q has %d published generations", schema.ErrAmbiguousGeneration, typeKey, len(published))
	}
	return published[0].Generation, nil
}

func (s *MemoryMetadataStore) DescribeFields(_ context.Context, typeKey string, generation int64) (*schema.RecordType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rt := range s.types[typeKey] {
		if rt.Generation == generation {
			return rt, nil
		}
	}
	return nil, fmt.Errorf("store: no metadata for type %q at generation %d", typeKey, generation)
}
