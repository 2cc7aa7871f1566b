package lookup

import (
	"context"
	"fmt"
	"sync"
)

type recordScope struct {
	businessKey string
	trackingID  int64
}

type valueScope struct {
	businessKey string
	value       any
}

// MemoryExecutor is a map-backed Executor for tests and local setups.
type MemoryExecutor struct {
	mu       sync.RWMutex
	byRecord map[recordScope]string
	byValue  map[valueScope]string
	failNext error
}

func NewMemoryExecutor() *MemoryExecutor {
	return &MemoryExecutor{
		byRecord: make(map[recordScope]string),
		byValue:  make(map[valueScope]string),
	}
}

func (e *MemoryExecutor) PutRecordDisplay(businessKey string, trackingID int64, display string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.byRecord[recordScope{businessKey, trackingID}] = display
}

func (e *MemoryExecutor) PutValueDisplay(businessKey string, value any, display string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.byValue[valueScope{businessKey, fmt.Sprintf("%v", value)}] = display
}

func (e *MemoryExecutor) FailNext(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failNext = err
}

func (e *MemoryExecutor) ExecuteSingle(_ context.Context, businessKey string, trackingID int64) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.failNext; err != nil {
		e.failNext = nil
		return "", false, err
	}
	display, ok := e.byRecord[recordScope{businessKey, trackingID}]
	return display, ok, nil
}

func (e *MemoryExecutor) ExecuteForValue(_ context.Context, businessKey string, value any) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.failNext; err != nil {
		e.failNext = nil
		return "", false, err
	}
	display, ok := e.byValue[valueScope{businessKey, fmt.Sprintf("%v", value)}]
	return display, ok, nil
}
