package sink_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godamri/helix-audit/engine"
	"github.com/godamri/helix-audit/sink"
)

func entry(typeKey string, trackingID int64, kind engine.EventKind) engine.Entry {
	return engine.Entry{
		ID:            uuid.New(),
		Subject:       engine.Subject{BaseID: trackingID, ParentID: trackingID, TrackingID: trackingID},
		EventKind:     kind,
		RecordTypeKey: typeKey,
	}
}

func TestMemoryKeepsEmissionOrder(t *testing.T) {
	m := sink.NewMemory()
	ctx := context.Background()

	first := entry("case", 1, engine.EventCreate)
	second := entry("case", 1, engine.EventUpdate)
	require.NoError(t, m.Append(ctx, []engine.Entry{first}))
	require.NoError(t, m.Append(ctx, []engine.Entry{second}))

	got := m.Entries()
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
	assert.Equal(t, 2, m.Appends())
}

func TestMemoryFailWrapsWriteError(t *testing.T) {
	m := sink.NewMemory()
	m.Fail(errors.New("disk full"))

	err := m.Append(context.Background(), []engine.Entry{entry("case", 1, engine.EventDelete)})
	require.Error(t, err)

	var writeErr *sink.WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "memory", writeErr.Destination)
	assert.Equal(t, 1, writeErr.Entries)
	assert.Empty(t, m.Entries(), "failed batches are not partially stored")
}

func TestMemoryQueryFilters(t *testing.T) {
	m := sink.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Append(ctx, []engine.Entry{
		entry("case", 1, engine.EventCreate),
		entry("case", 2, engine.EventUpdate),
		entry("task", 1, engine.EventCreate),
		entry("case", 1, engine.EventDelete),
	}))

	got, err := m.Query(ctx, sink.Query{RecordTypeKey: "case"})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = m.Query(ctx, sink.Query{RecordTypeKey: "case", TrackingID: 1})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = m.Query(ctx, sink.Query{EventKind: engine.EventCreate})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = m.Query(ctx, sink.Query{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = m.Query(ctx, sink.Query{})
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestWriterEmitsOneJSONLinePerEntry(t *testing.T) {
	var buf bytes.Buffer
	w := sink.NewWriter(&buf)

	batch := []engine.Entry{
		entry("case", 1, engine.EventCreate),
		entry("case", 1, engine.EventUpdate),
	}
	require.NoError(t, w.Append(context.Background(), batch))

	scanner := bufio.NewScanner(&buf)
	var lines int
	for scanner.Scan() {
		var decoded engine.Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &decoded))
		assert.Equal(t, batch[lines].ID, decoded.ID)
		assert.Equal(t, "case", decoded.RecordTypeKey)
		lines++
	}
	assert.Equal(t, 2, lines)
}

func TestAsyncDeliversOnClose(t *testing.T) {
	m := sink.NewMemory()
	a := sink.NewAsync(m, 8, true, nil)

	ctx := context.Background()
	require.NoError(t, a.Append(ctx, []engine.Entry{entry("case", 1, engine.EventCreate)}))
	require.NoError(t, a.Append(ctx, []engine.Entry{entry("case", 2, engine.EventCreate)}))

	// Close drains the buffer before returning.
	require.NoError(t, a.Close())
	assert.Len(t, m.Entries(), 2)
}

func TestAsyncDropsWhenFullWithoutBlocking(t *testing.T) {
	m := sink.NewMemory()
	m.Fail(errors.New("downstream stalled")) // keep the worker from draining

	a := sink.NewAsync(m, 1, false, nil)
	defer a.Close()

	ctx := context.Background()
	// Flood well past the buffer; drop-on-full mode must never block or
	// surface an error to the flushing engine.
	for i := 0; i < 50; i++ {
		require.NoError(t, a.Append(ctx, []engine.Entry{entry("case", int64(i), engine.EventCreate)}))
	}
}

func TestAsyncCloseIsIdempotent(t *testing.T) {
	a := sink.NewAsync(sink.NewMemory(), 4, true, nil)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}
