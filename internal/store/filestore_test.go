package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentflow-ai/platform/pkg/logger"
)

func TestFileStoreEmptyRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.json")
	s, err := OpenFileStore(path, logger.NewNop())
	require.NoError(t, err)
	defer s.Close()

	records, err := s.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileStoreAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.json")
	s, err := OpenFileStore(path, logger.NewNop())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	_, err = s.Append(ctx, json.RawMessage(`{"text":"hello","likes":10,"platform":"X"}`))
	require.NoError(t, err)
	_, err = s.Append(ctx, json.RawMessage(`{"text":"world","likes":3}`))
	require.NoError(t, err)

	records, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"text":"hello","likes":10,"platform":"X"}`, string(records[0].Payload))
	assert.JSONEq(t, `{"text":"world","likes":3}`, string(records[1].Payload))
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.json")
	ctx := context.Background()

	s, err := OpenFileStore(path, logger.NewNop())
	require.NoError(t, err)
	_, err = s.Append(ctx, json.RawMessage(`{"n":1}`))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := OpenFileStore(path, logger.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"n":1}`, string(records[0].Payload))
}

func TestFileStoreConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.json")
	s, err := OpenFileStore(path, logger.NewNop())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Append(ctx, json.RawMessage(fmt.Sprintf(`{"writer":%d}`, i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	records, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, records, writers, "no appends may be lost under concurrency")
}
