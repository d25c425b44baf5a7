package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reddit-bot/install"
)

func Test_Memory_upsertIsIdempotentPerWorkspace(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Upsert(ctx, "T1", "tok1"))
	require.NoError(t, m.Upsert(ctx, "T1", "tok2"))

	assert.Equal(t, 1, m.Len())
	credential, err := m.Get(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, "T1", credential.WorkspaceID)
	assert.Equal(t, "tok2", credential.AccessToken)
}

func Test_Memory_getUnknownWorkspace(t *testing.T) {
	m := NewMemory()
	_, err := m.Get(context.Background(), "T404")
	assert.ErrorIs(t, err, install.ErrCredentialNotFound)
}

func Test_Memory_concurrentUpsertsConverge(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, m.Upsert(ctx, "T1", fmt.Sprintf("tok%d", i)))
		}(i)
	}
	wg.Wait()

	// Whichever write landed last wins; there's still exactly one record
	assert.Equal(t, 1, m.Len())
	credential, err := m.Get(ctx, "T1")
	require.NoError(t, err)
	assert.Contains(t, credential.AccessToken, "tok")
}
