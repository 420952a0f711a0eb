package backend

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeemphilbert/goro/internal/ldp/domain"
)

func TestReserveURIRejectsSecondClaim(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Init(context.Background()))

	uri := "http://example.org/r/thing"
	require.NoError(t, s.ReserveURI(context.Background(), uri))

	err := s.ReserveURI(context.Background(), uri)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflictURITaken, domain.KindOf(err))
}

func TestReserveURIConcurrentRaceOnlyOneWinner(t *testing.T) {
	// Spec §5/§9's URI-allocation race: N goroutines attempt to reserve
	// the same URI simultaneously; exactly one must succeed (I4).
	s := NewMemoryStore()
	require.NoError(t, s.Init(context.Background()))

	const attempts = 50
	uri := "http://example.org/r/contested"

	var wins int64
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			if err := s.ReserveURI(context.Background(), uri); err == nil {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins)
}

func TestReserveURIConcurrentDistinctURIsAllSucceed(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Init(context.Background()))

	const n = 100
	uris := make([]string, n)
	for i := range uris {
		uris[i] = domain.FallbackURI("http://example.org/r/coll/", i)
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	wg.Add(n)
	for i, uri := range uris {
		i, uri := i, uri
		go func() {
			defer wg.Done()
			errs[i] = s.ReserveURI(context.Background(), uri)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "reservation %d should not collide", i)
	}
}

func TestReleaseURIThenReserveAgainSucceeds(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Init(context.Background()))

	uri := "http://example.org/r/thing"
	require.NoError(t, s.ReserveURI(context.Background(), uri))
	require.NoError(t, s.ReleaseURI(context.Background(), uri))
	assert.NoError(t, s.ReserveURI(context.Background(), uri))
}
