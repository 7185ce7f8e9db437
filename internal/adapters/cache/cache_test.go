package cache

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type batch struct {
	Items []string
}

func listKey(offset string) Key {
	return Key{
		Endpoint: "/admin/channel-rank/next-batch",
		Params:   url.Values{"offset": {offset}, "limit": {"30"}},
	}
}

func TestKeyStringNormalizesParamOrder(t *testing.T) {
	t.Parallel()

	a := Key{Endpoint: "/admin/users", Params: url.Values{"page": {"1"}, "limit": {"30"}}}
	b := Key{Endpoint: "/admin/users", Params: url.Values{"limit": {"30"}, "page": {"1"}}}

	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, "/admin/users?limit=30&page=1", a.String())
}

func TestFetchCachesLoaderResult(t *testing.T) {
	t.Parallel()

	c := New()
	var calls atomic.Int32
	loader := func(context.Context) (batch, error) {
		calls.Add(1)
		return batch{Items: []string{"c1"}}, nil
	}

	first, err := FetchAs(context.Background(), c, listKey("0"), []string{"rank"}, loader)
	require.NoError(t, err)
	second, err := FetchAs(context.Background(), c, listKey("0"), []string{"rank"}, loader)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchSharesSingleInFlightLoad(t *testing.T) {
	t.Parallel()

	c := New()
	var calls atomic.Int32
	release := make(chan struct{})
	loader := func(context.Context) (batch, error) {
		calls.Add(1)
		<-release
		return batch{Items: []string{"c1", "c2"}}, nil
	}

	const concurrent = 8
	results := make([]batch, concurrent)
	errorsSeen := make([]error, concurrent)

	var wg sync.WaitGroup
	for i := 0; i < concurrent; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errorsSeen[i] = FetchAs(context.Background(), c, listKey("0"), nil, loader)
		}(i)
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := 0; i < concurrent; i++ {
		require.NoError(t, errorsSeen[i])
		assert.Equal(t, batch{Items: []string{"c1", "c2"}}, results[i])
	}
}

func TestFetchDoesNotCacheLoaderError(t *testing.T) {
	t.Parallel()

	c := New()
	var calls atomic.Int32
	boom := errors.New("upstream down")

	_, err := FetchAs(context.Background(), c, listKey("0"), nil, func(context.Context) (batch, error) {
		calls.Add(1)
		return batch{}, boom
	})
	require.ErrorIs(t, err, boom)

	got, err := FetchAs(context.Background(), c, listKey("0"), nil, func(context.Context) (batch, error) {
		calls.Add(1)
		return batch{Items: []string{"c1"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, got.Items)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInvalidateForcesReload(t *testing.T) {
	t.Parallel()

	c := New()
	var calls atomic.Int32
	loader := func(context.Context) (batch, error) {
		calls.Add(1)
		return batch{}, nil
	}

	_, err := FetchAs(context.Background(), c, listKey("0"), []string{"rank"}, loader)
	require.NoError(t, err)
	_, err = FetchAs(context.Background(), c, listKey("30"), []string{"rank"}, loader)
	require.NoError(t, err)

	c.Invalidate("rank")

	_, err = FetchAs(context.Background(), c, listKey("0"), []string{"rank"}, loader)
	require.NoError(t, err)
	_, err = FetchAs(context.Background(), c, listKey("30"), []string{"rank"}, loader)
	require.NoError(t, err)

	assert.Equal(t, int32(4), calls.Load())
}

func TestInvalidateLeavesOtherTagsAlone(t *testing.T) {
	t.Parallel()

	c := New()
	var calls atomic.Int32
	loader := func(context.Context) (batch, error) {
		calls.Add(1)
		return batch{}, nil
	}

	usersKey := Key{Endpoint: "/admin/users"}
	_, err := FetchAs(context.Background(), c, usersKey, []string{"users"}, loader)
	require.NoError(t, err)

	c.Invalidate("rank")

	_, err = FetchAs(context.Background(), c, usersKey, []string{"users"}, loader)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestUpdateUndoRestoresSnapshot(t *testing.T) {
	t.Parallel()

	c := New()
	key := listKey("0")
	original := batch{Items: []string{"c1", "c2", "c3"}}

	_, err := FetchAs(context.Background(), c, key, nil, func(context.Context) (batch, error) {
		return original, nil
	})
	require.NoError(t, err)

	undo, ok := UpdateAs(c, key, func(b batch) batch {
		filtered := batch{}
		for _, item := range b.Items {
			if item != "c2" {
				filtered.Items = append(filtered.Items, item)
			}
		}
		return filtered
	})
	require.True(t, ok)

	patched, err := FetchAs(context.Background(), c, key, nil, failLoader)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c3"}, patched.Items)

	undo()

	restored, err := FetchAs(context.Background(), c, key, nil, failLoader)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestUpdateReturnsFalseForUnknownKey(t *testing.T) {
	t.Parallel()

	c := New()
	undo, ok := UpdateAs(c, listKey("0"), func(b batch) batch { return b })
	assert.False(t, ok)
	assert.Nil(t, undo)
}

func TestResetDropsEntries(t *testing.T) {
	t.Parallel()

	c := New()
	var calls atomic.Int32
	loader := func(context.Context) (batch, error) {
		calls.Add(1)
		return batch{}, nil
	}

	_, err := FetchAs(context.Background(), c, listKey("0"), nil, loader)
	require.NoError(t, err)

	c.Reset()

	_, err = FetchAs(context.Background(), c, listKey("0"), nil, loader)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func failLoader(context.Context) (batch, error) {
	return batch{}, errors.New("loader must not run for a warm entry")
}
