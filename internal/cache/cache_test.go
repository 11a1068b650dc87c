package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashengine/internal/domain"
)

func result(name string) *domain.QueryResult {
	return &domain.QueryResult{
		ID:     name + "-id",
		Source: domain.QueryDefinition{Name: name, Body: "SELECT 1"},
	}
}

func TestResultCache_GetMiss(t *testing.T) {
	t.Parallel()

	c := New()
	r, ok := c.Get("absent")
	assert.False(t, ok)
	assert.Nil(t, r)
}

func TestResultCache_PutGet(t *testing.T) {
	t.Parallel()

	c := New()
	stored := result("sales")
	c.Put("sales", stored)

	got, ok := c.Get("sales")
	require.True(t, ok)
	assert.Same(t, stored, got, "hits return the original object")
}

func TestResultCache_PutOverwritesSilently(t *testing.T) {
	t.Parallel()

	c := New()
	first := result("first")
	second := result("second")
	c.Put("id", first)
	c.Put("id", second)

	got, ok := c.Get("id")
	require.True(t, ok)
	assert.Same(t, second, got, "last write wins")
	assert.Equal(t, 1, c.Len())
}

func TestResultCache_AllInsertionOrder(t *testing.T) {
	t.Parallel()

	c := New()
	for i := 0; i < 5; i++ {
		c.Put(fmt.Sprintf("q%d", i), result(fmt.Sprintf("q%d", i)))
	}

	all := c.All()
	require.Len(t, all, 5)
	for i, r := range all {
		assert.Equal(t, fmt.Sprintf("q%d", i), r.Source.Name)
	}
}

func TestResultCache_AllSnapshot(t *testing.T) {
	t.Parallel()

	c := New()
	c.Put("a", result("a"))
	snapshot := c.All()
	require.Len(t, snapshot, 1)

	// Mutations after the call do not appear in the snapshot.
	c.Put("b", result("b"))
	assert.Len(t, snapshot, 1)
	assert.Len(t, c.All(), 2)

	// A later snapshot of the same state is identical.
	again := c.All()
	assert.Equal(t, c.All(), again)
}

func TestResultCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("q%d", n%8)
			c.Put(id, result(id))
			_, _ = c.Get(id)
			_ = c.All()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, c.Len())
}
