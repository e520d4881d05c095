package cow

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_InsertionOrder(t *testing.T) {
	var m Map[string, int]
	m.Store("b", 1)
	m.Store("a", 2)
	m.Store("c", 3)
	m.Store("a", 20)

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
	v, ok := m.Load("a")
	require.True(t, ok)
	assert.Equal(t, 20, v)
	assert.Equal(t, 3, m.Len())
}

func TestMap_Delete(t *testing.T) {
	var m Map[string, int]
	m.Store("a", 1)
	m.Store("b", 2)

	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))
	assert.Equal(t, []string{"b"}, m.Keys())
	assert.False(t, m.Has("a"))
}

func TestMap_Update(t *testing.T) {
	var m Map[string, int]
	got := m.Update("n", func(old int, present bool) int {
		assert.False(t, present)
		return old + 1
	})
	assert.Equal(t, 1, got)
	got = m.Update("n", func(old int, present bool) int {
		assert.True(t, present)
		return old + 1
	})
	assert.Equal(t, 2, got)
}

func TestMap_SnapshotSurvivesWrites(t *testing.T) {
	var m Map[int, bool]
	m.Store(1, true)
	m.Store(2, true)
	keys := m.Keys()

	m.Delete(1)
	m.Store(3, true)
	m.Clear()

	assert.Equal(t, []int{1, 2}, keys)
	assert.Zero(t, m.Len())
}

func TestMap_ConcurrentReadersAndWriter(t *testing.T) {
	var m Map[int, int]
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				for _, k := range m.Keys() {
					_, _ = m.Load(k)
				}
			}
		}()
	}

	for i := 0; i < 500; i++ {
		m.Store(i, i)
		if i%3 == 0 {
			m.Delete(i / 2)
		}
	}
	close(stop)
	wg.Wait()
	assert.NotZero(t, m.Len())
}
