package threadsafe

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap_PutIfAbsent(t *testing.T) {
	m := NewMap[string, int]()

	assert.True(t, m.PutIfAbsent("a", 1))
	assert.False(t, m.PutIfAbsent("a", 2))

	value, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, value)

	_, ok = m.Get("b")
	assert.False(t, ok)
	assert.False(t, m.Contains("b"))
	assert.Equal(t, 1, m.Size())
}

func TestMap_ConcurrentPut(t *testing.T) {
	const workers = 64
	m := NewMap[string, int]()

	wg := &sync.WaitGroup{}
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.PutIfAbsent(strconv.Itoa(i), i)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, workers, m.Size())
	for i := range workers {
		value, ok := m.Get(strconv.Itoa(i))
		assert.True(t, ok)
		assert.Equal(t, i, value)
	}
}
