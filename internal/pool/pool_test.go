package pool

import (
	"crypto/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelizeOrdersResults(t *testing.T) {
	p := NewPool(4)
	defer p.TearDown()

	results := p.Parallelize(100, func(i int) interface{} { return i * i })
	require.Len(t, results, 100)
	for i, r := range results {
		assert.Equal(t, i*i, r.(int))
	}
}

func TestParallelizeNilPool(t *testing.T) {
	var p *Pool
	results := p.Parallelize(10, func(i int) interface{} { return i })
	require.Len(t, results, 10)
	for i, r := range results {
		assert.Equal(t, i, r.(int))
	}
}

func TestLockedReaderConcurrent(t *testing.T) {
	r := NewLockedReader(rand.Reader)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, 32)
			for j := 0; j < 100; j++ {
				_, err := r.Read(buf)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}
