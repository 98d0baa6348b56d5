package concurrent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	n := 100
	wp := NewWorkerPool[int, int](4, n)
	wp.Start(func(job int) int {
		return job * job
	})
	for i := 0; i < n; i++ {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Wait()

	sum := 0
	count := 0
	for res := range wp.CollectResults() {
		sum += res
		count++
	}
	assert.Equal(t, n, count)
	assert.Equal(t, 328350, sum)
}
