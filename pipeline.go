package modelspace

import (
	"sync"

	"github.com/akmonengine/modelspace/geometry"
)

const DEFAULT_WORKERS = 1

// Result is the outcome of one ray of a batch
type Result struct {
	Collision geometry.Collision
	Hit       bool
}

// IntersectAll intersects every ray with the model space using workers
// goroutines. Results are in ray order. The model space must be loaded and
// must not be reloaded during the call.
func IntersectAll(space ModelSpace, rays []geometry.Ray, workers int) []Result {
	results := make([]Result, len(rays))

	task(max(DEFAULT_WORKERS, workers), rays, func(i int, ray geometry.Ray) {
		collision, hit := space.Intersect(ray)
		results[i] = Result{Collision: collision, Hit: hit}
	})

	return results
}

// task splits data into contiguous chunks, one per worker
func task[T any](workersCount int, data []T, fn func(i int, data T)) {
	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		start := workerID * chunkSize
		end := min((workerID+1)*chunkSize, dataSize)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i, data[i])
			}
		}(start, end)
	}
	wg.Wait()
}
