package concurrent

import (
	"github.com/MOTRoundTables/google-control-sub000/pkg/util"
)

// Chunk is a half-open index range [Start, End) assigned to one worker.
type Chunk struct {
	Start int
	End   int
}

func (c Chunk) Len() int {
	return c.End - c.Start
}

func SplitIndexRange(n, chunkSize int) []Chunk {
	if n <= 0 || chunkSize <= 0 {
		return nil
	}
	chunks := make([]Chunk, 0, (n+chunkSize-1)/chunkSize)
	for start := 0; start < n; start += chunkSize {
		chunks = append(chunks, Chunk{Start: start, End: util.MinG(start+chunkSize, n)})
	}
	return chunks
}

type chunkResult[G any] struct {
	start int
	out   []G
}

// MapChunksOrdered fans chunks out over a worker pool and reassembles the
// per-chunk outputs by original index, so the caller observes the same
// ordering as a sequential loop. onChunkDone is invoked once per completed
// chunk with (completedChunks, totalChunks); pass nil to disable.
func MapChunksOrdered[G any](numWorkers int, chunks []Chunk, fn func(Chunk) []G,
	onChunkDone func(completed, total int)) []G {
	if len(chunks) == 0 {
		return nil
	}

	pool := NewWorkerPool[Chunk, chunkResult[G]](numWorkers, len(chunks))
	pool.Start(func(c Chunk) chunkResult[G] {
		return chunkResult[G]{start: c.Start, out: fn(c)}
	})
	for _, c := range chunks {
		pool.AddJob(c)
	}
	pool.Close()

	done := make(chan struct{})
	byStart := make(map[int][]G, len(chunks))
	go func() {
		defer close(done)
		completed := 0
		for res := range pool.CollectResults() {
			byStart[res.start] = res.out
			completed++
			if onChunkDone != nil {
				onChunkDone(completed, len(chunks))
			}
		}
	}()
	pool.Wait()
	<-done

	total := 0
	for _, c := range chunks {
		total += c.Len()
	}
	merged := make([]G, 0, total)
	for _, c := range chunks {
		merged = append(merged, byStart[c.Start]...)
	}
	return merged
}
