package orchestrator

import (
	"context"
	"sync"
)

// Result carries one stage output together with the error for that input.
type Result[Out any] struct {
	Value Out
	Err   error
	Index int // Original index in the input slice
}

// Stage defines a fan-out processing step, e.g. scraping every enabled source.
type Stage[In, Out any] struct {
	Name        string
	Concurrency int // Maximum number of concurrent workers
	Process     func(ctx context.Context, input In) (Out, error)
}

// RunStage processes all inputs with at most Concurrency workers and returns
// results in input order. Inputs not yet processed when the context is
// cancelled get ctx.Err() as their result.
func RunStage[In, Out any](ctx context.Context, stage Stage[In, Out], inputs []In) []Result[Out] {
	if len(inputs) == 0 {
		return nil
	}

	workers := stage.Concurrency
	if workers <= 0 {
		workers = 1
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	results := make([]Result[Out], len(inputs))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				if err := ctx.Err(); err != nil {
					results[idx] = Result[Out]{Err: err, Index: idx}
					continue
				}
				out, err := stage.Process(ctx, inputs[idx])
				results[idx] = Result[Out]{Value: out, Err: err, Index: idx}
			}
		}()
	}

	for i := range inputs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}
