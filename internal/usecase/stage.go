package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Stage is one named step of a pipeline. Run receives the previous state value
// and returns a new value with only the stage's own fields written.
type Stage[S any] struct {
	Name string
	Run  func(ctx context.Context, state S) (S, error)
}

// runStages executes stages strictly in order and stops at the first error
func runStages[S any](ctx context.Context, pipeline string, state S, stages []Stage[S]) (S, error) {
	log.Printf("[PIPELINE] %s: running stages %s", pipeline, strings.Join(stageNames(stages), " -> "))

	for _, stage := range stages {
		start := time.Now()

		next, err := stage.Run(ctx, state)
		if err != nil {
			log.Printf("[PIPELINE] %s: stage %s failed after %s: %v", pipeline, stage.Name, time.Since(start), err)
			return state, fmt.Errorf("%s stage %s: %w", pipeline, stage.Name, err)
		}

		log.Printf("[PIPELINE] %s: stage %s completed in %s", pipeline, stage.Name, time.Since(start))
		state = next
	}
	return state, nil
}

// stageNames lists the names of stages in execution order
func stageNames[S any](stages []Stage[S]) []string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
	}
	return names
}

// fanOut applies f to every item with at most limit calls in flight.
// out[i] always holds f(items[i]) regardless of completion order.
func fanOut[T, U any](ctx context.Context, limit int, items []T, f func(context.Context, T) U) []U {
	out := make([]U, len(items))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		g.Go(func() error {
			out[i] = f(gctx, item)
			return nil
		})
	}
	_ = g.Wait()

	return out
}
