package pipeline

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/cadxml/internal/cadastre"
)

// Result is the outcome of processing one file of a batch.
type Result struct {
	Path     string
	Record   *cadastre.Record
	Err      error
	Duration time.Duration
}

type job struct {
	index int
	path  string
}

// ProcessBatch processes paths with a bounded pool of workers. Results are
// returned in input order and a failing file never stops the others.
func (p *Pipeline) ProcessBatch(paths []string, concurrency int) []Result {
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(paths) {
		concurrency = len(paths)
	}

	jobs := make(chan job, len(paths))
	results := make([]Result, len(paths))

	go func() {
		for i, path := range paths {
			jobs <- job{index: i, path: path}
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				start := time.Now()
				rec, err := p.ProcessFile(j.path)
				if err != nil {
					log.Debug().
						Err(err).
						Str("file", j.path).
						Msg("Failed to process file")
				}
				// each worker owns distinct indexes
				results[j.index] = Result{
					Path:     j.path,
					Record:   rec,
					Err:      err,
					Duration: time.Since(start),
				}
			}
		}()
	}
	wg.Wait()

	return results
}

// Failed counts results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
