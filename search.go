package png2sprites

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
)

// PermuteNext advances p to the next permutation index vector. Starting
// from an all-zero p of length n it enumerates all n! permutations, the
// identity first. The sequence ends when p[0] == len(p).
func PermuteNext(p []int) {
	for i := len(p) - 1; i >= 0; i-- {
		if i == 0 || p[i] < len(p)-i-1 {
			p[i]++
			return
		}
		p[i] = 0
	}
}

// Permutation applies the permutation index vector p to a copy of orig.
func Permutation[S ~[]E, E any](orig S, p []int) (r S) {
	r = append(r, orig...)
	for i, v := range p {
		r[i], r[i+v] = r[i+v], r[i]
	}
	return r
}

// search tries palette orderings in enumeration order, keeping the sheet
// with the lowest worst-case component count. Orderings are abandoned as
// soon as a tile reaches the best count found so far, and the search
// stops the moment the theoretical minimum is reached.
func (c *Converter) search() (*SpriteSheet, error) {
	base := c.palette.Colors()[1:]
	if len(base) < 2 {
		return c.buildSheet(c.palette, 0, nil)
	}

	var best *SpriteSheet
	bound := 0
	count := 0
	for p := make([]int, len(base)); p[0] < len(p); PermuteNext(p) {
		count++
		pal := c.palette.Reorder(Permutation(base, p))
		sheet, err := c.buildSheet(pal, bound, nil)
		if errors.Is(err, errDeadEnd) {
			if c.opt.VeryVerbose {
				log.Printf("ordering %d: %v", count, err)
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		if best == nil || sheet.Components < best.Components {
			best = sheet
			bound = sheet.Components
			if c.opt.Verbose {
				log.Printf("ordering %d lowers components to %d", count, best.Components)
			}
		}
		if best.Components <= c.minComponents {
			if c.opt.Verbose {
				log.Printf("theoretical minimum %d reached after %d orderings", c.minComponents, count)
			}
			break
		}
	}
	if best == nil {
		// cannot happen, the first ordering builds unbounded
		return nil, fmt.Errorf("no palette ordering produced a sheet")
	}
	return best, nil
}

// A searchState is the only state shared between search workers: the best
// sheet so far and the pruning bound, plus the stop channel closed once
// the theoretical minimum is found.
type searchState struct {
	mu      sync.Mutex
	best    *SpriteSheet
	bestSeq int
	bound   int
	stop    chan struct{}
	stopped bool
}

func (s *searchState) cancelled() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

func (s *searchState) currentBound() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

// improve adopts the candidate sheet if it beats the best so far, or ties
// it with an earlier enumeration sequence number so that parallel runs
// stay deterministic. Returns false when the candidate is already surpassed.
func (s *searchState) improve(sheet *SpriteSheet, seq, min int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.best != nil && (sheet.Components > s.best.Components ||
		(sheet.Components == s.best.Components && seq >= s.bestSeq)) {
		return false
	}
	s.best = sheet
	s.bestSeq = seq
	s.bound = sheet.Components
	if sheet.Components <= min && !s.stopped {
		s.stopped = true
		close(s.stop)
	}
	return true
}

type searchJob struct {
	seq int
	pal Palette
}

// searchParallel distributes candidate orderings over NumWorkers
// goroutines. Workers share the best-so-far bound for pruning and stop
// cooperatively at tile boundaries once the minimum is found.
func (c *Converter) searchParallel() (*SpriteSheet, error) {
	base := c.palette.Colors()[1:]
	if len(base) < 2 {
		return c.buildSheet(c.palette, 0, nil)
	}
	num := c.opt.NumWorkers
	if num < 1 {
		num = runtime.NumCPU()
	}

	st := &searchState{stop: make(chan struct{})}
	jobs := make(chan searchJob, num)
	wg := &sync.WaitGroup{}
	var firstErr error
	var errOnce sync.Once

	wg.Add(num)
	for i := 0; i < num; i++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				if st.cancelled() {
					continue
				}
				sheet, err := c.buildSheet(job.pal, st.currentBound(), st.cancelled)
				if errors.Is(err, errDeadEnd) || errors.Is(err, errCancelled) {
					continue
				}
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					continue
				}
				st.improve(sheet, job.seq, c.minComponents)
			}
		}()
	}
	if !c.opt.Quiet {
		fmt.Printf("started %d search workers\n", num)
	}

	seq := 0
LOOP:
	for p := make([]int, len(base)); p[0] < len(p); PermuteNext(p) {
		seq++
		job := searchJob{seq: seq, pal: c.palette.Reorder(Permutation(base, p))}
		select {
		case jobs <- job:
		case <-st.stop:
			break LOOP
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if st.best == nil {
		return nil, fmt.Errorf("no palette ordering produced a sheet")
	}
	if c.opt.Verbose {
		log.Printf("parallel search winner: ordering %d with %d components", st.bestSeq, st.best.Components)
	}
	return st.best, nil
}
