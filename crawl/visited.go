package crawl

import "sync"

// visitedSet is the crawl's deduplication and admission-control gate.
// TryClaim is the only way in: the membership check, the global cap
// check, and the insert happen under one critical section so two
// workers can never claim the same URL and concurrent branches observe
// one shared page count.
type visitedSet struct {
	mu   sync.Mutex
	urls map[string]struct{}

	// cap bounds the total number of claims for the run; 0 means
	// unlimited.
	cap int
}

func newVisitedSet(cap int) *visitedSet {
	return &visitedSet{
		urls: make(map[string]struct{}),
		cap:  cap,
	}
}

// TryClaim atomically claims url for the caller. It returns false if
// the URL was already claimed by any worker or the run's page cap has
// been reached.
func (v *visitedSet) TryClaim(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cap > 0 && len(v.urls) >= v.cap {
		return false
	}
	if _, ok := v.urls[url]; ok {
		return false
	}
	v.urls[url] = struct{}{}
	return true
}

// Len returns the number of claimed URLs.
func (v *visitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.urls)
}
