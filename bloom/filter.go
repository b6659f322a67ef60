// Package bloom provides URL deduplication backed by a Bloom filter.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Set records URLs by exact string. A Bloom filter answers most
// membership checks; its positives are confirmed against an exact map, so
// Has never reports a URL that was not added.
type Set struct {
	f     *bloom.BloomFilter
	exact map[string]struct{}
}

// NewSet creates a Set sized for n expected URLs with the given Bloom
// false positive rate.
func NewSet(n uint, fpRate float64) *Set {
	if n == 0 {
		n = 1
	}
	return &Set{
		f:     bloom.NewWithEstimates(n, fpRate),
		exact: make(map[string]struct{}, n),
	}
}

// Add records url and reports whether it was new.
func (s *Set) Add(url string) bool {
	if s.Has(url) {
		return false
	}
	s.f.AddString(url)
	s.exact[url] = struct{}{}
	return true
}

// Has reports whether url was added.
func (s *Set) Has(url string) bool {
	if !s.f.TestString(url) {
		return false
	}
	_, ok := s.exact[url]
	return ok
}

// Len returns the number of distinct URLs added.
func (s *Set) Len() int {
	return len(s.exact)
}
