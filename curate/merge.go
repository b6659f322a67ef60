package curate

import "github.com/fwojciec/chatad/bloom"

// mergeFalsePositiveRate sizes the Bloom pre-filter used by MergeURLs.
const mergeFalsePositiveRate = 0.01

// MergeURLs returns the union of the given URL lists in first-seen order
// with no string repeated. URLs compare by exact string equality.
func MergeURLs(lists ...[]string) []string {
	var n int
	for _, l := range lists {
		n += len(l)
	}

	seen := bloom.NewSet(uint(n), mergeFalsePositiveRate)
	out := make([]string, 0, n)
	for _, l := range lists {
		for _, u := range l {
			if seen.Add(u) {
				out = append(out, u)
			}
		}
	}
	return out
}
