package watcher

import (
	"github.com/antzucaro/matchr"

	"stocksnoop/lib/textutil"
)

// HandleMatch pairs a free-form query with the handle it most likely
// refers to. Correlation is 1 for exact matches after normalization.
type HandleMatch struct {
	Query       string
	Handle      string
	Correlation float64
}

// MatchHandles resolves free-form product names ("dark merlin") to known
// handles. Exact matches on normalized names are taken first, the rest fall
// back to the most similar remaining handle by Jaro-Winkler distance. Each
// handle is matched at most once; a query with nothing left to match gets
// an empty handle.
func MatchHandles(queries []string, handles []string) []HandleMatch {
	normalized := make([]string, len(handles))
	for i, handle := range handles {
		normalized[i] = textutil.NormalizeName(handle)
	}

	result := make([]HandleMatch, len(queries))
	matchedQueries := make(map[int]struct{})
	matchedHandles := make(map[int]struct{})

	for i, query := range queries {
		q := textutil.NormalizeName(query)
		result[i] = HandleMatch{Query: query}

		for j := range handles {
			_, taken := matchedHandles[j]
			if taken {
				continue
			}
			if q == normalized[j] {
				result[i].Handle = handles[j]
				result[i].Correlation = 1
				matchedQueries[i] = struct{}{}
				matchedHandles[j] = struct{}{}
				break
			}
		}
	}

	for i, query := range queries {
		_, matched := matchedQueries[i]
		if matched {
			continue
		}
		q := textutil.NormalizeName(query)

		var mostSimilarity float64
		mostSimilar := -1
		for j := range handles {
			_, taken := matchedHandles[j]
			if taken {
				continue
			}
			similarity := matchr.JaroWinkler(q, normalized[j], false)
			if similarity > mostSimilarity {
				mostSimilarity = similarity
				mostSimilar = j
			}
		}

		if mostSimilar >= 0 {
			result[i].Handle = handles[mostSimilar]
			result[i].Correlation = mostSimilarity
			matchedHandles[mostSimilar] = struct{}{}
		}
	}

	return result
}
