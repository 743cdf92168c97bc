// Package resolve maps human dashboard names to numeric ids with fuzzy
// matching.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Candidate is one dashboard eligible for matching.
type Candidate struct {
	ID   int
	Name string
}

// Match is a scored fuzzy result.
type Match struct {
	ID    int
	Name  string
	Score int
}

var (
	ErrEmptyQuery      = errors.New("empty search query")
	ErrEmptyCandidates = errors.New("no dashboards to match against")
)

// AmbiguousError indicates multiple dashboards matched equally well.
// Matches are sorted best-first and capped.
type AmbiguousError struct {
	Query   string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "ambiguous match for %q", e.Query)
	if len(e.Matches) > 0 {
		b.WriteString(", candidates:")
		for _, m := range e.Matches {
			_, _ = fmt.Fprintf(&b, "\n  %d: %s", m.ID, m.Name)
		}
	}
	return b.String()
}

type lowerNames []Candidate

func (s lowerNames) String(i int) string { return strings.ToLower(s[i].Name) }
func (s lowerNames) Len() int            { return len(s) }

// Dashboard finds the dashboard whose name best matches query and returns
// its id. An exact case-insensitive name match always wins; otherwise the
// top fuzzy match is used, and a score tie between the top two results is an
// *AmbiguousError.
func Dashboard(query string, candidates []Candidate) (int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, ErrEmptyQuery
	}
	if len(candidates) == 0 {
		return 0, ErrEmptyCandidates
	}

	for _, c := range candidates {
		if strings.EqualFold(c.Name, query) {
			return c.ID, nil
		}
	}

	results := fuzzy.FindFrom(strings.ToLower(query), lowerNames(candidates))
	if len(results) == 0 {
		return 0, fmt.Errorf("no dashboard matching %q", query)
	}
	if len(results) > 1 && results[0].Score == results[1].Score {
		return 0, &AmbiguousError{
			Query:   query,
			Matches: buildMatches(candidates, results, 5),
		}
	}
	return candidates[results[0].Index].ID, nil
}

// Suggest returns up to limit matches ranked best-first, for "did you mean"
// listings.
func Suggest(query string, candidates []Candidate, limit int) []Match {
	query = strings.TrimSpace(query)
	if query == "" || len(candidates) == 0 || limit <= 0 {
		return nil
	}
	results := fuzzy.FindFrom(strings.ToLower(query), lowerNames(candidates))
	return buildMatches(candidates, results, limit)
}

func buildMatches(candidates []Candidate, results fuzzy.Matches, limit int) []Match {
	if len(results) == 0 || limit <= 0 {
		return nil
	}
	if len(results) > limit {
		results = results[:limit]
	}
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			ID:    candidates[r.Index].ID,
			Name:  candidates[r.Index].Name,
			Score: r.Score,
		}
	}
	return matches
}
