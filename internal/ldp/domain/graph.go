package domain

import "sort"

// Graph is an in-memory RDF graph: a duplicate-free (I1) set of triples with
// an index on (subject, predicate) for the lookups the analyzer, the
// calculated-triple inserter and the backend's membership queries all need
// on their hot paths. Modeled on deiu/rdf2go's Graph, but indexed rather than
// scanned linearly per call.
type Graph struct {
	byKey  map[string]*Triple
	index  map[string]map[string][]*Triple // subject.String() -> predicate.String() -> triples
	order  []*Triple                       // insertion order, for deterministic serialization
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		byKey: make(map[string]*Triple),
		index: make(map[string]map[string][]*Triple),
	}
}

// Add inserts a triple, returning false if it was already present (I1).
func (g *Graph) Add(s, p, o Term) bool {
	return g.AddTriple(&Triple{Subject: s, Predicate: p, Object: o})
}

// AddTriple inserts a triple, returning false if it was already present.
func (g *Graph) AddTriple(t *Triple) bool {
	k := t.key()
	if _, exists := g.byKey[k]; exists {
		return false
	}
	g.byKey[k] = t
	g.order = append(g.order, t)

	sk := t.Subject.String()
	pk := t.Predicate.String()
	if g.index[sk] == nil {
		g.index[sk] = make(map[string][]*Triple)
	}
	g.index[sk][pk] = append(g.index[sk][pk], t)
	return true
}

// Remove deletes a triple if present.
func (g *Graph) Remove(s, p, o Term) {
	t := &Triple{Subject: s, Predicate: p, Object: o}
	k := t.key()
	if _, exists := g.byKey[k]; !exists {
		return
	}
	delete(g.byKey, k)

	sk := t.Subject.String()
	pk := t.Predicate.String()
	list := g.index[sk][pk]
	for i, cand := range list {
		if cand.key() == k {
			g.index[sk][pk] = append(list[:i], list[i+1:]...)
			break
		}
	}
	for i, cand := range g.order {
		if cand.key() == k {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// RemoveSubject deletes every triple whose subject is s.
func (g *Graph) RemoveSubject(s Term) {
	for _, t := range g.Match(s, nil, nil) {
		g.Remove(t.Subject, t.Predicate, t.Object)
	}
}

// Len returns the number of distinct triples in the graph.
func (g *Graph) Len() int { return len(g.byKey) }

// All returns every triple, in insertion order.
func (g *Graph) All() []*Triple {
	out := make([]*Triple, len(g.order))
	copy(out, g.order)
	return out
}

// Match returns every triple matching the given pattern; a nil term is a
// wildcard for that position.
func (g *Graph) Match(s, p, o Term) []*Triple {
	var candidates []*Triple
	switch {
	case s != nil:
		for pk, list := range g.index[s.String()] {
			if p != nil && pk != p.String() {
				continue
			}
			candidates = append(candidates, list...)
		}
	default:
		candidates = g.All()
	}

	if p == nil && o == nil {
		return candidates
	}
	var out []*Triple
	for _, t := range candidates {
		if p != nil && !t.Predicate.Equal(p) {
			continue
		}
		if o != nil && !t.Object.Equal(o) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Any returns the first object matching (s, p, *), or nil if none exists.
// Mirrors rdf2go's Graph.One/Any convenience for "does this resource have
// exactly this property" checks used throughout the analyzer.
func (g *Graph) Any(s, p Term) Term {
	matches := g.Match(s, p, nil)
	if len(matches) == 0 {
		return nil
	}
	return matches[0].Object
}

// HasTriple reports whether (s, p, o) is present.
func (g *Graph) HasTriple(s, p, o Term) bool {
	return len(g.Match(s, p, o)) > 0
}

// Subjects returns the distinct subjects in the graph, sorted for
// deterministic iteration (serializers group output by subject).
func (g *Graph) Subjects() []Term {
	seen := make(map[string]Term)
	for _, t := range g.order {
		seen[t.Subject.String()] = t.Subject
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Term, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out
}

// Merge adds every triple of other into g.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	for _, t := range other.order {
		g.AddTriple(t)
	}
}

// Clone returns a deep-enough copy (terms are immutable so sharing them is
// safe; only the graph's own bookkeeping is copied).
func (g *Graph) Clone() *Graph {
	out := NewGraph()
	out.Merge(g)
	return out
}
