package probe

import (
	"context"
)

type Outcome int

const (
	Success Outcome = iota
	Empty
	NotFound
	ProviderError
	TransportError
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Empty:
		return "empty"
	case NotFound:
		return "not_found"
	case ProviderError:
		return "provider_error"
	case TransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

type Column struct {
	Name string
	Type string
}

// Schema is the column set inferred from a sample row, in server order.
type Schema struct {
	Columns []Column
}

func (s Schema) Names() []string {
	names := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		names = append(names, c.Name)
	}
	return names
}

// Result is the resolved state of one probe.
type Result struct {
	Table      string
	Outcome    Outcome
	Schema     Schema
	Sample     *Record
	StatusCode int
	Err        error
}

type Prober interface {
	Name() string
	Probe(ctx context.Context, table string) Result
}

// Results keeps one Result per table in probe order.
type Results struct {
	order []string
	byKey map[string]Result
}

func NewResults() *Results {
	return &Results{byKey: map[string]Result{}}
}

// Add records r, replacing any earlier result for the same table in place.
func (rs *Results) Add(r Result) {
	if _, ok := rs.byKey[r.Table]; !ok {
		rs.order = append(rs.order, r.Table)
	}
	rs.byKey[r.Table] = r
}

func (rs *Results) Get(table string) (Result, bool) {
	r, ok := rs.byKey[table]
	return r, ok
}

func (rs *Results) Tables() []string {
	return append([]string(nil), rs.order...)
}

func (rs *Results) All() []Result {
	out := make([]Result, 0, len(rs.order))
	for _, t := range rs.order {
		out = append(out, rs.byKey[t])
	}
	return out
}

func (rs *Results) Len() int {
	return len(rs.order)
}

// Run probes tables one at a time. observe, when non-nil, is called with each
// result as soon as it resolves.
func Run(ctx context.Context, p Prober, tables []string, observe func(Result)) *Results {
	results := NewResults()
	for _, table := range tables {
		r := p.Probe(ctx, table)
		r.Table = table
		results.Add(r)
		if observe != nil {
			observe(r)
		}
	}
	return results
}
