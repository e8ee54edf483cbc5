package reason

import (
	"github.com/kitegraph/kite/pkg/store"
)

// DefaultMaxIterations caps inference rounds when the caller has no opinion.
const DefaultMaxIterations = 100

// InferenceReport describes one inference run
type InferenceReport struct {
	// RoundsRun is the number of completed rule application rounds
	RoundsRun int
	// TriplesAdded is the total number of newly derived triples inserted
	TriplesAdded int
	// FixpointReached is true when the last round derived nothing new;
	// false means the iteration cap cut the run short
	FixpointReached bool
}

// Infer runs the RDFS rules against the graph until fixpoint or the iteration
// cap. Each round snapshots the store, applies every rule against the
// snapshot, and inserts the derivations; insertion newness decides
// termination, so the result is deterministic regardless of rule or iteration
// order. Inference only ever adds triples.
func Infer(graph *store.Graph, maxIterations int) (InferenceReport, error) {
	report := InferenceReport{}
	rules := Rules()

	for report.RoundsRun < maxIterations {
		triples, err := graph.Triples()
		if err != nil {
			return report, err
		}
		snap := newSnapshot(triples)

		added := 0
		for _, rule := range rules {
			inserted, err := graph.InsertAll(rule.Apply(snap))
			if err != nil {
				return report, err
			}
			added += inserted
		}

		report.RoundsRun++
		report.TriplesAdded += added

		if added == 0 {
			report.FixpointReached = true
			break
		}
	}

	return report, nil
}
