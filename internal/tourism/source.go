package tourism

import (
	"context"
	"io"
)

// Source abstracts where the raw statistics sheet comes from (a local file,
// a published URL).
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Store is the contract the in-memory run store must satisfy.
type Store interface {
	SaveRun(run *AnalysisRun)
	GetRun(id string) (*AnalysisRun, error)
	ListRuns() []*AnalysisRun
}
