package db

import (
	"context"

	"github.com/TFMV/surrealmeter/types"
)

// DB stores the results of an analysis run.
type DB interface {
	Initialize(ctx context.Context) error
	StoreAnalysis(ctx context.Context, report types.AnalysisReport) error
	Close() error
}

var (
	_ DB = (*SurrealDB)(nil)
	_ DB = (*MockDB)(nil)
)
