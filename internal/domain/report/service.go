package report

import "context"

type ReportExporter interface {
	// Generate fetches one kind of report and serializes it. An empty result
	// fails with *NoDataError; fetch failures are *ExportError.
	Generate(ctx context.Context, req ExportRequest) (Artifact, error)
	// GenerateAll exports every kind for the period. The first failure wins.
	GenerateAll(ctx context.Context, month, year int, format Format) ([]Artifact, error)
}
