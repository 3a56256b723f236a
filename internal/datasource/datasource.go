package datasource

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-admin-console/internal/config"
	"github.com/cmlabs-hris/hris-admin-console/internal/domain/leave"
	"github.com/cmlabs-hris/hris-admin-console/internal/domain/report"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/database"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/dataservice"
	"github.com/cmlabs-hris/hris-admin-console/internal/repository/postgresql"
)

// Repositories are the two boundaries the console services read through.
// Close releases whatever backs them and is always safe to call.
type Repositories struct {
	Leaves  leave.LeaveRepository
	Reports report.ReportRepository
	Close   func()
}

// Open picks the data source named by cfg.DataSource: the remote HR data
// service over HTTP, or the HR database directly.
func Open(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.DataSource {
	case config.DataSourceHTTP:
		client := dataservice.NewClient(ctx, cfg.DataService)
		slog.Info("Using remote data service", "url", cfg.DataService.URL, "client_credentials", cfg.DataService.UsesClientCredentials())
		return &Repositories{
			Leaves:  client,
			Reports: client,
			Close:   func() {},
		}, nil
	case config.DataSourcePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		slog.Info("Using HR database", "host", cfg.Database.Host, "name", cfg.Database.Name)
		return &Repositories{
			Leaves:  postgresql.NewLeaveRepository(db),
			Reports: postgresql.NewReportRepository(db),
			Close:   db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported data source: %q", cfg.DataSource)
	}
}
