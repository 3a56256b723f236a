package datasource

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-admin-console/internal/config"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/dataservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_HTTP(t *testing.T) {
	cfg := &config.Config{
		DataSource:  config.DataSourceHTTP,
		DataService: config.DataServiceConfig{URL: "http://localhost:5000/api"},
	}

	repos, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer repos.Close()

	assert.IsType(t, &dataservice.Client{}, repos.Leaves)
	assert.Same(t, repos.Leaves, repos.Reports)
}

func TestOpen_UnknownSource(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{DataSource: "ftp"})
	assert.ErrorContains(t, err, "unsupported data source")
}
