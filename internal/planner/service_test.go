package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskgraph/internal/artifact"
	"github.com/felixgeelhaar/taskgraph/internal/errors"
	"github.com/felixgeelhaar/taskgraph/internal/log"
	"github.com/felixgeelhaar/taskgraph/internal/metrics"
)

func testService(t *testing.T) (*Service, *artifact.FileStore, *bytes.Buffer) {
	t.Helper()
	store, err := artifact.NewFileStore(t.TempDir())
	require.NoError(t, err)

	var buf bytes.Buffer
	cfg := log.DefaultConfig()
	cfg.Format = log.FormatJSON
	cfg.Level = log.LevelDebug
	cfg.Output = &buf
	return NewService(store, log.New(cfg), "taskgraph test"), store, &buf
}

func request(store bool) CreateRequest {
	return CreateRequest{
		PRDPath:      filepath.Join("testdata", "prd.md"),
		ContractPath: filepath.Join("testdata", "contract.yaml"),
		Tuning:       testTuning(),
		Store:        store,
	}
}

func TestService_CreateAndStore(t *testing.T) {
	ctx := context.Background()
	svc, store, logs := testService(t)

	created, err := svc.Create(ctx, request(true))
	require.NoError(t, err)

	assert.NotEmpty(t, created.Plan.ContractHash)
	assert.Equal(t, 3, created.Plan.Coverage.Total)
	assert.NotEmpty(t, created.DocumentRef)
	assert.NotEmpty(t, created.ReportRef)
	assert.Contains(t, logs.String(), `"msg":"plan built"`)
	assert.Contains(t, logs.String(), `"msg":"plan stored"`)

	data, err := store.Get(ctx, created.DocumentRef)
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, created.Plan.ID, doc.Plan.ID)
	assert.Equal(t, "taskgraph test", doc.Generator)
	assert.NoError(t, doc.Validate(created.Plan.Tuning.Capacity()))

	data, err = store.Get(ctx, created.ReportRef)
	require.NoError(t, err)
	var report Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, created.Plan.ID, report.PlanID)
}

func TestService_CreateWithUI(t *testing.T) {
	svc, _, _ := testService(t)

	created, err := svc.Create(context.Background(), request(false))
	require.NoError(t, err)

	frontend := 0
	for _, n := range created.Plan.Nodes {
		if n.Phase == "frontend" {
			frontend++
		}
	}
	// foundation plus one node per operation
	assert.Equal(t, 4, frontend)
	assert.Empty(t, created.DocumentRef)
}

func TestService_FailuresStoreNothing(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*CreateRequest)
		wantCode errors.ErrorCode
	}{
		{"missing contract", func(r *CreateRequest) { r.ContractPath = "testdata/absent.yaml" }, errors.ErrCodeFileNotFound},
		{"missing prd", func(r *CreateRequest) { r.PRDPath = "testdata/absent.md" }, errors.ErrCodeFileNotFound},
		{"invalid tuning", func(r *CreateRequest) { r.Tuning.DefaultModelClass = "" }, errors.ErrCodeConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := testService(t)
			req := request(true)
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			assert.Equal(t, tt.wantCode, errors.CodeOf(err), "got %v", err)

			entries, err := os.ReadDir(store.Dir())
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestService_WarnsOnDegenerateFloor(t *testing.T) {
	svc, _, logs := testService(t)
	req := request(false)
	req.Tuning.TokenBudgetFloor = 500000

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, created.Plan.Violations(), len(created.Plan.Nodes))
	assert.Contains(t, logs.String(), string(errors.ErrCodeConfigDegenerate))
	assert.Contains(t, logs.String(), "plan has nodes over token capacity")
}

func TestService_RecordsMetrics(t *testing.T) {
	svc, _, _ := testService(t)
	_, m := metrics.NewRegistry()
	svc.WithMetrics(m)

	_, err := svc.Create(context.Background(), request(true))
	require.NoError(t, err)

	req := request(false)
	req.ContractPath = "testdata/absent.yaml"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlanBuilds.WithLabelValues(metrics.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlanBuilds.WithLabelValues(metrics.OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArtifactsStored.WithLabelValues("document")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArtifactsStored.WithLabelValues("report")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues(string(errors.ErrCodeFileNotFound), "contract")))
}
