package history_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"item-mirror/core/database"
	"item-mirror/core/server"
	"item-mirror/feature/history"
	"item-mirror/feature/listing"
	"item-mirror/feature/merge"
	"item-mirror/feature/pipeline"
	"item-mirror/feature/stats"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: "file::memory:"})
	require.NoError(t, err)
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}
	return gormDB, mock
}

func outcome(id string, started time.Time) pipeline.Outcome {
	return pipeline.Outcome{
		RunID:      id,
		Mode:       pipeline.ModeCheck,
		State:      pipeline.StateDone,
		Stages:     []pipeline.State{pipeline.StateChecking, pipeline.StateDone},
		Signature:  "abc",
		Updated:    true,
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
	}
}

func TestFromOutcome(t *testing.T) {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	o := outcome("run-1", started)
	o.State = pipeline.StateFailed
	o.Updated = false
	o.Err = errors.New("boom")
	o.Merge = &merge.Report{Merged: 4, Variants: 9}
	o.Listing = &listing.Report{Collisions: []listing.Collision{{Bundle: "weapon", Key: "ak74"}}}
	o.Stats = &stats.Report{Updated: 2}

	run := history.FromOutcome(o)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, "check", run.Mode)
	assert.Equal(t, "FAILED", run.State)
	assert.Equal(t, "CHECKING,DONE", run.Stages)
	assert.Equal(t, "boom", run.Error)
	assert.Equal(t, int64(1500), run.DurationMs)
	assert.Equal(t, 4, run.Merged)
	assert.Equal(t, 9, run.Variants)
	assert.Equal(t, 1, run.Collisions)
	assert.Equal(t, 2, run.Augmented)
	assert.Equal(t, "sync_runs", run.TableName())
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := history.NewRepository(setupSQLite(t), zap.NewNop())
	require.NoError(t, repo.Migrate())

	base := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Record(ctx, outcome(id, base.Add(time.Duration(i)*time.Minute))))
	}

	runs, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)

	all, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	err = repo.Record(ctx, outcome("a", base))
	assert.Error(t, err, "duplicate run id must be rejected")
}

func TestRepository_DatabaseErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Record", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := history.NewRepository(db, zap.NewNop())

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `sync_runs`").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := repo.Record(ctx, outcome("x", time.Now()))
		assert.ErrorContains(t, err, "record run x")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Recent", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := history.NewRepository(db, zap.NewNop())

		mock.ExpectQuery("SELECT \\* FROM `sync_runs`").WillReturnError(errors.New("gone away"))

		runs, err := repo.Recent(ctx, 10)
		assert.ErrorContains(t, err, "list runs")
		assert.Nil(t, runs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFeature(t *testing.T) {
	cfg := server.Config{Token: "secret"}

	t.Run("Disabled Without Database", func(t *testing.T) {
		f := history.NewFeature(cfg, nil, zap.NewNop())
		assert.False(t, f.IsEnabled())
		assert.Equal(t, "history", f.Name())
	})

	t.Run("Serves Runs", func(t *testing.T) {
		db := setupSQLite(t)
		f := history.NewFeature(cfg, db, zap.NewNop())
		require.True(t, f.IsEnabled())

		app := fiber.New()
		require.NoError(t, f.Load(app))

		repo := history.NewRepository(db, zap.NewNop())
		require.NoError(t, repo.Record(context.Background(), outcome("r1", time.Now())))

		req := httptest.NewRequest("GET", "/runs?limit=5", nil)
		req.Header.Set(server.TokenHeader, "secret")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var runs []history.SyncRun
		require.NoError(t, json.Unmarshal(body, &runs))
		require.Len(t, runs, 1)
		assert.Equal(t, "r1", runs[0].ID)
	})

	t.Run("Forbidden", func(t *testing.T) {
		f := history.NewFeature(cfg, setupSQLite(t), zap.NewNop())
		app := fiber.New()
		require.NoError(t, f.Load(app))

		resp, err := app.Test(httptest.NewRequest("GET", "/runs", nil))
		require.NoError(t, err)
		assert.Equal(t, 403, resp.StatusCode)
	})
}
