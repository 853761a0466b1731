package state

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Deployment{}))

	return db
}

func TestRepository_CreateAssignsID(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	d := &Deployment{
		ProjectName: "portfolio",
		ProjectPath: "/home/dev/portfolio",
		Platform:    "vercel",
		Status:      StatusSucceeded,
		URL:         "https://portfolio-abc123.vercel.app",
	}
	require.NoError(t, repo.Create(context.Background(), d))
	assert.NotEqual(t, uuid.Nil, d.ID)

	got, err := repo.Get(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "portfolio", got.ProjectName)
	assert.Equal(t, StatusSucceeded, got.Status)
}

func TestRepository_GetNotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	_, err := repo.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deployment not found")
}

func seedDeployments(t *testing.T, repo *Repository) {
	t.Helper()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := []Deployment{
		{ProjectName: "blog", ProjectPath: "/home/dev/blog", Platform: "netlify", Status: StatusSucceeded, CreatedAt: base},
		{ProjectName: "blog", ProjectPath: "/home/dev/blog", Platform: "netlify", Status: StatusFailed, CreatedAt: base.Add(time.Hour)},
		{ProjectName: "shop", ProjectPath: "/home/dev/shop", Platform: "vercel", Status: StatusSucceeded, CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range rows {
		require.NoError(t, repo.Create(context.Background(), &rows[i]))
	}
}

func TestRepository_ListOrdersNewestFirst(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	seedDeployments(t, repo)

	all, err := repo.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "shop", all[0].ProjectName)
	assert.Equal(t, StatusFailed, all[1].Status)
}

func TestRepository_ListFilters(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	seedDeployments(t, repo)

	t.Run("by platform", func(t *testing.T) {
		got, err := repo.List(context.Background(), Filter{Platform: "netlify"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("by project path", func(t *testing.T) {
		got, err := repo.List(context.Background(), Filter{ProjectPath: "shop"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "vercel", got[0].Platform)
	})

	t.Run("with limit", func(t *testing.T) {
		got, err := repo.List(context.Background(), Filter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "shop", got[0].ProjectName)
	})
}

func TestRepository_LastForProject(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	seedDeployments(t, repo)

	last, err := repo.LastForProject(context.Background(), "/home/dev/blog")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, StatusFailed, last.Status)
}

func TestRepository_LastForProjectNeverDeployed(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	last, err := repo.LastForProject(context.Background(), "/nowhere")
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestRepository_CountByStatus(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	seedDeployments(t, repo)

	succeeded, err := repo.CountByStatus(context.Background(), StatusSucceeded)
	require.NoError(t, err)
	assert.Equal(t, int64(2), succeeded)

	failed, err := repo.CountByStatus(context.Background(), StatusFailed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), failed)
}

func TestRepository_Delete(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	d := &Deployment{ProjectName: "blog", ProjectPath: "/home/dev/blog", Platform: "netlify", Status: StatusSucceeded}
	require.NoError(t, repo.Create(context.Background(), d))

	require.NoError(t, repo.Delete(context.Background(), d.ID))

	_, err := repo.Get(context.Background(), d.ID)
	assert.Error(t, err)
}

func TestRepository_Clear(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	seedDeployments(t, repo)

	removed, err := repo.Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	all, err := repo.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}
