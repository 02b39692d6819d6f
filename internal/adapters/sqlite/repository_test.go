package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/csg33k/leadform/internal/domain"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func lead(name string) domain.Lead {
	return domain.Lead{
		Name: name, RollNumber: "21CS001", Branch: "CS",
		Institution: "MIT", Email: "a@b.co", Mobile: "1234567890",
	}
}

func TestRepository_SetAndList(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	for i, name := range []string{"Al", "Bo", "Cy"} {
		key, err := repo.NewKey(ctx, "users")
		require.NoError(t, err)
		rec := domain.NewRecord(lead(name), base.Add(time.Duration(i)*time.Second))
		require.NoError(t, repo.Set(ctx, "users", key, rec))
	}
	other, _ := repo.NewKey(ctx, "staff")
	require.NoError(t, repo.Set(ctx, "staff", other, domain.NewRecord(lead("Zed"), base)))

	list, err := repo.List(ctx, "users")
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "Al", list[0].Name)
	require.Equal(t, "Cy", list[2].Name)
	require.Equal(t, base.UnixMilli(), list[0].SubmittedAtEpochMillis)
	require.Equal(t, "2023-11-14T22:13:20.000Z", list[0].SubmittedAtISO)
	require.NotEmpty(t, list[0].Key)
}

func TestRepository_KeysAreUnique(t *testing.T) {
	repo := openTestRepo(t)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		k, err := repo.NewKey(context.Background(), "users")
		require.NoError(t, err)
		require.False(t, seen[k])
		seen[k] = true
	}
}

func TestRepository_DuplicateKeyRejected(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	rec := domain.NewRecord(lead("Al"), time.Now())
	require.NoError(t, repo.Set(ctx, "users", "fixed", rec))
	require.Error(t, repo.Set(ctx, "users", "fixed", rec))

	list, err := repo.List(ctx, "users")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRepository_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.db")
	repo, err := New(path)
	require.NoError(t, err)
	require.NoError(t, repo.Set(context.Background(), "users", "k", domain.NewRecord(lead("Al"), time.Now())))
	require.NoError(t, repo.Close())

	repo, err = New(path)
	require.NoError(t, err)
	defer repo.Close()
	list, err := repo.List(context.Background(), "users")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestUpSection(t *testing.T) {
	src := "-- migrate:up\nCREATE TABLE a (x);\n-- migrate:down\nDROP TABLE a;\n"
	require.Equal(t, "\nCREATE TABLE a (x);\n", upSection(src))
	require.Equal(t, "SELECT 1;", upSection("SELECT 1;"))
}
