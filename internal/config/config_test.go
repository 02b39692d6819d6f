package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/csg33k/leadform/internal/adapters/logging"
	"github.com/csg33k/leadform/internal/dialog"
)

func TestParse_Defaults(t *testing.T) {
	req := require.New(t)
	cfg, err := Parse()
	req.NoError(err)
	req.Equal("8080", cfg.Port)
	req.Equal(":8080", cfg.Addr())
	req.Equal(DriverFirebase, cfg.Driver)
	req.Equal("users", cfg.Collection)
	req.Equal("leads.db", cfg.DBPath)
	req.Equal(3, cfg.Countdown)
	req.Equal(500*time.Millisecond, cfg.Stagger)
}

func TestParse_Overrides(t *testing.T) {
	req := require.New(t)
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("STORE_DRIVER", " SQLite ")
	t.Setenv("COLLECTION_PATH", "leads/2026")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("FIREBASE_PROJECT_ID", "demo")
	t.Setenv("COUNTDOWN_SECONDS", "5")
	t.Setenv("OPEN_STAGGER", "1s")
	t.Setenv("OPEN_TARGETS", "https://a.example, ,https://b.example")
	t.Setenv("OPEN_DISPLAY_TEXT", "Opening: A, B")

	cfg, err := Parse()
	req.NoError(err)
	req.Equal("127.0.0.1:9000", cfg.Addr())
	req.Equal(DriverSQLite, cfg.Driver)
	req.Equal("leads/2026", cfg.Collection)
	req.Equal(2, cfg.RedisDB)
	req.Equal("demo", cfg.FirebaseConfig().ProjectID)

	d := cfg.Dialog()
	req.Equal(5, d.Countdown)
	req.Equal(time.Second, d.Stagger)
	req.Equal(dialog.DefaultTick, d.Tick)
	req.Equal([]string{"https://a.example", "https://b.example"}, d.Targets)
	req.Equal("Opening: A, B", d.DisplayText)
}

func TestParse_BadValue(t *testing.T) {
	t.Setenv("COUNTDOWN_SECONDS", "soon")
	_, err := Parse()
	require.Error(t, err)
}

func TestLoad_DotenvFile(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), ".env")
	req.NoError(os.WriteFile(path, []byte("PORT=7070\n"), 0o600))
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	cfg, loaded, err := Load(path)
	req.NoError(err)
	req.True(loaded)
	req.Equal("7070", cfg.Port)
}

func TestLoad_MissingDotenvIsNotAnError(t *testing.T) {
	cfg, loaded, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	require.False(t, loaded)
	require.Equal(t, "8080", cfg.Port)
}

func TestMissing(t *testing.T) {
	req := require.New(t)
	cfg := Config{Driver: DriverFirebase}
	req.Equal([]string{"FIREBASE_DATABASE_URL"}, cfg.Missing())

	cfg.Firebase.APIKey = "k"
	req.Equal([]string{"FIREBASE_DATABASE_URL"}, cfg.Missing())

	cfg.Firebase.APIKey = ""
	cfg.Firebase.DatabaseURL = "https://demo.firebaseio.com"
	req.Empty(cfg.Missing())

	req.Empty(Config{Driver: DriverSQLite}.Missing())
}

func TestLogStatus(t *testing.T) {
	req := require.New(t)
	core, logs := observer.New(zap.DebugLevel)
	cfg := Config{Driver: DriverFirebase, Collection: "users"}
	cfg.Firebase.ProjectID = "demo"

	cfg.LogStatus(logging.Wrap(zap.New(core)))

	status := logs.FilterMessage("store configuration").All()
	req.Len(status, 1)
	fields := status[0].ContextMap()
	req.Equal(false, fields["hasApiKey"])
	req.Equal(false, fields["hasDatabaseURL"])
	req.Equal("demo", fields["projectId"])
	req.Equal(1, logs.FilterLevelExact(zap.WarnLevel).Len())
}
