package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/zapponejosh/zmanim-schedule/internal/astronomy"
	"github.com/zapponejosh/zmanim-schedule/internal/calendar"
	"github.com/zapponejosh/zmanim-schedule/internal/config"
	"github.com/zapponejosh/zmanim-schedule/internal/database"
	"github.com/zapponejosh/zmanim-schedule/internal/liturgy"
	"github.com/zapponejosh/zmanim-schedule/internal/schedule"
	"github.com/zapponejosh/zmanim-schedule/internal/zmanim"
)

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

// fixedLiturgy returns NOACH for every Sabbath.
type fixedLiturgy struct{}

func (fixedLiturgy) ReadingIndex(context.Context, calendar.Day) (liturgy.Parsha, error) {
	return liturgy.NOACH, nil
}

// testEnv wires the handlers to a real calculator and an in-memory cache.
type testEnv struct {
	db       *database.DB
	cfg      *config.Config
	router   http.Handler
	adminKey string
	cleanup  func()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Quiet during tests
	}))
}

func testConfig(t *testing.T, env, adminKey string) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Port:        8080,
		Env:         env,
		AdminAPIKey: adminKey,
		LogLevel:    "error",
		LogFormat:   "text",
		Latitude:    config.DefaultLatitude,
		Longitude:   config.DefaultLongitude,
		TimeZone:    config.DefaultTimeZone,
		Mode:        astronomy.ModeBasic,
		StartDate:   config.DefaultStartDate,
		Months:      config.DefaultMonths,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return cfg
}

// setupTest creates a fresh test environment. withCache opens an in-memory cache.
func setupTest(t *testing.T, withCache bool) *testEnv {
	t.Helper()
	logger := quietLogger()

	adminKey := "admin-test-key-32-characters-minimum-length"
	cfg := testConfig(t, config.EnvProduction, adminKey)

	env := &testEnv{cfg: cfg, adminKey: adminKey, cleanup: func() {}}

	var astro astronomy.Service = astronomy.NewCalculator(cfg.Astronomy())
	var cache CacheStore
	if withCache {
		db, err := database.Open(database.DefaultConfig(":memory:"), logger)
		if err != nil {
			t.Fatalf("open test database: %v", err)
		}
		if _, err := db.Migrate(context.Background()); err != nil {
			t.Fatalf("migrate test database: %v", err)
		}
		env.db = db
		env.cleanup = func() { db.Close() }

		astro = astronomy.NewCached(astronomy.NewCalculator(cfg.Astronomy()), db, logger)
		cache = db
	}

	gen := schedule.NewGenerator(zmanim.NewCalculator(astro, fixedLiturgy{}), logger)
	env.router = SetupRoutes(NewHandlers(gen, astro, cache, cfg, logger), cfg, logger)
	return env
}

func (env *testEnv) do(method, path, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// parseResponse parses the JSON envelope, decoding data into v.
func parseResponse(t *testing.T, rr *httptest.ResponseRecorder, v any) Response {
	t.Helper()
	var raw struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *ErrorInfo      `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if v != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, v); err != nil {
			t.Fatalf("decode data: %v (%s)", err, raw.Data)
		}
	}
	return Response{Success: raw.Success, Error: raw.Error}
}

// =============================================================================
// PUBLIC ROUTES
// =============================================================================

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name      string
		withCache bool
		wantCache string
	}{
		{"cache disabled", false, "disabled"},
		{"cache enabled", true, "enabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTest(t, tt.withCache)
			defer env.cleanup()

			rr := env.do(http.MethodGet, "/health", "")
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}

			var data map[string]string
			parseResponse(t, rr, &data)
			if data["status"] != "healthy" || data["cache"] != tt.wantCache {
				t.Errorf("health = %v", data)
			}
		})
	}
}

func TestGetSchedule(t *testing.T) {
	env := setupTest(t, false)
	defer env.cleanup()

	rr := env.do(http.MethodGet, "/api/v1/schedule?start=2022-10-19&end=2022-11-05", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var data ScheduleResponse
	resp := parseResponse(t, rr, &data)
	if !resp.Success {
		t.Fatal("success = false")
	}

	wantWeeks := []string{"Oct 19 - Oct 22", "Oct 23 - Oct 29", "Oct 30 - Nov 5"}
	if len(data.Lines) != len(wantWeeks) {
		t.Fatalf("got %d lines, want %d", len(data.Lines), len(wantWeeks))
	}
	for i, line := range data.Lines {
		if line.WeekLabel != wantWeeks[i] {
			t.Errorf("line %d week = %q, want %q", i, line.WeekLabel, wantWeeks[i])
		}
		if line.ReadingLabel != "NOACH" {
			t.Errorf("line %d parsha = %q", i, line.ReadingLabel)
		}
		if !strings.HasSuffix(line.Vasikin, "am") {
			t.Errorf("line %d vasikin = %q", i, line.Vasikin)
		}
	}
	if data.Start.String() != "2022-10-19" || data.End.String() != "2022-11-05" {
		t.Errorf("range = %s..%s", data.Start, data.End)
	}
}

func TestGetSchedule_Aligned(t *testing.T) {
	env := setupTest(t, false)
	defer env.cleanup()

	rr := env.do(http.MethodGet, "/api/v1/schedule?start=2022-10-19&end=2022-10-29&align=true", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var data ScheduleResponse
	parseResponse(t, rr, &data)
	if data.Start.String() != "2022-10-16" {
		t.Errorf("start = %s, want 2022-10-16", data.Start)
	}
	if len(data.Lines) != 2 || data.Lines[0].WeekLabel != "Oct 16 - Oct 22" {
		t.Errorf("lines = %+v", data.Lines)
	}
}

func TestGetSchedule_DefaultWindow(t *testing.T) {
	env := setupTest(t, false)
	defer env.cleanup()

	rr := env.do(http.MethodGet, "/api/v1/schedule", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var data ScheduleResponse
	parseResponse(t, rr, &data)
	if len(data.Lines) != 26 {
		t.Errorf("got %d lines for the default window, want 26", len(data.Lines))
	}
}

func TestGetSchedule_EndBeforeStart(t *testing.T) {
	env := setupTest(t, false)
	defer env.cleanup()

	rr := env.do(http.MethodGet, "/api/v1/schedule?start=2022-11-05&end=2022-10-19", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var data ScheduleResponse
	parseResponse(t, rr, &data)
	if data.Lines == nil || len(data.Lines) != 0 {
		t.Errorf("lines = %v, want empty list", data.Lines)
	}
}

func TestGetSchedule_BadRequests(t *testing.T) {
	env := setupTest(t, false)
	defer env.cleanup()

	paths := []string{
		"/api/v1/schedule?start=10-19-2022",
		"/api/v1/schedule?end=tomorrow",
		"/api/v1/schedule?start=2022-01-01&end=2025-01-01",
		"/api/v1/schedule?align=maybe",
	}
	for _, path := range paths {
		rr := env.do(http.MethodGet, path, "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", path, rr.Code)
		}
	}
}

func TestGetScheduleText(t *testing.T) {
	env := setupTest(t, false)
	defer env.cleanup()

	rr := env.do(http.MethodGet, "/api/v1/schedule.txt?start=2022-10-23&end=2022-11-05", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}

	lines := strings.Split(strings.TrimSuffix(rr.Body.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d output lines, want 4:\n%s", len(lines), rr.Body.String())
	}
	if !strings.HasPrefix(lines[0], "NOACH - Oct 23 - Oct 29 v: ") {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[1] != zmanim.Separator || lines[3] != zmanim.Separator {
		t.Error("separator lines missing")
	}
}

func TestGetZmanim(t *testing.T) {
	env := setupTest(t, false)
	defer env.cleanup()

	rr := env.do(http.MethodGet, "/api/v1/zmanim/2022-10-19", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var snap astronomy.Snapshot
	parseResponse(t, rr, &snap)
	if snap.Day.String() != "2022-10-19" {
		t.Errorf("date = %s", snap.Day)
	}
	sunrise := snap.Sunrise.In(env.cfg.Location)
	if sunrise.Hour() != 7 {
		t.Errorf("sunrise = %s, want 7am hour", sunrise.Format(time.Kitchen))
	}
	if snap.SolarNoon != nil {
		t.Error("solar noon present in basic mode")
	}
}

func TestGetZmanim_InvalidDate(t *testing.T) {
	env := setupTest(t, false)
	defer env.cleanup()

	rr := env.do(http.MethodGet, "/api/v1/zmanim/2022-13-45", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	env := setupTest(t, false)
	defer env.cleanup()

	rr := env.do(http.MethodGet, "/health", "")
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Error("response has no request ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if got := rr.Header().Get(RequestIDHeader); got != "caller-id" {
		t.Errorf("request ID = %q, want caller-id", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := setupTest(t, false)
	defer env.cleanup()

	rr := env.do(http.MethodOptions, "/api/v1/schedule", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(quietLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}

// =============================================================================
// ADMIN ROUTES
// =============================================================================

func TestAdminOnlyMiddleware(t *testing.T) {
	env := setupTest(t, true)
	defer env.cleanup()

	tests := []struct {
		name   string
		key    string
		status int
		code   string
	}{
		{"missing key", "", http.StatusUnauthorized, CodeUnauthorized},
		{"wrong key", "not-the-admin-key", http.StatusForbidden, CodeForbidden},
		{"admin key", env.adminKey, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(http.MethodGet, "/api/v1/admin/cache", tt.key)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			if tt.code == "" {
				return
			}
			resp := parseResponse(t, rr, nil)
			if resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.code)
			}
		})
	}
}

func TestAdminOnlyMiddleware_OpenInDevelopment(t *testing.T) {
	cfg := testConfig(t, config.EnvDevelopment, "")
	h := AdminOnlyMiddleware(cfg, quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/admin/cache", nil))
	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d, want passthrough", rr.Code)
	}
}

func TestCacheStatsAndPurge(t *testing.T) {
	env := setupTest(t, true)
	defer env.cleanup()

	// Fill the cache with one week of snapshots.
	rr := env.do(http.MethodGet, "/api/v1/schedule?start=2022-10-23&end=2022-10-29", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("schedule status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = env.do(http.MethodGet, "/api/v1/admin/cache", env.adminKey)
	var stats database.CacheStats
	parseResponse(t, rr, &stats)
	if stats.Snapshots != 3 {
		t.Errorf("snapshots = %d, want 3 (Wednesday, Friday, Saturday)", stats.Snapshots)
	}
	if stats.EarliestDate != "2022-10-26" || stats.LatestDate != "2022-10-29" {
		t.Errorf("span = %s..%s", stats.EarliestDate, stats.LatestDate)
	}

	rr = env.do(http.MethodDelete, "/api/v1/admin/cache?before=2022-10-29", env.adminKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("purge status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var purged struct {
		Removed int64 `json:"snapshots_removed"`
	}
	parseResponse(t, rr, &purged)
	if purged.Removed != 2 {
		t.Errorf("removed = %d, want 2", purged.Removed)
	}

	rr = env.do(http.MethodDelete, "/api/v1/admin/cache", env.adminKey)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("purge without before status = %d, want 400", rr.Code)
	}
}

func TestCacheRoutes_Disabled(t *testing.T) {
	env := setupTest(t, false)
	defer env.cleanup()

	rr := env.do(http.MethodGet, "/api/v1/admin/cache", env.adminKey)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	resp := parseResponse(t, rr, nil)
	if resp.Error == nil || resp.Error.Code != CodeCacheDisabled {
		t.Errorf("error = %+v", resp.Error)
	}
}
