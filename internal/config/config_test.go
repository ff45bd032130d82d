package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainbong/restaurant_finder/internal/filesystem"
	"github.com/mainbong/restaurant_finder/internal/geo"
	"github.com/mainbong/restaurant_finder/internal/places"
)

func clearKeyEnv(t *testing.T) {
	t.Setenv(PlacesKeyEnv, "")
	t.Setenv(TileKeyEnv, "")
}

func TestLoad_DefaultConfig(t *testing.T) {
	clearKeyEnv(t)
	mockFS := filesystem.NewMockFileSystem()
	testDir := "/test/config"
	testFile := filepath.Join(testDir, "config.json")

	cfg, err := LoadWithFS(mockFS, testDir, testFile)
	require.NoError(t, err)

	assert.Equal(t, geo.DefaultCenter, cfg.Center)
	assert.Equal(t, places.DefaultLimit, cfg.Search.Limit)
	assert.Equal(t, places.DefaultEndpoint, cfg.Places.Endpoint)
	assert.Equal(t, filepath.Join(testDir, "logs"), cfg.LogDir)
	assert.True(t, mockFS.HasDir(cfg.LogDir), "log directory should be created")

	require.NotEmpty(t, mockFS.GetFile(testFile), "default config should be saved")
	assert.Equal(t, os.FileMode(0600), mockFS.FilePerm(testFile))
}

func TestLoad_DefaultConfig_UsesEnvKeys(t *testing.T) {
	t.Setenv(PlacesKeyEnv, "env-places-key")
	t.Setenv(TileKeyEnv, "env-tile-key")

	mockFS := filesystem.NewMockFileSystem()
	testDir := "/test/config"
	testFile := filepath.Join(testDir, "config.json")

	cfg, err := LoadWithFS(mockFS, testDir, testFile)
	require.NoError(t, err)
	assert.Equal(t, "env-places-key", cfg.Places.APIKey)
	assert.Equal(t, "env-tile-key", cfg.Map.TileKey)

	var saved Config
	require.NoError(t, json.Unmarshal(mockFS.GetFile(testFile), &saved))
	assert.Equal(t, "env-places-key", saved.Places.APIKey)
}

func TestLoad_FileKeyWinsOverEnv(t *testing.T) {
	t.Setenv(PlacesKeyEnv, "env-places-key")
	t.Setenv(TileKeyEnv, "")

	mockFS := filesystem.NewMockFileSystem()
	testDir := "/test/config"
	testFile := filepath.Join(testDir, "config.json")
	mockFS.AddFile(testFile, []byte(`{"places": {"api_key": "file-key"}}`), 0600)

	cfg, err := LoadWithFS(mockFS, testDir, testFile)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.Places.APIKey)
}

func TestLoad_ExistingConfig(t *testing.T) {
	clearKeyEnv(t)
	mockFS := filesystem.NewMockFileSystem()
	testDir := "/test/config"
	testFile := filepath.Join(testDir, "config.json")

	existing := Default(testDir)
	existing.Places.APIKey = "fsq-key"
	existing.Center = geo.Point{Lat: 37.5665, Lon: 126.978}
	existing.Search.Query = "ramen"
	existing.Search.Radius = 1500
	existing.Search.Sort = "rating"
	existing.LogDir = "/custom/logs"
	existing.LogLevel = "debug"

	data, err := json.MarshalIndent(existing, "", "  ")
	require.NoError(t, err)
	mockFS.AddFile(testFile, data, 0600)

	cfg, err := LoadWithFS(mockFS, testDir, testFile)
	require.NoError(t, err)

	assert.Equal(t, "fsq-key", cfg.Places.APIKey)
	assert.Equal(t, 37.5665, cfg.Center.Lat)
	assert.Equal(t, "ramen", cfg.Search.Query)
	assert.Equal(t, 1500, cfg.Search.Radius)
	assert.Equal(t, places.SortRating, cfg.SortKey())
	assert.Equal(t, "/custom/logs", cfg.LogDir)
	assert.Zero(t, mockFS.WriteCount(), "a complete config must not be rewritten")
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearKeyEnv(t)
	mockFS := filesystem.NewMockFileSystem()
	testDir := "/test/config"
	testFile := filepath.Join(testDir, "config.json")
	mockFS.AddFile(testFile, []byte(`{"search": {"query": "sushi"}, "log_dir": ""}`), 0600)

	cfg, err := LoadWithFS(mockFS, testDir, testFile)
	require.NoError(t, err)
	assert.Equal(t, "sushi", cfg.Search.Query)
	assert.Equal(t, places.DefaultLimit, cfg.Search.Limit)
	assert.Equal(t, filepath.Join(testDir, "logs"), cfg.LogDir, "empty log_dir falls back")
}

func TestLoad_IgnoresRateLimitSection(t *testing.T) {
	clearKeyEnv(t)
	mockFS := filesystem.NewMockFileSystem()
	testDir := "/test/config"
	testFile := filepath.Join(testDir, "config.json")
	mockFS.AddFile(testFile, []byte(`{"rate_limit": {"max_calls": 1000}, "scroll_cooldown_ms": 10}`), 0600)

	cfg, err := LoadWithFS(mockFS, testDir, testFile)
	require.NoError(t, err)
	assert.Equal(t, "restaurant", cfg.Search.Query)
}

func TestLoad_YAMLAndTOML(t *testing.T) {
	clearKeyEnv(t)
	testDir := "/test/config"

	cases := map[string]string{
		"config.yaml": "search:\n  query: yakitori\n  radius: 900\ncenter:\n  lat: 34.6937\n  lon: 135.5023\n",
		"config.toml": "[search]\nquery = \"yakitori\"\nradius = 900\n\n[center]\nlat = 34.6937\nlon = 135.5023\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			mockFS := filesystem.NewMockFileSystem()
			testFile := filepath.Join(testDir, name)
			mockFS.AddFile(testFile, []byte(content), 0600)

			assert.Equal(t, testFile, ResolveFile(mockFS, testDir))

			cfg, err := LoadWithFS(mockFS, testDir, testFile)
			require.NoError(t, err)
			assert.Equal(t, "yakitori", cfg.Search.Query)
			assert.Equal(t, 900, cfg.Search.Radius)
			assert.Equal(t, geo.Point{Lat: 34.6937, Lon: 135.5023}, cfg.Center)
			assert.Equal(t, places.DefaultLimit, cfg.Search.Limit)
		})
	}
}

func TestResolveFile_DefaultsToJSON(t *testing.T) {
	mockFS := filesystem.NewMockFileSystem()
	assert.Equal(t, filepath.Join("/x", "config.json"), ResolveFile(mockFS, "/x"))
}

func TestLoad_InvalidJSON(t *testing.T) {
	mockFS := filesystem.NewMockFileSystem()
	testDir := "/test/config"
	testFile := filepath.Join(testDir, "config.json")
	mockFS.AddFile(testFile, []byte("{ invalid json }"), 0600)

	_, err := LoadWithFS(mockFS, testDir, testFile)
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearKeyEnv(t)
	testDir := "/test/config"
	testFile := filepath.Join(testDir, "config.json")

	for _, content := range []string{
		`{"search": {"limit": 0}}`,
		`{"search": {"limit": 51}}`,
		`{"search": {"radius": -1}}`,
		`{"search": {"sort": "cheapest"}}`,
		`{"center": {"lat": 91, "lon": 0}}`,
	} {
		mockFS := filesystem.NewMockFileSystem()
		mockFS.AddFile(testFile, []byte(content), 0600)
		_, err := LoadWithFS(mockFS, testDir, testFile)
		assert.Error(t, err, "expected validation error for %s", content)
	}
}

func TestLoad_ReadError(t *testing.T) {
	mockFS := filesystem.NewMockFileSystem()
	testDir := "/test/config"
	testFile := filepath.Join(testDir, "config.json")

	mockFS.AddFile(testFile, []byte("{}"), 0600)
	mockFS.SetReadError(testFile, os.ErrPermission)

	_, err := LoadWithFS(mockFS, testDir, testFile)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestLoad_MkdirError(t *testing.T) {
	mockFS := filesystem.NewMockFileSystem()
	testDir := "/test/config"
	mockFS.SetMkdirError(testDir, os.ErrPermission)

	_, err := LoadWithFS(mockFS, testDir, filepath.Join(testDir, "config.json"))
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestSave_Formats(t *testing.T) {
	mockFS := filesystem.NewMockFileSystem()
	cfg := Default("/test")
	cfg.Search.Query = "udon"

	for _, file := range []string{"/test/config.json", "/test/config.yaml", "/test/config.toml"} {
		require.NoError(t, cfg.SaveWithFS(mockFS, file), file)

		loaded := &Config{}
		require.NoError(t, Unmarshal(file, mockFS.GetFile(file), loaded), file)
		assert.Equal(t, "udon", loaded.Search.Query, file)
		assert.Equal(t, cfg.Center, loaded.Center, file)
	}
}

func TestSave_WriteError(t *testing.T) {
	mockFS := filesystem.NewMockFileSystem()
	testFile := "/test/config.json"
	mockFS.SetWriteError(testFile, os.ErrPermission)

	cfg := &Config{}
	assert.Error(t, cfg.SaveWithFS(mockFS, testFile))
}

func TestSet_ConfigValues(t *testing.T) {
	cfg := Default("/test")

	sets := [][2]string{
		{"places.api_key", "abc"},
		{"map.tile_key", "tiles"},
		{"center", "35.0116, 135.7681"},
		{"search.query", "kaiseki"},
		{"search.limit", "25"},
		{"search.radius", "2000"},
		{"search.sort", "Distance"},
		{"log_level", "DEBUG"},
	}
	for _, kv := range sets {
		require.NoError(t, cfg.Set(kv[0], kv[1]), kv[0])
	}

	assert.Equal(t, "abc", cfg.Places.APIKey)
	assert.Equal(t, "tiles", cfg.Map.TileKey)
	assert.Equal(t, geo.Point{Lat: 35.0116, Lon: 135.7681}, cfg.Center)
	assert.Equal(t, 25, cfg.Search.Limit)
	assert.Equal(t, 2000, cfg.Search.Radius)
	assert.Equal(t, "distance", cfg.Search.Sort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestSet_InvalidKey(t *testing.T) {
	cfg := &Config{}
	for _, key := range []string{"unknown.key", "rate_limit.max_calls", "scroll_cooldown_ms"} {
		assert.Error(t, cfg.Set(key, "10"), key)
	}
}

func TestSet_InvalidValue(t *testing.T) {
	cfg := Default("/test")
	invalid := [][2]string{
		{"center", "35.0"},
		{"center", "100,0"},
		{"search.limit", "0"},
		{"search.limit", "many"},
		{"search.radius", "-10"},
		{"search.sort", "cheapest"},
		{"places.endpoint", "ftp://example.com"},
		{"log_level", "verbose"},
	}
	for _, kv := range invalid {
		assert.Error(t, cfg.Set(kv[0], kv[1]), "%s=%s", kv[0], kv[1])
	}
	assert.Equal(t, geo.DefaultCenter, cfg.Center, "rejected values must not change the config")
}

func TestRedacted(t *testing.T) {
	cfg := Default("/test")
	cfg.Places.APIKey = "fsq3abcdefghijkl"
	cfg.Map.TileKey = "abc"

	red := cfg.Redacted()
	assert.NotContains(t, red.Places.APIKey, "efgh")
	assert.True(t, len(red.Places.APIKey) > 4 && red.Places.APIKey[:4] == "fsq3", "key prefix should remain")
	assert.Equal(t, "****", red.Map.TileKey)
	assert.Equal(t, "fsq3abcdefghijkl", cfg.Places.APIKey, "Redacted must not modify the receiver")
}

func TestGetConfigDir(t *testing.T) {
	dir := GetConfigDir()
	require.NotEmpty(t, dir)
	assert.Equal(t, ".restaurant-finder", filepath.Base(dir))
}
