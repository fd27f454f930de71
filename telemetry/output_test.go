package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/boids/config"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	require.NoError(t, err)
	assert.Nil(t, om)

	// Every method is safe on a nil manager.
	assert.NoError(t, om.WriteTelemetry(WindowStats{}))
	assert.NoError(t, om.WritePerf(PerfStats{}, 0))
	assert.NoError(t, om.WriteBookmark(Bookmark{}))
	assert.NoError(t, om.WriteConfig(nil))
	assert.Empty(t, om.Dir())
	assert.NoError(t, om.Close())
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	require.NoError(t, err)

	require.NoError(t, om.WriteTelemetry(WindowStats{WindowEndTick: 600, Agents: 10, Polarization: 0.5}))
	require.NoError(t, om.WriteTelemetry(WindowStats{WindowEndTick: 1200, Agents: 10, Dropped: 3}))
	require.NoError(t, om.WritePerf(PerfStats{TicksPerSecond: 120}, 600))
	require.NoError(t, om.WriteBookmark(Bookmark{Type: BookmarkFlockFormed, Tick: 600, Description: "formed"}))
	require.NoError(t, om.WriteConfig(config.Default()))
	require.NoError(t, om.Close())

	telemetry := readLines(t, filepath.Join(dir, "telemetry.csv"))
	require.Len(t, telemetry, 3, "one header and two rows")
	assert.True(t, strings.HasPrefix(telemetry[0], "window_end,agents,refused,dropped"), telemetry[0])
	assert.NotContains(t, telemetry[0], "WindowStartTick", "csv:\"-\" fields are skipped")
	assert.True(t, strings.HasPrefix(telemetry[2], "1200,10,0,3"), telemetry[2])

	perf := readLines(t, filepath.Join(dir, "perf.csv"))
	require.Len(t, perf, 2)
	assert.Contains(t, perf[0], "separation_pct")

	bookmarks := readLines(t, filepath.Join(dir, "bookmarks.csv"))
	require.Len(t, bookmarks, 2)
	assert.Equal(t, "type,tick,description", bookmarks[0])
	assert.Equal(t, "flock_formed,600,formed", bookmarks[1])

	loaded, err := config.Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default().Flock, loaded.Flock)
}
