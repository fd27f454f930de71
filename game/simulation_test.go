package game

import (
	"context"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/boids/components"
	"github.com/pthm-cable/boids/config"
	"github.com/pthm-cable/boids/systems"
	"github.com/pthm-cable/boids/telemetry"
	"github.com/pthm-cable/boids/vecmath"
)

// fixedSpawner replays a list of agents, then repeats the last one.
type fixedSpawner struct {
	pos, vel []vecmath.Vec2
	i        int
}

func (f *fixedSpawner) Next() (vecmath.Vec2, vecmath.Vec2, color.RGBA) {
	i := min(f.i, len(f.pos)-1)
	f.i++
	return f.pos[i], f.vel[i], color.RGBA{255, 255, 255, 255}
}

func testOptions(capacity int) Options {
	return Options{
		Width:        400,
		Height:       400,
		CellSize:     20,
		CellCapacity: 64,
		Capacity:     capacity,
		Params:       components.DefaultParams(),
		Workers:      1,
		StatsWindow:  10,
		PerfWindow:   10,
	}
}

func newTestSim(t testing.TB, opts Options) *Simulation {
	t.Helper()
	s := New(opts)
	t.Cleanup(s.Close)
	return s
}

func TestSimulationTwoAgents(t *testing.T) {
	s := newTestSim(t, testOptions(2))
	n, err := s.Spawn(&fixedSpawner{
		pos: []vecmath.Vec2{{X: 100, Y: 100}, {X: 105, Y: 100}},
		vel: []vecmath.Vec2{{X: 1, Y: 0}, {X: -1, Y: 0}},
	}, 2)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	s.Step()
	assert.Less(t, s.Store.Acc[0].X, float32(0), "left agent pushed left")
	assert.Greater(t, s.Store.Acc[1].X, float32(0), "right agent pushed right")
	assert.Equal(t, int32(1), s.Tick())

	sep := s.Params.SeparationRadius
	for i := 0; i < 20 && vecmath.Dist(s.Store.Pos[0], s.Store.Pos[1]) <= sep; i++ {
		s.Step()
	}
	assert.Greater(t, vecmath.Dist(s.Store.Pos[0], s.Store.Pos[1]), sep)
}

func TestSimulationCapacity(t *testing.T) {
	s := newTestSim(t, testOptions(3))
	sp := systems.NewRandomSpawner(1, s.Bounds(), 20, nil)

	n, err := s.Spawn(sp, 4)
	assert.ErrorIs(t, err, components.ErrStoreFull)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, s.Store.ActiveCount())

	// The refusal shows up in the next telemetry window.
	for i := 0; i < 10; i++ {
		s.Step()
	}
	assert.Equal(t, 1, s.LastStats().Refused)
	assert.Equal(t, 3, s.LastStats().Agents)
}

func TestSimulationParallelMatchesSerial(t *testing.T) {
	for _, fused := range []bool{false, true} {
		name := "separate"
		if fused {
			name = "fused"
		}
		t.Run(name, func(t *testing.T) {
			serialOpts := testOptions(500)
			serialOpts.Fused = fused
			parallelOpts := serialOpts
			parallelOpts.Workers = 4
			parallelOpts.ParallelThreshold = 16

			serial := newTestSim(t, serialOpts)
			parallel := newTestSim(t, parallelOpts)
			_, err := serial.Spawn(systems.NewRandomSpawner(7, serial.Bounds(), 20, nil), 500)
			require.NoError(t, err)
			_, err = parallel.Spawn(systems.NewRandomSpawner(7, parallel.Bounds(), 20, nil), 500)
			require.NoError(t, err)

			for i := 0; i < 30; i++ {
				serial.Step()
				parallel.Step()
			}
			assert.Equal(t, serial.Store.Pos, parallel.Store.Pos)
			assert.Equal(t, serial.Store.Vel, parallel.Store.Vel)
		})
	}
}

func TestSimulationSpeedInvariant(t *testing.T) {
	s := newTestSim(t, testOptions(300))
	_, err := s.Spawn(systems.NewRandomSpawner(3, s.Bounds(), 20, nil), 300)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		s.Step()
		for id := 0; id < s.Store.Len(); id++ {
			require.LessOrEqual(t, s.Store.Vel[id].Len(), s.Params.MaxSpeed*(1+1e-5))
			p := s.Store.Pos[id]
			require.True(t, p.X >= 0 && p.X <= 400 && p.Y >= 0 && p.Y <= 400, "agent %d at %v", id, p)
		}
	}
}

func TestSimulationParamsReadPerFrame(t *testing.T) {
	s := newTestSim(t, testOptions(2))
	_, err := s.Spawn(&fixedSpawner{
		pos: []vecmath.Vec2{{X: 100, Y: 100}, {X: 105, Y: 100}},
		vel: []vecmath.Vec2{{X: 0, Y: 0}, {X: 0, Y: 0}},
	}, 2)
	require.NoError(t, err)

	s.Params.SeparationWeight = -3
	s.Params.AlignmentWeight = 0
	s.Params.CohesionWeight = 0
	s.Step()
	assert.Greater(t, s.Store.Acc[0].X, float32(0), "negative separation attracts")
}

func TestSimulationDespawnAndCompact(t *testing.T) {
	s := newTestSim(t, testOptions(3))
	_, err := s.Spawn(&fixedSpawner{
		pos: []vecmath.Vec2{{X: 10, Y: 10}, {X: 200, Y: 200}, {X: 390, Y: 390}},
		vel: []vecmath.Vec2{{}, {}, {}},
	}, 3)
	require.NoError(t, err)

	assert.True(t, s.Despawn(1))
	s.Step()
	assert.Equal(t, 2, s.Snapshot(nil).Len())

	remap := s.Compact()
	assert.Equal(t, []int{0, -1, 1}, remap)
	assert.Equal(t, 2, s.Store.Len())
	s.Step()
	assert.Equal(t, vecmath.Vec2{X: 390, Y: 390}, s.Store.Pos[1])
}

func TestSnapshot(t *testing.T) {
	s := newTestSim(t, testOptions(4))
	_, err := s.Spawn(systems.NewRandomSpawner(5, s.Bounds(), 20, nil), 4)
	require.NoError(t, err)
	s.Despawn(2)
	s.Step()

	snap := s.Snapshot(nil)
	assert.Equal(t, int32(1), snap.Tick)
	assert.Equal(t, []int32{0, 1, 3}, snap.Ids)
	for i, id := range snap.Ids {
		assert.Equal(t, s.Store.Pos[id], snap.Pos[i])
		assert.Equal(t, s.Store.Vel[id], snap.Vel[i])
		assert.Equal(t, s.Store.Color[id], snap.Color[i])
	}

	// The snapshot does not alias the store and reuses its buffers.
	before := snap.Pos[0]
	s.Step()
	assert.Equal(t, before, snap.Pos[0])
	again := s.Snapshot(snap)
	assert.Same(t, snap, again)
	assert.Equal(t, int32(2), again.Tick)
}

func TestSimulationRun(t *testing.T) {
	t.Run("max ticks", func(t *testing.T) {
		s := newTestSim(t, testOptions(10))
		_, err := s.Spawn(systems.NewRandomSpawner(1, s.Bounds(), 20, nil), 10)
		require.NoError(t, err)
		require.NoError(t, s.Run(context.Background(), 25))
		assert.Equal(t, int32(25), s.Tick())
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		opts := testOptions(10)
		opts.StatsCallback = func(telemetry.WindowStats) { cancel() }
		s := newTestSim(t, opts)

		err := s.Run(ctx, 0)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int32(10), s.Tick(), "stops after the frame that cancelled")
	})
}

func TestSimulationStatsCallback(t *testing.T) {
	var windows []telemetry.WindowStats
	opts := testOptions(50)
	opts.StatsCallback = func(ws telemetry.WindowStats) { windows = append(windows, ws) }
	s := newTestSim(t, opts)
	_, err := s.Spawn(systems.NewRandomSpawner(2, s.Bounds(), 20, nil), 50)
	require.NoError(t, err)

	require.NoError(t, s.Run(context.Background(), 30))
	require.Len(t, windows, 3)
	for i, ws := range windows {
		assert.Equal(t, int32(10*(i+1)), ws.WindowEndTick)
		assert.Equal(t, 50, ws.Agents)
		assert.GreaterOrEqual(t, ws.Polarization, 0.0)
		assert.LessOrEqual(t, ws.Polarization, 1.0)
	}
}

func TestSimulationGridOverflowCounted(t *testing.T) {
	opts := testOptions(20)
	opts.CellCapacity = 4
	var last telemetry.WindowStats
	opts.StatsCallback = func(ws telemetry.WindowStats) { last = ws }
	s := newTestSim(t, opts)

	pos := make([]vecmath.Vec2, 20)
	vel := make([]vecmath.Vec2, 20)
	for i := range pos {
		pos[i] = vecmath.Vec2{X: 200 + float32(i%5)*0.5, Y: 200 + float32(i/5)*0.5}
	}
	_, err := s.Spawn(&fixedSpawner{pos: pos, vel: vel}, 20)
	require.NoError(t, err)

	require.NoError(t, s.Run(context.Background(), 1))
	assert.Equal(t, 16, s.Grid.Dropped())
	require.NoError(t, s.Run(context.Background(), 10))
	assert.Positive(t, last.Dropped)
	assert.Positive(t, last.MaxDropped)
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, config.Merge(cfg, []byte(`
world:
  width: 400
  height: 300
population:
  capacity: 100
  initial: 120
spawn:
  mode: noise
`)))

	s, err := NewFromConfig(cfg, 42)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	assert.Equal(t, 100, s.Store.ActiveCount(), "initial population is capped at capacity")
	assert.Equal(t, systems.Bounds{Width: 400, Height: 300}, s.Bounds())
	assert.Equal(t, cfg.Derived.GridCols, s.Grid.Cols())
	assert.Equal(t, cfg.FlockParams(), s.Params)
}

func TestNewSpawnerUnknownMode(t *testing.T) {
	cfg := config.Default()
	cfg.Spawn.Mode = "spiral"
	_, err := NewSpawner(cfg, 1)
	assert.Error(t, err)
}

func BenchmarkStep(b *testing.B) {
	for _, fused := range []bool{false, true} {
		name := "separate"
		if fused {
			name = "fused"
		}
		b.Run(name, func(b *testing.B) {
			opts := testOptions(8000)
			opts.Width, opts.Height = 2560, 1440
			opts.CellSize = 50
			opts.CellCapacity = 100
			opts.Workers = 0
			opts.Fused = fused
			opts.StatsWindow = 600
			s := newTestSim(b, opts)
			rng := rand.New(rand.NewSource(1))
			_, err := s.Spawn(systems.NewRandomSpawner(rng.Int63(), s.Bounds(), 20, nil), 8000)
			require.NoError(b, err)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.Step()
			}
		})
	}
}
