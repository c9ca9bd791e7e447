package lgca

import (
	"errors"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// RunState is a SimRunner's lifecycle state.
type RunState int

const (
	StateIdle RunState = iota
	StateRunning
	StateStopping
	StateTerminated
)

// ErrRunnerClosed is returned by Start once Close has torn the runner
// down permanently.
var ErrRunnerClosed = errors.New("lgca: runner is closed")

func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

const burnInStep = 30000

// SimRunner drives a full simulation in a background goroutine: it owns
// the grid and the Streamer/Collider/Injector/Reducer/Tracer pipeline,
// publishes coarse density and velocity-magnitude snapshots under their
// own mutexes, and exposes cooperative Start/Stop/Close control: Stop is
// a non-blocking request that returns the loop to Idle, Close is a
// blocking teardown that joins the supervisor and is terminal.
//
// Grounded in simrunner.h/.cpp's SimRunner (std::thread + std::atomic_bool
// stop flag + per-field std::mutex) and in Gekko3D's world.go, which
// guards a shared resource with its own mutex behind a background
// goroutine.
type SimRunner struct {
	logger Logger

	mu       sync.Mutex
	state    RunState
	closed   bool
	stopCh   chan struct{}
	stopOnce *sync.Once
	doneCh   chan struct{}
	runID    uuid.UUID
	lastErr  error

	densityMu sync.Mutex
	density   [][]float64

	velMagMu     sync.Mutex
	velMagnitude [][]float64

	stepsMu sync.Mutex
	steps   int64

	diag diagnostics
}

// Stats returns a snapshot of ambient run diagnostics (step count,
// average step duration) — instrumentation, not simulated physics.
func (r *SimRunner) Stats() Stats {
	return r.diag.snapshot()
}

// NewSimRunner returns an idle SimRunner. If logger is nil, a no-op
// Logger is used.
func NewSimRunner(logger Logger) *SimRunner {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &SimRunner{logger: logger, state: StateIdle}
}

// State returns the runner's current lifecycle state.
func (r *SimRunner) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// RunID returns the identifier of the most recently started run, or the
// zero UUID if Start has never been called.
func (r *SimRunner) RunID() uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runID
}

// LastErr returns the error that ended the most recent run, or nil if
// the run completed its full step count, was stopped, or none has run yet.
func (r *SimRunner) LastErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Steps returns the number of simulation steps completed so far by the
// current (or most recent) run.
func (r *SimRunner) Steps() int64 {
	r.stepsMu.Lock()
	defer r.stepsMu.Unlock()
	return r.steps
}

// Density returns a copy of the last published coarse density field.
func (r *SimRunner) Density() [][]float64 {
	r.densityMu.Lock()
	defer r.densityMu.Unlock()
	return cloneField(r.density)
}

// VelocityMagnitude returns a copy of the last published coarse
// velocity-magnitude (streamline) field.
func (r *SimRunner) VelocityMagnitude() [][]float64 {
	r.velMagMu.Lock()
	defer r.velMagMu.Unlock()
	return cloneField(r.velMagnitude)
}

func cloneField(f [][]float64) [][]float64 {
	out := make([][]float64, len(f))
	for i, row := range f {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Start launches scenario on a background goroutine. If the runner is
// already running or stopping, it first requests a stop and joins the
// in-flight run before starting the new one — matching simrunner.cpp's
// start(), which joins any in-flight thread before spawning a new one.
// Start returns ErrRunnerClosed once Close has torn the runner down.
func (r *SimRunner) Start(scenario *Scenario) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRunnerClosed
	}
	if r.state == StateRunning || r.state == StateStopping {
		stopOnce, stopCh, doneCh := r.stopOnce, r.stopCh, r.doneCh
		r.state = StateStopping
		r.mu.Unlock()
		stopOnce.Do(func() { close(stopCh) })
		<-doneCh
		r.mu.Lock()
	}

	grid, injector, err := buildScenario(scenario)
	if err != nil {
		r.mu.Unlock()
		return err
	}

	r.state = StateRunning
	r.runID = uuid.New()
	r.stopCh = make(chan struct{})
	r.stopOnce = &sync.Once{}
	r.doneCh = make(chan struct{})
	r.lastErr = nil
	stopCh, doneCh, runID := r.stopCh, r.doneCh, r.runID
	r.mu.Unlock()

	r.stepsMu.Lock()
	r.steps = 0
	r.stepsMu.Unlock()

	r.logger.Infof("run %s: starting scenario (%dx%d, %d steps)", runID, scenario.Width, scenario.Height, scenario.Steps)

	go func() {
		defer close(doneCh)
		err := r.run(scenario, grid, injector, stopCh)
		r.mu.Lock()
		if !r.closed {
			r.state = StateIdle
		}
		r.lastErr = err
		r.mu.Unlock()
		if err != nil {
			r.logger.Errorf("run %s: stopped with error: %v", runID, err)
		} else {
			r.logger.Infof("run %s: completed", runID)
		}
	}()
	return nil
}

// Stop requests the running simulation halt at the next step boundary
// and returns immediately without waiting for it to exit — the loop
// itself clears the stop flag and transitions back to Idle once it
// observes it. Calling Stop when not running is a no-op. Use Close to
// block until the runner has actually exited.
func (r *SimRunner) Stop() {
	r.mu.Lock()
	if r.state != StateRunning {
		r.mu.Unlock()
		return
	}
	r.state = StateStopping
	stopOnce, stopCh := r.stopOnce, r.stopCh
	r.mu.Unlock()

	stopOnce.Do(func() { close(stopCh) })
}

// Close permanently shuts the runner down: it requests a stop (if a run
// is in flight), joins the supervisor goroutine, and transitions to the
// terminal Terminated state. A closed runner cannot be restarted.
func (r *SimRunner) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	if r.state == StateRunning || r.state == StateStopping {
		stopOnce, stopCh, doneCh := r.stopOnce, r.stopCh, r.doneCh
		r.state = StateStopping
		r.mu.Unlock()
		stopOnce.Do(func() { close(stopCh) })
		<-doneCh
		r.mu.Lock()
	}
	r.closed = true
	r.state = StateTerminated
	r.mu.Unlock()
	return nil
}

func buildScenario(scenario *Scenario) (*Grid, *Injector, error) {
	injector := NewInjector(scenario.Seed)
	grid, err := scenario.Build(injector)
	if err != nil {
		return nil, nil, err
	}
	return grid, injector, nil
}

func (r *SimRunner) run(scenario *Scenario, grid *Grid, injector *Injector, stopCh <-chan struct{}) error {
	streamer := NewStreamer(scenario.Width, scenario.Height)
	collider := NewCollider(scenario.Seed)
	reducer := NewReducer()

	rows := scenario.Height / scenario.ImageSampleSize
	cols := scenario.Width / scenario.ImageSampleSize
	tracer := NewTracer(rows, cols)
	points := Seed(scenario.Width, scenario.Height)

	velField, density, err := reducer.VelocityAndDensityField(grid, scenario.ImageSampleSize, scenario.ImageSampleSize, scenario.Workers)
	if err != nil {
		return err
	}

	for i := 0; i < scenario.Steps; i++ {
		select {
		case <-stopCh:
			return nil
		default:
		}

		stepStart := time.Now()

		if err := streamer.Step(grid, scenario.Workers); err != nil {
			return err
		}
		if err := collider.Step(grid, scenario.Workers); err != nil {
			return err
		}
		if err := scenario.StepForcing(grid, injector); err != nil {
			return err
		}

		period := 200
		if i >= burnInStep {
			period = 100
		}

		if i%period <= 10 {
			if i%100 == 10 {
				vmField := tracer.Trace(velField, scenario.Width, scenario.Height, scenario.ImageSampleSize, points, 500, 1e-6)
				points = Seed(scenario.Width, scenario.Height)

				r.velMagMu.Lock()
				r.velMagnitude = vmField
				r.velMagMu.Unlock()

				r.densityMu.Lock()
				r.density = density
				r.densityMu.Unlock()
			} else {
				vF, dF, err := reducer.VelocityAndDensityField(grid, scenario.ImageSampleSize, scenario.ImageSampleSize, scenario.Workers)
				if err != nil {
					return err
				}
				sampleIdx := i % 10
				density = averageScalarField(density, sampleIdx, dF)
				velField = averageVectorField(velField, sampleIdx, vF)
			}
		}

		r.stepsMu.Lock()
		r.steps = int64(i + 1)
		r.stepsMu.Unlock()
		r.diag.recordStep(time.Since(stepStart))
	}
	return nil
}

// averageScalarField folds sample into prev as the (sampleCount+1)th
// observation of a running mean: m_{k+1} = (m_k*k + x) / (k+1).
// Grounded in simrunner.cpp's SimRunner::average overload for
// vector<vector<double>>.
func averageScalarField(prev [][]float64, sampleCount int, sample [][]float64) [][]float64 {
	out := make([][]float64, len(prev))
	for i := range prev {
		out[i] = make([]float64, len(prev[i]))
		for j := range prev[i] {
			out[i][j] = (prev[i][j]*float64(sampleCount) + sample[i][j]) / float64(sampleCount+1)
		}
	}
	return out
}

// averageVectorField is averageScalarField's mgl64.Vec2 counterpart,
// mirroring simrunner.cpp's pair<double,double> overload.
func averageVectorField(prev [][]mgl64.Vec2, sampleCount int, sample [][]mgl64.Vec2) [][]mgl64.Vec2 {
	out := make([][]mgl64.Vec2, len(prev))
	n := float64(sampleCount)
	for i := range prev {
		out[i] = make([]mgl64.Vec2, len(prev[i]))
		for j := range prev[i] {
			out[i][j] = mgl64.Vec2{
				(prev[i][j].X()*n + sample[i][j].X()) / (n + 1),
				(prev[i][j].Y()*n + sample[i][j].Y()) / (n + 1),
			}
		}
	}
	return out
}
