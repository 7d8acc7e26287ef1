package services

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"riverbird-standalone/internal/config"
	"riverbird-standalone/internal/logger"
	"riverbird-standalone/internal/models"
	"riverbird-standalone/internal/roles"
)

// RoleFactory builds the roles.Service for one role. Swappable so tests can
// supply stubs.
type RoleFactory func(role models.RoleKind, cfg *config.RoleConfig) roles.Service

// defaultRoleFactory picks the spawned adapter when the role config names a
// binary, the embedded dev role otherwise.
func defaultRoleFactory(role models.RoleKind, cfg *config.RoleConfig) roles.Service {
	if cfg.Command != "" {
		return newProcessRole(role, cfg)
	}
	switch role {
	case models.RoleMeta:
		return roles.NewMetaRole(cfg)
	case models.RoleCompute:
		return roles.NewComputeRole(cfg)
	default:
		return roles.NewFrontendRole(cfg)
	}
}

type unitExit struct {
	role models.RoleKind
	out  models.ExitOutcome
}

/**
 * Orchestrator boots the three roles of a standalone deployment in
 * dependency order, supervises them, and tears them down coherently. It is
 * the single owner of every service unit and of the decision to begin
 * shutdown; termination signals and admin API shutdown requests are both
 * delivered to its control loop as messages.
 *
 * State machine: initializing → starting-meta → waiting-meta-ready →
 * starting-dependents → running → shutting-down → terminated.
 */
type Orchestrator struct {
	bundle  *config.Bundle
	factory RoleFactory
	runID   string

	units map[models.RoleKind]*ServiceUnit

	mu        sync.RWMutex // guards state and startTime against admin API reads
	state     models.OrchestratorState
	startTime time.Time

	shutdownCh chan struct{}

	exporter stateExporter
}

// Option tweaks orchestrator construction.
type Option func(*Orchestrator)

// WithRoleFactory replaces the default role factory.
func WithRoleFactory(f RoleFactory) Option {
	return func(o *Orchestrator) { o.factory = f }
}

// WithoutStateExport disables writing the state snapshot file.
func WithoutStateExport() Option {
	return func(o *Orchestrator) { o.exporter = nil }
}

// NewOrchestrator builds an orchestrator over an already-validated bundle.
func NewOrchestrator(bundle *config.Bundle, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		bundle:     bundle,
		factory:    defaultRoleFactory,
		runID:      uuid.NewString(),
		units:      make(map[models.RoleKind]*ServiceUnit),
		state:      models.StateInitializing,
		shutdownCh: make(chan struct{}),
		exporter:   exportStateFile,
	}
	for _, opt := range opts {
		opt(o)
	}
	// Units exist from construction on so the admin API can list them
	// before and during startup without racing unit creation.
	for _, role := range models.AllRoles {
		cfg := bundle.Role(role)
		o.units[role] = NewServiceUnit(role, cfg, o.factory(role, cfg))
	}
	return o
}

// RunID identifies this launcher run.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// State returns the current orchestrator phase.
func (o *Orchestrator) State() models.OrchestratorState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// RequestShutdown asks the control loop to begin a graceful shutdown. Safe
// to call more than once.
func (o *Orchestrator) RequestShutdown() {
	select {
	case <-o.shutdownCh:
	default:
		close(o.shutdownCh)
	}
}

// Units returns the admin view of all units in declaration order.
func (o *Orchestrator) Units() []models.UnitDetail {
	var out []models.UnitDetail
	for _, role := range models.AllRoles {
		if u, ok := o.units[role]; ok {
			out = append(out, u.Detail())
		}
	}
	return out
}

// Unit returns the admin view of one unit.
func (o *Orchestrator) Unit(role models.RoleKind) (models.UnitDetail, bool) {
	u, ok := o.units[role]
	if !ok {
		return models.UnitDetail{}, false
	}
	return u.Detail(), true
}

// Snapshot builds the launcher state served by the admin API and written to
// the state file.
func (o *Orchestrator) Snapshot() models.LauncherState {
	return models.LauncherState{
		RunID:     o.runID,
		Phase:     o.State(),
		Pid:       os.Getpid(),
		AdminAddr: o.bundle.Server.Address,
		StartTime: o.StartTime(),
		Units:     o.Units(),
	}
}

// StartTime is when Run was entered.
func (o *Orchestrator) StartTime() time.Time {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.startTime
}

func (o *Orchestrator) setState(s models.OrchestratorState) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
	logger.Infof("Orchestrator: %s", s)
	if o.exporter != nil {
		o.exporter(o.Snapshot())
	}
}

/**
 * Run the whole standalone lifecycle to completion
 * @param {context.Context} ctx - Cancelled by the process-termination signal handler
 * @returns {*models.OrchestratorOutcome} Aggregated result; produced exactly once
 * @description
 * - Starts meta, waits for its readiness (bounded by run.ready_timeout)
 * - Meta readiness failure is fatal: dependents are never started
 * - Starts compute and frontend concurrently once meta is ready
 * - Supervises all units; any spontaneous unit exit, a termination
 *   signal, or RequestShutdown moves the run into shutdown
 * - Stops units in reverse dependency order, each bounded by
 *   run.grace_period, and never blocks indefinitely on one unit
 */
func (o *Orchestrator) Run(ctx context.Context) *models.OrchestratorOutcome {
	o.mu.Lock()
	o.startTime = time.Now()
	o.mu.Unlock()
	o.setState(models.StateInitializing)

	layers := StartOrder()
	meta := o.units[models.RoleMeta]

	o.setState(models.StateStartingMeta)
	meta.Start()

	o.setState(models.StateWaitingMetaReady)
	if err := meta.AwaitReady(o.bundle.Run.ReadyTimeout); err != nil {
		logger.Errorf("Orchestrator: meta failed to become ready: %v", err)
		o.setState(models.StateShuttingDown)
		// Dependents were never started; stopping them is a no-op that
		// records their outcome.
		o.stopAll()
		return o.finish(models.ExitCodeMetaReady, models.RoleMeta)
	}

	o.setState(models.StateStartingDependents)
	exitCh := make(chan unitExit, len(models.AllRoles))
	o.superviseUnit(meta, exitCh)
	for _, layer := range layers[1:] {
		for _, role := range layer {
			u := o.units[role]
			u.Start()
			o.superviseUnit(u, exitCh)
		}
	}

	o.setState(models.StateRunning)

	exitCode := models.ExitCodeOK
	var failedRole models.RoleKind
	select {
	case <-ctx.Done():
		logger.Info("Orchestrator: termination signal received")
	case <-o.shutdownCh:
		logger.Info("Orchestrator: shutdown requested")
	case ev := <-exitCh:
		// A unit exited on its own while running. Partial operation is
		// not a supported state: take everything down.
		logger.Errorf("Orchestrator: unit [%s] exited unexpectedly (%s)", ev.role, ev.out.Reason())
		exitCode = models.ExitCodeUnitFailure
		failedRole = ev.role
	}

	o.setState(models.StateShuttingDown)
	o.stopAll()
	return o.finish(exitCode, failedRole)
}

// superviseUnit forwards a unit's spontaneous exit to the control loop.
func (o *Orchestrator) superviseUnit(u *ServiceUnit, exitCh chan<- unitExit) {
	go func() {
		out := u.WaitExit()
		exitCh <- unitExit{role: u.Role, out: out}
	}()
}

// stopAll stops every unit in reverse dependency order. Stopping a unit that
// already exited just records its cached outcome.
func (o *Orchestrator) stopAll() {
	grace := o.bundle.Run.GracePeriod
	for _, role := range StopOrder() {
		u, ok := o.units[role]
		if !ok {
			continue
		}
		out := u.Stop(grace)
		logger.Infof("Orchestrator: unit [%s] stopped (%s)", role, out.Kind)
	}
}

// finish moves to the terminal state and builds the aggregated outcome.
func (o *Orchestrator) finish(exitCode int, failedRole models.RoleKind) *models.OrchestratorOutcome {
	outcome := &models.OrchestratorOutcome{
		RunID:      o.runID,
		ExitCode:   exitCode,
		FailedRole: failedRole,
		StartTime:  o.startTime,
		EndTime:    time.Now(),
	}
	for _, role := range models.AllRoles {
		u := o.units[role]
		d := u.Detail()
		uo := models.UnitOutcome{
			Role:       role,
			FinalState: d.State,
			Exit:       d.Exit,
			Reason:     d.ExitReason,
		}
		outcome.Units = append(outcome.Units, uo)
		if exitCode == models.ExitCodeOK && (d.Exit == models.ExitFailure || d.Exit == models.ExitKilled) {
			// A unit that had to be killed during an otherwise clean
			// shutdown still taints the run.
			outcome.ExitCode = models.ExitCodeUnitFailure
			outcome.FailedRole = role
		}
	}
	o.setState(models.StateTerminated)
	return outcome
}
