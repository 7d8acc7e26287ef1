package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"riverbird-standalone/internal/config"
	"riverbird-standalone/internal/logger"
	"riverbird-standalone/internal/models"
	"riverbird-standalone/internal/roles"
)

// Readiness failures surfaced by AwaitReady.
var (
	// ErrReadyTimeout - the unit never signalled readiness in time
	ErrReadyTimeout = errors.New("unit did not become ready before the timeout")
	// ErrCrashedBeforeReady - the run loop returned before signalling readiness
	ErrCrashedBeforeReady = errors.New("unit exited before signalling readiness")
)

/**
 * ServiceUnit wraps one role's run loop behind a uniform start / await-ready /
 * stop / wait-exit contract. It owns no orchestration logic; all real work is
 * delegated to the wrapped roles.Service. The orchestrator is the sole owner
 * of a unit for its entire lifetime.
 */
type ServiceUnit struct {
	Role   models.RoleKind
	Config *config.RoleConfig

	svc roles.Service

	mu        sync.Mutex
	state     models.UnitState
	startTime time.Time
	readyTime time.Time
	runErr    error
	// Set before the run context is cancelled so exit classification can
	// tell an ordered shutdown from a spontaneous exit.
	stopRequested bool
	outcome       *models.ExitOutcome

	cancel context.CancelFunc
	ready  chan struct{} // closed exactly once by the run loop
	done   chan struct{} // closed when the run loop has returned
}

// NewServiceUnit creates a unit in the pending state. Nothing runs until
// Start is called.
func NewServiceUnit(role models.RoleKind, cfg *config.RoleConfig, svc roles.Service) *ServiceUnit {
	u := &ServiceUnit{
		Role:   role,
		Config: cfg,
		svc:    svc,
		state:  models.UnitPending,
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}
	recordUnitState(role, models.UnitPending)
	return u
}

/**
 * Start the role's run loop on its own goroutine
 * @description
 * - Returns immediately after scheduling the run loop
 * - Safe to call once; later calls are ignored
 */
func (u *ServiceUnit) Start() {
	u.mu.Lock()
	if u.state != models.UnitPending {
		u.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	u.state = models.UnitStarting
	u.startTime = time.Now()
	u.mu.Unlock()

	recordUnitState(u.Role, models.UnitStarting)
	logger.Infof("Unit [%s] starting", u.Role)

	go func() {
		err := u.svc.Run(ctx, u.ready)

		u.mu.Lock()
		u.runErr = err
		if u.state != models.UnitExited {
			u.state = models.UnitExited
			recordUnitState(u.Role, models.UnitExited)
		}
		u.mu.Unlock()
		close(u.done)
	}()

	// Flip to ready when the run loop signals. The goroutine exits either
	// way once the unit is done.
	go func() {
		select {
		case <-u.ready:
			u.mu.Lock()
			if u.state == models.UnitStarting {
				u.state = models.UnitReady
				u.readyTime = time.Now()
				recordUnitState(u.Role, models.UnitReady)
				recordUnitReady(u.Role, u.readyTime.Sub(u.startTime).Seconds())
				logger.Infof("Unit [%s] ready after %v", u.Role, u.readyTime.Sub(u.startTime))
			}
			u.mu.Unlock()
		case <-u.done:
		}
	}()
}

/**
 * Block until the unit signals readiness
 * @param {time.Duration} timeout - Maximum wait
 * @returns {error} nil on readiness, ErrReadyTimeout, or ErrCrashedBeforeReady
 */
func (u *ServiceUnit) AwaitReady(timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-u.ready:
		return nil
	case <-u.done:
		u.mu.Lock()
		err := u.runErr
		u.mu.Unlock()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCrashedBeforeReady, err)
		}
		return ErrCrashedBeforeReady
	case <-timer.C:
		return ErrReadyTimeout
	}
}

// WaitExit blocks until the run loop has returned, for any reason, and
// reports the outcome. Used by the orchestrator's supervision loop.
func (u *ServiceUnit) WaitExit() models.ExitOutcome {
	<-u.done
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.classifyExitLocked()
}

/**
 * Request cooperative shutdown, escalating after the grace period
 * @param {time.Duration} grace - Time allowed for the run loop to return
 * @returns {models.ExitOutcome} Success, FailureWithError, or Killed
 * @description
 * - Cancels the unit's run context and waits up to grace
 * - On grace overrun, force-stops the role if it supports that, records a
 *   Killed outcome, and returns without blocking further
 * - Idempotent: a second call returns the cached outcome without
 *   re-invoking shutdown logic
 */
func (u *ServiceUnit) Stop(grace time.Duration) models.ExitOutcome {
	u.mu.Lock()
	if u.outcome != nil {
		out := *u.outcome
		u.mu.Unlock()
		return out
	}
	if u.state == models.UnitPending {
		// Never started; nothing to shut down.
		out := models.ExitOutcome{Kind: models.ExitSuccess}
		u.outcome = &out
		u.state = models.UnitExited
		u.mu.Unlock()
		recordUnitState(u.Role, models.UnitExited)
		return out
	}
	u.stopRequested = true
	alreadyDone := u.state == models.UnitExited
	if !alreadyDone && u.state != models.UnitStopping {
		u.state = models.UnitStopping
		recordUnitState(u.Role, models.UnitStopping)
	}
	cancel := u.cancel
	u.mu.Unlock()

	if !alreadyDone {
		logger.Infof("Unit [%s] stop requested (grace %v)", u.Role, grace)
		cancel()
	}

	var out models.ExitOutcome
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-u.done:
		u.mu.Lock()
		out = u.classifyExitLocked()
		u.outcome = &out
		u.state = models.UnitExited
		u.mu.Unlock()
	case <-timer.C:
		if fs, ok := u.svc.(roles.ForceStopper); ok {
			fs.ForceStop()
		}
		out = models.ExitOutcome{Kind: models.ExitKilled}
		recordForcedKill(u.Role)
		logger.Errorf("Unit [%s] did not stop within %v, abandoning", u.Role, grace)
		u.mu.Lock()
		u.outcome = &out
		u.state = models.UnitExited
		u.mu.Unlock()
	}
	recordUnitState(u.Role, models.UnitExited)
	return out
}

// classifyExitLocked maps the run loop's return to an ExitOutcome. A context
// cancellation error after an ordered stop still counts as a clean exit.
func (u *ServiceUnit) classifyExitLocked() models.ExitOutcome {
	if u.outcome != nil {
		return *u.outcome
	}
	if u.runErr == nil {
		return models.ExitOutcome{Kind: models.ExitSuccess}
	}
	if u.stopRequested && errors.Is(u.runErr, context.Canceled) {
		return models.ExitOutcome{Kind: models.ExitSuccess}
	}
	return models.ExitOutcome{Kind: models.ExitFailure, Err: u.runErr}
}

// State returns the unit's current state.
func (u *ServiceUnit) State() models.UnitState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Exited reports whether the run loop has returned.
func (u *ServiceUnit) Exited() bool {
	select {
	case <-u.done:
		return true
	default:
		return false
	}
}

// Detail builds the admin API / state file view of the unit.
func (u *ServiceUnit) Detail() models.UnitDetail {
	u.mu.Lock()
	defer u.mu.Unlock()

	d := models.UnitDetail{
		Role:       u.Role,
		State:      u.state,
		ListenAddr: u.Config.ListenAddr,
		Advertise:  u.Config.AdvertiseAddr,
	}
	if !u.startTime.IsZero() {
		d.StartTime = u.startTime.Format(time.RFC3339)
	}
	if !u.readyTime.IsZero() {
		d.ReadyTime = u.readyTime.Format(time.RFC3339)
	}
	if p, ok := u.svc.(interface{ Pid() int }); ok {
		d.Pid = p.Pid()
	}
	if u.outcome != nil {
		d.Exit = u.outcome.Kind
		d.ExitReason = u.outcome.Reason()
	} else if u.state == models.UnitExited {
		out := u.classifyExitLocked()
		d.Exit = out.Kind
		d.ExitReason = out.Reason()
	}
	return d
}
