package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riverbird-standalone/internal/config"
	"riverbird-standalone/internal/models"
	"riverbird-standalone/internal/roles"
)

func testRoleConfig() *config.RoleConfig {
	return &config.RoleConfig{
		ListenAddr:    "127.0.0.1:5690",
		AdvertiseAddr: "127.0.0.1:5690",
	}
}

// wellBehaved signals readiness immediately and exits cleanly on cancel.
func wellBehaved() roles.Service {
	return roles.Func(func(ctx context.Context, ready chan<- struct{}) error {
		close(ready)
		<-ctx.Done()
		return ctx.Err()
	})
}

/**
 * Test the happy path: start, await readiness, ordered stop
 * @param {*testing.T} t - Testing framework instance
 */
func TestUnitStartReadyStop(t *testing.T) {
	u := NewServiceUnit(models.RoleMeta, testRoleConfig(), wellBehaved())
	assert.Equal(t, models.UnitPending, u.State())

	u.Start()
	require.NoError(t, u.AwaitReady(2*time.Second))
	assert.Equal(t, models.UnitReady, u.State())
	assert.False(t, u.Exited())

	out := u.Stop(2 * time.Second)
	assert.Equal(t, models.ExitSuccess, out.Kind)
	assert.Equal(t, models.UnitExited, u.State())
	assert.True(t, u.Exited())
}

func TestUnitAwaitReadyTimeout(t *testing.T) {
	// Never signals readiness, but does honor cancellation.
	u := NewServiceUnit(models.RoleMeta, testRoleConfig(), roles.Func(
		func(ctx context.Context, ready chan<- struct{}) error {
			<-ctx.Done()
			return ctx.Err()
		}))
	u.Start()

	err := u.AwaitReady(50 * time.Millisecond)
	assert.ErrorIs(t, err, ErrReadyTimeout)

	out := u.Stop(2 * time.Second)
	assert.Equal(t, models.ExitSuccess, out.Kind)
}

func TestUnitCrashBeforeReady(t *testing.T) {
	boom := errors.New("bind: address already in use")
	u := NewServiceUnit(models.RoleCompute, testRoleConfig(), roles.Func(
		func(ctx context.Context, ready chan<- struct{}) error {
			return boom
		}))
	u.Start()

	err := u.AwaitReady(2 * time.Second)
	assert.ErrorIs(t, err, ErrCrashedBeforeReady)

	out := u.WaitExit()
	assert.Equal(t, models.ExitFailure, out.Kind)
	assert.ErrorIs(t, out.Err, boom)
}

func TestUnitSpontaneousFailureAfterReady(t *testing.T) {
	boom := errors.New("segment upload failed")
	u := NewServiceUnit(models.RoleCompute, testRoleConfig(), roles.Func(
		func(ctx context.Context, ready chan<- struct{}) error {
			close(ready)
			return boom
		}))
	u.Start()
	require.NoError(t, u.AwaitReady(2*time.Second))

	out := u.WaitExit()
	assert.Equal(t, models.ExitFailure, out.Kind)
	assert.Equal(t, boom.Error(), out.Reason())
}

func TestUnitStopNeverStarted(t *testing.T) {
	u := NewServiceUnit(models.RoleFrontend, testRoleConfig(), wellBehaved())

	out := u.Stop(time.Second)
	assert.Equal(t, models.ExitSuccess, out.Kind)
	assert.Equal(t, models.UnitExited, u.State())
}

/**
 * Test that repeated Stop calls return the cached outcome without
 * re-running shutdown
 * @param {*testing.T} t - Testing framework instance
 */
func TestUnitStopIdempotent(t *testing.T) {
	var stops int32
	u := NewServiceUnit(models.RoleMeta, testRoleConfig(), roles.Func(
		func(ctx context.Context, ready chan<- struct{}) error {
			close(ready)
			<-ctx.Done()
			atomic.AddInt32(&stops, 1)
			return ctx.Err()
		}))
	u.Start()
	require.NoError(t, u.AwaitReady(2*time.Second))

	first := u.Stop(2 * time.Second)
	second := u.Stop(2 * time.Second)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&stops))
}

// stubborn ignores cancellation entirely until force-stopped.
type stubborn struct {
	unblock chan struct{}
	forced  int32
}

func newStubborn() *stubborn {
	return &stubborn{unblock: make(chan struct{})}
}

func (s *stubborn) Run(ctx context.Context, ready chan<- struct{}) error {
	close(ready)
	<-s.unblock
	return errors.New("forced off")
}

func (s *stubborn) ForceStop() {
	atomic.AddInt32(&s.forced, 1)
	close(s.unblock)
}

/**
 * Test grace period escalation: a unit that ignores cancellation is
 * force-stopped and recorded as killed
 * @param {*testing.T} t - Testing framework instance
 */
func TestUnitStopEscalatesAfterGrace(t *testing.T) {
	svc := newStubborn()
	u := NewServiceUnit(models.RoleCompute, testRoleConfig(), svc)
	u.Start()
	require.NoError(t, u.AwaitReady(2*time.Second))

	out := u.Stop(50 * time.Millisecond)
	assert.Equal(t, models.ExitKilled, out.Kind)
	assert.Equal(t, int32(1), atomic.LoadInt32(&svc.forced))

	// The killed outcome sticks even after the run loop finally returns.
	again := u.Stop(50 * time.Millisecond)
	assert.Equal(t, models.ExitKilled, again.Kind)
}

func TestUnitStopAfterSpontaneousExit(t *testing.T) {
	boom := errors.New("worker panicked")
	u := NewServiceUnit(models.RoleFrontend, testRoleConfig(), roles.Func(
		func(ctx context.Context, ready chan<- struct{}) error {
			close(ready)
			return boom
		}))
	u.Start()
	u.WaitExit()

	// Stopping an already-dead unit records its failure, not a clean exit.
	out := u.Stop(time.Second)
	assert.Equal(t, models.ExitFailure, out.Kind)
	assert.ErrorIs(t, out.Err, boom)
}

func TestUnitDetailReflectsLifecycle(t *testing.T) {
	u := NewServiceUnit(models.RoleMeta, testRoleConfig(), wellBehaved())

	d := u.Detail()
	assert.Equal(t, models.UnitPending, d.State)
	assert.Empty(t, d.StartTime)

	u.Start()
	require.NoError(t, u.AwaitReady(2*time.Second))
	u.Stop(2 * time.Second)

	d = u.Detail()
	assert.Equal(t, models.UnitExited, d.State)
	assert.Equal(t, models.ExitSuccess, d.Exit)
	assert.NotEmpty(t, d.StartTime)
	assert.NotEmpty(t, d.ReadyTime)
}
