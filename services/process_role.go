package services

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"sync"

	"riverbird-standalone/internal/config"
	"riverbird-standalone/internal/logger"
	"riverbird-standalone/internal/models"
	"riverbird-standalone/internal/roles"
	"riverbird-standalone/internal/utils"
)

/**
 * processRole runs a role as an external child process, for deployments
 * where the real role binaries are available. The run loop spawns the
 * binary with arguments derived from the role config, probes the listen
 * address for readiness, and forwards cooperative shutdown as a
 * termination signal. ForceStop is the grace-period escalation: a hard
 * kill of the child.
 */
type processRole struct {
	role models.RoleKind
	cfg  *config.RoleConfig

	mu  sync.Mutex
	cmd *exec.Cmd
}

func newProcessRole(role models.RoleKind, cfg *config.RoleConfig) *processRole {
	return &processRole{role: role, cfg: cfg}
}

// commandArgs translates the role config into the role binary's flags,
// mirroring the flag surface of the real node binaries. Extra args from the
// config are appended verbatim.
func (p *processRole) commandArgs() []string {
	args := []string{
		"--listen-addr", p.cfg.ListenAddr,
		"--advertise-addr", p.cfg.AdvertiseAddr,
	}
	switch p.role {
	case models.RoleMeta:
		args = append(args, "--state-store", p.cfg.StateStore)
		if p.cfg.DataDirectory != "" {
			args = append(args, "--data-directory", p.cfg.DataDirectory)
		}
	case models.RoleCompute, models.RoleFrontend:
		args = append(args, "--meta-addr", p.cfg.MetaAddr)
	}
	if p.role == models.RoleCompute && p.cfg.Parallelism > 0 {
		args = append(args, "--parallelism", strconv.Itoa(p.cfg.Parallelism))
	}
	if p.cfg.ConfigPath != "" {
		args = append(args, "--config-path", p.cfg.ConfigPath)
	}
	return append(args, p.cfg.Args...)
}

func (p *processRole) Run(ctx context.Context, ready chan<- struct{}) error {
	cmd := exec.Command(p.cfg.Command, p.commandArgs()...)

	logger.Infof("Process role [%s]: executing %s", p.role, cmd.String())
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.cfg.Command, err)
	}

	p.mu.Lock()
	p.cmd = cmd
	p.mu.Unlock()
	logger.Infof("Process role [%s]: started (PID: %d)", p.role, cmd.Process.Pid)

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
	}()

	// Readiness: the child is considered ready once its listen address
	// accepts connections, the way risedev-style launchers probe nodes.
	probeCtx, cancelProbe := context.WithCancel(ctx)
	defer cancelProbe()
	go func() {
		if err := utils.WaitAddrReady(probeCtx, p.cfg.ListenAddr, 0); err == nil {
			close(ready)
		}
	}()

	select {
	case err := <-waitCh:
		// Exited on its own.
		if err != nil {
			return fmt.Errorf("role binary exited: %w", err)
		}
		return nil
	case <-ctx.Done():
		cancelProbe()
		if err := utils.TerminateProcess(cmd.Process); err != nil {
			logger.Warnf("Process role [%s]: terminate failed: %v", p.role, err)
		}
		if err := <-waitCh; err != nil {
			// A non-zero exit after our own termination signal is the
			// expected shape of a cooperative shutdown.
			logger.Debugf("Process role [%s]: exited after terminate: %v", p.role, err)
		}
		return ctx.Err()
	}
}

// ForceStop hard-kills the child. Called by the unit when the grace period
// ran out.
func (p *processRole) ForceStop() {
	p.mu.Lock()
	cmd := p.cmd
	p.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return
	}
	logger.Errorf("Process role [%s]: killing PID %d", p.role, cmd.Process.Pid)
	if err := utils.KillProcess(cmd.Process); err != nil {
		logger.Errorf("Process role [%s]: kill failed: %v", p.role, err)
	}
}

// Pid exposes the child PID for the admin API.
func (p *processRole) Pid() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil || p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

var _ roles.ForceStopper = (*processRole)(nil)
