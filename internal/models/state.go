package models

// UnitState tracks one service unit through its lifecycle.
type UnitState string

const (
	// UnitPending - unit created but not started yet
	UnitPending UnitState = "pending"
	// UnitStarting - run loop launched, readiness not signalled yet
	UnitStarting UnitState = "starting"
	// UnitReady - unit signalled readiness and is serving
	UnitReady UnitState = "ready"
	// UnitStopping - cooperative shutdown requested
	UnitStopping UnitState = "stopping"
	// UnitExited - run loop returned (or was abandoned after grace period)
	UnitExited UnitState = "exited"
)

// OrchestratorState is the phase of the standalone bootstrap state machine.
type OrchestratorState string

const (
	StateInitializing       OrchestratorState = "initializing"
	StateStartingMeta       OrchestratorState = "starting-meta"
	StateWaitingMetaReady   OrchestratorState = "waiting-meta-ready"
	StateStartingDependents OrchestratorState = "starting-dependents"
	StateRunning            OrchestratorState = "running"
	StateShuttingDown       OrchestratorState = "shutting-down"
	StateTerminated         OrchestratorState = "terminated"
)
