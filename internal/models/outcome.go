package models

import "time"

// ExitKind classifies how a unit's run loop ended.
type ExitKind string

const (
	// ExitSuccess - run loop returned nil
	ExitSuccess ExitKind = "success"
	// ExitFailure - run loop returned an error on its own
	ExitFailure ExitKind = "failure"
	// ExitKilled - cooperative shutdown exceeded its grace period and the
	// run loop was abandoned/force-terminated
	ExitKilled ExitKind = "killed"
)

// ExitOutcome is the terminal result of one unit. Err is nil unless
// Kind is ExitFailure.
type ExitOutcome struct {
	Kind ExitKind `json:"kind"`
	Err  error    `json:"-"`
}

// Reason renders the outcome for logs and the exported state file.
func (o ExitOutcome) Reason() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	return string(o.Kind)
}

// UnitOutcome is the per-role slice of an OrchestratorOutcome.
type UnitOutcome struct {
	Role       RoleKind  `json:"role"`
	FinalState UnitState `json:"finalState"`
	Exit       ExitKind  `json:"exit"`
	Reason     string    `json:"reason,omitempty"`
}

// OrchestratorOutcome aggregates the result of one standalone run. Produced
// exactly once, when the orchestrator reaches Terminated.
type OrchestratorOutcome struct {
	RunID      string        `json:"runId"`
	ExitCode   int           `json:"exitCode"`
	FailedRole RoleKind      `json:"failedRole,omitempty"`
	Units      []UnitOutcome `json:"units"`
	StartTime  time.Time     `json:"startTime"`
	EndTime    time.Time     `json:"endTime"`
}

// Exit codes reported by the standalone command.
const (
	ExitCodeOK          = 0
	ExitCodeConfig      = 1
	ExitCodeMetaReady   = 2
	ExitCodeUnitFailure = 3
)
