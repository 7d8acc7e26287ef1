package models

import "time"

// ErrorResponse defines API error response format
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// UnitDetail is the admin API / state file view of one service unit.
type UnitDetail struct {
	Role       RoleKind  `json:"role"`
	State      UnitState `json:"state"`
	ListenAddr string    `json:"listenAddr"`
	Advertise  string    `json:"advertiseAddr"`
	Pid        int       `json:"pid,omitempty"`
	StartTime  string    `json:"startTime,omitempty"`
	ReadyTime  string    `json:"readyTime,omitempty"`
	Exit       ExitKind  `json:"exit,omitempty"`
	ExitReason string    `json:"exitReason,omitempty"`
}

// LauncherState is the snapshot exported to the state file and served by
// GET /riverbird/api/v1/state.
type LauncherState struct {
	RunID     string            `json:"runId"`
	Phase     OrchestratorState `json:"phase"`
	Pid       int               `json:"pid"`
	AdminAddr string            `json:"adminAddr"`
	StartTime time.Time         `json:"startTime"`
	Units     []UnitDetail      `json:"units"`
}

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Phase     OrchestratorState `json:"phase"`
	StartTime string            `json:"startTime"`
	Uptime    string            `json:"uptime"`
	Requests  int64             `json:"requests"`
	Errors    int64             `json:"errors"`
}
