package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"riverbird-standalone/internal/models"
)

// ConfigError reports a malformed or missing field, naming the role it
// belongs to. Always fatal: no unit is started after one is returned.
type ConfigError struct {
	Role   models.RoleKind
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: role %s: field %s: %s", e.Role, e.Field, e.Reason)
}

/**
 * Build validated configuration bundle from raw input
 * @param {*Bundle} raw - Unvalidated bundle as unmarshalled from the config file
 * @returns {*Bundle} Bundle with launcher defaults applied
 * @returns {error} First ConfigError encountered; no partial construction
 * @description
 * - Validates each role independently, meta first
 * - listen_addr and advertise_addr are required for every role
 * - meta requires state_store; compute/frontend require meta_addr
 * - File paths are checked syntactically only; existence is the role's
 *   problem at start time
 */
func BuildBundle(raw *Bundle) (*Bundle, error) {
	for _, kind := range models.AllRoles {
		if err := validateRole(kind, raw.Role(kind)); err != nil {
			return nil, err
		}
	}
	return collectBundle(raw), nil
}

func validateRole(kind models.RoleKind, rc *RoleConfig) error {
	if err := requireHostPort(kind, "listen_addr", rc.ListenAddr); err != nil {
		return err
	}
	if err := requireHostPort(kind, "advertise_addr", rc.AdvertiseAddr); err != nil {
		return err
	}

	switch kind {
	case models.RoleMeta:
		if rc.StateStore == "" {
			return &ConfigError{Role: kind, Field: "state_store", Reason: "required"}
		}
		if err := checkStateStore(kind, rc.StateStore); err != nil {
			return err
		}
	case models.RoleCompute, models.RoleFrontend:
		if rc.MetaAddr == "" {
			return &ConfigError{Role: kind, Field: "meta_addr", Reason: "required"}
		}
		if err := checkReachableAddr(kind, "meta_addr", rc.MetaAddr); err != nil {
			return err
		}
	}

	if rc.Parallelism < 0 {
		return &ConfigError{Role: kind, Field: "parallelism", Reason: "must not be negative"}
	}
	if err := checkPath(kind, "config_path", rc.ConfigPath); err != nil {
		return err
	}
	if err := checkPath(kind, "data_directory", rc.DataDirectory); err != nil {
		return err
	}
	if rc.Command == "" && len(rc.Args) > 0 {
		return &ConfigError{Role: kind, Field: "args", Reason: "set without command"}
	}
	return nil
}

func requireHostPort(kind models.RoleKind, field, value string) error {
	if value == "" {
		return &ConfigError{Role: kind, Field: field, Reason: "required"}
	}
	host, port, err := net.SplitHostPort(value)
	if err != nil {
		return &ConfigError{Role: kind, Field: field, Reason: err.Error()}
	}
	if host == "" || port == "" {
		return &ConfigError{Role: kind, Field: field, Reason: "host and port are both required"}
	}
	return nil
}

// checkReachableAddr accepts either host:port or a http(s) URL.
func checkReachableAddr(kind models.RoleKind, field, value string) error {
	if strings.Contains(value, "://") {
		u, err := url.Parse(value)
		if err != nil {
			return &ConfigError{Role: kind, Field: field, Reason: err.Error()}
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return &ConfigError{Role: kind, Field: field, Reason: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
		}
		if u.Host == "" {
			return &ConfigError{Role: kind, Field: field, Reason: "missing host"}
		}
		return nil
	}
	return requireHostPort(kind, field, value)
}

// checkStateStore validates the backend descriptor: "memory", or a URL like
// minio://... / s3://... pointing at an object store.
func checkStateStore(kind models.RoleKind, value string) error {
	if value == "memory" {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil {
		return &ConfigError{Role: kind, Field: "state_store", Reason: err.Error()}
	}
	if u.Scheme == "" || u.Host == "" {
		return &ConfigError{Role: kind, Field: "state_store",
			Reason: `expect "memory" or scheme://host form`}
	}
	return nil
}

func checkPath(kind models.RoleKind, field, value string) error {
	if strings.ContainsRune(value, 0) {
		return &ConfigError{Role: kind, Field: field, Reason: "invalid path"}
	}
	return nil
}
