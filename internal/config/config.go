package config

import (
	"time"

	"github.com/spf13/viper"

	"riverbird-standalone/internal/models"
)

/**
 * Server configuration for the launcher's admin API
 * @property {string} address - Admin API listening address (e.g. "127.0.0.1:5699")
 * @property {string} mode - Gin mode (debug/release/test)
 */
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"`
}

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path, or "console"
 */
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// RunConfig holds orchestrator-wide knobs shared by all units.
type RunConfig struct {
	// Maximum wait for the meta role to signal readiness. Exceeding it
	// aborts the whole run.
	ReadyTimeout time.Duration `mapstructure:"ready_timeout"`
	// Time allowed for one unit's cooperative shutdown before the
	// launcher abandons it.
	GracePeriod time.Duration `mapstructure:"grace_period"`
}

/**
 * RoleConfig carries the settings of one logical service. The same shape is
 * used for all three roles; validation decides which fields each role
 * requires.
 * @property {string} listen_addr - host:port the role listens on (required)
 * @property {string} advertise_addr - host:port other roles use to reach it (required)
 * @property {string} meta_addr - address of the meta role (required for compute/frontend)
 * @property {string} state_store - state-store backend descriptor (required for meta)
 * @property {string} config_path - optional role-level config file handed through verbatim
 * @property {string} command - optional external role binary; empty means embedded dev role
 */
type RoleConfig struct {
	ListenAddr    string   `mapstructure:"listen_addr" json:"listenAddr"`
	AdvertiseAddr string   `mapstructure:"advertise_addr" json:"advertiseAddr"`
	MetaAddr      string   `mapstructure:"meta_addr" json:"metaAddr,omitempty"`
	StateStore    string   `mapstructure:"state_store" json:"stateStore,omitempty"`
	DataDirectory string   `mapstructure:"data_directory" json:"dataDirectory,omitempty"`
	ConfigPath    string   `mapstructure:"config_path" json:"configPath,omitempty"`
	Parallelism   int      `mapstructure:"parallelism" json:"parallelism,omitempty"`
	Command       string   `mapstructure:"command" json:"command,omitempty"`
	Args          []string `mapstructure:"args" json:"args,omitempty"`
}

// Bundle is the full standalone configuration: one RoleConfig per role plus
// launcher-wide settings. Built once at startup, immutable afterwards.
type Bundle struct {
	Server   ServerConfig `mapstructure:"server"`
	Log      LogConfig    `mapstructure:"log"`
	Run      RunConfig    `mapstructure:"run"`
	Meta     RoleConfig   `mapstructure:"meta"`
	Compute  RoleConfig   `mapstructure:"compute"`
	Frontend RoleConfig   `mapstructure:"frontend"`
}

// Role returns the config of the given role.
func (b *Bundle) Role(kind models.RoleKind) *RoleConfig {
	switch kind {
	case models.RoleMeta:
		return &b.Meta
	case models.RoleCompute:
		return &b.Compute
	case models.RoleFrontend:
		return &b.Frontend
	}
	return nil
}

/**
 * Load standalone configuration bundle from YAML file
 * @param {string} path - Config file path; empty means "standalone.yaml" in the working directory
 * @returns {*Bundle} Validated configuration bundle
 * @returns {error} ConfigError naming the offending role and field, or a read error
 */
func LoadBundle(path string) (*Bundle, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("standalone")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var raw Bundle
	if err := v.Unmarshal(&raw); err != nil {
		return nil, err
	}

	return BuildBundle(&raw)
}

// collectBundle fills launcher-level defaults. Role-level required fields are
// never defaulted here; their absence is a validation error.
func collectBundle(b *Bundle) *Bundle {
	if b.Server.Address == "" {
		b.Server.Address = "127.0.0.1:5699"
	}
	if b.Server.Mode == "" {
		b.Server.Mode = "release"
	}
	if b.Log.Level == "" {
		b.Log.Level = "info"
	}
	if b.Run.ReadyTimeout == 0 {
		b.Run.ReadyTimeout = 30 * time.Second
	}
	if b.Run.GracePeriod == 0 {
		b.Run.GracePeriod = 10 * time.Second
	}
	return b
}
