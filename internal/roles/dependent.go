package roles

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"riverbird-standalone/internal/config"
	"riverbird-standalone/internal/logger"
)

/**
 * dependentRole is the shared embedded implementation of the compute and
 * frontend dev roles: bind the listen address, register with meta over its
 * advertise address, then serve a health endpoint until shutdown. Readiness
 * is signalled only after registration succeeded, so a dependent that cannot
 * reach meta never reports ready.
 */
type dependentRole struct {
	name   string
	cfg    *config.RoleConfig
	routes func(*gin.Engine)
}

// NewComputeRole builds the embedded compute dev role.
func NewComputeRole(cfg *config.RoleConfig) Service {
	return &dependentRole{name: "compute", cfg: cfg}
}

// NewFrontendRole builds the embedded frontend dev role. It additionally
// exposes a stub query endpoint so clients probing the SQL surface get a
// deliberate "not implemented" instead of a connection error.
func NewFrontendRole(cfg *config.RoleConfig) Service {
	return &dependentRole{
		name: "frontend",
		cfg:  cfg,
		routes: func(r *gin.Engine) {
			r.POST("/v1/query", func(c *gin.Context) {
				c.JSON(http.StatusNotImplemented, gin.H{
					"error": "embedded dev frontend does not execute queries",
				})
			})
		},
	}
}

func (d *dependentRole) Run(ctx context.Context, ready chan<- struct{}) error {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "role": d.name})
	})
	if d.routes != nil {
		d.routes(router)
	}

	ln, err := net.Listen("tcp", d.cfg.ListenAddr)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: router}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	if err := d.register(ctx); err != nil {
		srv.Close()
		return fmt.Errorf("%s: register with meta at %s: %w", d.name, d.cfg.MetaAddr, err)
	}

	close(ready)
	logger.Infof("%s: serving at %s, registered with meta %s", d.name, d.cfg.ListenAddr, d.cfg.MetaAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		d.deregister()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// register announces this role to meta, retrying until ctx is cancelled.
// The overall bound comes from the orchestrator's readiness timeout.
func (d *dependentRole) register(ctx context.Context) error {
	payload, _ := json.Marshal(Member{Role: d.name, AdvertiseAddr: d.cfg.AdvertiseAddr})
	url := baseURL(d.cfg.MetaAddr) + "/api/v1/members"
	client := &http.Client{Timeout: 2 * time.Second}

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			err = fmt.Errorf("meta returned %d", resp.StatusCode)
		}
		logger.Debugf("%s: registration attempt failed: %v", d.name, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// deregister is best effort on the way down.
func (d *dependentRole) deregister() {
	url := baseURL(d.cfg.MetaAddr) + "/api/v1/members/" + d.name
	req, err := http.NewRequest("DELETE", url, nil)
	if err != nil {
		return
	}
	client := &http.Client{Timeout: time.Second}
	if resp, err := client.Do(req); err == nil {
		resp.Body.Close()
	}
}
