package roles

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"riverbird-standalone/internal/config"
	"riverbird-standalone/internal/logger"
)

// Member is one role registered with the embedded meta service.
type Member struct {
	Role          string `json:"role"`
	AdvertiseAddr string `json:"advertiseAddr"`
	JoinedAt      string `json:"joinedAt"`
}

/**
 * MetaRole is the embedded dev implementation of the metadata service. It
 * keeps an in-memory member registry and serves it over HTTP so that compute
 * and frontend can register themselves the way they would against a real
 * meta node.
 */
type MetaRole struct {
	cfg *config.RoleConfig

	mu      sync.Mutex
	members map[string]Member
}

func NewMetaRole(cfg *config.RoleConfig) *MetaRole {
	return &MetaRole{
		cfg:     cfg,
		members: make(map[string]Member),
	}
}

func (m *MetaRole) Run(ctx context.Context, ready chan<- struct{}) error {
	if m.cfg.StateStore != "memory" {
		// Embedded meta has no object-store client. Spawned deployments
		// hand the descriptor to the real meta binary instead.
		logger.Warnf("Meta: embedded role ignores state_store %q, using memory", m.cfg.StateStore)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "role": "meta"})
	})
	router.GET("/api/v1/members", m.listMembers)
	router.POST("/api/v1/members", m.addMember)
	router.DELETE("/api/v1/members/:role", m.removeMember)

	ln, err := net.Listen("tcp", m.cfg.ListenAddr)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: router}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	// Listener is bound, dependents may connect now.
	close(ready)
	logger.Infof("Meta: serving at %s (state store: memory)", m.cfg.ListenAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (m *MetaRole) listMembers(c *gin.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Member, 0, len(m.members))
	for _, mem := range m.members {
		out = append(out, mem)
	}
	c.JSON(http.StatusOK, out)
}

func (m *MetaRole) addMember(c *gin.Context) {
	var mem Member
	if err := c.ShouldBindJSON(&mem); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mem.JoinedAt = time.Now().Format(time.RFC3339)
	m.mu.Lock()
	m.members[mem.Role] = mem
	m.mu.Unlock()
	logger.Infof("Meta: member %s registered (%s)", mem.Role, mem.AdvertiseAddr)
	c.JSON(http.StatusOK, mem)
}

func (m *MetaRole) removeMember(c *gin.Context) {
	role := c.Param("role")
	m.mu.Lock()
	delete(m.members, role)
	m.mu.Unlock()
	c.Status(http.StatusNoContent)
}
