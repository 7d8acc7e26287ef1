package roles

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riverbird-standalone/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// freeAddr reserves a loopback port and releases it for the role under test.
func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:5690", baseURL("127.0.0.1:5690"))
	assert.Equal(t, "http://meta.local:5690", baseURL("http://meta.local:5690"))
	assert.Equal(t, "https://meta.local:5690", baseURL("https://meta.local:5690/"))
}

// runRole starts svc on its own goroutine and waits for readiness.
func runRole(t *testing.T, svc Service) (cancel context.CancelFunc, done chan error) {
	t.Helper()
	ctx, cancelFn := context.WithCancel(context.Background())
	ready := make(chan struct{})
	done = make(chan error, 1)
	go func() { done <- svc.Run(ctx, ready) }()

	select {
	case <-ready:
	case err := <-done:
		cancelFn()
		t.Fatalf("role exited before readiness: %v", err)
	case <-time.After(5 * time.Second):
		cancelFn()
		t.Fatal("role never became ready")
	}
	return cancelFn, done
}

/**
 * Test the embedded meta role end to end: readiness after bind, member
 * registry over HTTP, clean shutdown on cancel
 * @param {*testing.T} t - Testing framework instance
 */
func TestMetaRoleMemberRegistry(t *testing.T) {
	addr := freeAddr(t)
	meta := NewMetaRole(&config.RoleConfig{
		ListenAddr:    addr,
		AdvertiseAddr: addr,
		StateStore:    "memory",
	})
	cancel, done := runRole(t, meta)
	defer cancel()

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get("http://" + addr + "/api/v1/members")
	require.NoError(t, err)
	var members []Member
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&members))
	resp.Body.Close()
	assert.Empty(t, members)

	cancel()
	assert.NoError(t, <-done)
}

/**
 * Test that a dependent role registers itself with meta before signalling
 * readiness and deregisters on shutdown
 * @param {*testing.T} t - Testing framework instance
 */
func TestDependentRegistersWithMeta(t *testing.T) {
	metaAddr := freeAddr(t)
	meta := NewMetaRole(&config.RoleConfig{
		ListenAddr:    metaAddr,
		AdvertiseAddr: metaAddr,
		StateStore:    "memory",
	})
	cancelMeta, metaDone := runRole(t, meta)
	defer cancelMeta()

	computeAddr := freeAddr(t)
	compute := NewComputeRole(&config.RoleConfig{
		ListenAddr:    computeAddr,
		AdvertiseAddr: computeAddr,
		MetaAddr:      metaAddr,
	})
	cancelCompute, computeDone := runRole(t, compute)
	defer cancelCompute()

	// Readiness implies the registration already landed.
	resp, err := http.Get("http://" + metaAddr + "/api/v1/members")
	require.NoError(t, err)
	var members []Member
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&members))
	resp.Body.Close()
	require.Len(t, members, 1)
	assert.Equal(t, "compute", members[0].Role)
	assert.Equal(t, computeAddr, members[0].AdvertiseAddr)

	cancelCompute()
	require.NoError(t, <-computeDone)

	// Deregistration is best effort but should land against a live meta.
	resp, err = http.Get("http://" + metaAddr + "/api/v1/members")
	require.NoError(t, err)
	members = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&members))
	resp.Body.Close()
	assert.Empty(t, members)

	cancelMeta()
	assert.NoError(t, <-metaDone)
}

func TestDependentNeverReadyWithoutMeta(t *testing.T) {
	addr := freeAddr(t)
	frontend := NewFrontendRole(&config.RoleConfig{
		ListenAddr:    addr,
		AdvertiseAddr: addr,
		MetaAddr:      "127.0.0.1:1", // nothing listens there
	})

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	ready := make(chan struct{})

	err := frontend.Run(ctx, ready)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register with meta")

	select {
	case <-ready:
		t.Fatal("dependent must not signal readiness without meta")
	default:
	}
}

func TestFrontendQueryStub(t *testing.T) {
	metaAddr := freeAddr(t)
	meta := NewMetaRole(&config.RoleConfig{
		ListenAddr:    metaAddr,
		AdvertiseAddr: metaAddr,
		StateStore:    "memory",
	})
	cancelMeta, _ := runRole(t, meta)
	defer cancelMeta()

	addr := freeAddr(t)
	frontend := NewFrontendRole(&config.RoleConfig{
		ListenAddr:    addr,
		AdvertiseAddr: addr,
		MetaAddr:      metaAddr,
	})
	cancelFrontend, _ := runRole(t, frontend)
	defer cancelFrontend()

	resp, err := http.Post("http://"+addr+"/v1/query", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}
