package httptransport

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewServer(t *testing.T) {
	h := http.NewServeMux()
	srv := NewServer(ServerConfig{Address: ":4000", ReadTimeout: time.Second, WriteTimeout: 5 * time.Second}, h)

	assert.Equal(t, ":4000", srv.Addr)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 5*time.Second, srv.WriteTimeout)
	assert.Equal(t, 10*time.Second, srv.IdleTimeout)
	assert.Same(t, h, srv.Handler)
}

func TestNewServer_ExplicitIdle(t *testing.T) {
	srv := NewServer(ServerConfig{WriteTimeout: time.Second, IdleTimeout: time.Minute}, http.NotFoundHandler())
	assert.Equal(t, time.Minute, srv.IdleTimeout)
}
