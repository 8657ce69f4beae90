package voice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latoulicious/Yotei/pkg/logging"
)

func newTestConn() *Conn {
	return &Conn{channelID: "vc-1", log: logging.Discard(), cancel: func() {}}
}

func TestCloseFromDisconnectHandlerReturns(t *testing.T) {
	c := newTestConn()

	fired := 0
	var closeErr error
	c.OnDisconnect(func() {
		fired++
		closeErr = c.Close()
	})

	done := make(chan struct{})
	go func() {
		c.fireDisconnect()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disconnect handler never returned")
	}
	require.NoError(t, closeErr)
	assert.Equal(t, 1, fired)

	// A later transport observation after the close is a no-op.
	c.fireDisconnect()
	assert.Equal(t, 1, fired)
}

func TestDisconnectHandlerFiresAtMostOnce(t *testing.T) {
	c := newTestConn()

	fired := 0
	c.OnDisconnect(func() { fired++ })

	c.fireDisconnect()
	c.fireDisconnect()
	assert.Equal(t, 1, fired)
}

func TestCloseSuppressesDisconnectHandler(t *testing.T) {
	c := newTestConn()

	fired := 0
	c.OnDisconnect(func() { fired++ })

	require.NoError(t, c.Close())
	c.fireDisconnect()
	assert.Equal(t, 0, fired)
}
