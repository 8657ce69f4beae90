package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompterDeliversReply(t *testing.T) {
	p := NewMessagePrompter()

	done := make(chan string, 1)
	go func() {
		reply, err := p.Await(context.Background(), "user-1", time.Second)
		require.NoError(t, err)
		done <- reply
	}()

	// Wait for the prompt to register before offering.
	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		_, ok := p.waiting["user-1"]
		return ok
	}, time.Second, 5*time.Millisecond)

	assert.True(t, p.Offer("user-1", "2"))
	assert.Equal(t, "2", <-done)
}

func TestPrompterTimesOut(t *testing.T) {
	p := NewMessagePrompter()

	_, err := p.Await(context.Background(), "user-1", 20*time.Millisecond)
	require.Error(t, err)

	// The expired prompt no longer claims messages.
	assert.False(t, p.Offer("user-1", "1"))
}

func TestPrompterIgnoresOtherUsers(t *testing.T) {
	p := NewMessagePrompter()

	go p.Await(context.Background(), "user-1", 200*time.Millisecond)
	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return len(p.waiting) == 1
	}, time.Second, 5*time.Millisecond)

	assert.False(t, p.Offer("user-2", "1"))
}

func TestPrompterContextCancellation(t *testing.T) {
	p := NewMessagePrompter()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := p.Await(ctx, "user-1", time.Minute)
		errCh <- err
	}()

	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return len(p.waiting) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.Error(t, <-errCh)
}
