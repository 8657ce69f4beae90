package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MessagePrompter collects one reply per requester for interactive search
// selection. At most one prompt per user is outstanding; a new prompt
// replaces the old one, which then times out on its own.
type MessagePrompter struct {
	mu      sync.Mutex
	waiting map[string]chan string
}

func NewMessagePrompter() *MessagePrompter {
	return &MessagePrompter{waiting: make(map[string]chan string)}
}

// Await blocks until the requester's next message, the timeout, or context
// cancellation.
func (p *MessagePrompter) Await(ctx context.Context, requester string, timeout time.Duration) (string, error) {
	ch := make(chan string, 1)
	p.mu.Lock()
	p.waiting[requester] = ch
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		if p.waiting[requester] == ch {
			delete(p.waiting, requester)
		}
		p.mu.Unlock()
	}()

	select {
	case reply := <-ch:
		return reply, nil
	case <-time.After(timeout):
		return "", fmt.Errorf("selection timed out")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Offer routes a message to a pending prompt. It reports whether the
// message was consumed as a selection reply.
func (p *MessagePrompter) Offer(userID, content string) bool {
	p.mu.Lock()
	ch, ok := p.waiting[userID]
	if ok {
		delete(p.waiting, userID)
	}
	p.mu.Unlock()
	if !ok {
		return false
	}
	ch <- content
	return true
}
