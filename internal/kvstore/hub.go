package kvstore

import "sync"

// Hub is an in-process store. Each window takes its own Client.
type Hub struct {
	mu      sync.Mutex
	data    map[string]string
	clients map[*Client]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{data: make(map[string]string), clients: make(map[*Client]struct{})}
}

// Client returns a new handle on the hub.
func (h *Hub) Client() *Client {
	c := &Client{hub: h}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// others returns every open client except from.
func (h *Hub) others(from *Client) []*Client {
	out := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c != from {
			out = append(out, c)
		}
	}
	return out
}

// Client is a Hub handle. Changes are delivered synchronously on the
// writer's goroutine.
type Client struct {
	hub  *Hub
	subs subscribers

	mu     sync.Mutex
	closed bool
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) Get(key string) (string, bool, error) {
	if c.isClosed() {
		return "", false, ErrClosed
	}
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	v, ok := c.hub.data[key]
	return v, ok, nil
}

func (c *Client) Set(key, value string) error {
	return c.write(Change{Key: key, Value: value})
}

func (c *Client) Delete(key string) error {
	return c.write(Change{Key: key, Deleted: true})
}

func (c *Client) write(ch Change) error {
	if c.isClosed() {
		return ErrClosed
	}
	h := c.hub
	h.mu.Lock()
	if ch.Deleted {
		if _, ok := h.data[ch.Key]; !ok {
			h.mu.Unlock()
			return nil
		}
		delete(h.data, ch.Key)
	} else {
		h.data[ch.Key] = ch.Value
	}
	targets := h.others(c)
	h.mu.Unlock()

	for _, t := range targets {
		t.subs.publish(ch)
	}
	return nil
}

func (c *Client) Subscribe(fn func(Change)) func() { return c.subs.add(fn) }

// Close detaches the client; its subscribers stop receiving changes.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.hub.mu.Lock()
	delete(c.hub.clients, c)
	c.hub.mu.Unlock()
	c.subs.clear()
	return nil
}
