package via

import "fmt"

// PubSub is an interface for publish/subscribe messaging backends.
// The vianats sub-package provides an embedded NATS implementation.
type PubSub interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (Subscription, error)
	Close() error
}

// Subscription represents an active subscription that can be manually unsubscribed.
type Subscription interface {
	Unsubscribe() error
}

// Publish sends data to subject on the configured PubSub backend.
// It is a no-op while a page is being registered.
func (c *Context) Publish(subject string, data []byte) error {
	if c.page().id == "" {
		return nil
	}
	if c.app.pubsub == nil {
		return fmt.Errorf("publish %q: pubsub not configured", subject)
	}
	return c.app.pubsub.Publish(subject, data)
}

// Subscribe registers handler for messages on subject. The subscription is
// removed automatically when the context is disposed, and handler is never
// called after that.
func (c *Context) Subscribe(subject string, handler func(data []byte)) (Subscription, error) {
	if c.page().id == "" {
		return nil, nil
	}
	if c.app.pubsub == nil {
		return nil, fmt.Errorf("subscribe %q: pubsub not configured", subject)
	}
	done := c.Done()
	sub, err := c.app.pubsub.Subscribe(subject, func(data []byte) {
		select {
		case <-done:
			return
		default:
		}
		handler(data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %q: %w", subject, err)
	}
	c.subsMu.Lock()
	c.subscriptions = append(c.subscriptions, sub)
	c.subsMu.Unlock()
	return sub, nil
}

func (c *Context) unsubscribeAll() {
	c.subsMu.Lock()
	subs := c.subscriptions
	c.subscriptions = nil
	c.subsMu.Unlock()
	for _, sub := range subs {
		if err := sub.Unsubscribe(); err != nil {
			c.app.logWarn(c, "unsubscribe failed: %v", err)
		}
	}
}
