// Package vianats provides an embedded NATS server with JetStream as a
// pub/sub backend for Via applications. Messages fan out to every
// subscribed page in real time; streams created with EnsureStream keep a
// bounded history of them on disk.
package vianats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/delaneyj/toolbelt/embeddednats"
	"github.com/nats-io/nats.go"
	"github.com/ryanhamamura/viatour/via"
)

// NATS implements via.PubSub using an embedded NATS server with JetStream.
type NATS struct {
	server *embeddednats.Server
	nc     *nats.Conn
	js     nats.JetStreamContext
}

// New starts an embedded NATS server with JetStream enabled and returns a
// ready-to-use NATS instance. The server stores data in dataDir and shuts
// down when ctx is cancelled.
func New(ctx context.Context, dataDir string) (*NATS, error) {
	ns, err := embeddednats.New(ctx, embeddednats.WithDirectory(dataDir))
	if err != nil {
		return nil, fmt.Errorf("vianats: start server: %w", err)
	}
	ns.WaitForServer()

	nc, err := ns.Client()
	if err != nil {
		ns.Close()
		return nil, fmt.Errorf("vianats: connect client: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		ns.Close()
		return nil, fmt.Errorf("vianats: init jetstream: %w", err)
	}

	return &NATS{server: ns, nc: nc, js: js}, nil
}

// Publish sends data to the given subject using core NATS publish.
// JetStream captures messages automatically if a matching stream exists.
func (n *NATS) Publish(subject string, data []byte) error {
	return n.nc.Publish(subject, data)
}

// Subscribe creates a core NATS subscription for real-time fan-out delivery.
func (n *NATS) Subscribe(subject string, handler func(data []byte)) (via.Subscription, error) {
	sub, err := n.nc.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("vianats: subscribe %q: %w", subject, err)
	}
	return sub, nil
}

// Close shuts down the client connection and embedded server.
func (n *NATS) Close() error {
	n.nc.Close()
	return n.server.Close()
}

// Conn returns the underlying NATS connection for advanced usage.
func (n *NATS) Conn() *nats.Conn {
	return n.nc
}

// JetStream returns the JetStream context for stream configuration and replay.
func (n *NATS) JetStream() nats.JetStreamContext {
	return n.js
}

// StreamConfig describes a JetStream stream retaining published messages.
type StreamConfig struct {
	Name     string
	Subjects []string
	MaxMsgs  int64
	MaxAge   time.Duration
}

// EnsureStream creates the stream described by cfg, or updates it when it
// already exists.
func EnsureStream(n *NATS, cfg StreamConfig) error {
	if cfg.Name == "" || len(cfg.Subjects) == 0 {
		return fmt.Errorf("vianats: stream needs a name and at least one subject")
	}
	sc := &nats.StreamConfig{
		Name:     cfg.Name,
		Subjects: cfg.Subjects,
		MaxMsgs:  cfg.MaxMsgs,
		MaxAge:   cfg.MaxAge,
		Storage:  nats.FileStorage,
	}
	_, err := n.js.StreamInfo(cfg.Name)
	switch {
	case errors.Is(err, nats.ErrStreamNotFound):
		if _, err := n.js.AddStream(sc); err != nil {
			return fmt.Errorf("vianats: add stream %s: %w", cfg.Name, err)
		}
	case err != nil:
		return fmt.Errorf("vianats: stream info %s: %w", cfg.Name, err)
	default:
		if _, err := n.js.UpdateStream(sc); err != nil {
			return fmt.Errorf("vianats: update stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

// Replay returns up to limit of the most recent messages retained by the
// stream for subject, oldest first.
func Replay(n *NATS, stream, subject string, limit int) ([][]byte, error) {
	info, err := n.js.StreamInfo(stream)
	if err != nil {
		return nil, fmt.Errorf("vianats: stream info %s: %w", stream, err)
	}
	if info.State.Msgs == 0 || limit <= 0 {
		return nil, nil
	}
	var out [][]byte
	first := info.State.FirstSeq
	if last := info.State.LastSeq; last >= uint64(limit) && last-uint64(limit)+1 > first {
		first = last - uint64(limit) + 1
	}
	for seq := first; seq <= info.State.LastSeq; seq++ {
		msg, err := n.js.GetMsg(stream, seq)
		if err != nil {
			if errors.Is(err, nats.ErrMsgNotFound) {
				continue
			}
			return nil, fmt.Errorf("vianats: get msg %d: %w", seq, err)
		}
		if msg.Subject == subject {
			out = append(out, msg.Data)
		}
	}
	return out, nil
}
