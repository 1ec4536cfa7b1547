// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"github.com/tomtom215/permahub-affinity/internal/logging"
)

// consumerHandlerName names the router handler in Watermill logs.
const consumerHandlerName = "interaction-learner"

// Components owns the whole ingestion pipeline: the optional embedded
// server, the stream, the poison publisher, the subscriber and the router.
type Components struct {
	cfg     Config
	handler *InteractionHandler
	logger  zerolog.Logger

	mu         sync.Mutex
	server     *EmbeddedServer
	conn       *natsgo.Conn
	publisher  *Publisher
	subscriber message.Subscriber
	router     *Router
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewComponents validates cfg. Nothing connects until Start.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewComponents(cfg Config, learner Learner, logger zerolog.Logger) (*Components, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if learner == nil {
		return nil, fmt.Errorf("%w: learner required", ErrInvalidConfig)
	}
	return &Components{
		cfg:     cfg,
		handler: NewInteractionHandler(learner, logger),
		logger:  logger.With().Str("component", "eventprocessor").Logger(),
	}, nil
}

// Handler returns the interaction handler, for stats.
func (c *Components) Handler() *InteractionHandler {
	return c.handler
}

// Publisher returns the publisher once Start has succeeded.
func (c *Components) Publisher() *Publisher {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publisher
}

// Start brings the pipeline up and returns once the router is consuming.
// On failure everything already started is torn down again.
func (c *Components) Start(ctx context.Context) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.router != nil {
		return errors.New("event processor already started")
	}
	defer func() {
		if err != nil {
			c.teardown(context.Background())
		}
	}()

	if c.cfg.EmbeddedServer {
		if c.server, err = NewEmbeddedServer(&c.cfg.Server); err != nil {
			return err
		}
		c.cfg.setURL(c.server.ClientURL())
		c.logger.Info().Str("url", c.server.ClientURL()).Msg("embedded NATS server started")
	}

	if c.conn, err = natsgo.Connect(c.cfg.URL, natsgo.Name("permahub-affinity-admin")); err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	js, err := jetstream.New(c.conn)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}
	streams, err := NewStreamInitializer(js, &c.cfg.Stream)
	if err != nil {
		return err
	}
	if _, err = streams.EnsureStream(ctx); err != nil {
		return err
	}

	wmLogger := logging.NewWatermillAdapter(c.logger)
	if c.publisher, err = NewPublisher(&c.cfg.Publisher, wmLogger); err != nil {
		return err
	}
	if c.subscriber, err = NewSubscriber(&c.cfg.Subscriber, wmLogger); err != nil {
		return err
	}
	if c.router, err = NewRouter(c.cfg.Router, c.publisher, wmLogger); err != nil {
		return err
	}
	c.router.AddConsumerHandler(consumerHandlerName, c.cfg.Subject, c.subscriber, c.handler.Handle)

	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	go func(r *Router, done chan struct{}) {
		defer close(done)
		if err := r.Run(runCtx); err != nil {
			c.logger.Error().Err(err).Msg("interaction router stopped")
		}
	}(c.router, c.done)

	select {
	case <-c.router.Running():
	case <-c.done:
		return errors.New("interaction router exited during startup")
	case <-ctx.Done():
		return ctx.Err()
	}

	c.logger.Info().
		Str("subject", c.cfg.Subject).
		Str("stream", c.cfg.Stream.Name).
		Str("poison_subject", c.cfg.PoisonSubject).
		Msg("interaction consumer running")
	return nil
}

// Shutdown stops the router and closes every connection.
func (c *Components) Shutdown(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardown(ctx)
	c.logger.Info().Msg("interaction consumer stopped")
}

// IsRunning reports whether the router is consuming.
func (c *Components) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.router != nil && c.router.IsRunning()
}

// teardown runs in reverse start order. c.mu must be held.
func (c *Components) teardown(ctx context.Context) {
	if c.router != nil {
		if err := c.router.Close(); err != nil {
			c.logger.Warn().Err(err).Msg("closing router")
		}
		c.cancel()
		select {
		case <-c.done:
		case <-ctx.Done():
		}
		c.router = nil
	}
	if c.subscriber != nil {
		if err := c.subscriber.Close(); err != nil {
			c.logger.Warn().Err(err).Msg("closing subscriber")
		}
		c.subscriber = nil
	}
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			c.logger.Warn().Err(err).Msg("closing publisher")
		}
		c.publisher = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	if c.server != nil {
		if err := c.server.Shutdown(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("stopping embedded NATS server")
		}
		c.server = nil
	}
}
