// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/tomtom215/permahub-affinity/internal/config"
)

// Config is the fully resolved ingestion configuration.
type Config struct {
	// URL is the NATS server. It is replaced by the embedded server's client
	// URL when EmbeddedServer is set.
	URL            string
	EmbeddedServer bool
	Server         ServerConfig

	Subject       string
	PoisonSubject string

	Stream     StreamConfig
	Subscriber SubscriberConfig
	Publisher  PublisherConfig
	Router     RouterConfig
}

// ServerConfig holds embedded NATS server settings.
type ServerConfig struct {
	Host              string
	Port              int
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// StreamConfig describes the JetStream stream holding interaction events.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	DuplicateWindow time.Duration
	Replicas        int
}

// PublisherConfig holds publisher connection settings.
type PublisherConfig struct {
	URL             string
	MaxReconnects   int
	ReconnectWait   time.Duration
	ReconnectBuffer int
	TrackMsgID      bool
}

// SubscriberConfig holds durable consumer settings.
type SubscriberConfig struct {
	URL              string
	DurableName      string
	QueueGroup       string
	StreamName       string
	SubscribersCount int
	AckWaitTimeout   time.Duration
	MaxDeliver       int
	MaxAckPending    int
	CloseTimeout     time.Duration
	MaxReconnects    int
	ReconnectWait    time.Duration
}

// RouterConfig holds Watermill router settings.
type RouterConfig struct {
	CloseTimeout time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	// ThrottlePerSecond caps handled messages per second; 0 disables it.
	ThrottlePerSecond int64

	PoisonTopic string
}

// DefaultRouterConfig returns production router defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 500 * time.Millisecond,
		RetryMaxInterval:     30 * time.Second,
		RetryMultiplier:      2.0,
		PoisonTopic:          "interactions.poison",
	}
}

// FromConfig resolves the service configuration section into a Config.
func FromConfig(c *config.NATSConfig) Config {
	router := DefaultRouterConfig()
	router.RetryMaxRetries = c.MaxRetries
	router.ThrottlePerSecond = c.ThrottlePerSecond
	router.PoisonTopic = c.PoisonSubject

	subjects := []string{c.Subject}
	if c.PoisonSubject != "" && c.PoisonSubject != c.Subject {
		subjects = append(subjects, c.PoisonSubject)
	}

	return Config{
		URL:            c.URL,
		EmbeddedServer: c.EmbeddedServer,
		Server: ServerConfig{
			Host:              "127.0.0.1",
			Port:              4222,
			StoreDir:          c.StoreDir,
			JetStreamMaxMem:   256 << 20,
			JetStreamMaxStore: 4 << 30,
		},
		Subject:       c.Subject,
		PoisonSubject: c.PoisonSubject,
		Stream: StreamConfig{
			Name:            c.StreamName,
			Subjects:        subjects,
			MaxAge:          7 * 24 * time.Hour,
			MaxBytes:        2 << 30,
			DuplicateWindow: 2 * time.Minute,
			Replicas:        1,
		},
		Subscriber: SubscriberConfig{
			URL:              c.URL,
			DurableName:      c.DurableName,
			QueueGroup:       c.QueueGroup,
			StreamName:       c.StreamName,
			SubscribersCount: c.SubscribersCount,
			AckWaitTimeout:   c.AckWait,
			MaxDeliver:       c.MaxDeliver,
			MaxAckPending:    1000,
			CloseTimeout:     30 * time.Second,
			MaxReconnects:    -1,
			ReconnectWait:    2 * time.Second,
		},
		Publisher: PublisherConfig{
			URL:             c.URL,
			MaxReconnects:   -1,
			ReconnectWait:   2 * time.Second,
			ReconnectBuffer: 8 << 20,
			TrackMsgID:      true,
		},
		Router: router,
	}
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	if c.URL == "" && !c.EmbeddedServer {
		return fmt.Errorf("%w: a NATS URL or the embedded server is required", ErrInvalidConfig)
	}
	if c.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidConfig)
	}
	if c.Stream.Name == "" {
		return fmt.Errorf("%w: stream name is required", ErrInvalidConfig)
	}
	if c.Subscriber.SubscribersCount <= 0 {
		return fmt.Errorf("%w: subscribers count must be positive", ErrInvalidConfig)
	}
	if c.Router.RetryMaxRetries < 0 {
		return fmt.Errorf("%w: retry count must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// setURL points every client at url.
func (c *Config) setURL(url string) {
	c.URL = url
	c.Subscriber.URL = url
	c.Publisher.URL = url
}
