// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package eventprocessor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/permahub-affinity/internal/preference"
)

const (
	testTopic   = "interactions.recorded"
	poisonTopic = "interactions.poison"
)

type pipeline struct {
	pubsub  *gochannel.GoChannel
	poison  <-chan *message.Message
	handler *InteractionHandler
}

func startPipeline(t *testing.T, learner Learner) *pipeline {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	pubsub := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubsub.Close() })

	poison, err := pubsub.Subscribe(ctx, poisonTopic)
	if err != nil {
		t.Fatal(err)
	}

	router, err := NewRouter(RouterConfig{
		CloseTimeout:         time.Second,
		RetryMaxRetries:      2,
		RetryInitialInterval: time.Millisecond,
		RetryMaxInterval:     5 * time.Millisecond,
		RetryMultiplier:      1.5,
		PoisonTopic:          poisonTopic,
	}, pubsub, nil)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	handler := NewInteractionHandler(learner, zerolog.Nop())
	router.AddConsumerHandler("test-learner", testTopic, pubsub, handler.Handle)

	go func() { _ = router.Run(ctx) }()
	t.Cleanup(func() { _ = router.Close() })

	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
	return &pipeline{pubsub: pubsub, poison: poison, handler: handler}
}

func (p *pipeline) publish(t *testing.T, payload []byte) {
	t.Helper()
	if err := p.pubsub.Publish(testTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
}

func (p *pipeline) expectPoison(t *testing.T) *message.Message {
	t.Helper()
	select {
	case msg := <-p.poison:
		msg.Ack()
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("no message reached the poison queue")
		return nil
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRouter_LearnsValidEvent(t *testing.T) {
	t.Parallel()
	learner := &scriptedLearner{}
	p := startPipeline(t, learner)

	p.publish(t, validPayload())

	waitFor(t, "event learned", func() bool { return p.handler.Stats().Learned == 1 })
	if got := learner.calls(); got != 1 {
		t.Errorf("learner calls = %d, want 1", got)
	}
	select {
	case msg := <-p.poison:
		t.Errorf("unexpected poison message %s", msg.UUID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRouter_RetriesTransientFailures(t *testing.T) {
	t.Parallel()
	unavailable := errors.New("connection reset")
	learner := &scriptedLearner{errs: []error{unavailable, unavailable}}
	p := startPipeline(t, learner)

	p.publish(t, validPayload())

	waitFor(t, "event learned after retries", func() bool { return p.handler.Stats().Learned == 1 })
	if got := learner.calls(); got != 3 {
		t.Errorf("learner calls = %d, want 3", got)
	}
}

func TestRouter_PoisonsAfterRetriesExhausted(t *testing.T) {
	t.Parallel()
	learner := &scriptedLearner{always: preference.ErrDataUnavailable}
	p := startPipeline(t, learner)

	p.publish(t, validPayload())

	msg := p.expectPoison(t)
	if got := learner.calls(); got != 3 {
		t.Errorf("learner calls = %d, want 1 attempt + 2 retries", got)
	}
	if msg.Metadata.Get(middleware.PoisonedTopicKey) != testTopic {
		t.Errorf("poisoned topic = %q", msg.Metadata.Get(middleware.PoisonedTopicKey))
	}
}

func TestRouter_PermanentFailuresSkipRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		learner    *scriptedLearner
		payload    []byte
		wantCalls  int
		wantReason string
	}{
		{
			name:       "malformed payload",
			learner:    &scriptedLearner{},
			payload:    []byte("not json"),
			wantCalls:  0,
			wantReason: "invalid interaction",
		},
		{
			name:       "unknown user",
			learner:    &scriptedLearner{always: preference.ErrNotFound},
			payload:    validPayload(),
			wantCalls:  1,
			wantReason: "unknown user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := startPipeline(t, tt.learner)

			p.publish(t, tt.payload)

			msg := p.expectPoison(t)
			if got := tt.learner.calls(); got != tt.wantCalls {
				t.Errorf("learner calls = %d, want %d", got, tt.wantCalls)
			}
			if reason := msg.Metadata.Get(middleware.ReasonForPoisonedKey); !strings.Contains(reason, tt.wantReason) {
				t.Errorf("poison reason = %q, want it to mention %q", reason, tt.wantReason)
			}
		})
	}
}

func TestRouter_RecoversFromPanics(t *testing.T) {
	t.Parallel()
	learner := &scriptedLearner{panics: true}
	p := startPipeline(t, learner)

	p.publish(t, validPayload())

	p.expectPoison(t)
	if got := learner.calls(); got != 3 {
		t.Errorf("learner calls = %d, want 3", got)
	}
}

func TestDefaultRouterConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultRouterConfig()
	if cfg.RetryMaxRetries != 3 || cfg.RetryMultiplier != 2.0 {
		t.Errorf("retry = %d x%.1f", cfg.RetryMaxRetries, cfg.RetryMultiplier)
	}
	if cfg.ThrottlePerSecond != 0 {
		t.Errorf("ThrottlePerSecond = %d, want disabled", cfg.ThrottlePerSecond)
	}
	if cfg.PoisonTopic != poisonTopic {
		t.Errorf("PoisonTopic = %q", cfg.PoisonTopic)
	}
}
