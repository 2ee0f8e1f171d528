package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/stakes/go/internal/events"
	"github.com/mcdev12/stakes/go/internal/outbox"
)

type JetStreamConsumerConfig struct {
	URL               string
	StreamName        string
	ConsumerName      string        // Prefix; each process appends its own id
	SubjectFilter     string        // e.g., "game.events.>"
	MaxDeliver        int           // Max delivery attempts
	AckWait           time.Duration // How long to wait for ack
	MaxAckPending     int
	InactiveThreshold time.Duration // Removes consumers of gateways that died without Stop
	MaxReconnects     int
	ReconnectWait     time.Duration
}

func DefaultJetStreamConsumerConfig() JetStreamConsumerConfig {
	return JetStreamConsumerConfig{
		URL:               nats.DefaultURL,
		StreamName:        "GAME_EVENTS",
		ConsumerName:      "game-gateway",
		SubjectFilter:     events.DefaultSubjectPrefix + ".>",
		MaxDeliver:        5,
		AckWait:           30 * time.Second,
		MaxAckPending:     100,
		InactiveThreshold: 5 * time.Minute,
		MaxReconnects:     -1, // Infinite
		ReconnectWait:     2 * time.Second,
	}
}

// Broadcaster fans an event out to the watchers of a game
type Broadcaster interface {
	BroadcastToGame(gameID uuid.UUID, event *GameEvent)
}

// EventConsumer consumes game events from JetStream and broadcasts them to WebSocket clients
type EventConsumer struct {
	broadcaster Broadcaster
	nc          *nats.Conn
	js          jetstream.JetStream
	stream      jetstream.Stream
	consumer    jetstream.Consumer
	name        string
	config      JetStreamConsumerConfig
}

func NewEventConsumer(broadcaster Broadcaster, config JetStreamConsumerConfig) (*EventConsumer, error) {
	opts := []nats.Option{
		nats.Name("stakes-gateway"),
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	ec := &EventConsumer{
		broadcaster: broadcaster,
		nc:          nc,
		js:          js,
		name:        instanceConsumerName(config.ConsumerName),
		config:      config,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ec.ensureConsumer(ctx); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure consumer: %w", err)
	}

	return ec, nil
}

// instanceConsumerName gives each gateway process its own durable consumer.
// Instances sharing one durable would split the stream between them.
func instanceConsumerName(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func consumerConfig(name string, cfg JetStreamConsumerConfig) jetstream.ConsumerConfig {
	return jetstream.ConsumerConfig{
		Name:              name,
		Durable:           name,
		Description:       "Game gateway WebSocket consumer",
		FilterSubject:     cfg.SubjectFilter,
		DeliverPolicy:     jetstream.DeliverNewPolicy, // Clients only care about what happens from now on
		AckPolicy:         jetstream.AckExplicitPolicy,
		MaxDeliver:        cfg.MaxDeliver,
		AckWait:           cfg.AckWait,
		MaxAckPending:     cfg.MaxAckPending,
		ReplayPolicy:      jetstream.ReplayInstantPolicy,
		InactiveThreshold: cfg.InactiveThreshold,
	}
}

func (ec *EventConsumer) ensureConsumer(ctx context.Context) error {
	stream, err := ec.js.Stream(ctx, ec.config.StreamName)
	if errors.Is(err, jetstream.ErrStreamNotFound) {
		// The relay has not run yet; create the stream the way it would.
		streamCfg := outbox.DefaultJetStreamConfig()
		streamCfg.StreamName = ec.config.StreamName
		stream, err = ec.js.CreateStream(ctx, outbox.StreamConfig(streamCfg))
	}
	if err != nil {
		return fmt.Errorf("get stream: %w", err)
	}

	consumer, err := stream.CreateOrUpdateConsumer(ctx, consumerConfig(ec.name, ec.config))
	if err != nil {
		return fmt.Errorf("create consumer: %w", err)
	}

	log.Info().
		Str("consumer", ec.name).
		Str("stream", ec.config.StreamName).
		Msg("JetStream consumer ready")

	ec.stream = stream
	ec.consumer = consumer
	return nil
}

// Start consumes until ctx is cancelled
func (ec *EventConsumer) Start(ctx context.Context) error {
	log.Info().
		Str("consumer", ec.name).
		Str("stream", ec.config.StreamName).
		Msg("starting JetStream event consumer")

	consumeCtx, err := ec.consumer.Consume(func(msg jetstream.Msg) {
		if err := ec.handleData(msg.Data()); err != nil {
			log.Error().
				Err(err).
				Str("subject", msg.Subject()).
				Msg("failed to process message")
			// Malformed events will never succeed, so drop them.
			if termErr := msg.Term(); termErr != nil {
				log.Error().Err(termErr).Msg("failed to TERM message")
			}
			return
		}
		if ackErr := msg.Ack(); ackErr != nil {
			log.Error().Err(ackErr).Msg("failed to ACK message")
		}
	})
	if err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}
	defer consumeCtx.Stop()

	<-ctx.Done()
	log.Info().Msg("event consumer shutting down")
	return nil
}

// handleData decodes one envelope and broadcasts it
func (ec *EventConsumer) handleData(data []byte) error {
	var env events.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("unmarshal event envelope: %w", err)
	}

	event, gameID, err := eventFromEnvelope(env)
	if err != nil {
		return fmt.Errorf("convert to WebSocket event: %w", err)
	}
	if _, err := ParseEventPayload(event); err != nil {
		return fmt.Errorf("decode %s payload: %w", event.Type, err)
	}

	ec.broadcaster.BroadcastToGame(gameID, event)

	log.Debug().
		Str("event_id", env.EventID).
		Str("game_id", env.GameID).
		Str("event_type", env.EventType).
		Msg("event broadcasted to WebSocket clients")
	return nil
}

func (ec *EventConsumer) Stop() error {
	log.Info().Str("consumer", ec.name).Msg("stopping event consumer")
	if ec.stream != nil && ec.nc != nil && ec.nc.IsConnected() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ec.stream.DeleteConsumer(ctx, ec.name); err != nil {
			log.Warn().Err(err).Str("consumer", ec.name).Msg("failed to delete consumer")
		}
	}
	if ec.nc != nil {
		ec.nc.Close()
	}
	return nil
}

// Connected reports whether the NATS connection is up
func (ec *EventConsumer) Connected() bool {
	return ec.nc != nil && ec.nc.IsConnected()
}
