package telemetry

import (
	"fmt"
	"log"
	"time"

	"github.com/senilio/gcfflasher-go/pkg/redis"
)

// redisSink publishes each Update as an HSet pipelined with a Publish,
// via pkg/redis.Client.WriteAndPublishFields. Every call here runs on a
// dedicated goroutine fed by a buffered channel so an unreachable Redis
// server can never stall the engine.
type redisSink struct {
	client  *redis.Client
	key     string
	channel string
	log     *log.Logger

	updates chan Update
	done    chan struct{}
}

// NewRedis dials addr and returns a Sink that publishes every Update to
// a Redis hash (key "gcfflasher") and a pub/sub channel of the same
// name. On dial failure it logs and falls back to NoOp rather than
// making telemetry a hard dependency of flashing.
func NewRedis(addr, password string, db int, logger *log.Logger) Sink {
	if logger == nil {
		logger = log.Default()
	}
	client, err := redis.New(addr, password, db)
	if err != nil {
		logger.Printf("telemetry: redis unreachable at %s, falling back to no-op: %v", addr, err)
		return NoOp()
	}
	s := &redisSink{
		client:  client,
		key:     "gcfflasher",
		channel: "gcfflasher",
		log:     logger,
		updates: make(chan Update, 32),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *redisSink) run() {
	defer close(s.done)
	for u := range s.updates {
		s.publishOnce(u)
	}
}

func (s *redisSink) publishOnce(u Update) {
	fields := map[string]string{
		"state":  u.State,
		"task":   u.Task,
		"device": u.DevicePath,
	}
	msg := fmt.Sprintf("%s:%s:%s", u.State, u.Task, u.Detail)
	if err := s.client.WriteAndPublishFields(s.key, fields, s.channel, msg); err != nil {
		s.log.Printf("telemetry: redis publish failed: %v", err)
	}
}

// Publish enqueues u for the background goroutine. If the buffer is
// full the update is dropped rather than blocking the engine -- losing
// an intermediate telemetry point is harmless; stalling a flash is not.
func (s *redisSink) Publish(u Update) {
	select {
	case s.updates <- u:
	default:
		s.log.Printf("telemetry: update channel full, dropping %s/%s", u.State, u.Task)
	}
}

// Close drains the channel and waits briefly for the background
// goroutine to flush, then closes the client.
func (s *redisSink) Close() {
	close(s.updates)
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
	}
	s.client.Close()
}
