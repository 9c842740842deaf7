// Package redis wraps github.com/redis/go-redis/v9 behind the narrow
// publish surface gcfflasher's telemetry sink needs: a hash write plus
// a pub/sub fanout in one pipelined round trip.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client is a thin, pipelined wrapper over a go-redis client.
type Client struct {
	client *redis.Client
	ctx    context.Context
}

// New dials addr and pings it, returning an error if the server is
// unreachable rather than deferring the failure to the first write.
func New(addr string, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: connect to %s: %w", addr, err)
	}

	return &Client{
		client: client,
		ctx:    ctx,
	}, nil
}

// WriteAndPublishFields HSets each field of key and publishes message on
// channel, all in one pipelined round trip.
func (c *Client) WriteAndPublishFields(key string, fields map[string]string, channel, message string) error {
	pipe := c.client.Pipeline()
	for field, value := range fields {
		pipe.HSet(c.ctx, key, field, value)
	}
	pipe.Publish(c.ctx, channel, message)
	_, err := pipe.Exec(c.ctx)
	return err
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}
