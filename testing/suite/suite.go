package suite

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	containerTTL = 120
	startTimeout = 120 * time.Second
)

const (
	redisImage = "redis"
	redisTag   = "alpine"
	redisPort  = "6379/tcp"
)

// Suite - shared fixtures for tests that need a real Redis.
type Suite struct {
	*testing.T
	Logger *slog.Logger

	Redis *redis.Client
}

// New - starts a throwaway Redis container and returns a client connected to it.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	t.Cleanup(cancel)

	return ctx, &Suite{
		T:      t,
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Redis:  startRedis(ctx, t),
	}
}

// Subscribe - subscribes to channel and waits for the server to confirm, so nothing published afterwards is missed.
func (that *Suite) Subscribe(ctx context.Context, channel string) <-chan *redis.Message {
	that.Helper()

	pubsub := that.Redis.Subscribe(ctx, channel)
	that.Cleanup(func() { _ = pubsub.Close() })

	if _, err := pubsub.Receive(ctx); err != nil {
		that.Fatalf("could not subscribe to %s: %v", channel, err)
	}

	return pubsub.Channel()
}

func startRedis(ctx context.Context, t *testing.T) *redis.Client {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not connect to docker: %v", err)
	}
	pool.MaxWait = startTimeout

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(host *docker.HostConfig) {
		host.AutoRemove = true
		host.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis container: %v", err)
	}

	_ = resource.Expire(containerTTL)

	purge := func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge redis container: %v", err)
		}
	}

	client := redis.NewClient(&redis.Options{Addr: resource.GetHostPort(redisPort)})

	if err = pool.Retry(func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		purge()
		t.Fatalf("redis never became ready: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
		purge()
	})

	return client
}
