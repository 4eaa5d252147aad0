package mock

import (
	"context"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type Redis struct {
	Server *miniredis.Miniredis
	Client *redis.Client
}

// NewRedis starts an in-process Redis server and a client bound to it.
func NewRedis() (*Redis, error) {
	server, err := miniredis.Run()
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(
		&redis.Options{
			Addr: server.Addr(),
		},
	)

	return &Redis{Server: server, Client: client}, nil
}

func (r *Redis) Clear(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}

func (r *Redis) Close() {
	_ = r.Client.Close()
	r.Server.Close()
}
