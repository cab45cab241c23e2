// Package redis connects the go-redis client used by the Redis cache
// backend.
//
//	var cfg redis.Config
//	_ = env.Parse(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	posts := cache.NewRedis[Post](client, cache.WithPrefix("blog:posts"))
//
// [Healthcheck] plugs into the readiness probe and [Shutdown] into the
// server shutdown hooks.
package redis
