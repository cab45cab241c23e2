// Package cache holds the caches behind the read-through repository
// decorator in pkg/store.
//
// [NewMemory] keeps entries in process and suits tests and single-instance
// deployments. [NewRedis] stores JSON values under a key prefix; several
// caches may share one database as long as their prefixes differ:
//
//	client, err := redis.Connect(ctx, redis.Config{URL: os.Getenv("REDIS_URL")})
//	posts := cache.NewRedis[Post](client, cache.WithPrefix("blog:posts"))
//
// [Load] fills a missing entry once per cache and key, however many
// requests miss together. Loader errors are never cached, so a
// store.ErrNotFound is looked up again on the next request.
package cache
