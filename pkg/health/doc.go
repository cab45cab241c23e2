// Package health serves the liveness and readiness probes.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "postgres": db.Healthcheck(pool),
//	    "redis":    redis.Healthcheck(client),
//	}, health.WithTimeout(3*time.Second)))
//
// Readiness checks run concurrently under one timeout. Probes get "OK" or
// "Service Unavailable"; ?format=json returns the per-check [Report]:
//
//	{"status":"unhealthy","checks":{"postgres":{"status":"healthy"},"redis":{"status":"unhealthy","error":"..."}}}
package health
