// Package restbase provides the building blocks of JSON REST services that
// answer every request with a uniform envelope:
//
//	{"data": ..., "msg": null, "code": 0}
//
// The code is 0 on success and a numeric status from pkg/status otherwise.
// Handlers return errors; the Exception middleware turns them into
// envelopes, so a handler never formats a failure itself.
//
// # Quick Start
//
//	cfg, err := config.New(config.WithFile("config.yaml", true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	posts := &view.Resource[Post]{
//	    Repository: store.NewMemory[Post](store.WithTimestamps()),
//	    Schema:     schema.For[PostInput](),
//	}
//
//	app := restbase.New(
//	    restbase.WithLogger("blog", middlewares.RequestIDExtractor()),
//	    restbase.WithFieldNames(cfg.Response),
//	    restbase.WithIdentity(tokens.Identity),
//	    restbase.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Exception(cfg.ExceptionOptions()...),
//	        middlewares.Recover(),
//	    ),
//	    restbase.WithHandlers(blogRoutes(posts, cfg)),
//	    restbase.WithHealthChecks(restbase.WithReadinessCheck("db", db.Healthcheck(pool))),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Handlers
//
// Handlers implement [Handler] to declare routes, or use view.Routes for
// generic CRUD:
//
//	func (h *BlogHandler) Routes(r restbase.Router) {
//	    r.GET("/blogs/{id}", h.detail)
//	    r.POST("/blogs/{id}/publish", h.publish,
//	        middlewares.SuperuserRequired(h.guard),
//	        middlewares.PathParams("id"),
//	    )
//	}
//
//	func (h *BlogHandler) publish(c restbase.Context) error {
//	    post, err := h.posts.Update(c, c.Param("id"), map[string]any{"published": true})
//	    if err != nil {
//	        return err
//	    }
//	    return c.Respond(response.OK(post))
//	}
//
// # Middleware
//
// Global middleware, group middleware, route middleware and the handler
// share one [Context] per request, and a handler's error travels back up the
// chain as the return value of next. Route middleware runs in the order
// listed.
//
// # Identity
//
// WithIdentity installs the resolver behind Context.Identity. The access
// guards in the middlewares package only ask whether the identity is
// authenticated and whether it is a superuser.
//
// # Packages
//
//   - pkg/status, pkg/exception: status codes and the errors carrying them
//   - pkg/response: the envelope and value serialization
//   - pkg/filter, pkg/view: filter backends and generic CRUD handlers
//   - pkg/schema, pkg/validator, pkg/sanitizer: payload validation
//   - pkg/store, pkg/db, pkg/cache, pkg/redis: persistence
//   - pkg/storage, pkg/filehandler: file uploads to S3 or MinIO
//   - pkg/config, pkg/logger, pkg/health, pkg/id: ambient support
package restbase
