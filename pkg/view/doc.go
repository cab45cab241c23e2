// Package view provides generic CRUD handlers over a store.Repository.
//
// A Resource answers every operation with an envelope:
//
//	posts := &view.Resource[Post]{
//	    Repository: store.NewPostgres[Post](pool, "posts", "id"),
//	    Schema:     schema.For[PostInput](),
//	    Exclude:    []string{"content"},
//	}
//	view.Routes(r, "/blogs", posts,
//	    view.WithWriteMiddleware(middlewares.SuperuserRequired(cfg.Guard())),
//	)
//
// List and ListWithPost paginate with the size and page query parameters
// and answer {list, count}, count being the number of matches. size=0
// returns every match unpaginated. Records are resolved by the primary key
// in the path, or in the query string when the route has none; a missing
// record surfaces as store.ErrNotFound and an invalid payload as
// validator.ValidationErrors.
//
// PartialUpdate validates the current record overlaid with the body, so
// omitted fields keep their values. Upload and Download answer
// ErrNotImplemented until their hooks are set.
package view
