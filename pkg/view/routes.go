package view

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/restbase/internal"
)

// RouteOption configures Routes.
type RouteOption func(*routeConfig)

type routeConfig struct {
	param string
	read  []internal.Middleware
	write []internal.Middleware
}

// WithPKParam names the path parameter of record routes. Default: "id".
func WithPKParam(name string) RouteOption {
	return func(c *routeConfig) {
		c.param = name
	}
}

// WithReadMiddleware wraps the list, detail and download routes.
func WithReadMiddleware(mw ...internal.Middleware) RouteOption {
	return func(c *routeConfig) {
		c.read = append(c.read, mw...)
	}
}

// WithWriteMiddleware wraps the create, update, delete and upload routes.
func WithWriteMiddleware(mw ...internal.Middleware) RouteOption {
	return func(c *routeConfig) {
		c.write = append(c.write, mw...)
	}
}

// Routes registers every capability v implements under prefix:
//
//	GET    {prefix}                 List
//	POST   {prefix}/search          ListWithPost
//	POST   {prefix}                 Create
//	GET    {prefix}/{id}            Detail
//	PUT    {prefix}/{id}            Update
//	PATCH  {prefix}/{id}            PartialUpdate
//	DELETE {prefix}/{id}            Delete
//	POST   {prefix}/{id}/upload     Upload
//	GET    {prefix}/{id}/download   Download
func Routes(r internal.Router, prefix string, v any, opts ...RouteOption) {
	cfg := &routeConfig{param: DefaultPKParam}
	for _, opt := range opts {
		opt(cfg)
	}

	base := strings.TrimSuffix(prefix, "/")
	collection := base
	if collection == "" {
		collection = "/"
	}
	item := base + "/{" + cfg.param + "}"

	if h, ok := v.(Listable); ok {
		r.Handle(http.MethodGet, collection, h.List(), cfg.read...)
	}
	if h, ok := v.(PostListable); ok {
		r.Handle(http.MethodPost, base+"/search", h.ListWithPost(), cfg.read...)
	}
	if h, ok := v.(Creatable); ok {
		r.Handle(http.MethodPost, collection, h.Create(), cfg.write...)
	}
	if h, ok := v.(Detailable); ok {
		r.Handle(http.MethodGet, item, h.Detail(), cfg.read...)
	}
	if h, ok := v.(Updatable); ok {
		r.Handle(http.MethodPut, item, h.Update(), cfg.write...)
	}
	if h, ok := v.(PartialUpdatable); ok {
		r.Handle(http.MethodPatch, item, h.PartialUpdate(), cfg.write...)
	}
	if h, ok := v.(Deletable); ok {
		r.Handle(http.MethodDelete, item, h.Delete(), cfg.write...)
	}
	if h, ok := v.(Uploadable); ok {
		r.Handle(http.MethodPost, item+"/upload", h.Upload(), cfg.write...)
	}
	if h, ok := v.(Downloadable); ok {
		r.Handle(http.MethodGet, item+"/download", h.Download(), cfg.read...)
	}
}
