package view

import (
	"github.com/dmitrymomot/restbase/internal"
)

const (
	DefaultPKField   = "id"
	DefaultPKParam   = "id"
	DefaultSizeParam = "size"
	DefaultPageParam = "page"
	DefaultPageSize  = 10
	DefaultOrdering  = "-create_at"
)

// Listable serves a filtered, paginated collection.
type Listable interface {
	List() internal.HandlerFunc
}

// PostListable serves List with filters read from the request body.
type PostListable interface {
	ListWithPost() internal.HandlerFunc
}

// Detailable serves one record.
type Detailable interface {
	Detail() internal.HandlerFunc
}

// Creatable validates a payload and stores a new record.
type Creatable interface {
	Create() internal.HandlerFunc
}

// Updatable replaces a record with a validated payload.
type Updatable interface {
	Update() internal.HandlerFunc
}

// PartialUpdatable changes the supplied fields of a record.
type PartialUpdatable interface {
	PartialUpdate() internal.HandlerFunc
}

// Deletable removes a record.
type Deletable interface {
	Delete() internal.HandlerFunc
}

// Uploadable accepts a file.
type Uploadable interface {
	Upload() internal.HandlerFunc
}

// Downloadable serves a file.
type Downloadable interface {
	Download() internal.HandlerFunc
}
