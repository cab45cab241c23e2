package response

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/restbase/pkg/status"
)

// FieldNames holds the wire names of envelope fields.
type FieldNames struct {
	Data    string `yaml:"data" env:"RESPONSE_DATA_FIELD" envDefault:"data"`
	Message string `yaml:"msg" env:"RESPONSE_MESSAGE_FIELD" envDefault:"msg"`
	Code    string `yaml:"code" env:"RESPONSE_CODE_FIELD" envDefault:"code"`
	List    string `yaml:"list" env:"RESPONSE_PAGINATED_LIST_FIELD" envDefault:"list"`
	Count   string `yaml:"count" env:"RESPONSE_PAGINATED_COUNT_FIELD" envDefault:"count"`
}

// DefaultFieldNames returns data/msg/code and list/count.
func DefaultFieldNames() FieldNames {
	return FieldNames{
		Data:    "data",
		Message: "msg",
		Code:    "code",
		List:    "list",
		Count:   "count",
	}
}

// WithDefaults fills empty names with defaults.
func (n FieldNames) WithDefaults() FieldNames {
	d := DefaultFieldNames()
	if n.Data == "" {
		n.Data = d.Data
	}
	if n.Message == "" {
		n.Message = d.Message
	}
	if n.Code == "" {
		n.Code = d.Code
	}
	if n.List == "" {
		n.List = d.List
	}
	if n.Count == "" {
		n.Count = d.Count
	}
	return n
}

// Envelope is the uniform response structure.
// Code is status.Success.Value if and only if the operation succeeded.
type Envelope struct {
	Data any
	Msg  *string
	Code int
}

// Page is the data payload of a paginated envelope.
// Count is the total number of matching records, not the page length.
type Page struct {
	List  []any
	Count int
}

// Paginator exposes one page of items and the total across all pages.
type Paginator interface {
	Items() []any
	Total() int
}

// Option modifies an envelope built by OK.
type Option func(*Envelope)

// WithMessage sets the msg field.
func WithMessage(msg string) Option {
	return func(e *Envelope) {
		e.Msg = &msg
	}
}

// WithCode overrides the success code.
func WithCode(code int) Option {
	return func(e *Envelope) {
		e.Code = code
	}
}

// OK wraps a serialized value with the success code.
func OK(v any, opts ...Option) Envelope {
	e := Envelope{Data: Serialize(v), Code: status.Success.Value}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Fail builds an error envelope with null data.
func Fail(msg string, code int) Envelope {
	return Envelope{Msg: &msg, Code: code}
}

// Paginated builds a success envelope whose data is {list, count}.
// items must be a slice; each element is serialized.
func Paginated(items any, count int, opts ...Option) Envelope {
	list, _ := Serialize(items).([]any)
	if list == nil {
		list = []any{}
	}
	e := OK(nil, opts...)
	e.Data = Page{List: list, Count: count}
	return e
}

// FromPaginator builds a paginated envelope from p. Count is p.Total().
func FromPaginator(p Paginator, opts ...Option) Envelope {
	return Paginated(p.Items(), p.Total(), opts...)
}

// Map renders the envelope with the given field names.
func (e Envelope) Map(names FieldNames) map[string]any {
	names = names.WithDefaults()

	var data any = e.Data
	if p, ok := e.Data.(Page); ok {
		data = map[string]any{
			names.List:  p.List,
			names.Count: p.Count,
		}
	}

	var msg any
	if e.Msg != nil {
		msg = *e.Msg
	}

	return map[string]any{
		names.Data:    data,
		names.Message: msg,
		names.Code:    e.Code,
	}
}

// Succeeded reports whether the envelope carries the success code.
func (e Envelope) Succeeded() bool {
	return e.Code == status.Success.Value
}

// Write encodes the envelope as JSON with the given status.
func Write(w http.ResponseWriter, code int, e Envelope, names FieldNames) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(e.Map(names))
}
