package filehandler

import (
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/restbase/pkg/exception"
)

// DefaultURLField is the body key RemoteParser reads by default.
const DefaultURLField = "url"

// RemoteParser downloads the file at the URL given in the request body.
type RemoteParser struct {
	Field  string
	Client *http.Client // default: http.DefaultClient
}

// Parse validates the URL. The download starts on first iteration and is
// bound to the request context; a non-2xx answer yields ErrRemoteStatus.
func (p RemoteParser) Parse(c Request) (iter.Seq2[[]byte, error], error) {
	field := p.Field
	if field == "" {
		field = DefaultURLField
	}

	body, err := c.BodyParams()
	if err != nil {
		return nil, err
	}
	raw, _ := body[field].(string)
	if raw == "" {
		return nil, exception.BodyParameterMissing(field)
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	ctx := c.Context()

	return chunks(func() (io.ReadCloser, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("download %s: %w", u.Redacted(), err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("%w: %d from %s", ErrRemoteStatus, resp.StatusCode, u.Redacted())
		}
		return resp.Body, nil
	}), nil
}
