package filehandler

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"

	"github.com/dmitrymomot/restbase/pkg/exception"
)

// DefaultFileField is the multipart field StreamParser reads by default.
const DefaultFileField = "file"

// StreamParser reads the file posted in a multipart form field.
type StreamParser struct {
	Field string
}

// Parse fails with BodyParameterMissing when the field holds no file.
func (p StreamParser) Parse(c Request) (iter.Seq2[[]byte, error], error) {
	field := p.Field
	if field == "" {
		field = DefaultFileField
	}

	f, fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, exception.BodyParameterMissing(field)
	}
	if err != nil {
		return nil, fmt.Errorf("read form file %q: %w", field, err)
	}
	_ = f.Close()

	return chunks(func() (io.ReadCloser, error) {
		return fh.Open()
	}), nil
}
