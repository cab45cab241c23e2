package filehandler

import (
	"context"
	"io"
	"iter"
	"mime/multipart"
)

// ChunkSize is the maximum size of a chunk yielded by the parsers.
const ChunkSize = 64 << 10

// Request is the part of the request context parsers read from.
type Request interface {
	Context() context.Context
	FormFile(name string) (multipart.File, *multipart.FileHeader, error)
	BodyParams() (map[string]any, error)
}

// Parser extracts a file from a request as a sequence of chunks.
// A chunk yielded together with a non-nil error is nil and ends the sequence.
type Parser interface {
	Parse(c Request) (iter.Seq2[[]byte, error], error)
}

// chunks reads r in ChunkSize pieces. open is called on first iteration
// and the reader is closed when iteration stops.
func chunks(open func() (io.ReadCloser, error)) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		r, err := open()
		if err != nil {
			yield(nil, err)
			return
		}
		defer r.Close()

		for {
			buf := make([]byte, ChunkSize)
			n, err := io.ReadFull(r, buf)
			if n > 0 && !yield(buf[:n], nil) {
				return
			}
			switch err {
			case nil:
			case io.EOF, io.ErrUnexpectedEOF:
				return
			default:
				yield(nil, err)
				return
			}
		}
	}
}
