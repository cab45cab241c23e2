package filehandler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/dmitrymomot/restbase/pkg/storage"
)

// Uploader persists a file and returns the key it can be loaded by.
// An empty key lets the uploader choose one. A negative size means unknown.
type Uploader interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64) (string, error)
}

// Loader opens a previously uploaded file. The caller closes the reader.
type Loader interface {
	Load(ctx context.Context, key string) (io.ReadCloser, error)
}

// StorageUploader stores files in object storage.
type StorageUploader struct {
	Storage storage.Storage
	Prefix  string // prefix of generated keys
}

func (u StorageUploader) Upload(ctx context.Context, key string, r io.Reader, size int64) (string, error) {
	if u.Storage == nil {
		return "", storage.ErrNotConfigured
	}
	opt := storage.WithPrefix(u.Prefix)
	if key != "" {
		opt = storage.WithKey(key)
	}
	obj, err := u.Storage.Put(ctx, r, size, opt)
	if err != nil {
		return "", err
	}
	return obj.Key, nil
}

func (u StorageUploader) Load(ctx context.Context, key string) (io.ReadCloser, error) {
	if u.Storage == nil {
		return nil, storage.ErrNotConfigured
	}
	return u.Storage.Get(ctx, key)
}

// Store streams chunks to the uploader with an unknown size.
func Store(ctx context.Context, u Uploader, key string, seq iter.Seq2[[]byte, error]) (string, error) {
	r := NewReader(seq)
	defer r.Close()
	return u.Upload(ctx, key, r, -1)
}

// Collect drains seq into memory. A positive limit caps the total size.
func Collect(seq iter.Seq2[[]byte, error], limit int) ([]byte, error) {
	var buf bytes.Buffer
	for chunk, err := range seq {
		if err != nil {
			return nil, err
		}
		if limit > 0 && buf.Len()+len(chunk) > limit {
			return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
		}
		buf.Write(chunk)
	}
	return buf.Bytes(), nil
}

// NewReader exposes a chunk sequence as an io.ReadCloser. Closing it
// stops the sequence.
func NewReader(seq iter.Seq2[[]byte, error]) io.ReadCloser {
	next, stop := iter.Pull2(seq)
	return &seqReader{next: next, stop: stop}
}

type seqReader struct {
	next func() ([]byte, error, bool)
	stop func()
	buf  []byte
	err  error
}

func (r *seqReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		chunk, err, ok := r.next()
		switch {
		case !ok:
			r.err = io.EOF
		case err != nil:
			r.err = err
		default:
			r.buf = chunk
		}
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

func (r *seqReader) Close() error {
	r.stop()
	if r.err == nil {
		r.err = io.ErrClosedPipe
	}
	return nil
}
