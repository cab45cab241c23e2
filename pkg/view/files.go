package view

import (
	"io"
	"mime"
	"net/http"

	"github.com/dmitrymomot/restbase/internal"
	"github.com/dmitrymomot/restbase/pkg/filehandler"
	"github.com/dmitrymomot/restbase/pkg/response"
	"github.com/dmitrymomot/restbase/pkg/storage"
)

// UploadView stores a parsed file and lets Save record where it went.
// Every field is required; a view missing one answers ErrNotImplemented.
type UploadView struct {
	Parser   filehandler.Parser
	Uploader filehandler.Uploader

	// Save persists the stored key, e.g. on the owning record, and returns
	// the envelope data.
	Save func(c internal.Context, key string) (any, error)
}

// Upload implements Uploadable.
func (v UploadView) Upload() internal.HandlerFunc {
	return func(c internal.Context) error {
		if v.Parser == nil || v.Uploader == nil || v.Save == nil {
			return ErrNotImplemented
		}
		chunks, err := v.Parser.Parse(c)
		if err != nil {
			return err
		}
		key, err := filehandler.Store(c, v.Uploader, "", chunks)
		if err != nil {
			return err
		}
		data, err := v.Save(c, key)
		if err != nil {
			return err
		}
		return c.Respond(response.OK(data))
	}
}

// DownloadView streams a stored file. Every field is required except
// Filename; a view missing one answers ErrNotImplemented.
type DownloadView struct {
	Loader filehandler.Loader

	// Load resolves the storage key of the requested file.
	Load func(c internal.Context) (string, error)

	// Filename, when set, is sent as an attachment name.
	Filename func(key string) string
}

// Download implements Downloadable.
func (v DownloadView) Download() internal.HandlerFunc {
	return func(c internal.Context) error {
		if v.Loader == nil || v.Load == nil {
			return ErrNotImplemented
		}
		key, err := v.Load(c)
		if err != nil {
			return err
		}
		rc, err := v.Loader.Load(c, key)
		if err != nil {
			return err
		}
		defer rc.Close()

		contentType, body := storage.DetectContentType(rc)
		c.SetHeader("Content-Type", contentType)
		if v.Filename != nil {
			c.SetHeader("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
				"filename": v.Filename(key),
			}))
		}
		c.ResponseWriter().WriteHeader(http.StatusOK)
		_, err = io.Copy(c.Response(), body)
		return err
	}
}
