// Package storage keeps uploaded files in S3 or on a MinIO server.
//
// Both backends implement [Storage]. Generated keys are
// "{prefix}/{uuid}{ext}", with the extension taken from the sniffed
// content type:
//
//	var cfg storage.Config
//	_ = env.Parse(&cfg) // STORAGE_BACKEND=minio STORAGE_ENDPOINT=localhost:9000 ...
//
//	files, err := storage.New(cfg)
//	if err != nil {
//	    return err
//	}
//	obj, err := files.Put(ctx, r, -1, storage.WithPrefix("covers"))
//	link, err := files.URL(ctx, obj.Key, storage.WithExpiry(time.Hour))
//
// Backend errors are mapped to [ErrNotFound] and [ErrAccessDenied] where
// the service reports them, otherwise to the sentinel of the operation.
package storage
