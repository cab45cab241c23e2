// Package filehandler reads uploaded files as lazy chunk sequences and
// hands them to object storage.
//
// A Parser turns a request into an iter.Seq2 of chunks of at most
// ChunkSize bytes. StreamParser reads a multipart field, RemoteParser
// downloads the URL named in the body. Nothing is read until the sequence
// is ranged over, and ranging again after it finished requires a new Parse.
//
//	chunks, err := filehandler.StreamParser{Field: "cover"}.Parse(c)
//	if err != nil {
//	    return err
//	}
//	key, err := filehandler.Store(c, uploader, "", chunks)
//
// StorageUploader adapts a storage.Storage (S3 or MinIO) to Uploader and
// Loader.
package filehandler
