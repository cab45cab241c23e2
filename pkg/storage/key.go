package storage

import (
	"bufio"
	"io"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const sniffLen = 512

var unsafeSegment = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// NewKey returns "{prefix}/{uuid}{ext}" with the extension derived from contentType.
func NewKey(prefix, contentType string) string {
	name := uuid.NewString() + extension(contentType)
	prefix = sanitizeSegment(prefix)
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// DetectContentType sniffs the first bytes of r. The returned reader
// yields the full content, sniffed bytes included.
func DetectContentType(r io.Reader) (string, io.Reader) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, _ := br.Peek(sniffLen)
	return http.DetectContentType(head), br
}

func extension(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ".bin"
	}
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "text/plain":
		return ".txt"
	case "application/octet-stream":
		return ".bin"
	}
	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 {
		return ".bin"
	}
	return exts[0]
}

func sanitizeSegment(s string) string {
	parts := strings.Split(strings.Trim(s, " /\\"), "/")
	out := parts[:0]
	for _, p := range parts {
		p = strings.ReplaceAll(p, "..", "")
		p = unsafeSegment.ReplaceAllString(p, "_")
		if p != "" {
			out = append(out, url.PathEscape(p))
		}
	}
	return strings.Join(out, "/")
}
