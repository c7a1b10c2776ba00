// Package hexio reads and writes hex streams in plain, gzip or s2 (snappy framed) encodings
package hexio

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	perr "otnanalyzer/internal/platform/errors"

	"github.com/klauspost/compress/s2"
)

// Encoding is the container a stream arrives in
type Encoding uint8

const (
	Plain Encoding = iota
	Gzip
	S2
)

// ContentTypeS2 is the media type for snappy framed uploads
const ContentTypeS2 = "application/x-snappy-framed"

func (e Encoding) String() string {
	switch e {
	case Gzip:
		return "gzip"
	case S2:
		return "s2"
	default:
		return "plain"
	}
}

// ParseEncoding accepts plain, gzip and s2 (snappy is an alias)
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain", "identity":
		return Plain, nil
	case "gzip", "gz":
		return Gzip, nil
	case "s2", "snappy":
		return S2, nil
	}
	return Plain, perr.InvalidInputf("encoding", "unknown encoding %q", s)
}

// FromHeaders picks an encoding from request headers; Content-Encoding wins
func FromHeaders(contentType, contentEncoding string) (Encoding, error) {
	if contentEncoding != "" {
		return ParseEncoding(contentEncoding)
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case ContentTypeS2:
		return S2, nil
	case "application/gzip":
		return Gzip, nil
	}
	return Plain, nil
}

// FromPath picks an encoding from a file extension
func FromPath(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return Gzip
	case ".s2", ".sz":
		return S2
	}
	return Plain
}

// NewReader wraps r so reads return the decoded stream
func NewReader(r io.Reader, enc Encoding) (io.Reader, error) {
	switch enc {
	case Gzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, perr.WithField(perr.Validationf("bad gzip stream: %v", err), "stream")
		}
		return gz, nil
	case S2:
		return s2.NewReader(r), nil
	default:
		return bufio.NewReader(r), nil
	}
}

// ReadAll decodes r and returns the text; more than limit decoded bytes is a too large error
// limit <= 0 means unlimited
func ReadAll(r io.Reader, enc Encoding, limit int64) (string, error) {
	dr, err := NewReader(r, enc)
	if err != nil {
		return "", err
	}
	if limit > 0 {
		dr = io.LimitReader(dr, limit+1)
	}
	b, err := io.ReadAll(dr)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return "", perr.TooLargef("body exceeds %d bytes", tooBig.Limit)
		}
		return "", perr.WithField(perr.Validationf("unreadable %s stream: %v", enc, err), "stream")
	}
	if limit > 0 && int64(len(b)) > limit {
		return "", perr.WithField(perr.TooLargef("stream exceeds %d bytes", limit), "stream")
	}
	return string(b), nil
}

// NewWriter encodes writes into w; Close flushes the encoder but never closes w
func NewWriter(w io.Writer, enc Encoding) io.WriteCloser {
	switch enc {
	case Gzip:
		return gzip.NewWriter(w)
	case S2:
		return s2.NewWriter(w)
	default:
		return nopCloser{w}
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
