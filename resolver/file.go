package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/erraggy/apiflow/flowerrors"
)

// File reads local paths and file:// URIs.
type File struct {
	// MaxFileSize caps the file size. Zero means MaxFileSize.
	MaxFileSize int64
}

// Path returns the filesystem path named by uri, stripping a file:// scheme
// and any fragment.
func Path(uri string) string {
	loc, _, _ := strings.Cut(uri, "#")
	if strings.HasPrefix(loc, "file://") {
		if u, err := url.Parse(loc); err == nil {
			return u.Path
		}
		return strings.TrimPrefix(loc, "file://")
	}
	return loc
}

// Resolve implements Resolver.
func (f *File) Resolve(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &flowerrors.ResolveError{URI: uri, Transport: "file", Cause: err}
	}

	limit := f.MaxFileSize
	if limit <= 0 {
		limit = MaxFileSize
	}

	p := Path(uri)
	file, err := os.Open(p) //nolint:gosec // path is user-provided input
	if err != nil {
		msg := "failed to open file"
		if errors.Is(err, os.ErrNotExist) {
			msg = "file not found"
		}
		return nil, &flowerrors.ResolveError{URI: uri, Transport: "file", Message: msg, Cause: err}
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, &flowerrors.ResolveError{URI: uri, Transport: "file", Message: "failed to read file", Cause: err}
	}
	if int64(len(data)) > limit {
		return nil, &flowerrors.ResolveError{
			URI:       uri,
			Transport: "file",
			Message:   fmt.Sprintf("file exceeds maximum size of %d bytes", limit),
		}
	}
	return data, nil
}
