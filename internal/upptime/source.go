// Package upptime reads the artifacts an Upptime-style generator publishes:
// history snapshots, shields.io summary payloads and response time graphs.
package upptime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// Source opens generator artifacts by slash-separated relative path,
// e.g. "history/atelier-yo.yml".
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// StatusError is returned when an artifact request completes with a
// non-success HTTP status.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s -> %d", e.Path, e.Code)
}

// IsNotFound reports whether err means the artifact does not exist.
func IsNotFound(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusNotFound
	}
	return errors.Is(err, fs.ErrNotExist)
}

// HTTPSource fetches artifacts relative to a base URL, such as the GitHub
// Pages site the generator publishes to.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// defaultTimeout bounds a single artifact request.
const defaultTimeout = 15 * time.Second

// NewHTTPSource returns a Source rooted at base. A nil client gets a client
// with a request timeout.
func NewHTTPSource(base string, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse source url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("source url %q: unsupported scheme %q", base, u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPSource{base: u, client: client}, nil
}

// Open issues a GET for name. The artifacts are regenerated in place, so
// caches along the way are asked to revalidate.
func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("artifact path %q: %w", name, err)
	}
	target := s.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &StatusError{Path: name, Code: resp.StatusCode}
	}
	return resp.Body, nil
}

// DirSource reads artifacts from a file system, typically a local checkout of
// the generator's repository.
type DirSource struct {
	fsys fs.FS
}

// NewDirSource returns a Source reading below the directory root.
func NewDirSource(root string) (*DirSource, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %q is not a directory", root)
	}
	return &DirSource{fsys: os.DirFS(root)}, nil
}

// NewFSSource returns a Source reading from fsys.
func NewFSSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

func (s *DirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = path.Clean(name)
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return s.fsys.Open(name)
}

// NewSource picks an HTTPSource for http(s) locations and a DirSource for
// everything else.
func NewSource(location string, client *http.Client) (Source, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location, client)
	}
	return NewDirSource(location)
}
