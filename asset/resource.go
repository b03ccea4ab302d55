// Package asset provides access to scene files stored locally or served over
// http(s).
package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client used for fetching remote resources.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// A streamable local file or remote resource. Callers must Close resources
// once done with them.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Returns the path to this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Returns true if the Resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Open a resource. If relTo is specified and pathToResource is relative, the
// path is resolved against the directory containing relTo. This lets scene
// files include other files using paths relative to themselves, both for
// local files and for files served over http(s).
func NewResource(pathToResource string, relTo *Resource) (*Resource, error) {
	resURL, err := resolve(pathToResource, relTo)
	if err != nil {
		return nil, err
	}

	var reader io.ReadCloser
	switch resURL.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(resURL.Path))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := httpClient.Get(resURL.String())
		if err != nil {
			return nil, fmt.Errorf("%w '%s': %s", ErrFetchFailed, resURL, err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w '%s': status %d", ErrFetchFailed, resURL, resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("%w '%s'", ErrUnsupportedScheme, resURL.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        resURL,
	}, nil
}

func resolve(pathToResource string, relTo *Resource) (*url.URL, error) {
	// Accept windows-style separators
	resURL, err := url.Parse(strings.ReplaceAll(pathToResource, `\`, `/`))
	if err != nil {
		return nil, err
	}
	if resURL.Scheme != "" || relTo == nil || filepath.IsAbs(resURL.Path) {
		return resURL, nil
	}

	base := *relTo.url
	if base.Scheme == "" {
		dir, err := filepath.Abs(filepath.Dir(base.Path))
		if err != nil {
			return nil, fmt.Errorf("resource: could not detect abs path for %s: %w", base.Path, err)
		}
		base.Path = dir
	} else {
		base.Path = filepath.Dir(base.Path)
	}
	base.Path = base.Path + "/" + resURL.Path
	return &base, nil
}

// Wrap a reader in a resource with the given name.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	resURL, err := url.Parse(name)
	if err != nil {
		resURL = &url.URL{Path: name}
	}
	return &Resource{
		ReadCloser: io.NopCloser(source),
		url:        resURL,
	}
}
