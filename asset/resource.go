package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// The Resource class wraps a streamable file or remote Resource. Compressed
// resources are transparently decompressed based on their path suffix.
type Resource struct {
	io.ReadCloser
	url   *url.URL
	codec Codec
}

// Returns the path to this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Returns the codec used for decoding the resource stream.
func (r *Resource) Codec() Codec {
	return r.codec
}

// Open a local file or a http(s) URL. The caller must make sure to close the
// returned Resource to prevent leaks.
func NewResource(location string) (*Resource, error) {
	// Replace backslashes with forward slashes and try parsing as a URL
	resURL, err := url.Parse(strings.Replace(location, `\`, `/`, -1))
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
		resp, err := http.Get(resURL.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %w", resURL.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", resURL.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", resURL.Scheme)
	}

	return wrap(reader, resURL)
}

// Create a resource from a reader. The name is used for selecting a codec.
func NewResourceFromStream(name string, source io.Reader) (*Resource, error) {
	resURL, err := url.Parse(name)
	if err != nil {
		return nil, err
	}
	return wrap(io.NopCloser(source), resURL)
}

func wrap(reader io.ReadCloser, resURL *url.URL) (*Resource, error) {
	codec := CodecForPath(resURL.Path)
	decoded, err := NewDecoder(codec, reader)
	if err != nil {
		reader.Close()
		return nil, fmt.Errorf("resource: could not decode '%s': %w", resURL.String(), err)
	}

	return &Resource{
		ReadCloser: decoded,
		url:        resURL,
		codec:      codec,
	}, nil
}
