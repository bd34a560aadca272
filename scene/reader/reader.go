package reader

import (
	"fmt"
	"strings"

	"github.com/achilleasa/flatbvh/asset"
	"github.com/achilleasa/flatbvh/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Definition, error)
}

// Read scene from a local file or a http(s) URL. Files ending in .json.zst
// or .json.sz are decompressed while being read.
func ReadScene(filename string) (*scene.Definition, error) {
	// Select reader based on file extension
	var reader Reader
	switch {
	case strings.HasSuffix(trimCodecSuffix(filename), ".json"):
		reader = newJSONSceneReader()
	default:
		return nil, fmt.Errorf("readScene: unsupported file format")
	}

	res, err := asset.NewResource(filename)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return reader.Read(res)
}

func trimCodecSuffix(filename string) string {
	for _, suffix := range []string{".zst", ".sz"} {
		filename = strings.TrimSuffix(filename, suffix)
	}
	return filename
}
