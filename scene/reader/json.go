package reader

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/achilleasa/flatbvh/asset"
	"github.com/achilleasa/flatbvh/log"
	"github.com/achilleasa/flatbvh/scene"
)

type jsonSceneReader struct {
	logger log.Logger
}

// Create a new json scene reader.
func newJSONSceneReader() *jsonSceneReader {
	return &jsonSceneReader{
		logger: log.New("json reader"),
	}
}

// Read scene definition from a json resource.
func (p *jsonSceneReader) Read(sceneRes *asset.Resource) (*scene.Definition, error) {
	p.logger.Noticef(`parsing scene from "%s" (codec: %s)`, sceneRes.Path(), sceneRes.Codec())
	start := time.Now()

	def := &scene.Definition{}
	dec := json.NewDecoder(sceneRes)
	dec.DisallowUnknownFields()
	if err := dec.Decode(def); err != nil {
		return nil, fmt.Errorf("scene reader: could not decode %s: %w", sceneRes.Path(), err)
	}

	p.logger.Infof("loaded %d shapes in %d ms", len(def.Shapes), time.Since(start).Nanoseconds()/1e6)
	return def, nil
}
