package writer

import (
	"encoding/json"
	"os"
	"time"

	"github.com/achilleasa/flatbvh/asset"
	"github.com/achilleasa/flatbvh/log"
	"github.com/achilleasa/flatbvh/scene"
)

type jsonSceneWriter struct {
	logger    log.Logger
	sceneFile string
}

// Create a new json scene writer.
func newJSONSceneWriter(sceneFile string) *jsonSceneWriter {
	return &jsonSceneWriter{
		logger:    log.New("json writer"),
		sceneFile: sceneFile,
	}
}

// Write scene definition to the target file.
func (w *jsonSceneWriter) Write(def *scene.Definition) (err error) {
	codec := asset.CodecForPath(w.sceneFile)
	w.logger.Noticef("writing scene to %s (codec: %s)", w.sceneFile, codec)
	start := time.Now()

	f, err := os.Create(w.sceneFile)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	enc, err := asset.NewEncoder(codec, f)
	if err != nil {
		return err
	}

	jsonEnc := json.NewEncoder(enc)
	jsonEnc.SetIndent("", "  ")
	if err = jsonEnc.Encode(def); err != nil {
		enc.Close()
		return err
	}
	if err = enc.Close(); err != nil {
		return err
	}

	w.logger.Infof("wrote %d shapes in %d ms", len(def.Shapes), time.Since(start).Nanoseconds()/1e6)
	return nil
}
