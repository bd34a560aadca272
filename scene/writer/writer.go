package writer

import "github.com/achilleasa/flatbvh/scene"

// The Writer interface is implemented by all scene writers.
type Writer interface {
	// Write scene definition
	Write(*scene.Definition) error
}

// Write scene definition to a json file. The file is compressed when its
// name ends in .zst (zstd) or .sz (snappy).
func WriteScene(def *scene.Definition, filename string) error {
	writer := newJSONSceneWriter(filename)
	return writer.Write(def)
}
