package writer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/achilleasa/flatbvh/scene"
	"github.com/achilleasa/flatbvh/types"
)

func TestWriteScene(t *testing.T) {
	type spec struct {
		name   string
		prefix []byte
	}
	specs := []spec{
		{"scene.json", []byte("{")},
		{"scene.json.zst", []byte{0x28, 0xb5, 0x2f, 0xfd}},
		{"scene.json.sz", []byte("\xff\x06\x00\x00sNaPpY")},
	}

	shapes := []scene.Shape{scene.NewSphere(types.XYZ(0, 1, 0), 1)}
	def, err := scene.NewDefinition(shapes, scene.NewCamera(45))
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	for index, s := range specs {
		sceneFile := filepath.Join(dir, s.name)
		if err = WriteScene(def, sceneFile); err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}

		data, err := os.ReadFile(sceneFile)
		if err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}
		if !bytes.HasPrefix(data, s.prefix) {
			t.Fatalf("[spec %d] expected %s to start with %x; got %x", index, s.name, s.prefix, data[:len(s.prefix)])
		}
	}

	data, _ := os.ReadFile(filepath.Join(dir, "scene.json"))
	var decoded scene.Definition
	if err = json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Shapes) != 1 || decoded.Shapes[0].Type != "sphere" || decoded.Shapes[0].Size != nil {
		t.Fatalf("unexpected shape definitions %+v", decoded.Shapes)
	}
}

func TestWriteSceneToMissingDir(t *testing.T) {
	def := &scene.Definition{}
	if err := WriteScene(def, filepath.Join(t.TempDir(), "missing", "scene.json")); err == nil {
		t.Fatal("expected an error when writing to a missing folder")
	}
}
