package datagen

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFakeIDsIncrementFromOne(t *testing.T) {
	c := NewCollector()
	if id := c.AddBlock("m:a"); id != 1 {
		t.Errorf("first id = %d, want 1", id)
	}
	if id := c.AddItem("m:b"); id != 2 {
		t.Errorf("second id = %d, want 2", id)
	}
	if id := c.AddEntity("m:c"); id != 3 {
		t.Errorf("third id = %d, want 3", id)
	}
	if c.Count() != 3 {
		t.Errorf("Count = %d, want 3", c.Count())
	}
}

func TestWriteManifest(t *testing.T) {
	c := NewCollector()
	c.AddBlock("m:ruby_block")
	c.AddItem("m:ruby")

	path := filepath.Join(t.TempDir(), "out", "content.json")
	if err := c.Write(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m.BuildID == "" {
		t.Error("missing build id")
	}
	if len(m.Blocks) != 1 || m.Blocks[0].ID != "m:ruby_block" {
		t.Errorf("blocks = %+v", m.Blocks)
	}
	if len(m.Items) != 1 || m.Items[0].HandlerID != 2 {
		t.Errorf("items = %+v", m.Items)
	}
}
