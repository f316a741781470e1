// Package datagen collects registrations made during a data
// generation run and writes them out as a manifest for the packaging
// tooling. In this mode nothing touches the live engine registries;
// ids are fake and only the manifest survives the process.
package datagen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one registered content definition.
type Entry struct {
	HandlerID int64  `json:"handlerId"`
	ID        string `json:"id"`
}

// Manifest is the datagen output document.
type Manifest struct {
	BuildID     string    `json:"buildId"`
	GeneratedAt time.Time `json:"generatedAt"`
	Blocks      []Entry   `json:"blocks"`
	Items       []Entry   `json:"items"`
	Entities    []Entry   `json:"entities"`
}

// Collector accumulates entries during a datagen run. Ids increment
// from 1 and mean nothing outside the manifest.
type Collector struct {
	mu       sync.Mutex
	nextID   int64
	manifest Manifest
}

// NewCollector starts an empty collection with a fresh build id.
func NewCollector() *Collector {
	return &Collector{
		nextID: 1,
		manifest: Manifest{
			BuildID:     uuid.NewString(),
			GeneratedAt: time.Now().UTC(),
		},
	}
}

// AddBlock records a block and returns its fake handler id.
func (c *Collector) AddBlock(id string) int64 {
	return c.add(&c.manifest.Blocks, id)
}

// AddItem records an item.
func (c *Collector) AddItem(id string) int64 {
	return c.add(&c.manifest.Items, id)
}

// AddEntity records an entity.
func (c *Collector) AddEntity(id string) int64 {
	return c.add(&c.manifest.Entities, id)
}

func (c *Collector) add(list *[]Entry, id string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	hid := c.nextID
	c.nextID++
	*list = append(*list, Entry{HandlerID: hid, ID: id})
	return hid
}

// Count reports the total recorded entries.
func (c *Collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.manifest.Blocks) + len(c.manifest.Items) + len(c.manifest.Entities)
}

// Write renders the manifest to path, creating parent directories.
// The write goes through a temp file and rename so a crashed run
// never leaves a half manifest behind.
func (c *Collector) Write(path string) error {
	c.mu.Lock()
	data, err := json.MarshalIndent(c.manifest, "", "  ")
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
