// Package registry holds the cross-thread registration machinery: the
// per-kind FIFO queues scripts enqueue content into, the shared handler
// id allocator, the one-shot barrier the drain waits behind, and the
// id -> definition lookup used for per-object event routing.
package registry

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierSegment validates one side of a namespace:path pair.
// Lowercase only; the engine's resource system rejects anything else.
var identifierSegment = regexp.MustCompile(`^[a-z0-9_.-]+$`)

// Identifier is a validated namespace:path content id.
type Identifier struct {
	Namespace string
	Path      string
}

// ParseIdentifier validates and splits a raw content id. The id must
// contain exactly one colon with non-empty segments on both sides.
// Validation happens before anything is enqueued so a bad id never
// reaches the engine.
func ParseIdentifier(raw string) (Identifier, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return Identifier{}, fmt.Errorf("identifier %q: want exactly one ':' separating namespace and path", raw)
	}
	ns, path := parts[0], parts[1]
	if ns == "" || path == "" {
		return Identifier{}, fmt.Errorf("identifier %q: namespace and path must be non-empty", raw)
	}
	if !identifierSegment.MatchString(ns) {
		return Identifier{}, fmt.Errorf("identifier %q: invalid namespace %q", raw, ns)
	}
	if !identifierSegment.MatchString(path) {
		return Identifier{}, fmt.Errorf("identifier %q: invalid path %q", raw, path)
	}
	return Identifier{Namespace: ns, Path: path}, nil
}

func (id Identifier) String() string {
	return id.Namespace + ":" + id.Path
}
