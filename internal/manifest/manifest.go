// Package manifest holds the fixed set of assets the application shell
// needs to function offline.
package manifest

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmpty = errors.New("manifest has no assets")

// Manifest is an ordered set of absolute asset paths.
type Manifest struct {
	assets []string
	index  map[string]struct{}
}

// New validates and normalizes the configured asset list: every path must
// be absolute, duplicates are dropped, order is preserved.
func New(paths []string) (*Manifest, error) {
	if len(paths) == 0 {
		return nil, ErrEmpty
	}
	m := &Manifest{index: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		if !strings.HasPrefix(p, "/") {
			return nil, fmt.Errorf("manifest asset %q is not an absolute path", p)
		}
		if _, ok := m.index[p]; ok {
			continue
		}
		m.index[p] = struct{}{}
		m.assets = append(m.assets, p)
	}
	return m, nil
}

// Assets returns the paths in declaration order.
func (m *Manifest) Assets() []string {
	out := make([]string, len(m.assets))
	copy(out, m.assets)
	return out
}

// Contains reports whether path is part of the manifest.
func (m *Manifest) Contains(path string) bool {
	_, ok := m.index[path]
	return ok
}

func (m *Manifest) Len() int {
	return len(m.assets)
}
