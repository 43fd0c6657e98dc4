package modules

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nuxtcare/nuxtcare-backend/model"
)

// BadgeCache holds the pre-rendered status badge images, one per tier, loaded
// lazily from disk and kept in memory. Badge images are static assets; only
// which one is served varies per module.
type BadgeCache struct {
	dir string

	mu   sync.RWMutex
	svgs map[model.ModuleStatus]string
}

// NewBadgeCache serves badge images from the given directory, expecting
// badge_<status>.svg files.
func NewBadgeCache(dir string) *BadgeCache {
	return &BadgeCache{
		dir:  dir,
		svgs: make(map[model.ModuleStatus]string),
	}
}

// SVG returns the inline badge markup for a status tier, or a minimal
// placeholder when the asset is missing.
func (b *BadgeCache) SVG(status model.ModuleStatus) string {
	b.mu.RLock()
	svg, ok := b.svgs[status]
	b.mu.RUnlock()
	if ok {
		return svg
	}

	data, err := os.ReadFile(filepath.Join(b.dir, fmt.Sprintf("badge_%s.svg", status)))
	if err != nil {
		return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg"><text y="12">%s</text></svg>`, status)
	}
	svg = string(data)

	b.mu.Lock()
	b.svgs[status] = svg
	b.mu.Unlock()
	return svg
}

// DataURL returns the badge as a base64 data URI for direct embedding.
func (b *BadgeCache) DataURL(status model.ModuleStatus) string {
	svg := b.SVG(status)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
