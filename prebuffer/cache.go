package prebuffer

import (
	"sync"

	"github.com/fbfsvg/player/document"
	"github.com/fbfsvg/player/renderthread"
)

// workerCache holds one lazily-initialized document.Document and one
// renderthread.Surface that pre-buffer tasks reuse, rebuilt only when the
// source hash or render dimensions change. The scheduler keeps one cache
// per pool worker and picks a cache for each task by task id, not by the
// goroutine that runs the task; each task holds mu for its whole use of
// the cache, so tasks that share a cache run one at a time.
type workerCache struct {
	mu      sync.Mutex
	doc     document.Document
	docHash uint64
	surface *renderthread.Surface
}

// ensure returns this worker's document and surface, parsing/allocating
// only when the source or dimensions differ from what's cached.
func (c *workerCache) ensure(source []byte, hash uint64, w, h int) (document.Document, *renderthread.Surface, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doc == nil || c.docHash != hash {
		d, err := document.Parse(source)
		if err != nil {
			return nil, nil, err
		}
		c.doc = d
		c.docHash = hash
	}
	if c.surface == nil || c.surface.Width != w || c.surface.Height != h {
		c.surface = renderthread.NewSurface(w, h)
	}
	return c.doc, c.surface, nil
}
