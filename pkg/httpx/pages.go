package httpx

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrPageNotFound is returned when no loader has the requested page.
var ErrPageNotFound = errors.New("page not found")

// PageLoader returns the body for a logical page name such as "hello.html".
type PageLoader interface {
	Load(name string) ([]byte, error)
}

// PageLoaderFunc adapts a function to PageLoader.
type PageLoaderFunc func(name string) ([]byte, error)

func (f PageLoaderFunc) Load(name string) ([]byte, error) {
	return f(name)
}

//go:embed pages/*.html
var embedded embed.FS

// EmbedLoader serves the built-in hello.html and 404.html.
type EmbedLoader struct{}

func (EmbedLoader) Load(name string) ([]byte, error) {
	b, err := embedded.ReadFile("pages/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, name)
	}
	return b, nil
}

// DirLoader reads pages from a directory. Names may not escape it.
type DirLoader struct {
	root *os.Root
}

// NewDirLoader opens dir as the page root.
func NewDirLoader(dir string) (*DirLoader, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open pages dir: %w", err)
	}
	return &DirLoader{root: root}, nil
}

func (d *DirLoader) Load(name string) ([]byte, error) {
	f, err := d.root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPageNotFound, name)
		}
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrPageNotFound, name)
	}

	buf := make([]byte, st.Size())
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("read page %s: %w", name, err)
	}
	return buf, nil
}

// Close releases the directory handle.
func (d *DirLoader) Close() error {
	return d.root.Close()
}

// ChainLoader tries each loader in order. A not-found result moves on to
// the next loader; any other error is returned.
type ChainLoader []PageLoader

func (c ChainLoader) Load(name string) ([]byte, error) {
	for _, l := range c {
		b, err := l.Load(name)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, ErrPageNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPageNotFound, name)
}

// CachedLoader memoises successful loads. Concurrent misses for the same
// page share one underlying load.
type CachedLoader struct {
	next PageLoader

	mu    sync.RWMutex
	pages map[string][]byte
	group singleflight.Group
}

// NewCachedLoader wraps next.
func NewCachedLoader(next PageLoader) *CachedLoader {
	return &CachedLoader{
		next:  next,
		pages: make(map[string][]byte),
	}
}

func (c *CachedLoader) Load(name string) ([]byte, error) {
	c.mu.RLock()
	b, ok := c.pages[name]
	c.mu.RUnlock()
	if ok {
		return b, nil
	}

	v, err, _ := c.group.Do(name, func() (interface{}, error) {
		b, err := c.next.Load(name)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.pages[name] = b
		c.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Len returns the number of cached pages.
func (c *CachedLoader) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}
