package lookbook

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

const testDT = 1.0 / 60

// newTestScene returns a scene whose idle frames repeat the last pointer
// state instead of reading the real mouse.
func newTestScene() *Scene {
	s := NewScene(nil)
	stubPointer(s)
	return s
}

// stubPointer makes s repeat its last pointer state on idle frames.
func stubPointer(s *Scene) {
	s.readPointer = func() pointerSample {
		return pointerSample{
			x:       s.pointer.lastX,
			y:       s.pointer.lastY,
			pressed: s.pointer.down,
			button:  s.pointer.button,
		}
	}
}

// drain steps s until every injected event has been consumed.
func drain(s *Scene) {
	for s.PendingInput() > 0 {
		s.step(testDT)
	}
}

// seqIDs returns a generator yielding the given ids in order, then "id-N".
func seqIDs(ids ...string) IDGenerator {
	i := 0
	return func() string {
		i++
		if i <= len(ids) {
			return ids[i-1]
		}
		return "id-" + string(rune('a'+i))
	}
}

// stubFetcher serves images from a map; unknown refs fail.
type stubFetcher struct {
	mu      sync.Mutex
	images  map[string]image.Image
	calls   map[string]int
	gate    chan struct{} // when non-nil, fetches block until closed
	started chan string   // when non-nil, receives each ref as its fetch begins
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{images: make(map[string]image.Image), calls: make(map[string]int)}
}

func (f *stubFetcher) add(ref string) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	f.mu.Lock()
	f.images[ref] = img
	f.mu.Unlock()
}

func (f *stubFetcher) Fetch(ctx context.Context, ref string) (image.Image, error) {
	f.mu.Lock()
	f.calls[ref]++
	gate, started := f.gate, f.started
	f.mu.Unlock()
	if started != nil {
		started <- ref
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	img, ok := f.images[ref]
	if !ok {
		return nil, errors.Errorf("no image %q", ref)
	}
	return img, nil
}

func (f *stubFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *stubFetcher) callCount(ref string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[ref]
}

// newTestImages returns a cache over f whose textures are tiny blank images.
func newTestImages(f Fetcher) *ImageCache {
	c, err := NewImageCache(f, ImageConfig{Timeout: time.Second}, nil)
	if err != nil {
		panic(err)
	}
	c.newTexture = func(image.Image) *ebiten.Image { return ebiten.NewImage(1, 1) }
	return c
}

// pollUntil polls c until want refs have changed state or the deadline hits.
func pollUntil(t *testing.T, c *ImageCache, want int) []string {
	t.Helper()
	var changed []string
	deadline := time.Now().Add(2 * time.Second)
	for len(changed) < want {
		if time.Now().After(deadline) {
			t.Fatalf("polled %d changes before deadline, want %d", len(changed), want)
		}
		changed = append(changed, c.Poll()...)
		time.Sleep(time.Millisecond)
	}
	return changed
}

func testFonts(t *testing.T) *Fonts {
	t.Helper()
	f, err := LoadFonts()
	if err != nil {
		t.Fatalf("LoadFonts: %v", err)
	}
	return f
}

func approx(a, b float64) bool {
	d := a - b
	return d > -1e-9 && d < 1e-9
}
