package lookbook

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

// ImageState is the load state of an image reference.
type ImageState uint8

const (
	ImageUnknown ImageState = iota // never requested
	ImagePending                   // fetch in flight
	ImageReady                     // texture available
	ImageFailed                    // fetch or decode failed; use a placeholder
)

// Fetcher loads and decodes an image reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (image.Image, error)
}

// HTTPFetcher fetches http(s) URLs and reads file:// URLs or bare paths from
// disk.
type HTTPFetcher struct {
	Client    *http.Client
	MaxBytes  int64
	UserAgent string
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) (image.Image, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", ref)
	}
	switch u.Scheme {
	case "http", "https":
		return f.fetchHTTP(ctx, ref)
	case "file":
		return f.readFile(u.Path)
	case "":
		return f.readFile(ref)
	default:
		return nil, errors.Errorf("unsupported scheme %q", u.Scheme)
	}
}

func (f *HTTPFetcher) fetchHTTP(ctx context.Context, ref string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", ref)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("get %s: status %d", ref, resp.StatusCode)
	}
	return f.decode(resp.Body)
}

func (f *HTTPFetcher) readFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()
	return f.decode(file)
}

// decode reads the whole body, checks its size and sniffed type, then
// decodes it. Servers often mislabel images, so the header is not trusted.
func (f *HTTPFetcher) decode(r io.Reader) (image.Image, error) {
	if f.MaxBytes > 0 {
		// One extra byte tells an exact-size body from an oversized one.
		r = io.LimitReader(r, f.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read image")
	}
	if f.MaxBytes > 0 && int64(len(data)) > f.MaxBytes {
		return nil, errors.Errorf("image exceeds %s", humanize.IBytes(uint64(f.MaxBytes)))
	}
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		return nil, errors.Errorf("unsupported content type %s", mt.String())
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	return img, nil
}

// fetchKey maps the spellings of one resource to a single key: bare paths
// and file:// URLs to a cleaned file URL, http(s) URLs with a lowercase host,
// no fragment and no default port. Refs that do not parse are their own key.
func fetchKey(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	switch u.Scheme {
	case "":
		return "file://" + filepath.Clean(ref)
	case "file":
		return "file://" + filepath.Clean(u.Path)
	case "http", "https":
		host := strings.ToLower(u.Hostname())
		port := u.Port()
		if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
			port = ""
		}
		if port != "" {
			host += ":" + port
		}
		u.Host = host
		u.Fragment = ""
		u.RawFragment = ""
		return u.String()
	default:
		return ref
	}
}

type imageEntry struct {
	state ImageState
	tex   *ebiten.Image
}

type imageResult struct {
	ref string
	img image.Image
	err error
}

// defaultImageWorkers bounds concurrent fetches when ImageConfig.Workers is
// unset.
const defaultImageWorkers = 4

// ImageCache loads each image reference once on a bounded worker pool and
// hands textures to the game goroutine through Poll. Fetches are shared per
// fetchKey, so two spellings of one resource, or a Load racing a background
// request, cost a single download. All methods except the background
// fetches must be called from the game goroutine.
type ImageCache struct {
	fetcher Fetcher
	timeout time.Duration
	log     *zap.Logger

	pool    *ants.Pool
	backlog []string // refs the pool was too busy to accept
	group   singleflight.Group
	ctx     context.Context
	cancel  context.CancelFunc
	results chan imageResult
	entries map[string]*imageEntry
	loaded  []string // refs settled by Load, reported by the next Poll

	newTexture func(image.Image) *ebiten.Image

	thumbFallback   *ebiten.Image
	overlayFallback *ebiten.Image
}

// NewImageCache creates a cache that fetches through f using cfg.Timeout
// and cfg.Workers. A zero timeout disables the per-request deadline.
func NewImageCache(f Fetcher, cfg ImageConfig, log *zap.Logger) (*ImageCache, error) {
	if log == nil {
		log = zap.NewNop()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultImageWorkers
	}
	pool, err := ants.NewPool(workers,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p any) {
			log.Error("image worker panic", zap.Any("panic", p))
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "image worker pool")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ImageCache{
		fetcher:    f,
		timeout:    cfg.Timeout,
		log:        log,
		pool:       pool,
		ctx:        ctx,
		cancel:     cancel,
		results:    make(chan imageResult, 64),
		entries:    make(map[string]*imageEntry),
		newTexture: ebiten.NewImageFromImage,
	}, nil
}

// Request starts loading ref unless it is already known.
func (c *ImageCache) Request(ref string) {
	if ref == "" {
		return
	}
	if _, ok := c.entries[ref]; ok {
		return
	}
	c.entries[ref] = &imageEntry{state: ImagePending}
	c.dispatch(ref)
}

// dispatch hands ref to the pool. A saturated pool parks it in the backlog
// for the next Poll.
func (c *ImageCache) dispatch(ref string) {
	err := c.pool.Submit(func() { c.load(ref) })
	switch {
	case err == nil:
	case errors.Is(err, ants.ErrPoolOverload):
		c.backlog = append(c.backlog, ref)
	default:
		c.entries[ref].state = ImageFailed
		c.log.Warn("image fetch not scheduled", zap.String("ref", ref), zap.Error(err))
	}
}

// Retry forgets a failed reference and requests it again.
func (c *ImageCache) Retry(ref string) {
	if e, ok := c.entries[ref]; ok && e.state == ImageFailed {
		delete(c.entries, ref)
	}
	c.Request(ref)
}

// fetch runs one shared download for ref's fetchKey.
func (c *ImageCache) fetch(ctx context.Context, ref string) (image.Image, error) {
	v, err, shared := c.group.Do(fetchKey(ref), func() (any, error) {
		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		return c.fetcher.Fetch(ctx, ref)
	})
	if shared {
		c.log.Debug("image fetch shared", zap.String("ref", ref))
	}
	img, _ := v.(image.Image)
	return img, err
}

func (c *ImageCache) load(ref string) {
	img, err := c.fetch(c.ctx, ref)
	select {
	case c.results <- imageResult{ref: ref, img: img, err: err}:
	case <-c.ctx.Done():
	}
}

// Load fetches ref synchronously, joining a background fetch of the same
// resource if one is in flight, and records the result like a finished
// Request. A ref that is already ready is returned without fetching.
func (c *ImageCache) Load(ctx context.Context, ref string) (*ebiten.Image, error) {
	if e, ok := c.entries[ref]; ok && e.state == ImageReady {
		return e.tex, nil
	}
	img, err := c.fetch(ctx, ref)
	if err == nil && img == nil {
		err = errors.Errorf("no image for %s", ref)
	}
	e, ok := c.entries[ref]
	if !ok {
		e = &imageEntry{}
		c.entries[ref] = e
	}
	if err != nil {
		e.state = ImageFailed
		e.tex = nil
	} else {
		e.state = ImageReady
		e.tex = c.newTexture(img)
	}
	c.loaded = append(c.loaded, ref)
	return e.tex, err
}

// Poll applies finished loads and returns the references whose state
// changed. It never blocks.
func (c *ImageCache) Poll() []string {
	changed := c.loaded
	c.loaded = nil

	if len(c.backlog) > 0 {
		waiting := c.backlog
		c.backlog = nil
		for _, ref := range waiting {
			if e, ok := c.entries[ref]; ok && e.state == ImagePending {
				c.dispatch(ref)
			}
		}
	}

	for {
		select {
		case res := <-c.results:
			e, ok := c.entries[res.ref]
			if !ok || e.state != ImagePending {
				continue
			}
			if res.err != nil || res.img == nil {
				e.state = ImageFailed
				c.log.Warn("image load failed", zap.String("ref", res.ref), zap.Error(res.err))
			} else {
				e.state = ImageReady
				e.tex = c.newTexture(res.img)
				c.log.Debug("image loaded", zap.String("ref", res.ref))
			}
			changed = append(changed, res.ref)
		default:
			return changed
		}
	}
}

// Lookup returns the texture for ref (nil unless ready) and its state.
func (c *ImageCache) Lookup(ref string) (*ebiten.Image, ImageState) {
	e, ok := c.entries[ref]
	if !ok {
		return nil, ImageUnknown
	}
	return e.tex, e.state
}

// ThumbFallback returns the "?" placeholder used by list thumbnails.
func (c *ImageCache) ThumbFallback() *ebiten.Image {
	if c.thumbFallback == nil {
		c.thumbFallback = c.newTexture(thumbPlaceholder())
	}
	return c.thumbFallback
}

// OverlayFallback returns the "Error" placeholder used by overlay elements.
func (c *ImageCache) OverlayFallback() *ebiten.Image {
	if c.overlayFallback == nil {
		c.overlayFallback = c.newTexture(overlayPlaceholder())
	}
	return c.overlayFallback
}

// Close stops in-flight loads from delivering results and releases the
// worker pool.
func (c *ImageCache) Close() {
	c.cancel()
	c.pool.Release()
}
