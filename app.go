package lookbook

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// User-facing messages.
const (
	msgEmptyURL      = "Please enter a product image URL"
	msgConfirmClear  = "Are you sure you want to remove all products?"
	msgExportPending = "Export feature coming soon!"
)

// Side panel layout.
const (
	panelX     = 20.0
	panelY     = 20.0
	panelWidth = 320.0
	viewerX    = panelX + panelWidth + 20
)

// App is the lookbook editor. It owns every piece of state and implements
// ebiten.Game.
type App struct {
	cfg Config
	log *zap.Logger

	scene      *Scene
	fonts      *Fonts
	store      *Store
	images     *ImageCache
	overlay    *Overlay
	list       *ListPanel
	controller *Controller

	input    *TextField
	selector *Selector
	addBtn   *Button
	exportBt *Button
	clearBtn *Button
	toast    *Toast
	dialog   *ConfirmDialog

	script *ScriptRunner
}

// NewApp builds the editor from cfg.
func NewApp(cfg Config, log *zap.Logger) (*App, error) {
	fetcher := &HTTPFetcher{
		Client:    &http.Client{},
		MaxBytes:  cfg.Images.MaxBytes,
		UserAgent: cfg.Images.UserAgent,
	}
	return newApp(cfg, log, fetcher)
}

func newApp(cfg Config, log *zap.Logger, fetcher Fetcher) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	gen, err := NewIDGenerator(cfg.Products.IDStrategy)
	if err != nil {
		return nil, err
	}
	fonts, err := LoadFonts()
	if err != nil {
		return nil, err
	}
	var script *ScriptRunner
	if cfg.Script.Path != "" {
		data, err := os.ReadFile(cfg.Script.Path)
		if err != nil {
			return nil, errors.Wrap(err, "read script")
		}
		if script, err = LoadScript(data); err != nil {
			return nil, err
		}
	}

	a := &App{
		cfg:   cfg,
		log:   log,
		scene: NewScene(log.Named("scene")),
		fonts: fonts,
		store: NewStore(gen, Vec2{X: cfg.Products.InitialX, Y: cfg.Products.InitialY}),
	}
	a.images, err = NewImageCache(fetcher, cfg.Images, log.Named("images"))
	if err != nil {
		return nil, err
	}
	a.scene.ClearColor = Color{R: 0.95, G: 0.96, B: 0.97, A: 1}
	a.scene.SetDebugMode(cfg.Debug)

	screen := Rect{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)}
	viewer := Rect{X: viewerX, Y: panelY, Width: screen.Width - viewerX - 20, Height: screen.Height - 2*panelY}

	model := a.loadModel(viewer)
	a.overlay = NewOverlay(OverlayConfig{
		Bounds:      viewer,
		ElementSize: cfg.Viewer.ElementSize,
		Model:       model,
		RemoveIcon:  ebiten.NewImageFromImage(removeIcon(removeControlSize)),
	}, a.images, fonts.Body)
	a.overlay.SetOnRemove(a.RemoveProduct)
	a.controller = NewController(a.store, a.overlay, a.scene, log.Named("interaction"))

	a.buildControls(screen)

	root := a.scene.Root()
	root.AddChild(a.overlay.Node())
	root.AddChild(a.list.Node())
	root.AddChild(a.input.Node())
	root.AddChild(a.selector.Node())
	root.AddChild(a.addBtn.Node())
	root.AddChild(a.exportBt.Node())
	root.AddChild(a.clearBtn.Node())
	root.AddChild(a.toast.Node())
	root.AddChild(a.dialog.Node())
	if cfg.Debug {
		stats := newStatsWidget(fonts.Small, a.store.Len)
		stats.SetPosition(viewer.X+8, viewer.Y+viewer.Height-20)
		root.AddChild(stats)
	}

	if script != nil {
		a.attachScript(script)
	}

	a.render()
	a.input.Focus()
	return a, nil
}

// attachScript registers the application actions a script can use and
// starts replaying it.
func (a *App) attachScript(r *ScriptRunner) {
	r.Actions["type"] = func(st ScriptStep) { a.input.SetValue(st.Text) }
	r.Actions["select"] = func(st ScriptStep) { a.selector.SetValue(st.Text) }
	r.Actions["add"] = func(ScriptStep) { a.AddFromInput() }
	r.Actions["clear"] = func(ScriptStep) { a.RequestClear() }
	r.Actions["confirm"] = func(ScriptStep) { a.dialog.Confirm() }
	r.Actions["cancel"] = func(ScriptStep) { a.dialog.Cancel() }
	r.Actions["export"] = func(ScriptStep) { a.Export() }
	if a.cfg.Script.ScreenshotDir != "" {
		a.scene.ScreenshotDir = a.cfg.Script.ScreenshotDir
	}
	a.scene.SetScript(r)
	a.script = r
}

func (a *App) buildControls(screen Rect) {
	f := a.fonts
	y := panelY

	a.input = NewTextField("url_input", Rect{X: panelX, Y: y, Width: panelWidth, Height: 36},
		f.Body, "Paste product image URL...")
	a.input.OnSubmit = a.AddFromInput
	y += 44

	a.selector = NewSelector(a.scene, "type_selector", Rect{X: panelX, Y: y, Width: panelWidth, Height: 32},
		f.Body, a.cfg.Products.Types)
	y += 40

	half := (panelWidth - 12) / 2
	a.addBtn = NewButton(a.scene, "add_button", "Add Product", Rect{X: panelX, Y: y, Width: half, Height: 36},
		f.Body, Color{R: 0.15, G: 0.39, B: 0.92, A: 1}, a.AddFromInput)
	a.exportBt = NewButton(a.scene, "export_button", "Export", Rect{X: panelX + half + 12, Y: y, Width: half, Height: 36},
		f.Body, Color{R: 0.09, G: 0.64, B: 0.29, A: 1}, a.Export)
	y += 44

	a.clearBtn = NewButton(a.scene, "clear_button", "Clear All", Rect{X: panelX, Y: y, Width: panelWidth, Height: 32},
		f.Body, Color{R: 0.86, G: 0.15, B: 0.15, A: 1}, a.RequestClear)
	y += 40

	a.list = NewListPanel(Rect{X: panelX, Y: y, Width: panelWidth, Height: screen.Height - y - panelY}, a.images, f)
	a.list.SetOnRetry(a.retryImage)
	a.toast = NewToast(a.scene, screen, f.Body)
	a.dialog = NewConfirmDialog(a.scene, screen, f)
	a.dialog.SetOnToggle(func(open bool) { a.setPanelEnabled(!open) })
}

// loadModel fetches the configured model image, falling back to a drawn
// silhouette.
func (a *App) loadModel(viewer Rect) *ebiten.Image {
	if ref := a.cfg.Viewer.ModelImage; ref != "" {
		ctx, cancel := context.WithTimeout(context.Background(), a.modelTimeout())
		defer cancel()
		tex, err := a.images.Load(ctx, ref)
		if err == nil {
			return tex
		}
		a.log.Warn("model image unavailable, using silhouette",
			zap.String("ref", ref), zap.Error(errors.Wrap(err, "load model")))
	}
	return ebiten.NewImageFromImage(modelSilhouette(int(viewer.Width), int(viewer.Height)))
}

func (a *App) modelTimeout() time.Duration {
	if a.cfg.Images.Timeout > 0 {
		return a.cfg.Images.Timeout
	}
	return 15 * time.Second
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	if changed := a.images.Poll(); len(changed) > 0 {
		a.overlay.RefreshImages(changed)
		a.list.RefreshImages(changed)
	}

	if a.dialog.Open() {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
			a.dialog.Confirm()
		case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
			a.dialog.Cancel()
		}
	} else if err := a.input.HandleKeys(); err != nil {
		a.log.Warn("clipboard paste failed", zap.Error(err))
		a.toast.Show("Could not read the clipboard")
	}

	a.scene.Update()
	if a.script != nil && a.script.Done() && a.cfg.Script.ExitWhenDone && len(a.scene.screenshotQueue) == 0 {
		a.log.Info("script finished")
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	a.scene.Draw(screen)
}

// Layout implements ebiten.Game.
func (a *App) Layout(_, _ int) (int, int) {
	return a.cfg.Window.Width, a.cfg.Window.Height
}

// AddFromInput adds a product from the URL field and the selected type.
func (a *App) AddFromInput() {
	url := strings.TrimSpace(a.input.Value())
	if url == "" {
		a.toast.Show(msgEmptyURL)
		return
	}
	p, ok := a.store.Add(url, a.selector.Value())
	if !ok {
		return
	}
	a.log.Info("product added", zap.String("id", p.ID), zap.String("type", p.Type), zap.String("url", p.ImageURL))
	a.input.SetValue("")
	a.images.Request(p.ImageURL)
	a.render()
}

// RemoveProduct deletes product id. Unknown ids are ignored.
func (a *App) RemoveProduct(id string) {
	if !a.store.Remove(id) {
		return
	}
	a.log.Info("product removed", zap.String("id", id))
	a.render()
}

// RequestClear asks for confirmation before removing every product.
func (a *App) RequestClear() {
	if a.store.Len() == 0 {
		return
	}
	a.dialog.Ask(msgConfirmClear, a.ClearAll)
}

// ClearAll removes every product.
func (a *App) ClearAll() {
	n := a.store.Len()
	a.controller.EndDrag()
	a.store.Clear()
	a.log.Info("products cleared", zap.Int("count", n))
	a.render()
}

// Export is not implemented yet; it only tells the user so.
func (a *App) Export() {
	a.log.Info("export requested", zap.Int("products", a.store.Len()))
	a.toast.Show(msgExportPending)
}

// render redraws every view from the store.
func (a *App) render() {
	products := a.store.Products()
	a.list.Render(BuildList(products))
	a.overlay.Render(products)
	a.controller.Reattach()
	a.clearBtn.SetVisible(len(products) > 0)
}

// setPanelEnabled dims the side panel buttons while the dialog is up.
func (a *App) setPanelEnabled(enabled bool) {
	a.addBtn.SetEnabled(enabled)
	a.exportBt.SetEnabled(enabled)
	a.clearBtn.SetEnabled(enabled)
}

// retryImage runs after a failed image was requested again from the list;
// overlay elements showing the error tile go back to the loading box.
func (a *App) retryImage(ref string) {
	a.log.Info("image retry", zap.String("ref", ref))
	a.overlay.RefreshImages([]string{ref})
}

// Close releases background resources.
func (a *App) Close() {
	a.images.Close()
}

// Accessors used by the command and by tests.

func (a *App) Scene() *Scene           { return a.scene }
func (a *App) Store() *Store           { return a.store }
func (a *App) Overlay() *Overlay       { return a.overlay }
func (a *App) List() *ListPanel        { return a.list }
func (a *App) Controller() *Controller { return a.controller }
func (a *App) Input() *TextField       { return a.input }
func (a *App) Selector() *Selector     { return a.selector }
func (a *App) Toast() *Toast           { return a.toast }
func (a *App) Dialog() *ConfirmDialog  { return a.dialog }
