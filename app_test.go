package lookbook

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestApp(t *testing.T, cfg Config) (*App, *stubFetcher) {
	t.Helper()
	f := newStubFetcher()
	a, err := newApp(cfg, nil, f)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	t.Cleanup(a.Close)
	stubPointer(a.Scene())
	return a, f
}

func TestAppStartsEmpty(t *testing.T) {
	a, _ := newTestApp(t, DefaultConfig())
	if a.Store().Len() != 0 || a.Overlay().Len() != 0 {
		t.Fatal("app should start with no products")
	}
	if !a.Overlay().HintVisible() {
		t.Error("empty overlay should show the hint")
	}
	if a.List().Rows() != 1 {
		t.Errorf("list rows = %d, want the placeholder row", a.List().Rows())
	}
	if a.clearBtn.Visible() {
		t.Error("Clear All should be hidden when empty")
	}
	if !a.Input().Focused() {
		t.Error("URL field should start focused")
	}
	if w, h := a.Layout(0, 0); w != 1120 || h != 720 {
		t.Errorf("Layout = %dx%d", w, h)
	}
}

func TestAppRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Products.Types = nil
	if _, err := newApp(cfg, nil, newStubFetcher()); err == nil {
		t.Error("newApp should validate the config")
	}
}

func TestAppAddFromInputEmpty(t *testing.T) {
	a, _ := newTestApp(t, DefaultConfig())
	a.Input().SetValue("   ")
	a.AddFromInput()
	if a.Store().Len() != 0 {
		t.Error("blank URL added a product")
	}
	if !a.Toast().Visible() || a.Toast().Message() != msgEmptyURL {
		t.Errorf("toast visible %v message %q", a.Toast().Visible(), a.Toast().Message())
	}
}

func TestAppAddFromInput(t *testing.T) {
	a, f := newTestApp(t, DefaultConfig())
	f.add("https://x.io/shoe.png")
	a.Selector().SetValue("shoes")
	a.Input().SetValue("  https://x.io/shoe.png ")
	a.AddFromInput()

	products := a.Store().Products()
	if len(products) != 1 {
		t.Fatalf("products = %d, want 1", len(products))
	}
	p := products[0]
	if p.ImageURL != "https://x.io/shoe.png" || p.Type != "shoes" {
		t.Errorf("product = %+v", p)
	}
	if p.Position != DefaultOrigin || p.Scale != 1 {
		t.Errorf("placement = %v scale %v", p.Position, p.Scale)
	}
	if a.Input().Value() != "" {
		t.Errorf("input = %q, want cleared", a.Input().Value())
	}
	if a.Overlay().Len() != 1 || a.List().Rows() != 1 || a.Overlay().HintVisible() {
		t.Error("views not re-rendered")
	}
	if !a.clearBtn.Visible() {
		t.Error("Clear All should show once a product exists")
	}

	pollUntil(t, a.images, 1)
	if n := f.callCount("https://x.io/shoe.png"); n != 1 {
		t.Errorf("fetches = %d, want 1", n)
	}
}

func TestAppAddButtonClick(t *testing.T) {
	a, _ := newTestApp(t, DefaultConfig())
	a.Input().SetValue("https://x.io/a.png")
	a.Scene().InjectClick(60, 120)
	drain(a.Scene())
	if a.Store().Len() != 1 {
		t.Errorf("products = %d after clicking Add", a.Store().Len())
	}
}

func TestAppDragThroughScene(t *testing.T) {
	a, _ := newTestApp(t, DefaultConfig())
	a.Input().SetValue("https://x.io/a.png")
	a.AddFromInput()
	a.Scene().step(testDT)

	// The viewer starts at (360, 20); the product sits at (150, 150) in it.
	s := a.Scene()
	s.InjectPress(510, 170)
	s.InjectMove(560, 220)
	s.InjectRelease(560, 220)
	drain(s)

	p := a.Store().Products()[0]
	if p.Position != (Vec2{200, 200}) {
		t.Errorf("position = %v, want (200, 200)", p.Position)
	}
}

func TestAppRemoveProduct(t *testing.T) {
	a, _ := newTestApp(t, DefaultConfig())
	for _, u := range []string{"u1", "u2"} {
		a.Input().SetValue(u)
		a.AddFromInput()
	}
	first := a.Store().Products()[0].ID
	a.RemoveProduct(first)
	a.RemoveProduct("ghost")
	if a.Store().Len() != 1 || a.Overlay().Len() != 1 || a.List().Rows() != 1 {
		t.Errorf("store %d overlay %d rows %d", a.Store().Len(), a.Overlay().Len(), a.List().Rows())
	}
	if a.Overlay().Element(first) != nil {
		t.Error("removed product still rendered")
	}
}

func TestAppClearNeedsConfirmation(t *testing.T) {
	a, _ := newTestApp(t, DefaultConfig())

	a.RequestClear()
	if a.Dialog().Open() {
		t.Fatal("clearing an empty store should not ask")
	}

	a.Input().SetValue("u1")
	a.AddFromInput()
	a.RequestClear()
	if !a.Dialog().Open() {
		t.Fatal("dialog should open")
	}
	for _, b := range []*Button{a.addBtn, a.exportBt, a.clearBtn} {
		if b.enabled {
			t.Errorf("%s enabled while the dialog is open", b.Node().Name)
		}
	}
	a.Dialog().Cancel()
	if a.Store().Len() != 1 {
		t.Fatal("cancel removed products")
	}
	if !a.addBtn.enabled || !a.clearBtn.enabled {
		t.Error("cancel should re-enable the panel")
	}

	a.RequestClear()
	a.Dialog().Confirm()
	if a.Store().Len() != 0 || a.Overlay().Len() != 0 || !a.Overlay().HintVisible() {
		t.Error("confirm should clear every view")
	}
	if a.List().Rows() != 1 || a.List().rows.Children()[0].Text != EmptyListText {
		t.Errorf("list rows = %d, want only the %q placeholder", a.List().Rows(), EmptyListText)
	}
	if a.List().header.Text != "Products (0)" {
		t.Errorf("list header = %q", a.List().header.Text)
	}
	if a.clearBtn.Visible() {
		t.Error("Clear All should hide again")
	}
	if !a.addBtn.enabled || !a.exportBt.enabled {
		t.Error("confirm should re-enable the panel")
	}
}

// pollApp waits for one image change and applies it the way Update does.
func pollApp(t *testing.T, a *App) {
	t.Helper()
	changed := pollUntil(t, a.images, 1)
	a.overlay.RefreshImages(changed)
	a.list.RefreshImages(changed)
}

func TestAppRetryFailedThumbnail(t *testing.T) {
	a, f := newTestApp(t, DefaultConfig())
	a.Input().SetValue("late.png")
	a.AddFromInput()
	pollApp(t, a)
	if _, state := a.images.Lookup("late.png"); state != ImageFailed {
		t.Fatalf("state = %v, want failed", state)
	}
	if a.Overlay().Element(a.Store().Products()[0].ID).Image != a.images.OverlayFallback() {
		t.Fatal("overlay should show the error tile")
	}

	f.add("late.png")
	thumb := a.List().thumbs["late.png"][0]
	a.Scene().step(testDT)
	wx, wy := thumb.LocalToWorld(listThumbSize/2, listThumbSize/2)
	a.Scene().InjectClick(wx, wy)
	drain(a.Scene())
	if _, state := a.images.Lookup("late.png"); state != ImagePending {
		t.Fatalf("state after click = %v, want pending", state)
	}
	elem := a.Overlay().Element(a.Store().Products()[0].ID)
	if elem.Image != nil || thumb.Image != nil {
		t.Error("overlay and thumbnail should show the loading box while retrying")
	}

	pollApp(t, a)
	if n := f.callCount("late.png"); n != 2 {
		t.Errorf("fetches = %d, want one retry", n)
	}
	tex, state := a.images.Lookup("late.png")
	if state != ImageReady || elem.Image != tex || thumb.Image != tex {
		t.Errorf("state %v, overlay or thumbnail not refreshed", state)
	}
}

func TestAppClearDuringDrag(t *testing.T) {
	a, _ := newTestApp(t, DefaultConfig())
	a.Input().SetValue("u1")
	a.AddFromInput()
	a.Scene().step(testDT)
	a.Scene().InjectPress(510, 170)
	drain(a.Scene())
	if _, ok := a.Controller().Dragging(); !ok {
		t.Fatal("drag did not start")
	}
	a.ClearAll()
	if _, ok := a.Controller().Dragging(); ok {
		t.Error("clear should end the drag")
	}
}

func TestAppExport(t *testing.T) {
	a, _ := newTestApp(t, DefaultConfig())
	a.Export()
	if a.Toast().Message() != msgExportPending {
		t.Errorf("toast = %q", a.Toast().Message())
	}
}

func TestAppScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	script := `
steps:
  - {action: type, text: "https://x.io/a.png"}
  - {action: select, text: hat}
  - {action: add}
  - {action: wheel, x: 510, y: 170, delta: 1}
  - {action: clear}
  - {action: cancel}
  - {action: export}
`
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Script = ScriptConfig{Path: path, ScreenshotDir: filepath.Join(dir, "shots"), ExitWhenDone: true}
	a, _ := newTestApp(t, cfg)

	for i := 0; i < 30 && !a.script.Done(); i++ {
		a.Scene().step(testDT)
	}
	if !a.script.Done() {
		t.Fatal("script did not finish")
	}
	products := a.Store().Products()
	if len(products) != 1 || products[0].Type != "hat" || products[0].Scale != 1.1 {
		t.Errorf("products = %+v", products)
	}
	if a.Dialog().Open() {
		t.Error("cancel should close the dialog")
	}
	if a.Toast().Message() != msgExportPending {
		t.Errorf("toast = %q", a.Toast().Message())
	}
	if a.Scene().ScreenshotDir != filepath.Join(dir, "shots") {
		t.Errorf("screenshot dir = %q", a.Scene().ScreenshotDir)
	}
}

func TestAppScriptMissingFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Script.Path = filepath.Join(t.TempDir(), "none.yaml")
	if _, err := newApp(cfg, nil, newStubFetcher()); err == nil {
		t.Error("missing script should fail")
	}
}

func TestAppModelImage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Viewer.ModelImage = "missing-model.png"
	a, _ := newTestApp(t, cfg)
	if a.Overlay().background.Image == nil {
		t.Error("unavailable model should fall back to the silhouette")
	}

	cfg.Viewer.ModelImage = "model.png"
	f := newStubFetcher()
	f.add("model.png")
	b, err := newApp(cfg, nil, f)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if f.callCount("model.png") != 1 || b.Overlay().background.Image == nil {
		t.Error("configured model not loaded")
	}
}
