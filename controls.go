package lookbook

import (
	"strings"
	"unicode"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween/ease"
)

const hoverTweenSeconds = 0.12

// Button is a clickable box with a centered label and a tweened hover tint.
type Button struct {
	node    *Node
	label   *Node
	scene   *Scene
	base    Color
	hover   Color
	enabled bool
	onClick func()
	tween   *TweenGroup
}

// NewButton creates a button node at bounds. The returned button is already
// interactable; add Node() to the tree.
func NewButton(scene *Scene, name, label string, bounds Rect, face text.Face, base Color, onClick func()) *Button {
	node := NewSprite(name, nil, bounds.Width, bounds.Height)
	node.SetPosition(bounds.X, bounds.Y)
	node.Color = base
	node.Interactable = true

	lbl := NewText(name+"_label", "", face)
	lbl.Color = ColorWhite
	node.AddChild(lbl)

	b := &Button{
		node:    node,
		label:   lbl,
		scene:   scene,
		base:    base,
		hover:   lighten(base, 0.15),
		enabled: true,
		onClick: onClick,
	}
	b.SetLabel(label)

	node.OnPointerEnter = func(PointerContext) {
		if b.enabled {
			b.tintTo(b.hover)
		}
	}
	node.OnPointerLeave = func(PointerContext) {
		b.tintTo(b.base)
	}
	node.OnClick = func(ctx PointerContext) {
		if b.enabled && ctx.Button == MouseButtonLeft && b.onClick != nil {
			b.onClick()
		}
	}
	return b
}

// Node returns the button's root node.
func (b *Button) Node() *Node {
	return b.node
}

// Label returns the current label text.
func (b *Button) Label() string {
	return b.label.Text
}

// SetLabel replaces the label and re-centers it.
func (b *Button) SetLabel(s string) {
	b.label.Text = s
	if face := b.label.Face; face != nil {
		b.label.SetPosition((b.node.Width-measure(s, face))/2, (b.node.Height-lineHeight(face))/2)
	}
}

// SetEnabled toggles click handling; disabled buttons render dimmed.
func (b *Button) SetEnabled(enabled bool) {
	b.enabled = enabled
	if enabled {
		b.node.SetAlpha(1)
	} else {
		b.node.SetAlpha(0.5)
	}
}

// SetVisible shows or hides the button. Hidden buttons are not hit-tested.
func (b *Button) SetVisible(visible bool) {
	b.node.Visible = visible
}

// Visible reports whether the button is shown.
func (b *Button) Visible() bool {
	return b.node.Visible
}

func (b *Button) tintTo(c Color) {
	if b.tween != nil {
		b.tween.Stop()
	}
	b.tween = TweenColor(b.node, c, hoverTweenSeconds, ease.OutQuad)
	b.scene.Animate(b.tween)
}

// lighten blends c toward white in Lab space so hues keep their tone.
func lighten(c Color, amount float64) Color {
	base := colorful.Color{R: c.R, G: c.G, B: c.B}
	l := base.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, amount).Clamped()
	return Color{R: l.R, G: l.G, B: l.B, A: c.A}
}

// --- TextField ---

const (
	keyRepeatDelay    = 24 // ticks
	keyRepeatInterval = 3  // ticks
	caretBlinkSeconds = 0.5
	textFieldPadding  = 8
)

// TextField is a single-line text input. Keyboard input is read by
// HandleKeys while the field has focus.
type TextField struct {
	node        *Node
	text        *Node
	caret       *Node
	value       []rune
	placeholder string
	focused     bool
	maxLen      int

	// OnSubmit fires when Enter is pressed while focused.
	OnSubmit func()

	paste func() (string, error)
}

// NewTextField creates an input box at bounds.
func NewTextField(name string, bounds Rect, face text.Face, placeholder string) *TextField {
	node := NewSprite(name, nil, bounds.Width, bounds.Height)
	node.SetPosition(bounds.X, bounds.Y)
	node.Color = Color{R: 0.98, G: 0.98, B: 0.99, A: 1}
	node.Interactable = true

	txt := NewText(name+"_text", "", face)
	ty := (bounds.Height - lineHeight(face)) / 2
	txt.SetPosition(textFieldPadding, ty)
	node.AddChild(txt)

	caret := NewSprite(name+"_caret", nil, 1.5, lineHeight(face))
	caret.Color = Color{R: 0.07, G: 0.09, B: 0.15, A: 1}
	caret.Visible = false
	caret.SetPosition(textFieldPadding, ty)
	node.AddChild(caret)

	f := &TextField{
		node:        node,
		text:        txt,
		caret:       caret,
		placeholder: placeholder,
		maxLen:      2048,
		paste:       clipboard.ReadAll,
	}
	node.OnClick = func(PointerContext) { f.Focus() }

	var blink float64
	node.OnUpdate = func(dt float64) {
		if !f.focused {
			f.caret.Visible = false
			return
		}
		blink += dt
		if blink >= caretBlinkSeconds {
			blink = 0
			f.caret.Visible = !f.caret.Visible
		}
	}
	f.refresh()
	return f
}

// Node returns the field's root node.
func (f *TextField) Node() *Node {
	return f.node
}

// Value returns the current text.
func (f *TextField) Value() string {
	return string(f.value)
}

// SetValue replaces the text.
func (f *TextField) SetValue(s string) {
	f.value = f.value[:0]
	f.Insert(s)
}

// Insert appends s, dropping control characters and line breaks.
func (f *TextField) Insert(s string) {
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		if len(f.value) >= f.maxLen {
			break
		}
		f.value = append(f.value, r)
	}
	f.refresh()
}

// Backspace deletes the last rune.
func (f *TextField) Backspace() {
	if len(f.value) == 0 {
		return
	}
	f.value = f.value[:len(f.value)-1]
	f.refresh()
}

// Paste inserts the clipboard text.
func (f *TextField) Paste() error {
	s, err := f.paste()
	if err != nil {
		return err
	}
	f.Insert(strings.TrimSpace(s))
	return nil
}

// Focus gives the field keyboard focus.
func (f *TextField) Focus() {
	f.focused = true
	f.caret.Visible = true
	f.refresh()
}

// Blur drops keyboard focus.
func (f *TextField) Blur() {
	f.focused = false
	f.caret.Visible = false
	f.refresh()
}

// Focused reports whether the field has keyboard focus.
func (f *TextField) Focused() bool {
	return f.focused
}

// HandleKeys reads this frame's keyboard input. It returns any error from a
// clipboard paste.
func (f *TextField) HandleKeys() error {
	if !f.focused {
		return nil
	}
	var buf [16]rune
	if chars := ebiten.AppendInputChars(buf[:0]); len(chars) > 0 {
		f.Insert(string(chars))
	}
	if repeatingKeyPressed(ebiten.KeyBackspace) {
		f.Backspace()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		if f.OnSubmit != nil {
			f.OnSubmit()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		f.Blur()
	}
	pasteMod := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	if pasteMod && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		return f.Paste()
	}
	return nil
}

// refresh shows the tail of the value that fits, or the placeholder.
func (f *TextField) refresh() {
	face := f.text.Face
	avail := f.node.Width - 2*textFieldPadding
	if len(f.value) == 0 && !f.focused {
		f.text.Text = f.placeholder
		f.text.Color = Color{R: 0.61, G: 0.64, B: 0.69, A: 1}
		f.caret.SetPosition(textFieldPadding, f.caret.Y)
		return
	}
	f.text.Color = Color{R: 0.07, G: 0.09, B: 0.15, A: 1}
	visible := f.value
	if face != nil {
		for len(visible) > 0 && measure(string(visible), face) > avail {
			visible = visible[1:]
		}
	}
	f.text.Text = string(visible)
	w := 0.0
	if face != nil {
		w = measure(f.text.Text, face)
	}
	f.caret.SetPosition(textFieldPadding+w, f.caret.Y)
}

func repeatingKeyPressed(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= keyRepeatDelay && (d-keyRepeatDelay)%keyRepeatInterval == 0
}

// --- Selector ---

// Selector cycles through a fixed list of options on click.
type Selector struct {
	button  *Button
	options []string
	index   int

	// OnChange fires after the selection changes.
	OnChange func(value string)
}

// NewSelector creates a selector showing the first option.
func NewSelector(scene *Scene, name string, bounds Rect, face text.Face, options []string) *Selector {
	s := &Selector{options: options}
	s.button = NewButton(scene, name, "", bounds, face, Color{R: 0.29, G: 0.33, B: 0.39, A: 1}, s.Next)
	s.refresh()
	return s
}

// Node returns the selector's root node.
func (s *Selector) Node() *Node {
	return s.button.Node()
}

// Value returns the selected option, or "" if there are none.
func (s *Selector) Value() string {
	if len(s.options) == 0 {
		return ""
	}
	return s.options[s.index]
}

// Next advances to the following option, wrapping around.
func (s *Selector) Next() {
	if len(s.options) == 0 {
		return
	}
	s.index = (s.index + 1) % len(s.options)
	s.refresh()
	if s.OnChange != nil {
		s.OnChange(s.Value())
	}
}

// SetValue selects v if it is one of the options.
func (s *Selector) SetValue(v string) bool {
	for i, o := range s.options {
		if o == v {
			s.index = i
			s.refresh()
			return true
		}
	}
	return false
}

func (s *Selector) refresh() {
	s.button.SetLabel("Type: " + s.Value() + "  >")
}

// --- Toast ---

const (
	toastHoldSeconds = 2.2
	toastFadeSeconds = 0.4
)

// Toast is a transient notification that fades out on its own.
type Toast struct {
	node  *Node
	label *Node
	scene *Scene
	hold  float64
	fade  *TweenGroup
}

// NewToast creates a hidden toast centered horizontally in screen.
func NewToast(scene *Scene, screen Rect, face text.Face) *Toast {
	const w, h = 420.0, 44.0
	node := NewSprite("toast", nil, w, h)
	node.SetPosition(screen.X+(screen.Width-w)/2, screen.Y+24)
	node.Color = Color{R: 0.07, G: 0.09, B: 0.15, A: 0.92}
	node.ZIndex = 9000
	node.Visible = false

	lbl := NewText("toast_label", "", face)
	lbl.Color = ColorWhite
	node.AddChild(lbl)

	t := &Toast{node: node, label: lbl, scene: scene}
	node.OnUpdate = t.update
	return t
}

// Node returns the toast's root node.
func (t *Toast) Node() *Node {
	return t.node
}

// Show displays msg, restarting the hold timer.
func (t *Toast) Show(msg string) {
	if t.fade != nil {
		t.fade.Stop()
		t.fade = nil
	}
	t.label.Text = msg
	if face := t.label.Face; face != nil {
		msg = ellipsize(msg, face, t.node.Width-24)
		t.label.Text = msg
		t.label.SetPosition((t.node.Width-measure(msg, face))/2, (t.node.Height-lineHeight(face))/2)
	}
	t.node.Visible = true
	t.node.SetAlpha(1)
	t.hold = toastHoldSeconds
}

// Message returns the last message shown.
func (t *Toast) Message() string {
	return t.label.Text
}

// Visible reports whether the toast is on screen.
func (t *Toast) Visible() bool {
	return t.node.Visible
}

func (t *Toast) update(dt float64) {
	if !t.node.Visible || t.hold <= 0 {
		return
	}
	t.hold -= dt
	if t.hold <= 0 {
		fade := TweenAlpha(t.node, 0, toastFadeSeconds, ease.InQuad)
		fade.OnDone = func() {
			t.node.Visible = false
			t.fade = nil
		}
		t.fade = fade
		t.scene.Animate(fade)
	}
}
