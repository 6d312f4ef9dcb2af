package lookbook

// ConfirmDialog is a modal yes/no prompt. While open, a full-screen backdrop
// sits on top of everything else and absorbs pointer input.
type ConfirmDialog struct {
	root    *Node
	message *Node
	yes     *Button
	no      *Button
	onYes   func()

	onToggle func(open bool)
}

// NewConfirmDialog builds a hidden dialog covering screen.
func NewConfirmDialog(scene *Scene, screen Rect, fonts *Fonts) *ConfirmDialog {
	const w, h = 380.0, 150.0

	root := NewContainer("dialog")
	root.ZIndex = 8000
	root.Interactable = true
	root.Visible = false

	backdrop := NewSprite("dialog_backdrop", nil, screen.Width, screen.Height)
	backdrop.SetPosition(screen.X, screen.Y)
	backdrop.Color = Color{R: 0, G: 0, B: 0, A: 0.45}
	backdrop.Interactable = true
	root.AddChild(backdrop)

	panel := NewSprite("dialog_panel", nil, w, h)
	panel.SetPosition(screen.X+(screen.Width-w)/2, screen.Y+(screen.Height-h)/2)
	panel.Interactable = true
	root.AddChild(panel)

	msg := NewText("dialog_message", "", fonts.Body)
	msg.SetPosition(20, 28)
	msg.Color = Color{R: 0.07, G: 0.09, B: 0.15, A: 1}
	panel.AddChild(msg)

	d := &ConfirmDialog{root: root, message: msg}
	d.no = NewButton(scene, "dialog_no", "Cancel", Rect{X: w - 220, Y: h - 56, Width: 96, Height: 36},
		fonts.Body, Color{R: 0.42, G: 0.45, B: 0.5, A: 1}, d.Cancel)
	d.yes = NewButton(scene, "dialog_yes", "OK", Rect{X: w - 112, Y: h - 56, Width: 96, Height: 36},
		fonts.Body, Color{R: 0.86, G: 0.15, B: 0.15, A: 1}, d.Confirm)
	panel.AddChild(d.no.Node())
	panel.AddChild(d.yes.Node())
	return d
}

// Node returns the dialog root.
func (d *ConfirmDialog) Node() *Node {
	return d.root
}

// Ask opens the dialog with msg. onYes runs if the user confirms.
func (d *ConfirmDialog) Ask(msg string, onYes func()) {
	d.message.Text = msg
	d.onYes = onYes
	if !d.root.Visible {
		d.root.Visible = true
		d.toggled(true)
	}
}

// SetOnToggle registers fn to run whenever the dialog opens or closes.
func (d *ConfirmDialog) SetOnToggle(fn func(open bool)) {
	d.onToggle = fn
}

func (d *ConfirmDialog) toggled(open bool) {
	if d.onToggle != nil {
		d.onToggle(open)
	}
}

// Open reports whether the dialog is showing.
func (d *ConfirmDialog) Open() bool {
	return d.root.Visible
}

// Confirm closes the dialog and runs the pending action.
func (d *ConfirmDialog) Confirm() {
	if !d.root.Visible {
		return
	}
	fn := d.onYes
	d.close()
	if fn != nil {
		fn()
	}
}

// Cancel closes the dialog without running the pending action.
func (d *ConfirmDialog) Cancel() {
	d.close()
}

func (d *ConfirmDialog) close() {
	wasOpen := d.root.Visible
	d.root.Visible = false
	d.onYes = nil
	if wasOpen {
		d.toggled(false)
	}
}
