package lookbook

import "testing"

func TestLoadScript(t *testing.T) {
	r, err := LoadScript([]byte(`
steps:
  - action: type
    text: https://x.io/a.png
  - action: drag
    from_x: 10
    from_y: 20
    to_x: 30
    to_y: 40
    frames: 5
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(r.steps))
	}
	drag := r.steps[1]
	if drag.FromX != 10 || drag.FromY != 20 || drag.ToX != 30 || drag.ToY != 40 || drag.Frames != 5 {
		t.Errorf("drag = %+v", drag)
	}

	// JSON is a subset of YAML.
	if _, err := LoadScript([]byte(`{"steps":[{"action":"wait","frames":2}]}`)); err != nil {
		t.Errorf("JSON script: %v", err)
	}
}

func TestLoadScriptErrors(t *testing.T) {
	for _, src := range []string{"steps: [", "steps: []", ""} {
		if _, err := LoadScript([]byte(src)); err == nil {
			t.Errorf("LoadScript(%q) = nil error", src)
		}
	}
}

func TestScriptRunsPointerSteps(t *testing.T) {
	s := newTestScene()
	btn := interactiveSprite("btn", 0, 0, 50, 50)
	clicks, wheels := 0, 0.0
	btn.OnClick = func(PointerContext) { clicks++ }
	btn.OnWheel = func(ctx WheelContext) { wheels += ctx.DeltaY }
	s.Root().AddChild(btn)

	r, err := LoadScript([]byte(`
steps:
  - {action: click, x: 10, y: 10}
  - {action: wheel, x: 10, y: 10, delta: 1}
  - {action: screenshot, label: after click}
`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetScript(r)
	for i := 0; i < 20 && !r.Done(); i++ {
		s.step(testDT)
	}
	if !r.Done() {
		t.Fatal("script did not finish")
	}
	if clicks != 1 || wheels != 1 {
		t.Errorf("clicks = %d wheels = %v", clicks, wheels)
	}
	if len(s.screenshotQueue) != 1 || s.screenshotQueue[0] != "after click" {
		t.Errorf("screenshot queue = %v", s.screenshotQueue)
	}
}

func TestScriptWaitAndActions(t *testing.T) {
	s := newTestScene()
	r, err := LoadScript([]byte(`
steps:
  - {action: wait, frames: 3}
  - {action: type, text: hello}
  - {action: mystery}
`))
	if err != nil {
		t.Fatal(err)
	}
	var typed []string
	r.Actions["type"] = func(st ScriptStep) { typed = append(typed, st.Text) }
	s.SetScript(r)

	frames := 0
	for !r.Done() && frames < 20 {
		s.step(testDT)
		frames++
		if frames <= 3 && len(typed) > 0 {
			t.Fatalf("action ran during the wait on frame %d", frames)
		}
	}
	if len(typed) != 1 || typed[0] != "hello" {
		t.Errorf("typed = %v", typed)
	}
	// wait(1) + 2 idle + type + mystery.
	if frames != 5 {
		t.Errorf("frames = %d, want 5", frames)
	}
}

func TestScriptDragInjectsFrames(t *testing.T) {
	s := newTestScene()
	n := interactiveSprite("n", 0, 0, 100, 100)
	var downs, moves, ups int
	n.OnPointerDown = func(PointerContext) { downs++ }
	n.OnPointerMove = func(PointerContext) { moves++ }
	n.OnPointerUp = func(PointerContext) { ups++ }
	s.Root().AddChild(n)

	r, err := LoadScript([]byte(`steps: [{action: drag, from_x: 10, from_y: 10, to_x: 90, to_y: 90, frames: 4}]`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetScript(r)
	for i := 0; i < 20 && !r.Done(); i++ {
		s.step(testDT)
	}
	if !r.Done() {
		t.Fatal("script did not finish")
	}
	if downs != 1 || ups != 1 || moves < 2 {
		t.Errorf("downs = %d moves = %d ups = %d", downs, moves, ups)
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"after click", "after_click"},
		{"  ", "unlabeled"},
		{"v1.2-final", "v1.2-final"},
		{"a/b\\c", "a_b_c"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
