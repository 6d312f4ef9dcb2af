package lookbook

// syntheticEvent is a single injected pointer or wheel event. Coordinates are
// screen coordinates, identical to real mouse input.
type syntheticEvent struct {
	sample pointerSample
}

func (s *Scene) inject(sample pointerSample) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{sample: sample})
}

// InjectPress queues a left-button press at the given screen coordinates.
// The event is consumed on the next frame's input pass.
func (s *Scene) InjectPress(x, y float64) {
	s.inject(pointerSample{x: x, y: y, pressed: true, button: MouseButtonLeft})
}

// InjectButtonPress queues a press of an arbitrary button.
func (s *Scene) InjectButtonPress(x, y float64, button MouseButton) {
	s.inject(pointerSample{x: x, y: y, pressed: true, button: button})
}

// InjectMove queues a pointer move with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (s *Scene) InjectMove(x, y float64) {
	s.inject(pointerSample{x: x, y: y, pressed: true, button: MouseButtonLeft})
}

// InjectHover queues a pointer move with no button held.
func (s *Scene) InjectHover(x, y float64) {
	s.inject(pointerSample{x: x, y: y})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (s *Scene) InjectRelease(x, y float64) {
	s.inject(pointerSample{x: x, y: y, button: MouseButtonLeft})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate frames, and release at
// (toX, toY). Minimum frames is 2 (press + release).
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// InjectWheel queues one wheel tick over (x, y). Positive deltaY scrolls up.
// Buttons stay as they are, so a tick during a drag does not release it.
func (s *Scene) InjectWheel(x, y, deltaY float64) {
	s.inject(pointerSample{x: x, y: y, wheelY: deltaY, holdButtons: true})
}

// PendingInput reports how many injected events are still queued.
func (s *Scene) PendingInput() int {
	return len(s.injectQueue)
}

func (s *Scene) popInjected() (pointerSample, bool) {
	if len(s.injectQueue) == 0 {
		return pointerSample{}, false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	return evt.sample, true
}
