package lookbook

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ScriptStep is one action in an input script.
type ScriptStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	Text   string  `yaml:"text,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"from_x,omitempty"`
	FromY  float64 `yaml:"from_y,omitempty"`
	ToX    float64 `yaml:"to_x,omitempty"`
	ToY    float64 `yaml:"to_y,omitempty"`
	Delta  float64 `yaml:"delta,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

type scriptFile struct {
	Steps []ScriptStep `yaml:"steps"`
}

// ScriptRunner replays a recorded session one step per frame: pointer
// actions become injected input, "screenshot" queues a capture, and any
// other action is looked up in Actions. Attach with Scene.SetScript.
type ScriptRunner struct {
	steps     []ScriptStep
	cursor    int
	waitCount int
	done      bool

	// Actions handles application-level steps such as typing a URL.
	Actions map[string]func(ScriptStep)
}

// LoadScript parses a YAML (or JSON) script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse script")
	}
	if len(f.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	return &ScriptRunner{steps: f.Steps, Actions: make(map[string]func(ScriptStep))}, nil
}

// SetScript attaches a runner that is stepped before input each frame.
func (s *Scene) SetScript(r *ScriptRunner) {
	s.script = r
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

func (r *ScriptRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Injected input from the previous step drains first.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "click":
		s.InjectClick(st.X, st.Y)
	case "hover":
		s.InjectHover(st.X, st.Y)
	case "wheel":
		s.InjectWheel(st.X, st.Y, st.Delta)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	default:
		if fn, ok := r.Actions[st.Action]; ok {
			fn(st)
		} else {
			s.log.Warn("unknown script action", zap.String("action", st.Action))
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
