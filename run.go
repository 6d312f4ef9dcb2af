package lookbook

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Run opens the window described by cfg and blocks until it is closed or a
// replay script finishes with exit_when_done set.
func Run(cfg Config, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	app, err := NewApp(cfg, log)
	if err != nil {
		return errors.Wrap(err, "create app")
	}
	defer app.Close()

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	log.Info("starting",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.String("id_strategy", cfg.Products.IDStrategy),
		zap.Bool("debug", cfg.Debug),
	)
	if err := ebiten.RunGame(app); err != nil && !errors.Is(err, ebiten.Termination) {
		return errors.Wrap(err, "run game")
	}
	log.Info("stopped", zap.Int("products", app.Store().Len()))
	return nil
}
