package app

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keygrid/internal/config"
	"github.com/dshills/keygrid/internal/menu"
)

// Interrupt payloads posted to the event loop from other goroutines.
type (
	quitRequest  struct{}
	modelChanged struct{}

	actionDone struct {
		title string
		err   error
	}

	configReloaded struct {
		cfg *config.Config
		err error
	}

	scriptChanged struct {
		path string
	}
)

// handleEvent processes one screen event. It returns ErrQuit when the
// application should exit.
func (app *Application) handleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		app.term.Resize()
	case *tcell.EventKey:
		return app.handleKey(ev)
	case *tcell.EventMouse:
		app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return app.handleInterrupt(ev.Data())
	}
	return nil
}

func (app *Application) handleInterrupt(data any) error {
	switch d := data.(type) {
	case quitRequest:
		return ErrQuit

	case modelChanged:
		app.clampCursor()

	case actionDone:
		if d.err != nil {
			app.logger.WithComponent("action").WithField("action", d.title).Error("%v", d.err)
			app.term.SetStatus(d.title + " failed: " + d.err.Error())
			return nil
		}
		app.logger.Debug("%s done", d.title)
		app.term.SetStatus(d.title)

	case configReloaded:
		app.applyConfig(d.cfg, d.err)

	case scriptChanged:
		app.logger.WithComponent("script").Info("rerunning %s", d.path)
		app.runAsync(menu.Item{Title: "Script", Action: func(ctx context.Context) error {
			return app.scripts.RunFile(ctx, d.path)
		}})
	}
	return nil
}

// applyConfig switches to a reloaded configuration. Command line settings
// still take precedence.
func (app *Application) applyConfig(cfg *config.Config, err error) {
	log := app.logger.WithComponent("config")
	if err != nil {
		log.Warn("reload failed: %v", err)
		app.term.SetStatus("config reload failed")
		return
	}

	app.applyOptions(cfg)

	app.mu.Lock()
	app.config = cfg
	app.mu.Unlock()

	app.logger.SetLevel(ParseLogLevel(cfg.Log.Level))
	app.term.SetColumnWidth(cfg.UI.ColumnWidth)
	app.model.Enlarge(cfg.Grid.Width, cfg.Grid.Height)

	log.Info("reloaded")
	app.term.SetStatus("config reloaded")
}

// runAsync runs item on its own goroutine and reports the result back to
// the event loop. Clipboard access may block, so no action runs on the
// loop itself.
func (app *Application) runAsync(item menu.Item) {
	ctx := app.ctx
	go func() {
		err := item.Run(ctx)
		app.post(actionDone{title: item.Title, err: err})
	}()
}
