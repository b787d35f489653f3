// Package app wires the grid model, renderer, menus, clipboard, scripting
// and configuration together and runs the terminal event loop.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keygrid/internal/clipboard"
	"github.com/dshills/keygrid/internal/config"
	"github.com/dshills/keygrid/internal/event"
	"github.com/dshills/keygrid/internal/grid"
	"github.com/dshills/keygrid/internal/grid/selection"
	"github.com/dshills/keygrid/internal/menu"
	"github.com/dshills/keygrid/internal/renderer"
	"github.com/dshills/keygrid/internal/script"
)

// Options are command line settings. Non-zero values override the config
// file and environment.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// ScriptPath is a Lua script run at startup.
	ScriptPath string

	// Watch reloads the config file and reruns the script when they change.
	Watch bool

	// Width and Height set the initial grid size.
	Width  int
	Height int

	// LegacyTitles derives column titles the way earlier releases did.
	LegacyTitles bool

	// LogFile receives log output.
	LogFile string

	// Env overrides config settings. Nil reads the process environment.
	Env *config.EnvLoader
}

// Application is the central coordinator for all keygrid components.
type Application struct {
	mu sync.RWMutex

	opts   Options
	loader *config.Loader
	config *config.Config

	logger    *Logger
	logCloser io.Closer

	bus     *event.Bus
	model   *grid.Model
	clip    clipboard.Clipboard
	menus   *menu.Builder
	scripts *script.Engine
	watcher *config.Watcher

	screen tcell.Screen
	term   *renderer.Terminal

	changeSub event.Subscription

	// ctx is the Run context, used by background actions.
	ctx context.Context

	// UI state, owned by the event loop goroutine.
	anchor    grid.Address
	sel       selection.Selection
	editing   bool
	edit      []rune
	menu      *menu.Menu
	menuIndex int
	buttons   tcell.ButtonMask

	running atomic.Bool
}

// New creates an application: it loads the configuration and builds the
// model, clipboard, menus and script engine. The screen is created by Run
// unless SetScreen was called.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts, ctx: context.Background(), logger: NullLogger}

	if err := app.bootstrap(); err != nil {
		app.closeLog()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	var loaderOpts []config.LoaderOption
	if app.opts.Env != nil {
		loaderOpts = append(loaderOpts, config.WithEnv(app.opts.Env))
	}
	app.loader = config.NewLoader(loaderOpts...)

	cfg, err := app.loader.Load(app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.applyOptions(cfg)
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.config = cfg

	// 2. Logger
	if err := app.openLog(); err != nil {
		return &InitError{Component: "logger", Err: err}
	}

	// 3. Event bus and model
	app.bus = event.NewBus(
		event.WithPanicHandler(func(ev event.Event, id string, recovered any) {
			app.logger.WithComponent("event").Error("handler %s panicked on %s: %v", id, ev.Topic, recovered)
		}),
		event.WithErrorHandler(func(err *event.HandlerError) {
			app.logger.WithComponent("event").Warn("%v", err)
		}),
	)

	modelOpts := []grid.Option{
		grid.WithSize(cfg.Grid.Width, cfg.Grid.Height),
		grid.WithBus(app.bus),
	}
	if cfg.Grid.LegacyTitles {
		modelOpts = append(modelOpts, grid.WithLegacyTitles())
	}
	app.model = grid.New(modelOpts...)
	app.model.Enlarge(cfg.Grid.Width, cfg.Grid.Height)

	// 4. Clipboard
	app.clip = app.newClipboard(cfg.Clipboard.Backend)

	// 5. Menus and scripting
	app.menus = menu.NewBuilder(app.model, app.clip)
	app.scripts = script.New(app.model, script.WithOutput(app.logger.WithComponent("script").Writer(LogLevelInfo)))

	app.setSelection(selection.Cell(grid.Address{}))
	return nil
}

// applyOptions copies non-zero command line settings over cfg.
func (app *Application) applyOptions(cfg *config.Config) {
	o := app.opts
	if o.Width > 0 {
		cfg.Grid.Width = o.Width
	}
	if o.Height > 0 {
		cfg.Grid.Height = o.Height
	}
	if o.LegacyTitles {
		cfg.Grid.LegacyTitles = true
	}
	if o.LogFile != "" {
		cfg.Log.File = o.LogFile
	}
	if o.ScriptPath != "" {
		cfg.Script.Path = o.ScriptPath
	}
	if o.Watch {
		cfg.Script.Watch = true
	}
}

// openLog sends logs to the configured file, or discards them: the
// terminal belongs to the grid.
func (app *Application) openLog() error {
	out := io.Discard
	if app.config.Log.File != "" {
		f, err := os.OpenFile(app.config.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		out, app.logCloser = f, f
	}

	app.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(app.config.Log.Level),
		Output: out,
		Prefix: "keygrid",
	})
	return nil
}

func (app *Application) closeLog() {
	if app.logCloser != nil {
		_ = app.logCloser.Close()
		app.logCloser = nil
	}
}

// newClipboard returns the configured backend, falling back to an
// in-memory clipboard when the system one is unavailable.
func (app *Application) newClipboard(backend string) clipboard.Clipboard {
	if backend == config.ClipboardMemory {
		return clipboard.NewMemory()
	}
	sys, err := clipboard.NewSystem()
	if err != nil {
		app.logger.WithComponent("clipboard").Warn("system clipboard unavailable, using memory: %v", err)
		return clipboard.NewMemory()
	}
	return sys
}

// SetScreen sets the terminal screen. Must be called before Run.
func (app *Application) SetScreen(s tcell.Screen) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.screen = s
	return nil
}

// Run initializes the screen, runs the startup script and processes events
// until the user quits or ctx is done.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := app.start(ctx); err != nil {
		return err
	}
	defer app.stop()

	go func() {
		<-ctx.Done()
		app.screen.PostEventWait(tcell.NewEventInterrupt(quitRequest{}))
	}()

	app.logger.Info("started with %dx%d grid", app.config.Grid.Width, app.config.Grid.Height)
	app.term.Draw()

	for {
		ev := app.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if err := app.handleEvent(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
		app.term.Draw()
	}
}

// start brings up the screen, renderer, subscriptions, script and
// watchers.
func (app *Application) start(ctx context.Context) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.ctx = ctx

	if app.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return &InitError{Component: "screen", Err: err}
		}
		app.screen = s
	}
	if err := app.screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	app.screen.EnableMouse()

	app.term = renderer.NewTerminal(app.screen, app.model, renderer.WithColumnWidth(app.config.UI.ColumnWidth))
	app.model.SetRenderer(app.term)
	app.term.SetSelection(app.sel)

	sub, err := app.model.OnChange(app.onModelChanged)
	if err != nil {
		app.screen.Fini()
		return &InitError{Component: "subscriptions", Err: err}
	}
	app.changeSub = sub

	if path := app.config.Script.Path; path != "" {
		if err := app.scripts.RunFile(ctx, path); err != nil {
			app.logger.WithComponent("script").Error("%s: %v", path, err)
			app.term.SetStatus("script failed: " + err.Error())
		}
	}

	if app.opts.Watch || app.config.Script.Watch {
		app.startWatcher()
	}
	return nil
}

// startWatcher watches the config file and script. Failures only disable
// reloading.
func (app *Application) startWatcher() {
	log := app.logger.WithComponent("watcher")

	w, err := config.NewWatcher(config.WithErrorHandler(func(err error) {
		log.Warn("%v", err)
	}))
	if err != nil {
		log.Warn("file watching disabled: %v", err)
		return
	}
	app.watcher = w

	if path := app.opts.ConfigPath; path != "" && app.opts.Watch {
		if err := w.WatchConfig(app.loader, path, func(cfg *config.Config, err error) {
			app.post(configReloaded{cfg: cfg, err: err})
		}); err != nil {
			log.Warn("watching %s: %v", path, err)
		}
	}
	if path := app.config.Script.Path; path != "" {
		if err := w.Watch(path, func(p string) {
			app.post(scriptChanged{path: p})
		}); err != nil {
			log.Warn("watching %s: %v", path, err)
		}
	}
}

// stop releases everything start acquired.
func (app *Application) stop() {
	if app.watcher != nil {
		_ = app.watcher.Close()
	}
	if app.changeSub != nil {
		_ = app.bus.Unsubscribe(app.changeSub)
	}
	app.model.SetRenderer(nil)
	app.screen.Fini()
	_ = app.scripts.Close()
	app.logger.Info("stopped")
	app.closeLog()
}

// onModelChanged runs on whichever goroutine mutated the model.
func (app *Application) onModelChanged() {
	app.term.Invalidate()
	app.post(modelChanged{})
}

// post wakes the event loop with payload.
func (app *Application) post(payload any) {
	if err := app.screen.PostEvent(tcell.NewEventInterrupt(payload)); err != nil {
		app.logger.Debug("event queue full: %v", err)
	}
}

// IsRunning returns true if the event loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config
}

// Model returns the grid model.
func (app *Application) Model() *grid.Model {
	return app.model
}

// Clipboard returns the clipboard in use.
func (app *Application) Clipboard() clipboard.Clipboard {
	return app.clip
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Selection returns the current selection.
func (app *Application) Selection() selection.Selection {
	return app.sel
}

// Menu returns the open context menu, or nil.
func (app *Application) Menu() *menu.Menu {
	return app.menu
}
