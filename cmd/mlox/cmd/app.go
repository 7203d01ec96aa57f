package cmd

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	mdwlog "github.com/msto63/mlox/foundation/core/log"
	"github.com/msto63/mlox/foundation/lox"
	"github.com/msto63/mlox/foundation/lox/parser"
	"github.com/msto63/mlox/foundation/utils/stringx"
	"github.com/msto63/mlox/internal/history"
	"github.com/msto63/mlox/internal/repl"
	"github.com/msto63/mlox/internal/session"
	"github.com/msto63/mlox/pkg/core/config"
	"github.com/msto63/mlox/pkg/core/logging"
)

// app holds state shared by all commands of one invocation
type app struct {
	cfgFile string
	verbose bool

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfg     *config.Config
	logger  *mdwlog.Logger
	history *history.Store
}

// setup loads configuration and installs the logger
func (a *app) setup() error {
	var (
		cfg *config.Config
		err error
	)
	if a.cfgFile != "" {
		cfg, err = config.Load(a.cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	a.cfg = cfg

	loggerCfg := logging.FromConfig(cfg.General, "mlox", a.verbose)
	loggerCfg.Output = a.errOut
	a.logger = logging.NewLogger(loggerCfg)
	mdwlog.SetDefault(a.logger)

	if cfg.Path != "" {
		a.logger.Debug("configuration loaded", mdwlog.Fields{"path": cfg.Path})
	}
	return nil
}

// engine builds an engine from the engine section
func (a *app) engine() (*lox.Engine, error) {
	assoc, err := parser.ParseAssociativity(a.cfg.Engine.FactorAssociativity)
	if err != nil {
		return nil, err
	}
	return lox.New(lox.Options{
		Logger:              a.logger,
		MaxSourceLength:     a.cfg.Engine.MaxSourceLength,
		ParserMaxDepth:      a.cfg.Engine.ParserMaxDepth,
		EvalMaxDepth:        a.cfg.Engine.EvalMaxDepth,
		FactorAssociativity: assoc,
	}), nil
}

// session builds a session writing to the command streams
func (a *app) session(recorder session.Recorder) (*session.Session, error) {
	engine, err := a.engine()
	if err != nil {
		return nil, err
	}
	opts := session.Options{
		Out:    a.out,
		Err:    a.errOut,
		Logger: a.logger,
	}
	if recorder != nil {
		opts.Recorder = recorder
	}
	return session.New(engine, opts), nil
}

// openHistory opens the history database named by the REPL section
func (a *app) openHistory() (*history.Store, error) {
	if a.history != nil {
		return a.history, nil
	}
	store, err := history.Open(history.Config{
		Path:   a.cfg.REPL.HistoryPath,
		Limit:  a.cfg.REPL.HistoryLimit,
		Logger: a.logger,
	})
	if err != nil {
		return nil, err
	}
	a.history = store
	return store, nil
}

func (a *app) close() {
	if a.history != nil {
		a.history.Close()
		a.history = nil
	}
}

func (a *app) runFile(ctx context.Context, path string) error {
	sess, err := a.session(nil)
	if err != nil {
		return err
	}
	return exitWith(sess.RunFile(ctx, path))
}

// runREPL starts the prompt. The full-screen prompt is used only when
// both standard streams are terminals.
func (a *app) runREPL(ctx context.Context, plain bool) error {
	replCfg := a.cfg.REPL
	prompt := stringx.FirstNonBlank(replCfg.Prompt, repl.DefaultConfig().Prompt)

	var (
		recorder session.Recorder
		seed     []string
	)
	if replCfg.HistoryEnabled {
		store, err := a.openHistory()
		if err != nil {
			a.logger.WarnWithErr("history disabled", err)
		} else {
			recorder = store
			seed, err = store.Inputs(ctx, replCfg.HistoryLimit)
			if err != nil {
				a.logger.WarnWithErr("failed to load history", err)
			}
		}
	}

	if plain || replCfg.Plain || !a.interactive() {
		sess, err := a.session(recorder)
		if err != nil {
			return err
		}
		return repl.RunPlain(ctx, sess, a.in, a.out, prompt)
	}

	// the full-screen prompt owns the terminal; only errors reach stderr
	a.logger = a.logger.WithLevel(mdwlog.LevelError)
	engine, err := a.engine()
	if err != nil {
		return err
	}
	opts := session.Options{Out: io.Discard, Err: io.Discard, Logger: a.logger}
	if recorder != nil {
		opts.Recorder = recorder
	}
	sess := session.New(engine, opts)

	return repl.Run(ctx, sess, repl.Config{
		Prompt:       prompt,
		History:      seed,
		HistoryLimit: replCfg.HistoryLimit,
	})
}

func (a *app) interactive() bool {
	in, ok := a.in.(*os.File)
	if !ok {
		return false
	}
	out, ok := a.out.(*os.File)
	if !ok {
		return false
	}
	return isTerminal(in) && isTerminal(out)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
