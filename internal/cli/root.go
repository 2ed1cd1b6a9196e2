// Package cli implements the todo-tabs command line.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hy4ri/todo-tabs/internal/config"
	"github.com/hy4ri/todo-tabs/internal/logging"
	"github.com/hy4ri/todo-tabs/internal/storage"
	"github.com/hy4ri/todo-tabs/internal/todo"
	"github.com/hy4ri/todo-tabs/internal/tui"
	"github.com/spf13/cobra"
)

// Version is the release version reported by `todo-tabs version`.
const Version = "0.1.0"

// env carries the state shared by every command of one invocation.
type env struct {
	configPath string
	ephemeral  bool
	assumeYes  bool

	cfg       *config.Config
	logger    *log.Logger
	store     storage.Storage
	ownsStore bool
	closers   []io.Closer

	runTUI func(store storage.Storage, cfg *config.Config, logger *log.Logger) error
}

// Option configures the root command.
type Option func(*env)

// WithStorage uses store instead of opening the configured backend. The
// caller keeps ownership of store.
func WithStorage(store storage.Storage) Option {
	return func(e *env) { e.store = store }
}

// WithConfig uses cfg instead of reading the config file.
func WithConfig(cfg *config.Config) Option {
	return func(e *env) { e.cfg = cfg }
}

// WithLogger uses logger instead of opening the log file.
func WithLogger(logger *log.Logger) Option {
	return func(e *env) { e.logger = logger }
}

// Execute runs the command line with os.Args and releases storage and the
// log file even when the command fails.
func Execute(opts ...Option) error {
	e := newEnv(opts)
	err := newRootCmd(e).Execute()
	if cerr := e.teardown(); err == nil {
		err = cerr
	}
	return err
}

// NewRootCmd builds the command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	return newRootCmd(newEnv(opts))
}

func newEnv(opts []Option) *env {
	e := &env{runTUI: runTUI}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:     "todo-tabs",
		Short:   "Tabbed to-do lists in the terminal",
		Version: Version,
		Long: `todo-tabs keeps several named to-do lists, one of them active.

Run without a subcommand to open the interactive view, or use the
subcommands below from scripts.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsSetup(cmd) {
				return nil
			}
			return e.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return e.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.openStore()
			if err != nil {
				return err
			}
			return e.runTUI(store, e.cfg, e.logger)
		},
	}

	root.PersistentFlags().StringVar(&e.configPath, "config", "", "config file (default ~/.config/todo-tabs/config.yaml)")
	root.PersistentFlags().BoolVar(&e.ephemeral, "ephemeral", false, "keep everything in memory for this run")

	root.AddCommand(listsCmd(e))
	root.AddCommand(showCmd(e))
	root.AddCommand(newCmd(e))
	root.AddCommand(renameCmd(e))
	root.AddCommand(deleteCmd(e))
	root.AddCommand(switchCmd(e))
	root.AddCommand(addCmd(e))
	root.AddCommand(checkCmd(e))
	root.AddCommand(rmCmd(e))
	root.AddCommand(exportCmd(e))
	root.AddCommand(importCmd(e))
	root.AddCommand(initCmd(e))
	root.AddCommand(versionCmd())

	return root
}

func runTUI(store storage.Storage, cfg *config.Config, logger *log.Logger) error {
	app, err := tui.NewApp(store, cfg, logger)
	if err != nil {
		return err
	}
	return tui.Run(app)
}

// setup loads the config and opens the log file.
// skipsSetup reports whether cmd runs without loading config or opening the
// log, so init can replace a broken config file.
func skipsSetup(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "init", "version":
		return true
	}
	return false
}

func (e *env) setup() error {
	if e.cfg == nil {
		var (
			cfg *config.Config
			err error
		)
		if e.configPath != "" {
			cfg, err = config.LoadFrom(e.configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		e.cfg = cfg
	}

	if e.logger == nil {
		path, err := e.cfg.LogPath()
		if err != nil {
			return err
		}
		logger, closer, err := logging.Open(path, e.cfg.Log.Level)
		if err != nil {
			return err
		}
		e.logger = logger
		e.closers = append(e.closers, closer)
	}
	return nil
}

func (e *env) teardown() error {
	var firstErr error
	if e.ownsStore && e.store != nil {
		firstErr = e.store.Close()
		e.store = nil
	}
	for _, c := range e.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	e.closers = nil
	return firstErr
}

// openStore returns the injected store or opens the configured backend.
func (e *env) openStore() (storage.Storage, error) {
	if e.store != nil {
		return e.store, nil
	}

	opts := storage.Options{Backend: e.cfg.Storage.Backend}
	if e.ephemeral {
		opts.Backend = storage.BackendMemory
	}
	if opts.Backend != storage.BackendMemory {
		path, err := e.cfg.StoragePath()
		if err != nil {
			return nil, err
		}
		opts.Path = path
	}

	store, err := storage.Open(opts)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("opened storage", "backend", opts.Backend, "path", opts.Path)
	e.store = store
	e.ownsStore = true
	return store, nil
}

// controller opens storage and starts a controller that prompts on the
// command's stdin and stdout.
func (e *env) controller(cmd *cobra.Command) (*todo.Controller, error) {
	store, err := e.openStore()
	if err != nil {
		return nil, err
	}
	dialogs := newPromptDialogs(cmd.InOrStdin(), cmd.OutOrStdout(), e.assumeYes)
	ctrl := todo.NewController(store, todo.WithDialogs(dialogs), todo.WithLogger(e.logger))
	if err := ctrl.Start(); err != nil {
		return nil, fmt.Errorf("failed to load lists: %w", err)
	}
	return ctrl, nil
}
