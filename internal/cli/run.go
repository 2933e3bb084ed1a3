package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/macropower/iconify/api/v1beta1/configs"
	"github.com/macropower/iconify/pkg/config"
	"github.com/macropower/iconify/pkg/iconify"
	"github.com/macropower/iconify/pkg/mcp"
	"github.com/macropower/iconify/pkg/watch"
)

const (
	runExamples = `  # Show the icon of every matched folder in the current project:
  iconify

  # Include unmatched folders and folder identities:
  iconify ./MyGame --all --ids

  # List folders matching "scr ed", best match first:
  iconify ./MyGame --filter "scr ed"

  # Print assignments as JSON:
  iconify ./MyGame -o json

  # Re-resolve whenever the config or the folder layout changes:
  iconify ./MyGame --watch

  # Preview a pattern against some folder names:
  iconify check 'Edit*|Tools' Editor Tools Runtime

  # Serve lookups to MCP clients over stdio:
  iconify ./MyGame --serve-mcp stdio`

	// mcpStdio selects the stdio transport for --serve-mcp.
	mcpStdio = "stdio"
)

var ErrUnknownOutput = errors.New("unknown output format")

type RunArgs struct {
	*RootArgs

	Path        string
	ConfigPath  string
	Output      string
	Filter      string
	ServeMCP    string
	All         bool
	IDs         bool
	Watch       bool
	WriteConfig bool
	ShowConfig  bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.ConfigPath, "config", "", "Path to the iconify configuration file")
	cmd.Flags().StringVarP(&ra.Output, "output", "o", string(OutputText),
		fmt.Sprintf("Output format, one of: %s", AllOutputs))
	cmd.Flags().StringVar(&ra.ServeMCP, "serve-mcp", "",
		fmt.Sprintf("Serve the MCP server at the specified address, or %q", mcpStdio))
	cmd.Flags().StringVarP(&ra.Filter, "filter", "f", "", "Only list folders whose path fuzzy-matches the filter")
	cmd.Flags().BoolVarP(&ra.All, "all", "a", false, "Include folders no rule matched")
	cmd.Flags().BoolVar(&ra.IDs, "ids", false, "Show folder identities")
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Watch for changes and resolve again")
	cmd.Flags().BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration files and exit")
	cmd.Flags().BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")

	must(cmd.MarkFlagFilename("config", "yaml", "yml"))
	must(cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(AllOutputs, cobra.ShellCompDirectiveNoFileComp),
	))
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resolve [path]",
		Aliases: []string{"run"},
		Short:   "Default command, can be used explicitly if the path is ambiguous",
		Example: runExamples,
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return nil, cobra.ShellCompDirectiveFilterDirs
			}

			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ra.Path = "."
			if len(args) > 0 {
				ra.Path = args[0]
			}

			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := GetOutput(ra.Output)
	if err != nil {
		return err
	}

	configPath := config.Resolve(ra.ConfigPath, ra.Path)

	if ra.WriteConfig || configPath == configs.GetPath() {
		err := configs.WriteDefault(configPath, false)
		if ra.WriteConfig {
			// Exit early after writing the default config.
			// Also, if there was an error, it should be fatal.
			return err
		}
		if err != nil {
			slog.Error("write default config", slog.Any("err", err))
		}
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if ra.ShowConfig {
		slog.Info("active configuration", slog.String("path", configPath))

		b, err := cfg.MarshalYAML()
		if err != nil {
			return fmt.Errorf("marshal config yaml: %w", err)
		}

		out := string(b)
		if isTerminal(cmd.OutOrStdout()) {
			hl, err := highlightYAML(out, termenv.NewOutput(cmd.OutOrStdout()).ColorProfile())
			if err != nil {
				slog.Debug("highlight config", slog.Any("err", err))
			} else {
				out = hl
			}
		}

		mustN(fmt.Fprint(cmd.OutOrStdout(), out))

		return nil
	}

	info, err := os.Stat(ra.Path)
	if err != nil {
		return fmt.Errorf("open project: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("open project %q: %w", ra.Path, fs.ErrInvalid)
	}

	svc := iconify.New(os.DirFS(ra.Path), cfg)
	p := NewPrinter(cmd.OutOrStdout(), PrinterOpts{
		Format: format,
		Filter: ra.Filter,
		All:    ra.All,
		IDs:    ra.IDs,
		Diff:   ra.Watch && format == OutputText,
	})

	if ra.Watch {
		w, err := watch.New(filepath.Join(ra.Path, svc.Root()), watch.WithConfigFile(configPath))
		if err != nil {
			return fmt.Errorf("watch project: %w", err)
		}

		defer func() {
			err := w.Close()
			if err != nil {
				slog.Error("close watcher", slog.Any("err", err))
			}
		}()

		go func() {
			err := w.Run(ctx, onChange(svc, w, ra.Path, configPath, p, ra.ServeMCP == ""))
			if err != nil {
				slog.Error("watch project", slog.Any("err", err))
			}
		}()
	}

	if ra.ServeMCP != "" {
		addr := ra.ServeMCP
		if addr == mcpStdio {
			addr = ""
		}

		return mcp.NewServer(addr, svc).Serve(ctx)
	}

	err = resolve(ctx, svc, p)
	if err != nil {
		return err
	}

	if ra.Watch {
		<-ctx.Done()
	}

	return nil
}

func loadConfig(path string) (*configs.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not read config, using defaults", slog.Any("err", err))
		return configs.New(), nil
	}
	if err != nil {
		return nil, err //nolint:wrapcheck // Already annotated.
	}

	return cfg, nil
}

func resolve(ctx context.Context, svc *iconify.Service, p *Printer) error {
	as, err := svc.Resolve(ctx)
	if err != nil {
		return err //nolint:wrapcheck // Already annotated.
	}

	return p.Print(as, len(svc.Rules()))
}

func onChange(
	svc *iconify.Service,
	w *watch.Watcher,
	base, configPath string,
	p *Printer,
	reprint bool,
) watch.Handler {
	return func(ctx context.Context, c watch.Change) {
		logger := slog.With(slog.Bool("config", c.Config), slog.Bool("tree", c.Tree))

		if c.Config {
			cfg, err := loadConfig(configPath)
			if err != nil {
				logger.ErrorContext(ctx, "reload config, keeping previous", slog.Any("err", err))
				return
			}

			svc.Reload(cfg)

			root := filepath.Join(base, svc.Root())
			err = w.SetRoot(root)
			if err != nil {
				logger.ErrorContext(ctx, "watch new content root", slog.String("root", root), slog.Any("err", err))
			}
		}

		logger.InfoContext(ctx, "project changed", slog.Any("paths", c.Paths))

		if !reprint {
			return
		}

		err := resolve(ctx, svc, p)
		if err != nil {
			logger.ErrorContext(ctx, "resolve icons", slog.Any("err", err))
		}
	}
}
