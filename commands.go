package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pstuifzand/renderwatch/internal/app"
	"github.com/pstuifzand/renderwatch/internal/config"
	"github.com/pstuifzand/renderwatch/internal/history"
	"github.com/pstuifzand/renderwatch/internal/locate"
	"github.com/pstuifzand/renderwatch/internal/sink"
	"github.com/pstuifzand/renderwatch/internal/socket"
	"github.com/pstuifzand/renderwatch/internal/storage"
	"github.com/pstuifzand/renderwatch/internal/theme"
	"github.com/pstuifzand/renderwatch/internal/ui"
)

// linkWait bounds how long a command waits for editor links before exiting
const linkWait = 5 * time.Second

var (
	viewFlag    bool
	verboseFlag bool
)

func init() {
	for _, cmd := range []*cobra.Command{replayCmd, serveCmd} {
		cmd.Flags().BoolVar(&viewFlag, "view", false, "browse entries in the interactive viewer")
		cmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "print serializations of deep changes")
	}
}

var replayCmd = &cobra.Command{
	Use:   "replay <trace.jsonl|->",
	Short: "Diff every invocation in a trace file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open trace: %w", err)
			}
			defer f.Close()
			r = f
		}

		return run(cmd, func(ctx context.Context, d *app.Debugger) error {
			count, err := d.Replay(ctx, r)
			log.Printf("Replayed %d invocations from %s", count, args[0])
			return err
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept invocations from other processes over a Unix socket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := socket.NewServer(os.Getpid())
		if err != nil {
			return err
		}
		defer server.Stop()
		server.Start()

		if !viewFlag {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.New(color.Bold).Sprint("listening on"), server.SocketPath())
		}
		return run(cmd, func(ctx context.Context, d *app.Debugger) error {
			return d.Serve(ctx, server)
		})
	},
}

// run builds a debugger writing to the console or the viewer and feeds it.
// In viewer mode feed runs in the background and the viewer decides when to
// stop.
func run(cmd *cobra.Command, feed func(context.Context, *app.Debugger) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	mode, err := colorMode(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	th := theme.FromOverrides(cfg.Colors)
	verbose := verboseFlag || cfg.Get(config.SettingVerbose) == "true"

	if !viewFlag {
		d := app.New(app.Options{Config: cfg, Sink: sink.NewConsole(cmd.OutOrStdout(), mode, th, verbose)})
		err := feed(ctx, d)
		waitForLinks(d)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), color.New(color.Faint).Sprint(d.Status()))
		return nil
	}

	limit, _ := strconv.Atoi(cfg.GetOr(config.SettingLimit, "10000"))
	memory := sink.NewMemory(limit)
	d := app.New(app.Options{Config: cfg, Sink: memory})

	screen, err := ui.NewScreen(th)
	if err != nil {
		return err
	}
	viewer := ui.NewViewer(screen, memory, cfg.Get(config.SettingTimeFormat))
	viewer.SetHistory(loadFilterHistory())

	viewCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := feed(viewCtx, d); err != nil && viewCtx.Err() == nil {
			log.Printf("Feed stopped: %v", err)
		}
	}()

	return viewer.Run(viewCtx)
}

// loadFilterHistory returns nil when no history directory is available,
// leaving the viewer with an in-memory history
func loadFilterHistory() *ui.History {
	dir, err := history.DefaultDir()
	if err != nil {
		log.Printf("No filter history: %v", err)
		return nil
	}
	manager, err := history.NewManager(dir)
	if err != nil {
		log.Printf("No filter history: %v", err)
		return nil
	}
	h, err := ui.LoadHistory(100, manager, ui.FilterHistoryFile)
	if err != nil {
		log.Printf("Failed to load filter history: %v", err)
	}
	return h
}

func waitForLinks(d *app.Debugger) {
	ctx, cancel := context.WithTimeout(context.Background(), linkWait)
	defer cancel()
	if err := d.WaitContext(ctx); err != nil {
		log.Printf("Gave up waiting for editor links: %v", err)
	}
}

var sendCmd = &cobra.Command{
	Use:   "send <trace.jsonl>",
	Short: "Stream a trace file into a running renderwatch serve",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := colorMode(cmd); err != nil {
			return err
		}
		invocations, err := storage.NewTraceFile(args[0]).Load()
		if err != nil {
			return err
		}

		client, err := connect()
		if err != nil {
			return err
		}

		msgs := make([]socket.Message, len(invocations))
		for i := range invocations {
			msgs[i] = socket.Message{Command: socket.CommandObserve, Invocation: &invocations[i]}
		}
		responses, err := client.SendAll(msgs)
		if err != nil {
			return fmt.Errorf("failed to send trace: %w", err)
		}

		failed := 0
		for i, resp := range responses {
			if !resp.Success {
				failed++
				log.Printf("Invocation %d rejected: %s", i+1, resp.Message)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d invocations", color.GreenString("sent"), len(responses)-failed)
		if failed > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), ", %s", color.RedString("%d rejected", failed))
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Ask a running renderwatch serve what it has seen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := connect()
		if err != nil {
			return err
		}
		resp, err := client.Status()
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("server error: %s", resp.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
		return nil
	},
}

// connect finds the newest running instance
func connect() (*socket.Client, error) {
	socketPath, pid, err := socket.FindRunningInstance()
	if err != nil {
		return nil, err
	}
	log.Printf("Found running instance at PID %d: %s", pid, socketPath)

	client, err := socket.NewClient(socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return client, nil
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <frame>",
	Short: "Find the original source file of a stack frame",
	Example: `  renderwatch resolve 'App@http://localhost:3000/static/js/main.js:120:13'
  renderwatch resolve '    at App (http://localhost:3000/static/js/main.js:120:13)'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if _, err := colorMode(cmd); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		resolver := locate.NewResolver(locate.NewSourceCache(locate.NewDefaultFetcher()), cfg.Resolver.Marker)
		loc, err := resolver.ResolveNow(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", color.New(color.Bold).Sprint("file:"), loc.File)
		fmt.Fprintf(out, "%s %s\n", color.New(color.Bold).Sprint("link:"), color.BlueString(cfg.EditorLinks().Link(loc)))
		return nil
	},
}

var colorsCmd = &cobra.Command{
	Use:   "colors <label>...",
	Short: "Show the colors labels get, in order of first use",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := colorMode(cmd); err != nil {
			return err
		}

		palette := theme.NewPalette()
		out := cmd.OutOrStdout()
		for _, label := range args {
			id := palette.ColorFor(label)
			fmt.Fprintf(out, "%s hue=%-3d %s\n", swatch(id, label), id.Hue, id.CSS())
		}
		return nil
	},
}

func swatch(id theme.Identity, label string) string {
	fr, fg, fb, _ := theme.HexToRGB(id.ForegroundHex())
	br, bg, bb, _ := theme.HexToRGB(id.BackgroundHex())
	return color.RGB(fr, fg, fb).AddBgRGB(br, bg, bb).Sprintf(" %s ", label)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Show settings, or persist one",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		switch len(args) {
		case 0:
			for _, key := range []string{
				config.KeyEditorBaseURL,
				config.KeyEditorEndpoint,
				config.KeyResolverMarker,
				config.KeyDiffPruneDeleted,
				config.KeyDiffFrozenBaseline,
			} {
				fmt.Fprintf(out, "%s = %q\n", key, cfg.GetKey(key))
			}
			printSorted(out, "colors.", cfg.Colors)
			printSorted(out, "", cfg.GetAll())
		case 1:
			fmt.Fprintln(out, cfg.GetKey(args[0]))
		case 2:
			if err := cfg.SetKey(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		return nil
	},
}

func printSorted(out io.Writer, prefix string, values map[string]string) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%s%s = %s\n", prefix, k, values[k])
	}
}
