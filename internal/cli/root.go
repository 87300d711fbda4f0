package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	appLogger "github.com/FACorreiaa/go-itinerary-health/app/logger"
	"github.com/FACorreiaa/go-itinerary-health/config"
	"github.com/FACorreiaa/go-itinerary-health/internal/api/itinerary"
	"github.com/FACorreiaa/go-itinerary-health/internal/container"
	"github.com/FACorreiaa/go-itinerary-health/internal/repair"
)

type options struct {
	verbose bool
	cfg     *config.Config
	logger  *slog.Logger
}

// NewRootCmd builds the tripcheck command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "tripcheck",
		Short: "Check a trip itinerary for conflicts and apply quick fixes",
		Long: `tripcheck analyses a trip stored as a JSON file, reports scheduling
conflicts, budget and pacing problems, and can repair them in place.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.InitConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			opts.cfg = &cfg
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.verbose)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(newAnalyzeCmd(opts))
	root.AddCommand(newFixCmd(opts))
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if verbose {
		return appLogger.New(w, "development")
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// newService wires the file-backed itinerary service. Place lookups go
// through Gemini only when an API key is configured.
func newService(opts *options, path string) (*itinerary.ServiceImpl, *itinerary.FileRepository, error) {
	var finder repair.PlacesFinder
	if opts.cfg.Places.GeminiAPIKey != "" {
		finder = container.NewPlacesService(opts.cfg, nil, opts.logger)
	}
	checker, engine, err := container.NewEngine(opts.cfg, finder, opts.logger)
	if err != nil {
		return nil, nil, err
	}
	repo := itinerary.NewFileRepository(path)
	return itinerary.NewServiceImpl(repo, checker, engine, opts.cfg.Engine.MaxFixPasses, opts.logger), repo, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
