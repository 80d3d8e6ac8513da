package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/blktree/blktree/internal/collector"
	"github.com/blktree/blktree/internal/config"
	"github.com/blktree/blktree/internal/device"
	"github.com/blktree/blktree/internal/hierarchy"
	"github.com/blktree/blktree/internal/render"
	"github.com/blktree/blktree/internal/store"
	"github.com/blktree/blktree/internal/termout"
	"github.com/blktree/blktree/internal/version"
)

var (
	cfgFile   string
	colorFlag string
	sortFlag  string
	columns   []string
	jsonOut   bool
	noHeader  bool
	saveSnap  bool
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "blktree",
	Short: "Show block devices as a colorized tree",
	Long: `blktree inventories the block devices visible to this host (disks,
partitions, logical volumes, optical drives) and renders them as an
indented, colorized tree with aligned columns.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		records, err := collector.New().Collect()
		if err != nil {
			return err
		}

		if saveSnap {
			if err := saveSnapshot(cfg, records); err != nil {
				return err
			}
		}

		if jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}

		return printTree(cfg, records)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the blktree version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("blktree " + version.Version)
	},
}

// loadConfig reads the config file and folds command-line overrides into it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if colorFlag != "" {
		cfg.Color = colorFlag
	}
	if sortFlag != "" {
		cfg.Sort = sortFlag
	}
	if len(columns) > 0 {
		cfg.Columns = columns
	}
	if noHeader {
		off := false
		cfg.Header = &off
	}
	return cfg, nil
}

// printTree runs the build/render/emit half of the pipeline. Structural
// warnings never affect the exit code.
func printTree(cfg *config.Config, records []device.Record) error {
	order := hierarchy.OrderKindName
	if cfg.Sort == "name" {
		order = hierarchy.OrderName
	}
	forest, warnings := hierarchy.BuildOrdered(records, order)
	if forest.Len() == 0 {
		log.Debug().Msg("no block devices visible")
	}

	opts, err := renderOptions(cfg)
	if err != nil {
		return err
	}
	lines := render.Render(forest, warnings, opts)

	mode, err := termout.ParseColorMode(cfg.Color)
	if err != nil {
		return err
	}
	return termout.New(os.Stdout, mode).Print(lines)
}

func renderOptions(cfg *config.Config) (render.Options, error) {
	opts := render.DefaultOptions()
	opts.Header = cfg.ShowHeader()
	if len(cfg.Columns) == 0 {
		return opts, nil
	}
	cols := make([]render.Column, 0, len(cfg.Columns))
	for _, name := range cfg.Columns {
		c, ok := render.ColumnByName(name)
		if !ok {
			return opts, fmt.Errorf("unknown column %q", name)
		}
		cols = append(cols, c)
	}
	opts.Columns = cols
	return opts, nil
}

func saveSnapshot(cfg *config.Config, records []device.Record) error {
	db, err := store.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.SaveSnapshot(records)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "saved snapshot %d (%d devices)\n", id, len(records))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/blktree/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.Flags().StringVar(&colorFlag, "color", "", "color output: auto, always or never")
	rootCmd.Flags().StringVar(&sortFlag, "sort", "", "sibling order: kind or name")
	rootCmd.Flags().StringSliceVar(&columns, "columns", nil, "columns to display (NAME,SIZE,USED,FSTYPE,MOUNTPOINT,MODEL)")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "emit raw device records as JSON")
	rootCmd.Flags().BoolVar(&noHeader, "no-header", false, "omit the column header row")
	rootCmd.Flags().BoolVar(&saveSnap, "save", false, "save this snapshot to the history database")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
