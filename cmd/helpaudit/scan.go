package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/helpforge/helpaudit/internal/dms"
	"github.com/helpforge/helpaudit/internal/report"
	"github.com/helpforge/helpaudit/internal/scan"
	"github.com/spf13/cobra"
)

var scanFormatFlag string
var scanOutputFlag string
var scanWorkersFlag int
var scanProbesFlag int
var scanProbeTimeoutFlag time.Duration
var scanVerboseFlag bool

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <collection-id|collection-name>",
		Short: "Scan a collection and print the audit report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(scanFormatFlag)
			if err != nil {
				return err
			}
			if format == report.FormatDocx && scanOutputFlag == "" {
				return fmt.Errorf("docx output requires --output")
			}

			log := newLogger(scanVerboseFlag)
			store := newStoreClient()
			defer store.Close()

			ctx := cmd.Context()
			id, name, err := resolveCollection(cmd, store, args[0])
			if err != nil {
				return err
			}

			scanner := scan.NewScanner(store, log, scan.Options{
				Workers:      scanWorkersFlag,
				ProbeWorkers: scanProbesFlag,
				ProbeTimeout: scanProbeTimeoutFlag,
			})

			rep, err := scanner.Scan(ctx, id)
			if errors.Is(err, scan.ErrNoDocuments) {
				return fmt.Errorf("collection %d contains no HTML documents", id)
			}
			if err != nil {
				return err
			}

			out := io.Writer(os.Stdout)
			if scanOutputFlag != "" {
				f, err := os.Create(scanOutputFlag)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			return report.Render(out, report.Input{
				Report:         rep,
				CollectionName: name,
				GeneratedAt:    time.Now(),
			}, format)
		},
	}
	cmd.Flags().StringVarP(&scanFormatFlag, "format", "f", "table", "output format: table, json, markdown, html, docx")
	cmd.Flags().StringVarP(&scanOutputFlag, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().IntVarP(&scanWorkersFlag, "workers", "w", 4, "concurrent document workers")
	cmd.Flags().IntVar(&scanProbesFlag, "probes", 10, "concurrent external link probes")
	cmd.Flags().DurationVar(&scanProbeTimeoutFlag, "probe-timeout", 5*time.Second, "timeout per external link probe")
	cmd.Flags().BoolVarP(&scanVerboseFlag, "verbose", "v", false, "log scan progress to stderr")

	return cmd
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

// resolveCollection accepts either a numeric collection id or a collection
// name looked up against the store.
func resolveCollection(cmd *cobra.Command, store *dms.Client, arg string) (int64, string, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return id, "", nil
	}
	cols, err := store.ListCollections(cmd.Context(), arg)
	if err != nil {
		return 0, "", fmt.Errorf("list collections: %w", err)
	}
	for _, c := range cols {
		if c.Name == arg {
			return c.ID, c.Name, nil
		}
	}
	return 0, "", fmt.Errorf("collection %q not found", arg)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
