package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/hostwatch/internal/api"
	"github.com/rileyhilliard/hostwatch/internal/config"
	"github.com/rileyhilliard/hostwatch/internal/errors"
	"github.com/rileyhilliard/hostwatch/internal/modal"
	"github.com/rileyhilliard/hostwatch/internal/series"
)

// export command flags
var (
	exportRangeFlag string
	exportOutFlag   string
)

// exportCmd is the scripted counterpart of the dashboard's in-modal export:
// fetch one metric series for one host and write it as CSV.
var exportCmd = &cobra.Command{
	Use:   "export <host> <metric>",
	Short: "Export a metric series as CSV",
	Long: `Fetch a host's series for one metric and write it as CSV with a
timestamp,value header. Timestamps are ISO-8601 UTC.

The host may be given by name or numeric ID. Metrics: cpu, mem, uptime,
net_rx, net_tx, latency.

Examples:
  hostwatch export web-1 cpu
  hostwatch export 3 mem --range 24h
  hostwatch export db-1 latency --out - > latency.csv`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportCommand(args[0], args[1])
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportRangeFlag, "range", "1h", "time range: 1h, 6h, or 24h")
	exportCmd.Flags().StringVar(&exportOutFlag, "out", "", "output file ('-' for stdout; default series_<metric>_<id>.csv)")
	rootCmd.AddCommand(exportCmd)
}

func exportCommand(hostArg, metric string) error {
	r, err := parseRange(exportRangeFlag)
	if err != nil {
		return err
	}
	if series.ByName(metric) == nil {
		return errors.New(errors.ErrExport,
			"Unknown metric '"+metric+"'",
			"Valid metrics: cpu, mem, uptime, net_rx, net_tx, latency")
	}

	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return err
	}
	client := api.NewClient(cfg.API.BaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), discoverTimeout)
	defer cancel()

	hostID, err := resolveHostArg(ctx, client, hostArg)
	if err != nil {
		return err
	}

	ser, err := client.Series(ctx, hostID, r.Minutes())
	if err != nil {
		return err
	}
	points := series.Normalize(ser.Samples, series.ByName(metric), cfg.Poll.MaxPoints)

	out := exportOutFlag
	if out == "-" {
		return modal.WriteCSV(os.Stdout, points)
	}
	if out == "" {
		out = modal.ExportFilename(metric, hostID)
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExport,
			"Can't create "+out,
			"Check the directory exists and is writable")
	}
	defer f.Close()

	if err := modal.WriteCSV(f, points); err != nil {
		return err
	}
	fmt.Printf("wrote %d points to %s\n", len(points), out)
	return nil
}

// parseRange validates the --range flag against the fixed set.
func parseRange(s string) (modal.Range, error) {
	for _, r := range modal.Ranges {
		if string(r) == s {
			return r, nil
		}
	}
	return "", errors.New(errors.ErrExport,
		"Invalid range '"+s+"'",
		"Valid ranges: 1h, 6h, 24h")
}

// resolveHostArg accepts a numeric host ID or a host name.
func resolveHostArg(ctx context.Context, client *api.Client, arg string) (int, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		return id, nil
	}

	hosts, err := client.Hosts(ctx)
	if err != nil {
		return 0, err
	}
	for _, h := range hosts {
		if strings.EqualFold(h.Name, arg) {
			return h.ID, nil
		}
	}
	return 0, errors.New(errors.ErrExport,
		"Unknown host '"+arg+"'",
		"Run 'hostwatch hosts' to see names and IDs")
}
