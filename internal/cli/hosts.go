package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/hostwatch/internal/api"
	"github.com/rileyhilliard/hostwatch/internal/config"
)

var hostsJSONFlag bool

// hostsCmd lists the hosts the backend knows about.
var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "List hosts known to the backend",
	Long: `List every host registered with the metrics backend, with its ID,
OS, IP, and when it last reported a sample.

Examples:
  hostwatch hosts
  hostwatch hosts --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return hostsCommand()
	},
}

func init() {
	hostsCmd.Flags().BoolVar(&hostsJSONFlag, "json", false, "output as JSON")
	rootCmd.AddCommand(hostsCmd)
}

func hostsCommand() error {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.API.BaseURL)
	ctx, cancel := context.WithTimeout(context.Background(), discoverTimeout)
	defer cancel()

	hosts, err := client.Hosts(ctx)
	if err != nil {
		return err
	}

	if hostsJSONFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hosts)
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tOS\tIP\tLAST SEEN")
	for _, h := range hosts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", h.ID, h.Name, h.OS, h.IP, lastSeen(h))
	}
	return w.Flush()
}

// lastSeen renders a host's last sample time relative to now.
func lastSeen(h api.Host) string {
	if h.LastTS == nil || *h.LastTS <= 0 {
		return "never"
	}
	return humanize.Time(time.Unix(*h.LastTS, 0))
}
