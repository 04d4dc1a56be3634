package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/hostwatch/internal/api"
	"github.com/rileyhilliard/hostwatch/internal/config"
	"github.com/rileyhilliard/hostwatch/internal/dashboard"
	"github.com/rileyhilliard/hostwatch/internal/errors"
)

// dash command flags
var (
	dashAPIFlag       string
	dashHostsFlag     string
	dashIntervalFlag  string
	dashMaxPointsFlag int
	dashAllFlag       bool
	dashNoPickerFlag  bool
)

// discoverTimeout bounds the initial host listing; the dashboard itself
// never applies request timeouts.
const discoverTimeout = 10 * time.Second

// dashCmd starts the live dashboard.
var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Start the live dashboard",
	Long: `Start the interactive dashboard.

Hosts are discovered from the backend. Monitoring is per host and
toggled at runtime; hosts selected at startup (via --hosts, --all,
config, or the interactive picker) begin polling immediately.

Keyboard shortcuts:
  up/down, j/k  Select host
  space / m     Toggle monitoring for selected host
  enter         Expand selected host (range, metric cycling, CSV export)
  r             Refresh all monitored hosts now
  i             Cycle poll interval
  x             Dismiss error on selected host
  q / Ctrl+C    Quit

Examples:
  hostwatch dash
  hostwatch dash --all
  hostwatch dash --hosts web-1,db-1 --interval 10s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashCommand()
	},
}

func init() {
	dashCmd.Flags().StringVar(&dashAPIFlag, "api", "", "backend base URL (overrides config)")
	dashCmd.Flags().StringVar(&dashHostsFlag, "hosts", "", "monitor specific hosts at startup (comma-separated names)")
	dashCmd.Flags().StringVar(&dashIntervalFlag, "interval", "", "poll interval (e.g., 10s, 30s, 1m)")
	dashCmd.Flags().IntVar(&dashMaxPointsFlag, "max-points", 0, "max points per chart (overrides config)")
	dashCmd.Flags().BoolVar(&dashAllFlag, "all", false, "monitor every host at startup")
	dashCmd.Flags().BoolVar(&dashNoPickerFlag, "no-picker", false, "skip the startup host picker; monitor nothing until toggled")
	rootCmd.AddCommand(dashCmd)
}

// dashCommand loads config, discovers hosts, and runs the TUI program.
func dashCommand() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrRender,
			"The dashboard needs an interactive terminal",
			"Use 'hostwatch hosts' or 'hostwatch export' for scripted output")
	}

	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return err
	}
	if err := applyIntervalFlag(cfg, dashIntervalFlag); err != nil {
		return err
	}
	if dashAPIFlag != "" {
		cfg.API.BaseURL = dashAPIFlag
	}
	if dashMaxPointsFlag > 0 {
		cfg.Poll.MaxPoints = dashMaxPointsFlag
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	client := api.NewClient(cfg.API.BaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), discoverTimeout)
	hosts, err := client.Hosts(ctx)
	cancel()
	if err != nil {
		return err
	}
	if len(hosts) == 0 {
		return errors.New(errors.ErrAPI,
			"The backend reports no hosts",
			"Register agents with the backend, then run hostwatch again")
	}

	initial, err := initialMonitored(hosts, cfg)
	if err != nil {
		return err
	}

	model := dashboard.New(client, hosts, cfg, initial)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// applyIntervalFlag overrides the configured poll interval from --interval.
func applyIntervalFlag(cfg *config.Config, flag string) error {
	if flag == "" {
		return nil
	}
	d, err := time.ParseDuration(flag)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid interval: %s", flag),
			"Use a duration like 10s, 30s, or 1m")
	}
	if d < time.Second {
		return errors.New(errors.ErrConfig,
			"Interval too short",
			"Minimum interval is 1s to avoid overwhelming the backend")
	}
	cfg.Poll.Interval = d
	return nil
}

// initialMonitored decides which hosts start monitored: --all, then --hosts,
// then the config hosts list, then the interactive picker.
func initialMonitored(hosts []api.Host, cfg *config.Config) ([]int, error) {
	if dashAllFlag {
		ids := make([]int, len(hosts))
		for i, h := range hosts {
			ids[i] = h.ID
		}
		return ids, nil
	}

	if dashHostsFlag != "" {
		return resolveHostNames(hosts, strings.Split(dashHostsFlag, ","))
	}

	if len(cfg.Hosts) > 0 {
		return resolveHostNames(hosts, cfg.Hosts)
	}

	if dashNoPickerFlag {
		return nil, nil
	}
	return pickHosts(hosts)
}

// resolveHostNames maps host names onto IDs, failing on unknown names so a
// typo doesn't silently monitor nothing.
func resolveHostNames(hosts []api.Host, names []string) ([]int, error) {
	byName := make(map[string]int, len(hosts))
	for _, h := range hosts {
		byName[h.Name] = h.ID
	}

	var ids []int
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id, ok := byName[name]
		if !ok {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown host '%s'", name),
				"Run 'hostwatch hosts' to see the hosts the backend knows about")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// pickHosts shows a multi-select of discovered hosts. An empty selection is
// valid: the dashboard starts with nothing monitored.
func pickHosts(hosts []api.Host) ([]int, error) {
	opts := make([]huh.Option[int], len(hosts))
	for i, h := range hosts {
		opts[i] = huh.NewOption(fmt.Sprintf("%s (%s, %s)", h.Name, h.OS, h.IP), h.ID)
	}

	var selected []int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Monitor which hosts?").
				Description("Space toggles, enter confirms. You can change this anytime in the dashboard.").
				Options(opts...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return nil, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Host picker failed",
			"Use --hosts or --all to skip the picker")
	}
	return selected, nil
}
