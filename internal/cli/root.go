// Package cli implements the hostwatch command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to a small command function for the actual work:
//
//	hostwatch dash            - Live dashboard (default command)
//	hostwatch hosts           - List hosts known to the backend
//	hostwatch export          - One-shot CSV export of a metric series
//	hostwatch init            - Create a .hostwatch.yaml config
//	hostwatch version         - Print version information
//	hostwatch completion      - Shell completion scripts
//
// Global flags (--config, --no-color) are defined on the root command and
// available to all subcommands.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// Global flags
var (
	configFlag  string
	noColorFlag bool
)

// rootCmd is the base command; running it with no subcommand starts the
// dashboard.
var rootCmd = &cobra.Command{
	Use:   "hostwatch",
	Short: "Terminal dashboard for the hostwatch metrics backend",
	Long: `hostwatch is a live terminal dashboard for a fleet of monitored hosts.

It polls a metrics backend over HTTP and renders per-host panels with
CPU, memory, network, process, and disk information, plus sparkline
history charts. Hosts are monitored on demand: toggle polling per host
from inside the dashboard.

Running hostwatch with no subcommand starts the dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColorFlag || os.Getenv("NO_COLOR") != "" {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashCommand()
	},
}

// completionCmd generates shell completion scripts.
var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish|powershell]",
	Short:     "Generate shell completion script",
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		default:
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable color output")
	rootCmd.AddCommand(completionCmd)
}

// Execute runs the root command and exits non-zero on error. Structured
// errors already carry their own formatting and suggestion text.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
