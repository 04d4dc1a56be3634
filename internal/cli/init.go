package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/hostwatch/internal/config"
	"github.com/rileyhilliard/hostwatch/internal/errors"
)

// init command flags
var (
	initURLFlag    string
	initForceFlag  bool
	initGlobalFlag bool
)

// initCmd creates a hostwatch config file.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .hostwatch.yaml configuration",
	Long: `Initialize a hostwatch configuration file with interactive prompts.

Writes .hostwatch.yaml in the current directory, or the global
~/.config/hostwatch/config.yaml with --global.

Examples:
  hostwatch init
  hostwatch init --url http://dashboard.local:8000
  hostwatch init --global --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand()
	},
}

func init() {
	initCmd.Flags().StringVar(&initURLFlag, "url", "", "pre-specify the backend base URL")
	initCmd.Flags().BoolVarP(&initForceFlag, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initGlobalFlag, "global", false, "write the global config instead of the local one")
	rootCmd.AddCommand(initCmd)
}

func initCommand() error {
	path, err := initTargetPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !initForceFlag {
		overwrite := false
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(path + " already exists. Overwrite?").
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil || !overwrite {
			fmt.Println("Keeping existing config.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if initURLFlag != "" {
		cfg.API.BaseURL = initURLFlag
	} else if err := promptSettings(cfg); err != nil {
		return err
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := writeConfig(path, cfg); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Run 'hostwatch' to start the dashboard.")
	return nil
}

// initTargetPath resolves where the config file goes, creating the global
// directory when needed.
func initTargetPath() (string, error) {
	if !initGlobalFlag {
		return config.ConfigFileName, nil
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", errors.New(errors.ErrConfig,
			"Can't determine your home directory",
			"Run without --global to write a local config instead")
	}
	dir := filepath.Join(home, config.GlobalConfigDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Can't create "+dir,
			"Check permissions on ~/.config")
	}
	return filepath.Join(dir, config.GlobalConfigFile), nil
}

// promptSettings collects the backend URL and poll interval interactively.
func promptSettings(cfg *config.Config) error {
	baseURL := cfg.API.BaseURL
	interval := cfg.Poll.Interval.String()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend API base URL").
				Description("Where the metrics backend is listening").
				Value(&baseURL).
				Validate(func(s string) error {
					u, err := url.Parse(s)
					if err != nil || u.Scheme == "" || u.Host == "" {
						return fmt.Errorf("use a full URL like http://127.0.0.1:8000")
					}
					return nil
				}),
			huh.NewInput().
				Title("Poll interval").
				Description("How often monitored hosts refresh (e.g. 30s, 1m)").
				Value(&interval).
				Validate(func(s string) error {
					d, err := time.ParseDuration(s)
					if err != nil {
						return fmt.Errorf("use a duration like 30s or 1m")
					}
					if d < time.Second {
						return fmt.Errorf("minimum interval is 1s")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return errors.New(errors.ErrConfig, "Init cancelled", "")
		}
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Interactive setup failed",
			"Use --url to skip the prompts")
	}

	cfg.API.BaseURL = baseURL
	d, _ := time.ParseDuration(interval)
	cfg.Poll.Interval = d
	return nil
}

// fileConfig mirrors config.Config with the interval as a duration string,
// which is what the loader parses back.
type fileConfig struct {
	API struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"api"`
	Poll struct {
		Interval      string `yaml:"interval"`
		WindowMinutes int    `yaml:"window_minutes"`
		MaxPoints     int    `yaml:"max_points"`
	} `yaml:"poll"`
	Hosts []string `yaml:"hosts,omitempty"`
}

// writeConfig serializes cfg as YAML with a short header comment.
func writeConfig(path string, cfg *config.Config) error {
	var fc fileConfig
	fc.API.BaseURL = cfg.API.BaseURL
	fc.Poll.Interval = cfg.Poll.Interval.String()
	fc.Poll.WindowMinutes = cfg.Poll.WindowMinutes
	fc.Poll.MaxPoints = cfg.Poll.MaxPoints
	fc.Hosts = cfg.Hosts

	data, err := yaml.Marshal(fc)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't serialize config", "")
	}
	header := "# hostwatch configuration\n# See 'hostwatch init --help' for options.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't write "+path,
			"Check the directory is writable")
	}
	return nil
}
