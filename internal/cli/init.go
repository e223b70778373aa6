package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jal555/optiqa/internal/config"
	"github.com/jal555/optiqa/internal/errors"
)

var (
	initHostFlag string
	initDirFlag  string
	initForce    bool
)

// configFile is the YAML shape `optiqa init` writes.
type configFile struct {
	Host           string       `yaml:"host"`
	DataDir        string       `yaml:"data_dir"`
	ConnectTimeout string       `yaml:"connect_timeout"`
	Throttle       throttleFile `yaml:"throttle"`
}

type throttleFile struct {
	Delay    string `yaml:"delay"`
	MaxFiles int    `yaml:"max_files"`
}

// initCmd creates a new .optiqa.yaml configuration.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .optiqa.yaml configuration",
	Long: `Initialize a new optiqa configuration file.

Creates a .optiqa.yaml in the current directory, prompting for the
monitoring host and snapshot directory.

Examples:
  optiqa init
  optiqa init --host observer@lab-mon-1 --dir /var/lib/snapshots
  optiqa init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initHostFlag, initDirFlag, initForce)
	},
}

func init() {
	initCmd.Flags().StringVar(&initHostFlag, "host", "", "pre-specify the monitoring host")
	initCmd.Flags().StringVar(&initDirFlag, "dir", "", "pre-specify the remote snapshot directory")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	rootCmd.AddCommand(initCmd)
}

func initCommand(host, dir string, force bool) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if host == "" || dir == "" {
		var groups []*huh.Group
		if host == "" {
			groups = append(groups, huh.NewGroup(
				huh.NewInput().
					Title("Monitoring host").
					Description("Enter hostname, user@host, or SSH config alias").
					Placeholder("observer@lab-mon-1").
					Value(&host).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("monitoring host is required")
						}
						return nil
					}),
			))
		}
		if dir == "" {
			groups = append(groups, huh.NewGroup(
				huh.NewInput().
					Title("Snapshot directory").
					Description("Remote directory holding the snapshot files").
					Placeholder("/var/lib/snapshots").
					Value(&dir).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("snapshot directory is required")
						}
						return nil
					}),
			))
		}

		if err := huh.NewForm(groups...).Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Provide --host and --dir to skip the prompts")
		}
	}

	cfg := config.DefaultConfig()

	// Durations go out as strings ("1.5s") rather than raw nanoseconds so
	// the generated file stays hand-editable.
	data, err := yaml.Marshal(configFile{
		Host:           host,
		DataDir:        dir,
		ConnectTimeout: cfg.ConnectTimeout.String(),
		Throttle: throttleFile{
			Delay:    cfg.Throttle.Delay.String(),
			MaxFiles: cfg.Throttle.MaxFiles,
		},
	})
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# optiqa configuration
# Run 'optiqa collect' to pull snapshots from the monitoring host

`
	if err := os.WriteFile(configPath, []byte(header+string(data)), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Printf("✓ Created %s\n\n", configPath)
	fmt.Println("Next steps:")
	fmt.Println("  optiqa collect -o model.json  - Collect snapshots")
	fmt.Println("  optiqa analyze -i model.json  - Fit a quality regression")
	fmt.Println("  optiqa graph -i model.json    - Browse the data")

	return nil
}
