package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jal555/optiqa/internal/collect"
	"github.com/jal555/optiqa/internal/config"
	"github.com/jal555/optiqa/internal/errors"
	"github.com/jal555/optiqa/internal/logger"
	"github.com/jal555/optiqa/internal/util"
)

var (
	collectHostFlag   string
	collectUserFlag   string
	collectDirFlag    string
	collectOutputFlag string
	collectDelayFlag  string
	collectMaxFlag    int
)

// collectCmd connects to the monitoring host and pulls all snapshot files.
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect snapshot files from the monitoring host",
	Long: `Connect to the monitoring host over SSH, enumerate the snapshot files in
the data directory, and merge them into a model of labs, nodes, and
measurements.

Fetches are paced with a fixed delay and capped at a file ceiling so the
run stays within the host's rate limits. A dropped session keeps whatever
was collected before the drop.

Examples:
  optiqa collect
  optiqa collect --host observer@lab-mon-1 --dir /var/lib/snapshots
  optiqa collect --output model.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return collectCommand()
	},
}

func init() {
	collectCmd.Flags().StringVar(&collectHostFlag, "host", "", "monitoring host (hostname, user@host, or SSH alias)")
	collectCmd.Flags().StringVar(&collectUserFlag, "user", "", "SSH username")
	collectCmd.Flags().StringVar(&collectDirFlag, "dir", "", "remote snapshot directory")
	collectCmd.Flags().StringVarP(&collectOutputFlag, "output", "o", "", "write the collected model as JSON to this file")
	collectCmd.Flags().StringVar(&collectDelayFlag, "delay", "", "pause before each fetch (e.g. 1.5s)")
	collectCmd.Flags().IntVar(&collectMaxFlag, "max-files", 0, "file ceiling for this run")

	rootCmd.AddCommand(collectCmd)
}

func collectCommand() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if collectHostFlag != "" {
		cfg.Host = collectHostFlag
	}
	if collectUserFlag != "" {
		cfg.User = collectUserFlag
	}
	if collectDirFlag != "" {
		cfg.DataDir = collectDirFlag
	}
	if collectDelayFlag != "" {
		delay, err := time.ParseDuration(collectDelayFlag)
		if err != nil || delay < 0 {
			return errors.New(errors.ErrConfig,
				"Invalid --delay: "+collectDelayFlag,
				"Use a duration like 1.5s or 500ms")
		}
		cfg.Throttle.Delay = delay
	}
	if collectMaxFlag > 0 {
		cfg.Throttle.MaxFiles = collectMaxFlag
	}

	if cfg.Host == "" {
		return errors.New(errors.ErrConfig,
			"No monitoring host configured",
			"Set 'host' in .optiqa.yaml or pass --host")
	}
	if cfg.DataDir == "" {
		return errors.New(errors.ErrConfig,
			"No snapshot directory configured",
			"Set 'data_dir' in .optiqa.yaml or pass --dir")
	}

	password, err := resolvePassword(cfg.Host)
	if err != nil {
		return err
	}

	collector := collect.New(collect.Options{
		Host:           cfg.Host,
		User:           cfg.User,
		Password:       password,
		DataDir:        cfg.DataDir,
		ConnectTimeout: cfg.ConnectTimeout,
		Delay:          cfg.Throttle.Delay,
		MaxFiles:       cfg.Throttle.MaxFiles,
		Log:            logger.NewEnvLogger("[collect]"),
	})

	model, err := collector.Run()
	if err != nil {
		return err
	}

	labs := model.LabNames()
	fmt.Printf("✓ Collected %d %s across %d %s\n",
		model.TotalSnapshots(), util.Pluralize(model.TotalSnapshots(), "snapshot", "snapshots"),
		len(labs), util.Pluralize(len(labs), "lab", "labs"))
	for _, lab := range labs {
		nodes := model.NodeNames(lab)
		fmt.Printf("  %s: %d %s, %d %s\n", lab,
			len(model.Lab(lab).Snapshots), util.Pluralize(len(model.Lab(lab).Snapshots), "snapshot", "snapshots"),
			len(nodes), util.Pluralize(len(nodes), "node", "nodes"))
	}

	if collectOutputFlag != "" {
		data, err := json.MarshalIndent(model, "", "  ")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrExec,
				"Failed to serialize the model", "")
		}
		if err := os.WriteFile(collectOutputFlag, data, 0644); err != nil {
			return errors.WrapWithCode(err, errors.ErrExec,
				"Failed to write "+collectOutputFlag,
				"Check directory permissions")
		}
		fmt.Printf("✓ Wrote %s\n", collectOutputFlag)
	}

	return nil
}

// loadConfig resolves the config file from --config or the search path,
// falling back to defaults when none exists.
func loadConfig() (*config.Config, error) {
	if configFlag != "" {
		path, err := config.Find(configFlag)
		if err != nil {
			return nil, err
		}
		return config.Load(path)
	}
	return config.LoadOrDefault()
}

// resolvePassword picks up the SSH password from the environment, a terminal
// prompt, or a huh form when stdin is not a TTY (an IDE terminal, say).
// An empty password is fine; key and agent auth still apply.
func resolvePassword(host string) (string, error) {
	if pw := os.Getenv("OPTIQA_PASSWORD"); pw != "" {
		return pw, nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Printf("Password for %s (empty to use keys): ", host)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read password",
				"Set OPTIQA_PASSWORD instead")
		}
		return string(raw), nil
	}

	var pw string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Password for " + host).
			Description("Leave empty to use SSH keys or an agent").
			EchoMode(huh.EchoModePassword).
			Value(&pw),
	))
	if err := form.Run(); err != nil {
		// No way to prompt; fall through to key auth.
		return "", nil
	}
	return pw, nil
}
