package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	ixconfig "github.com/ssargent/ixtree/pkg/config"
)

var configPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or bootstrap the ixtree CLI configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			p, err := ixconfig.DefaultPath()
			if err != nil {
				return errors.Wrap(err, "resolve default config path")
			}
			path = p
		}

		cfg, err := ixconfig.Bootstrap(path, dataFile)
		if err != nil {
			return errors.Wrapf(err, "bootstrap config at %s", path)
		}

		fmt.Printf("config: %s\n", path)
		fmt.Printf("  data_file: %s\n", cfg.DataFile)
		fmt.Printf("  order:     %d\n", cfg.Order)
		fmt.Printf("  key_width: %d\n", cfg.KeyWidth)
		fmt.Printf("  val_width: %d\n", cfg.ValWidth)
		fmt.Printf("  log_level: %s\n", cfg.Logging.Level)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVar(&configPath, "config", "", "path to the config file (defaults to the platform config dir)")
}
