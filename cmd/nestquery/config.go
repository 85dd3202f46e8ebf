package nestquery

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nestquery/nestquery/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the fully resolved configuration as YAML, after defaults, config
file, environment variables, and flags have been applied. Secrets are
redacted.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	redact(&cfg.Embedding.APIKey)
	redact(&cfg.GraphDB.Password)
	redact(&cfg.Vector.Password)

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}

func redact(s *string) {
	if *s != "" {
		*s = "[redacted]"
	}
}
