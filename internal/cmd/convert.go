package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpequegn/batchlint/internal/analyzer"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <legacy-config> <output-path>",
	Short: "Translate a legacy key/value analyzer config into modern JSON",
	Long: `Convert reads a legacy line-oriented analyzer config ("key:
value" or "key=value" pairs, '#' comments) and writes the equivalent
modern JSON config that --target's resolved config path expects.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	legacyPath, outputPath := args[0], args[1]

	legacy, err := os.ReadFile(legacyPath)
	if err != nil {
		return fmt.Errorf("convert: read %q: %w", legacyPath, err)
	}

	modern, err := analyzer.ConvertLegacyConfig(legacy)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	if err := os.WriteFile(outputPath, modern, 0o644); err != nil {
		return fmt.Errorf("convert: write %q: %w", outputPath, err)
	}

	fmt.Fprintf(os.Stderr, "wrote %s\n", outputPath)
	return nil
}
