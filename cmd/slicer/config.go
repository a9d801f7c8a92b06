package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruit-slice/internal/config"
)

var flagCheckOnly bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Prints the configuration the game would run with, after the config file
and the difficulty preset are applied. The output is valid input for
--config.

Examples:
  slicer config > my-slicer.yaml
  slicer config --difficulty hard
  slicer config --config ./my-slicer.yaml --check`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagCheckOnly, "check", false, "Only validate; exit non-zero on problems")
}

func runConfig(_ *cobra.Command, _ []string) {
	cfg, err := loadGameConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagCheckOnly {
		problems := cfg.Validate()
		for _, p := range problems {
			fmt.Fprintln(os.Stderr, p)
		}
		if len(problems) > 0 {
			os.Exit(1)
		}
		fmt.Println("Config OK.")
		return
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
