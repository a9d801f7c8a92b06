package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruit-slice/internal/catalog"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List fruit kinds and weights",
	Long: `Shows every configured fruit kind with its design weight and the share
of spawns it gets when nothing is steering the spawner.`,
	Args: cobra.NoArgs,
	Run:  runKinds,
}

func runKinds(_ *cobra.Command, _ []string) {
	cfg, err := loadGameConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cat := catalog.New(cfg.Catalog.Entries())
	if cat.Len() == 0 {
		fmt.Println("No fruit kinds configured.")
		return
	}

	var total float64
	for _, k := range cat.AllKinds() {
		total += cat.DesignWeight(k)
	}

	rows := make([][]string, 0, cat.Len())
	for _, k := range cat.AllKinds() {
		def, _ := cfg.Catalog.Lookup(k)
		w := cat.DesignWeight(k)
		share := 0.0
		if total > 0 {
			share = w / total * 100
		}
		rows = append(rows, []string{
			string(k),
			def.Glyph,
			def.Color,
			fmt.Sprintf("%g", w),
			fmt.Sprintf("%.1f%%", share),
		})
	}

	fmt.Println("Fruit kinds:")
	fmt.Println()
	fmt.Println(renderTable([]string{"Kind", "Glyph", "Color", "Weight", "Share"}, rows))
	fmt.Println()
	fmt.Println("Run 'slicer play' to start slicing.")
}
