package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diantonioandrea/pacs-second/market"
)

var convertCompress bool

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Rewrite a matrix file, optionally recompressing it",
	Long: `convert reads a matrix and writes it back, picking plain, zstd or
lz4 encoding from the output extension. With --compress the matrix passes
through compression first, dropping entries within the zero tolerance.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolVar(&convertCompress, "compress", false, "apply tolerance filtering before writing")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	m, err := loadMatrix(args[0])
	if err != nil {
		return err
	}
	if convertCompress {
		m.Compress()
	}

	if err := market.WriteFile(args[1], m); err != nil {
		return err
	}

	fmt.Printf("Wrote %d entries to %s.\n", m.Size(), args[1])
	return nil
}
