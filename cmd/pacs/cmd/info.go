package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	algebra "github.com/diantonioandrea/pacs-second"
)

var infoCompress bool

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print shape, sparsity and norms of a matrix",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoCompress, "compress", false, "compress before computing norms")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, err := loadMatrix(args[0])
	if err != nil {
		return err
	}
	if infoCompress {
		m.Compress()
	}

	fmt.Printf("File:        %s\n", args[0])
	fmt.Printf("Shape:       %d by %d\n", m.Rows(), m.Columns())
	fmt.Printf("Ordering:    %s\n", m.Ordering())
	fmt.Printf("Nonzeros:    %d\n", m.Size())
	fmt.Printf("Sparsity:    %.6f\n", m.Sparsity())
	fmt.Printf("Density:     %.6f\n", m.Density())
	fmt.Printf("Compressed:  %v\n", m.IsCompressed())

	for _, kind := range []algebra.NormKind{algebra.NormOne, algebra.NormInfinity, algebra.NormFrobenius} {
		norm, err := m.Norm(kind)
		if err != nil {
			return err
		}
		fmt.Printf("%-12s %.6e\n", kind.String()+" norm:", norm)
	}

	return nil
}
