package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	algebra "github.com/diantonioandrea/pacs-second"
)

var (
	benchProducts int
	benchCompress bool
)

var benchCmd = &cobra.Command{
	Use:   "bench <file>",
	Short: "Time repeated matrix-vector products",
	Long: `bench loads a matrix and times a fixed number of matrix-vector
products against an all-ones vector, reporting the configuration alongside
the elapsed time.`,
	Args: cobra.ExactArgs(1),
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVarP(&benchProducts, "products", "n", 1000, "number of products to run")
	benchCmd.Flags().BoolVar(&benchCompress, "compress", false, "compress the matrix before timing")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	var collector algebra.BasicMetricsCollector
	m, err := loadMatrix(args[0], algebra.WithMetricsCollector(&collector))
	if err != nil {
		return err
	}
	if benchCompress {
		m.Compress()
	}

	x := make([]float64, m.Columns())
	for i := range x {
		x[i] = 1
	}

	start := time.Now()
	for i := 0; i < benchProducts; i++ {
		if _, err := m.MulVec(x); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("%d products.\n", benchProducts)
	fmt.Printf("%d by %d elements matrix times a %d element(s) vector.\n", m.Rows(), m.Columns(), len(x))
	fmt.Printf("Sparsity: %.6f.\n", m.Sparsity())
	fmt.Printf("Ordering: %s.\n", m.Ordering())
	fmt.Printf("Compression: %v.\n", m.IsCompressed())
	fmt.Printf("Elapsed time: %v (avg %v per product).\n", elapsed, collector.AverageMulVec())

	return nil
}
