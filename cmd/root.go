package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "multirag",
	Short: "Multi-modal RAG pipeline and chat API",
	Long: `multirag ingests a PDF from object storage, extracts text, tables,
formulas and images, embeds everything into a vector index, and serves a
retrieval-augmented chat API over it.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("prod", false, "structured JSON logging")
}
