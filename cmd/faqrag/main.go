package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/faqrag/internal/cli"
	"github.com/cloo-solutions/faqrag/internal/cli/pipeline"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "faqrag",
		Short: "FAQ question answering over a single document",
		Long: `faqrag indexes an FAQ document and answers questions against it using
retrieval-augmented generation.

Environment variables:
  DOCUMENT_PATH        FAQ document to index (default: docs/faq.md)
  VECTOR_STORE_PATH    Where the vector index is persisted (default: vector-store)
  OPENAI_API_KEY       OpenAI API key
  OPENROUTER_API_KEY   OpenRouter API key (used when OPENAI_API_KEY is unset)`,
		Version: version,
	}

	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(pipeline.BuildIndexCmd())
	rootCmd.AddCommand(pipeline.QueryCmd())
	rootCmd.AddCommand(pipeline.SampleCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
