package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/faqrag/internal/cli"
	"github.com/cloo-solutions/faqrag/internal/domain"
)

// QueryCmd returns the query command
func QueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Answer a question against the indexed FAQ document",
		Long: `Embeds the question, retrieves the most similar chunks from the vector
index, generates a grounded answer, evaluates it, and appends the result to
the query log.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().Bool("json", false, "Print the full result as JSON")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	question := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := connectDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	client, err := cli.NewProviderClient(cfg)
	if err != nil {
		return err
	}

	svc := cli.NewQueryPipeline(cfg, client, pool)

	resp, evaluation, err := svc.Ask(ctx, question)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printJSON(cmd, resp, evaluation)
	}

	printResult(cmd, resp, evaluation)
	return nil
}

func printJSON(cmd *cobra.Command, resp *domain.QueryResponse, evaluation *domain.EvaluationResult) error {
	out := struct {
		domain.QueryResponse
		Evaluation *domain.EvaluationResult `json:"evaluation,omitempty"`
	}{QueryResponse: *resp, Evaluation: evaluation}

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	cmd.Println(string(payload))
	return nil
}

func printResult(cmd *cobra.Command, resp *domain.QueryResponse, evaluation *domain.EvaluationResult) {
	cmd.Println(resp.SystemAnswer)
	cmd.Println()

	for _, chunk := range resp.ChunksRelated {
		line := fmt.Sprintf("  [chunk %d]", chunk.Metadata.ChunkIndex)
		if chunk.SimilarityScore != nil {
			line += fmt.Sprintf(" similarity=%.3f", *chunk.SimilarityScore)
		}
		cmd.Println(line)
	}

	if evaluation != nil {
		cmd.Println()
		cmd.Printf("evaluation: %.1f/10 - %s\n", evaluation.Score, evaluation.Reason)
	}
}
