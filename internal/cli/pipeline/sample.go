package pipeline

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cloo-solutions/faqrag/internal/cli"
)

// defaultQuestions exercise the pipeline when no questions file is given.
var defaultQuestions = []string{
	"What is this product and who is it for?",
	"How do I get started?",
	"How do I contact support?",
}

type questionsFile struct {
	Questions []string `yaml:"questions"`
}

// SampleCmd returns the sample command
func SampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Run a batch of sample questions through the pipeline",
		Long: `Runs each question through the full pipeline sequentially and prints
every answer with its evaluation score. Questions come from a YAML file
(--file) or a small built-in set.`,
		RunE: runSample,
	}

	cmd.Flags().StringP("file", "f", "", "YAML file with a 'questions' list")

	return cmd
}

func runSample(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	questions := defaultQuestions
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		questions, err = loadQuestions(path)
		if err != nil {
			return err
		}
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

	for i, question := range questions {
		cmd.Printf("[%d/%d] %s\n", i+1, len(questions), question)

		resp, evaluation, err := svc.Ask(ctx, question)
		if err != nil {
			log.Printf("question failed: %v", err)
			continue
		}

		cmd.Println(resp.SystemAnswer)
		if evaluation != nil {
			cmd.Printf("evaluation: %.1f/10\n", evaluation.Score)
		}
		cmd.Println()
	}

	return nil
}

func loadQuestions(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questions file: %w", err)
	}

	var file questionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse questions file: %w", err)
	}
	if len(file.Questions) == 0 {
		return nil, fmt.Errorf("questions file %s has no questions", path)
	}
	return file.Questions, nil
}
