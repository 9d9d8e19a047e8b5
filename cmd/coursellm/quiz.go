package main

import (
	"fmt"

	"github.com/metalagman/coursellm/internal/pipeline"
	"github.com/spf13/cobra"
)

func quizCmd() *cobra.Command {
	var (
		material string
		num      int
		req      pipeline.QuizRequest
	)
	cmd := &cobra.Command{
		Use:          "quiz",
		Short:        "Generate multiple-choice questions from a material file",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if material == "" {
				return fmt.Errorf("--material is required")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			provider, err := newProvider(cfg)
			if err != nil {
				return err
			}
			contents, err := readMaterials(cmd.InOrStdin(), []string{material})
			if err != nil {
				return err
			}
			req.MaterialContent = contents[0]
			req.NumQuestions = &num
			res, err := pipeline.NewQuizPipeline(provider).Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&material, "material", "", "material file; - reads stdin")
	cmd.Flags().StringVar(&req.Difficulty, "difficulty", pipeline.DefaultDifficulty, "question difficulty")
	cmd.Flags().IntVarP(&num, "num", "n", pipeline.DefaultNumQuestions, "number of questions")
	return cmd
}
