package main

import (
	"github.com/metalagman/coursellm/internal/pipeline"
	"github.com/spf13/cobra"
)

func askCmd() *cobra.Command {
	var (
		materials []string
		question  string
		socratic  bool
	)
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Answer a question about course materials",
		Example: `  coursellm ask --material notes.md --question "What is photosynthesis?"
  coursellm ask --material notes.md --question "Why is the sky blue?" --socratic`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			provider, err := newProvider(cfg)
			if err != nil {
				return err
			}
			contents, err := readMaterials(cmd.InOrStdin(), materials)
			if err != nil {
				return err
			}
			res, err := pipeline.NewAssistant(provider).AnswerQuestion(cmd.Context(), pipeline.AnswerRequest{
				CourseMaterials: contents,
				Question:        question,
				UseSocratic:     socratic,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringArrayVar(&materials, "material", nil, "course material file, repeatable; - reads stdin")
	cmd.Flags().StringVarP(&question, "question", "q", "", "question to answer")
	cmd.Flags().BoolVar(&socratic, "socratic", false, "reply with a guiding question instead of an answer")
	return cmd
}

func assessCmd() *cobra.Command {
	var req pipeline.AssessmentRequest
	cmd := &cobra.Command{
		Use:          "assess",
		Short:        "Assess a student answer and suggest follow-up questions",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			provider, err := newProvider(cfg)
			if err != nil {
				return err
			}
			res, err := pipeline.NewAssistant(provider).AssessAndProvideFeedback(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&req.Question, "question", "", "question that was asked")
	cmd.Flags().StringVar(&req.StudentAnswer, "answer", "", "student answer")
	cmd.Flags().StringVar(&req.CorrectAnswer, "correct", "", "reference answer")
	cmd.Flags().StringVar(&req.Topic, "topic", "", "topic used for follow-up questions")
	return cmd
}

func summarizeCmd() *cobra.Command {
	var materials []string
	cmd := &cobra.Command{
		Use:          "summarize",
		Short:        "Summarize course materials into key points",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			provider, err := newProvider(cfg)
			if err != nil {
				return err
			}
			contents, err := readMaterials(cmd.InOrStdin(), materials)
			if err != nil {
				return err
			}
			res, err := pipeline.NewAssistant(provider).SummarizeMaterials(cmd.Context(), pipeline.SummarizeRequest{Materials: contents})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringArrayVar(&materials, "material", nil, "course material file, repeatable; - reads stdin")
	return cmd
}
