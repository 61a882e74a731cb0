package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"copy_ai_server/internal/ai/prompts"
	"copy_ai_server/internal/types"
)

var promptCfg = types.DefaultGenerationConfig()

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the system instruction and prompt for a configuration",
	Long: `Builds the prompt the server would send for the given configuration and
prints it without contacting any backend.

Example:
  copy-ai-server prompt --type Tweet --product Acme --audience devs \
    --feature "fast" --feature "cheap" --tone Witty --length Short`,
	RunE: func(cmd *cobra.Command, args []string) error {
		features, _ := cmd.Flags().GetStringArray("feature")
		if len(features) > 0 {
			lines := make([]string, len(features))
			for i, f := range features {
				lines[i] = "- " + f
			}
			promptCfg.Features = strings.Join(lines, "\n")
		}
		if err := promptCfg.Validate(); err != nil {
			return err
		}

		instruction, err := prompts.SystemInstruction(promptCfg.ContentType)
		if err != nil {
			return err
		}
		prompt, err := prompts.Build(promptCfg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "System instruction (temperature %.2f):\n%s\n\n", promptCfg.Creativity, instruction)
		fmt.Fprintf(out, "Prompt:\n%s\n", prompt)
		return nil
	},
}

func init() {
	f := promptCmd.Flags()
	f.StringVar((*string)(&promptCfg.ContentType), "type", string(promptCfg.ContentType), "Content type: "+joinValues(types.ContentTypes))
	f.StringVar(&promptCfg.ProductName, "product", promptCfg.ProductName, "Product or service name")
	f.StringVar(&promptCfg.TargetAudience, "audience", promptCfg.TargetAudience, "Target audience")
	f.StringArray("feature", nil, "Key feature or benefit (repeatable)")
	f.StringVar((*string)(&promptCfg.Tone), "tone", string(promptCfg.Tone), "Tone: "+joinValues(types.Tones))
	f.StringVar((*string)(&promptCfg.Length), "length", string(promptCfg.Length), "Length: "+joinValues(types.Lengths))
	f.Float64Var(&promptCfg.Creativity, "creativity", promptCfg.Creativity, "Temperature between 0 and 1")
}

func joinValues[T ~string](values []T) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}
