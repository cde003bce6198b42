package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-digest/internal/usecase/summarizer"
	"github.com/johnquangdev/meeting-digest/internal/usecase/validity"
)

// readText returns the --text flag value or, when empty, all of stdin
func readText(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var textFlag string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Check whether a transcript text would be summarized",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, textFlag)
			if err != nil {
				return err
			}
			verdict := validity.Classify(text)
			if ctx.jsonOutput() {
				return writeJSON(cmd, verdict)
			}
			if verdict.Valid {
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "invalid: %s\n", verdict.Reason)
			return nil
		},
	}
	cmd.Flags().StringVar(&textFlag, "text", "", "Transcript text (defaults to stdin)")
	return cmd
}

func newSummarizeCommand(ctx *commandContext) *cobra.Command {
	var (
		textFlag     string
		maxSentences int
		maxPoints    int
		minLength    int
	)

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Print the summary, key points and follow-ups for a transcript text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, textFlag)
			if err != nil {
				return err
			}
			sum := summarizer.New(summarizer.Options{MinSentenceLength: minLength})
			digest := sum.Digest(text, maxSentences, maxPoints)
			if ctx.jsonOutput() {
				return writeJSON(cmd, digest)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Summary:\n  %s\n\n", digest.Summary)

			rows := make([][]string, 0, len(digest.KeyPoints))
			for i, p := range digest.KeyPoints {
				rows = append(rows, []string{strconv.Itoa(i + 1), p})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Key point"}, rows, []columnAlignment{alignRight, alignLeft}))

			fmt.Fprintf(out, "\nFollow-ups:\n  - %s\n", strings.Join(digest.FollowUps, "\n  - "))
			return nil
		},
	}
	cmd.Flags().StringVar(&textFlag, "text", "", "Transcript text (defaults to stdin)")
	cmd.Flags().IntVar(&maxSentences, "sentences", 3, "Maximum summary sentences")
	cmd.Flags().IntVar(&maxPoints, "points", 5, "Maximum key points")
	cmd.Flags().IntVar(&minLength, "min-sentence-length", summarizer.DefaultMinSentenceLength, "Drop sentences at or below this length")
	return cmd
}
