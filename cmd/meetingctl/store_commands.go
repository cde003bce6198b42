package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	dtopipeline "github.com/johnquangdev/meeting-digest/internal/adapter/dto/pipeline"
	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	"github.com/johnquangdev/meeting-digest/internal/infrastructure/database"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, logger, err := ctx.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = database.CloseDB(db) }()

			n, err := database.Migrate(db, logger)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]int{"applied": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", n)
			return nil
		},
	}
}

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Run a single reconciliation pass and print its outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, logger, err := ctx.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = database.CloseDB(db) }()

			outcome, err := ctx.newReconciler(db, logger).Reconcile(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, dtopipeline.NewOutcomeResponse(outcome))
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderOutcome(outcome))
			return nil
		},
	}
}

func newPendingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "Count valid transcripts that do not have a meeting yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, logger, err := ctx.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = database.CloseDB(db) }()

			n, err := ctx.newReconciler(db, logger).Pending(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]int{"pending": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d transcript(s) pending\n", n)
			return nil
		},
	}
}

func renderOutcome(o *entities.ProcessingOutcome) string {
	rows := [][]string{
		{"considered", strconv.Itoa(o.Considered)},
		{"already linked", strconv.Itoa(o.AlreadyLinked)},
		{"candidates", strconv.Itoa(o.Candidates)},
		{"processed", strconv.Itoa(o.Processed)},
		{"conflicts", strconv.Itoa(o.Conflicts)},
		{"failed", strconv.Itoa(o.Failed)},
		{"skipped", strconv.Itoa(o.Skipped)},
	}

	reasons := make([]string, 0, len(o.SkipReasons))
	for reason := range o.SkipReasons {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		rows = append(rows, []string{"  " + reason, strconv.Itoa(o.SkipReasons[entities.SkipReason(reason)])})
	}
	rows = append(rows, []string{"duration", o.Duration().String()})

	out := renderTable([]string{"Run " + o.RunID.String(), "Count"}, rows, []columnAlignment{alignLeft, alignRight})
	for _, e := range o.Errors {
		out += "\n  ! " + e
	}
	return out
}
