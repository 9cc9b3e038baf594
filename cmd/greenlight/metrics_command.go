package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"greenlight/internal/api"
	"greenlight/internal/lifecycle"
)

func newMetricsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show pipeline status counts and compliance average",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				snapshot, err := client.Metrics(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()

				rows := make([][]string, 0, len(snapshot.StatusCounts))
				for _, status := range lifecycle.AllStatuses() {
					rows = append(rows, []string{
						string(status),
						strconv.Itoa(snapshot.StatusCounts[string(status)]),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Status", "Items"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				fmt.Fprintf(out, "Total items: %d\n", snapshot.TotalCount)
				if snapshot.AverageComplianceScore != nil {
					fmt.Fprintf(out, "Average compliance score: %.3f (%d scored)\n",
						*snapshot.AverageComplianceScore, snapshot.ScoredCount)
				} else {
					fmt.Fprintln(out, "Average compliance score: n/a (no scored items)")
				}
				return nil
			})
		},
	}
}

func newTriggerCommand(ctx *commandContext) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Ask the orchestration runner to start a pipeline pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				if err := client.Trigger(cmd.Context(), actor); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Pipeline trigger queued.")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Actor recorded with the trigger")
	return cmd
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the daemon is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				if err := client.Health(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Daemon is healthy.")
				return nil
			})
		},
	}
}
