package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"greenlight/internal/api"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var sourceURL, platform, lang string

	cmd := &cobra.Command{
		Use:   "create <topic>",
		Short: "Enqueue a topic for content generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				item, created, err := client.Create(cmd.Context(), api.CreateItemRequest{
					Topic:     args[0],
					SourceURL: sourceURL,
					Platform:  platform,
					Language:  lang,
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if created {
					fmt.Fprintf(out, "Created item %s for topic %q\n", item.ID, item.Topic)
				} else {
					fmt.Fprintf(out, "Topic %q already active as item %s (%s)\n", item.Topic, item.ID, item.Status)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sourceURL, "source-url", "", "Source article or research URL")
	cmd.Flags().StringVar(&platform, "platform", "", "Primary target platform")
	cmd.Flags().StringVar(&lang, "language", "", "Content language tag")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var statuses []string
	var platform string
	var limit int
	var exhausted bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List content items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				items, err := client.List(cmd.Context(), statuses, platform, limit, exhausted)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No content items found.")
					return nil
				}

				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						shortID(item.ID),
						truncate(item.Topic, 40),
						item.Status,
						item.Platform,
						strconv.Itoa(item.RetryCount),
						formatScore(item.ComplianceScore),
						item.CreatedAt,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Topic", "Status", "Platform", "Retries", "Score", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (repeatable)")
	cmd.Flags().StringVar(&platform, "platform", "", "Filter by platform")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of items to return")
	cmd.Flags().BoolVar(&exhausted, "exhausted", false, "Only items pinned in ERROR past the retry cap")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show full details for a content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				item, err := client.Describe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printItem(cmd, item)
				return nil
			})
		},
	}
}

func newAuditCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "audit <id>",
		Short: "Show the status change history for a content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				entries, err := client.Audit(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No audit entries yet.")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.Timestamp,
						entry.OldStatus,
						entry.NewStatus,
						entry.ChangedBy,
						truncate(entry.Note, 60),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Timestamp", "From", "To", "By", "Note"},
					rows,
					nil,
				))
				return nil
			})
		},
	}
}

func printItem(cmd *cobra.Command, item *api.ContentItem) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:        %s\n", item.ID)
	fmt.Fprintf(out, "Topic:     %s\n", item.Topic)
	fmt.Fprintf(out, "Status:    %s\n", item.Status)
	if item.Platform != "" {
		fmt.Fprintf(out, "Platform:  %s\n", item.Platform)
	}
	if item.Language != "" {
		fmt.Fprintf(out, "Language:  %s\n", item.Language)
	}
	if item.SourceURL != "" {
		fmt.Fprintf(out, "Source:    %s\n", item.SourceURL)
	}
	if item.ComplianceScore != nil {
		fmt.Fprintf(out, "Score:     %.2f\n", *item.ComplianceScore)
	}
	if item.Script != nil {
		fmt.Fprintln(out, "Script:")
		if item.Script.Hook != "" {
			fmt.Fprintf(out, "  Hook: %s\n", item.Script.Hook)
		}
		if item.Script.Body != "" {
			fmt.Fprintf(out, "  Body: %s\n", item.Script.Body)
		}
		if item.Script.CTA != "" {
			fmt.Fprintf(out, "  CTA:  %s\n", item.Script.CTA)
		}
		if item.Script.Text != "" {
			fmt.Fprintf(out, "  Text: %s\n", item.Script.Text)
		}
	}
	if item.SocialCaption != "" {
		fmt.Fprintf(out, "Caption:   %s\n", item.SocialCaption)
	}
	if len(item.Hashtags) > 0 {
		fmt.Fprintf(out, "Hashtags:  %s\n", strings.Join(item.Hashtags, " "))
	}
	if item.VideoPath != "" {
		fmt.Fprintf(out, "Video:     %s\n", item.VideoPath)
	}
	if item.PublishedURL != "" {
		fmt.Fprintf(out, "Published: %s\n", item.PublishedURL)
	}
	if item.ReviewedBy != "" {
		fmt.Fprintf(out, "Reviewer:  %s (%s)\n", item.ReviewedBy, item.ReviewedAt)
	}
	if item.ReviewNotes != "" {
		fmt.Fprintf(out, "Notes:     %s\n", item.ReviewNotes)
	}
	if item.ErrorLog != "" {
		fmt.Fprintf(out, "Error:     %s\n", item.ErrorLog)
	}
	if item.RetryCount > 0 {
		fmt.Fprintf(out, "Retries:   %d", item.RetryCount)
		if item.FailedFrom != "" {
			fmt.Fprintf(out, " (failed from %s)", item.FailedFrom)
		}
		if item.Exhausted {
			fmt.Fprint(out, " [exhausted]")
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Created:   %s\n", item.CreatedAt)
	fmt.Fprintf(out, "Updated:   %s\n", item.UpdatedAt)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return strconv.FormatFloat(*score, 'f', 2, 64)
}
