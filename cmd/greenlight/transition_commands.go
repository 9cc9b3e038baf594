package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"greenlight/internal/api"
	"greenlight/internal/lifecycle"
)

func newTransitionCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newScriptDoneCommand(ctx),
		newApproveCommand(ctx),
		newRejectCommand(ctx),
		newRenderDoneCommand(ctx),
		newPublishDoneCommand(ctx),
		newFailCommand(ctx),
		newRetryCommand(ctx),
		newOverrideCommand(ctx),
	}
}

func runTransition(ctx *commandContext, cmd *cobra.Command, id string, req api.TransitionRequest) error {
	return ctx.withClient(func(client *api.Client) error {
		item, err := client.Transition(cmd.Context(), id, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Item %s is now %s\n", item.ID, item.Status)
		return nil
	})
}

func newScriptDoneCommand(ctx *commandContext) *cobra.Command {
	var hook, body, cta, text, caption, citations string
	var hashtags, platforms []string
	var score float64
	var actor string

	cmd := &cobra.Command{
		Use:   "script-done <id>",
		Short: "Record a generated script and queue the item for review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script := &api.ScriptRequest{
				Hook:            hook,
				Body:            body,
				CTA:             cta,
				Text:            text,
				SocialCaption:   caption,
				Hashtags:        hashtags,
				TargetPlatforms: platforms,
				Citations:       citations,
			}
			if cmd.Flags().Changed("score") {
				script.ComplianceScore = &score
			}
			return runTransition(ctx, cmd, args[0], api.TransitionRequest{
				Target: string(lifecycle.StatusPendingReview),
				Actor:  actor,
				Script: script,
			})
		},
	}

	cmd.Flags().StringVar(&hook, "hook", "", "Script hook")
	cmd.Flags().StringVar(&body, "body", "", "Script body")
	cmd.Flags().StringVar(&cta, "cta", "", "Script call to action")
	cmd.Flags().StringVar(&text, "text", "", "Flat script text (legacy form)")
	cmd.Flags().StringVar(&caption, "caption", "", "Social media caption")
	cmd.Flags().StringSliceVar(&hashtags, "hashtag", nil, "Hashtag (repeatable)")
	cmd.Flags().StringSliceVar(&platforms, "target-platform", nil, "Target platform (repeatable)")
	cmd.Flags().StringVar(&citations, "citations", "", "Source citations")
	cmd.Flags().Float64Var(&score, "score", 0, "Compliance score in [0,1]")
	cmd.Flags().StringVar(&actor, "actor", "", "Actor recorded in the audit log")
	return cmd
}

func newApproveCommand(ctx *commandContext) *cobra.Command {
	var reviewer, notes string

	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a reviewed script and queue rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(ctx, cmd, args[0], api.TransitionRequest{
				Target: string(lifecycle.StatusPendingRender),
				Actor:  reviewer,
				Review: &api.ReviewRequest{ReviewedBy: reviewer, Notes: notes},
			})
		},
	}

	cmd.Flags().StringVar(&reviewer, "reviewer", "", "Reviewer identity")
	cmd.Flags().StringVar(&notes, "notes", "", "Optional review notes")
	return cmd
}

func newRejectCommand(ctx *commandContext) *cobra.Command {
	var reviewer, reason string

	cmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a script with a reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(ctx, cmd, args[0], api.TransitionRequest{
				Target: string(lifecycle.StatusRejected),
				Actor:  reviewer,
				Reject: &api.RejectRequest{ReviewedBy: reviewer, Reason: reason},
			})
		},
	}

	cmd.Flags().StringVar(&reviewer, "reviewer", "", "Reviewer identity")
	cmd.Flags().StringVar(&reason, "reason", "", "Rejection reason (minimum 10 characters)")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func newRenderDoneCommand(ctx *commandContext) *cobra.Command {
	var videoPath, actor string

	cmd := &cobra.Command{
		Use:   "render-done <id>",
		Short: "Record the rendered video for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(ctx, cmd, args[0], api.TransitionRequest{
				Target: string(lifecycle.StatusApproved),
				Actor:  actor,
				Render: &api.RenderRequest{VideoPath: videoPath},
			})
		},
	}

	cmd.Flags().StringVar(&videoPath, "video", "", "Path or URL of the rendered video")
	cmd.Flags().StringVar(&actor, "actor", "", "Actor recorded in the audit log")
	_ = cmd.MarkFlagRequired("video")
	return cmd
}

func newPublishDoneCommand(ctx *commandContext) *cobra.Command {
	var publishedURL, actor string

	cmd := &cobra.Command{
		Use:   "publish-done <id>",
		Short: "Record that an item went live",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(ctx, cmd, args[0], api.TransitionRequest{
				Target:  string(lifecycle.StatusPublished),
				Actor:   actor,
				Publish: &api.PublishRequest{PublishedURL: publishedURL},
			})
		},
	}

	cmd.Flags().StringVar(&publishedURL, "url", "", "Live URL of the published content")
	cmd.Flags().StringVar(&actor, "actor", "", "Actor recorded in the audit log")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newFailCommand(ctx *commandContext) *cobra.Command {
	var errorLog, actor string

	cmd := &cobra.Command{
		Use:   "fail <id>",
		Short: "Report a workflow stage failure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(ctx, cmd, args[0], api.TransitionRequest{
				Target:  string(lifecycle.StatusError),
				Actor:   actor,
				Failure: &api.FailureRequest{ErrorLog: errorLog},
			})
		},
	}

	cmd.Flags().StringVar(&errorLog, "error", "", "Error details from the failed stage")
	cmd.Flags().StringVar(&actor, "actor", "", "Actor recorded in the audit log")
	_ = cmd.MarkFlagRequired("error")
	return cmd
}

func newRetryCommand(ctx *commandContext) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "retry <id>",
		Short: "Retry a failed item at the stage it failed from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(ctx, cmd, args[0], api.TransitionRequest{
				Retry: true,
				Actor: actor,
			})
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Actor recorded in the audit log")
	return cmd
}

func newOverrideCommand(ctx *commandContext) *cobra.Command {
	var actor, note string

	cmd := &cobra.Command{
		Use:   "override <id> <status>",
		Short: "Force an item to a status outside the normal flow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(ctx, cmd, args[0], api.TransitionRequest{
				Target:   args[1],
				Actor:    actor,
				Override: true,
				Note:     note,
			})
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Actor recorded in the audit log")
	cmd.Flags().StringVar(&note, "note", "", "Explanation recorded with the override")
	_ = cmd.MarkFlagRequired("note")
	return cmd
}
