package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"majordomo/internal/conversation"
	"majordomo/internal/router"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <request>",
		Short: "Route a single request and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			session := conversation.New()
			r := router.New(a.registry, a.gate, a.detector, a.selector, a.client,
				session, a.routing, a.log)

			outcome := r.HandleRequest(ctx, router.Request{
				Input: strings.Join(args, " "),
			})
			printOutcome(outcome)

			archiveNewTurns(ctx, a, session, 0)
			if outcome.Kind == router.KindError {
				return fmt.Errorf("request failed: %w", outcome.Err)
			}
			return nil
		},
	}
}
