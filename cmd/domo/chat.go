package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"majordomo/internal/conversation"
	"majordomo/internal/router"
)

const banner = `domo — your personal assistant
I can send emails, answer questions about documents, schedule meetings,
look up webpages, and order pizza. Type "exit" or "quit" to leave.`

func runChat(cmd *cobra.Command) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	session := conversation.New()
	r := router.New(a.registry, a.gate, a.detector, a.selector, a.client,
		session, a.routing, a.log)

	fmt.Println(banner)
	log.Info("chat session started", zap.String("session_id", session.SessionID()))

	archived := 0
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nyou> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			break
		}

		outcome := r.HandleRequest(ctx, router.Request{Input: input})
		printOutcome(outcome)

		archived = archiveNewTurns(ctx, a, session, archived)
	}
	return scanner.Err()
}

func printOutcome(o router.Outcome) {
	switch o.Kind {
	case router.KindClarification:
		fmt.Printf("domo? %s\n", o.Question)
	case router.KindError:
		fmt.Printf("domo! something went wrong: %v\n", o.Err)
	default:
		if o.Declined {
			fmt.Println("domo> Understood, I won't do that.")
			return
		}
		fmt.Printf("domo> %s\n", o.Data)
	}
}

// archiveNewTurns persists turns added since the last call and returns
// the new high-water mark. Archive failures are logged, not fatal.
func archiveNewTurns(ctx context.Context, a *app, session *conversation.Context, from int) int {
	turns := session.Turns()
	for _, turn := range turns[from:] {
		if err := a.archive.SaveTurn(ctx, session.SessionID(), turn); err != nil {
			a.log.Warn("archiving turn failed", zap.Error(err))
		}
	}
	return len(turns)
}
