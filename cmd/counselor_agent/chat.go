package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohan/ai-counselor/internal/counseling"
	"github.com/rohan/ai-counselor/internal/observability"
	"github.com/rohan/ai-counselor/internal/types"
)

var (
	chatVerbose bool
	chatTimeout time.Duration
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Talk to the counselor from the terminal",
	Long: `Send one message to the counselor, or start an interactive session when
no message is given. History is kept in memory for the session only; the
database is not touched, so action directives are shown but not applied.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVarP(&chatVerbose, "verbose", "v", false, "Print per-attempt workflow details")
	chatCmd.Flags().DurationVar(&chatTimeout, "timeout", time.Minute, "Timeout per chat turn")
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, args []string) error {
	client, err := newLLMClient()
	if err != nil {
		return err
	}
	defer client.Close()

	printer := observability.NewPrinter(os.Stdout)
	var history []types.ChatTurn

	sendTurn := func(message string) {
		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()

		reply, state := counseling.RespondToChat(ctx, client, counseling.ChatContext{
			Message: message,
			History: history,
		})
		if chatVerbose {
			printer.PrintWorkflow(state)
		}
		printer.PrintChatReply(reply)

		history = append(history,
			types.ChatTurn{Role: types.RoleUser, Content: message},
			types.ChatTurn{Role: types.RoleAssistant, Content: reply.Response},
		)
	}

	if len(args) == 1 {
		sendTurn(args[0])
		return nil
	}

	fmt.Println("Interactive counselor session. Type 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "exit" || message == "quit" {
			break
		}
		sendTurn(message)
	}
	return scanner.Err()
}
