package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jimmymills/llmfunctionclient/funcclient"
	"github.com/jimmymills/llmfunctionclient/internal/logutil"
	"github.com/jimmymills/llmfunctionclient/llm"
	"github.com/jimmymills/llmfunctionclient/providers/openai"
	"github.com/jimmymills/llmfunctionclient/store"
	"github.com/jimmymills/llmfunctionclient/tools/builtin"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat with function calling",
		RunE:  runChatCmd,
	}

	cmd.Flags().String("endpoint", "", "OpenAI-compatible API endpoint.")
	cmd.Flags().String("api-key", "", "API key (or LLMFUNC_LLM_API_KEY).")
	cmd.Flags().String("model", "", "Model name.")
	cmd.Flags().String("system", "", "System prompt to seed the conversation.")
	cmd.Flags().String("force-function", "", "Force the first response to call this tool.")
	cmd.Flags().Int("max-turns", 0, "Turn budget per message.")
	cmd.Flags().Duration("llm-request-timeout", 0, "Per-request timeout.")
	cmd.Flags().String("save", "", "SQLite file to persist the transcript in (optional).")
	cmd.Flags().String("conversation", "", "Conversation id to resume (requires --save).")

	return cmd
}

func runChatCmd(cmd *cobra.Command, _ []string) error {
	logger, err := logutil.LoggerFromViper()
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	client := openai.New(
		strings.TrimSpace(flagOrViperString(cmd, "endpoint", "llm.endpoint")),
		strings.TrimSpace(flagOrViperString(cmd, "api-key", "llm.api_key")),
	)
	if d := flagOrViperDuration(cmd, "llm-request-timeout", "llm.request_timeout"); d > 0 {
		client.SetTimeout(d)
	}
	model := strings.TrimSpace(flagOrViperString(cmd, "model", "llm.model"))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var opts []funcclient.Option
	opts = append(opts, funcclient.WithLogger(logger))
	opts = append(opts, funcclient.WithLogOptions(logutil.LogOptionsFromViper()))
	if n := flagOrViperInt(cmd, "max-turns", "max_turns"); n > 0 {
		opts = append(opts, funcclient.WithMaxTurns(n))
	}

	var (
		db     *store.DB
		convID string
	)
	if path, _ := cmd.Flags().GetString("save"); strings.TrimSpace(path) != "" {
		db, err = store.Open(ctx, strings.TrimSpace(path))
		if err != nil {
			return fmt.Errorf("open transcript store: %w", err)
		}
		defer db.Close()

		convID, _ = cmd.Flags().GetString("conversation")
		convID = strings.TrimSpace(convID)
		if convID == "" {
			convID, err = db.CreateConversation(ctx, model)
			if err != nil {
				return fmt.Errorf("create conversation: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "conversation: %s\n", convID)
		} else {
			resumed, err := db.Messages(ctx, convID)
			if err != nil {
				return fmt.Errorf("load conversation: %w", err)
			}
			opts = append(opts, funcclient.WithInitialMessages(resumed...))
		}
	}

	fc := funcclient.New(client, model, builtin.All(), opts...)
	persisted := len(fc.Messages())

	if system, _ := cmd.Flags().GetString("system"); strings.TrimSpace(system) != "" {
		fc.AddMessage(llm.RoleSystem, strings.TrimSpace(system))
	}

	force, _ := cmd.Flags().GetString("force-function")
	force = strings.TrimSpace(force)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprint(cmd.OutOrStdout(), "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "exit" || line == "quit" {
			if line != "" {
				break
			}
			fmt.Fprint(cmd.OutOrStdout(), "> ")
			continue
		}

		var sendOpts []funcclient.SendOption
		if force != "" {
			sendOpts = append(sendOpts, funcclient.WithForceFunction(force))
			// Forcing is a first-message affordance, not a session mode.
			force = ""
		}

		answer, err := fc.SendMessage(ctx, line, sendOpts...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), answer)

		metrics := fc.LastMetrics()
		logger.Debug("chat_message_done",
			"rounds", metrics.Rounds,
			"tool_calls", metrics.ToolCalls,
			"total_tokens", metrics.TotalTokens,
			"elapsed_ms", metrics.ElapsedMs,
		)

		if db != nil {
			all := fc.Messages()
			if err := db.AppendMessages(ctx, convID, all[persisted:]); err != nil {
				return fmt.Errorf("persist transcript: %w", err)
			}
			persisted = len(all)
		}

		fmt.Fprint(cmd.OutOrStdout(), "> ")
	}
	return scanner.Err()
}
