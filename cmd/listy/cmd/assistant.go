package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"listy/assistant"
	"listy/internal/config"
	"listy/internal/credentials"
	"listy/internal/shutdown"
	"listy/internal/tui"
	"listy/internal/utils"
	"listy/store"
)

// newSetupCmd creates the 'setup' subcommand for assistant credentials
func newSetupCmd(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup [provider]",
		Short: "Store an assistant API key",
		Long: "Store an API key for an assistant provider (gemini, openai, openrouter) in the system keyring\n" +
			"and make that provider the default.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyGlobalFlags(cmd, cfg)

			provider, err := assistant.ParseProvider(args[0])
			if err != nil {
				return err
			}

			manager := credentials.NewManager()

			if del, _ := cmd.Flags().GetBool("delete"); del {
				if err := manager.DeleteAPIKey(string(provider)); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(stdout, "Removed API key for %s\n", provider)
				if cfg.NoPrompt {
					_, _ = fmt.Fprintln(stdout, ResultActionCompleted)
				}
				return nil
			}

			key, err := promptAPIKey(cmd.InOrStdin(), stderr, provider)
			if err != nil {
				return err
			}
			if err := manager.SetAPIKey(string(provider), key); err != nil {
				return err
			}

			// Make the provider the assistant default.
			ctx := context.Background()
			st, _, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			if err := st.UpdateSetting(ctx, "ai_provider", string(provider)); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(stdout, "Stored API key for %s\n", provider)
			if cfg.NoPrompt {
				_, _ = fmt.Fprintln(stdout, ResultActionCompleted)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().Bool("delete", false, "Remove the stored API key instead")
	return cmd
}

// promptAPIKey reads an API key without echo when stdin is a terminal.
func promptAPIKey(stdin io.Reader, stderr io.Writer, provider assistant.Provider) (string, error) {
	_, _ = fmt.Fprintf(stderr, "Enter %s API key: ", provider)

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}

	reader := bufio.NewReader(stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// newChatCmd creates the 'chat' subcommand
func newChatCmd(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the list assistant",
		Long: "Send one message to the assistant, or start an interactive session when no message is given.\n" +
			"The assistant can add and remove items, create lists and read list content.",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyGlobalFlags(cmd, cfg)

			// Ctrl+C aborts an in-flight model call instead of killing
			// the process mid-write.
			sd := shutdown.NewManager()
			sd.Listen()
			ctx := sd.Context()
			defer func() { _ = sd.Close(context.Background()) }()

			st, appCfg, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			sd.OnExit("store", func(context.Context) error { return st.Close() })

			mode, err := resolveMode(cmd, st)
			if err != nil {
				return err
			}

			asst, err := buildAssistant(ctx, st, appCfg)
			if err != nil {
				return err
			}

			if verify, _ := cmd.Flags().GetBool("verify"); verify {
				if err := asst.Verify(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(stdout, "%s connected\n", asst.Provider())
				if cfg.NoPrompt {
					_, _ = fmt.Fprintln(stdout, ResultInfoOnly)
				}
				return nil
			}

			if len(args) > 0 {
				reply, err := asst.SendMessage(ctx, strings.Join(args, " "), chatContext(st, mode))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(stdout, reply)
				if cfg.NoPrompt {
					_, _ = fmt.Fprintln(stdout, ResultActionCompleted)
				}
				return nil
			}

			return chatLoop(ctx, asst, st, mode, cmd.InOrStdin(), stdout, stderr)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().Bool("verify", false, "Only check the provider connection")
	return cmd
}

// buildAssistant resolves provider, model and credentials and builds
// the assistant. The config file overrides the ai_provider setting.
func buildAssistant(ctx context.Context, st *store.Store, appCfg *config.Config) (*assistant.Assistant, error) {
	providerName := appCfg.Assistant.Provider
	if providerName == "" {
		providerName = st.Settings().AIProvider
	}
	if providerName == "" {
		providerName = string(assistant.ProviderGemini)
	}
	provider, err := assistant.ParseProvider(providerName)
	if err != nil {
		return nil, err
	}

	key, source, ok := credentials.NewManager().APIKey(string(provider))
	if !ok {
		return nil, utils.ErrAPIKeyNotFound(string(provider))
	}
	utils.Debugf("using %s API key from %s", provider, source)

	return assistant.New(ctx, assistant.Config{
		Provider: provider,
		APIKey:   key,
		Model:    appCfg.Assistant.Model,
		BaseURL:  appCfg.Assistant.BaseURL,
	}, st)
}

// chatContext describes the user's current mode and active list, sent
// with every message so the assistant targets the right list.
func chatContext(st *store.Store, mode store.Mode) string {
	listName := st.Lists(mode)[st.CurrentListID(mode)]
	return fmt.Sprintf("CONTEXT: Mode=%s, Active List='%s'", mode, listName)
}

// chatLoop runs an interactive assistant session until EOF or exit.
func chatLoop(ctx context.Context, asst *assistant.Assistant, st *store.Store, mode store.Mode, stdin io.Reader, stdout, stderr io.Writer) error {
	_, _ = fmt.Fprintf(stdout, "Chatting with %s. Type 'exit' to leave.\n", asst.Provider())

	scanner := bufio.NewScanner(stdin)
	for ctx.Err() == nil {
		_, _ = fmt.Fprint(stdout, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		reply, err := asst.SendMessage(ctx, line, chatContext(st, mode))
		if err != nil {
			_, _ = fmt.Fprintln(stderr, "Error:", err)
			continue
		}
		_, _ = fmt.Fprintln(stdout, reply)
	}
	return scanner.Err()
}

// newTuiCmd creates the 'tui' subcommand
func newTuiCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyGlobalFlags(cmd, cfg)

			ctx := context.Background()
			st, _, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			mode, err := resolveMode(cmd, st)
			if err != nil {
				return err
			}

			program := tea.NewProgram(tui.New(st, mode), tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}
