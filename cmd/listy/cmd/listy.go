package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"listy/internal/config"
	"listy/internal/utils"
	"listy/kv"
	"listy/kv/file"
	"listy/kv/memory"
	"listy/kv/sqlite"
	"listy/store"
)

// Version is set at build time
var Version = "dev"

// Result codes for CLI output (used in no-prompt mode)
const (
	ResultActionCompleted = "ACTION_COMPLETED"
	ResultInfoOnly        = "INFO_ONLY"
	ResultDuplicate       = "DUPLICATE"
	ResultError           = "ERROR"
)

// Config holds application configuration
type Config struct {
	NoPrompt   bool
	Verbose    bool
	ConfigPath string // Path to config file (for testing)
}

// Execute runs the CLI with the given arguments and IO writers
func Execute(args []string, stdout, stderr io.Writer, cfg *Config) int {
	rootCmd := NewListy(stdout, stderr, cfg)

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		if containsJSONFlag(args) {
			outputErrorJSON(err, stdout)
		} else {
			_, _ = fmt.Fprintln(stderr, "Error:", err)
			if cfg != nil && cfg.NoPrompt {
				_, _ = fmt.Fprintln(stdout, ResultError)
			}
		}
		return 1
	}
	return 0
}

// containsJSONFlag checks if args contain --json flag
func containsJSONFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--json" {
			return true
		}
	}
	return false
}

// NewListy creates the root command with injectable IO
func NewListy(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	if cfg == nil {
		cfg = &Config{}
	}

	cmd := &cobra.Command{
		Use:     "listy",
		Short:   "A todo and shopping list manager",
		Long:    "listy keeps your todo and shopping lists, learns your shopping habits, and can manage lists through an AI assistant.",
		Version: Version,
		// Bare `listy` shows the current list.
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

			jsonOutput, _ := cmd.Flags().GetBool("json")
			return doGet(st, mode, cfg, stdout, jsonOutput)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cmd.PersistentFlags().StringP("mode", "m", "", "List domain (todo or shopping); defaults to the mode setting")
	cmd.PersistentFlags().BoolP("no-prompt", "y", false, "Disable interactive prompts")
	cmd.PersistentFlags().BoolP("verbose", "V", false, "Enable verbose/debug output")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("config", "", "Path to config file")

	cmd.AddCommand(newAddCmd(stdout, cfg))
	cmd.AddCommand(newGetCmd(stdout, cfg))
	cmd.AddCommand(newDoneCmd(stdout, cfg))
	cmd.AddCommand(newUndoneCmd(stdout, cfg))
	cmd.AddCommand(newRmCmd(stdout, cfg))
	cmd.AddCommand(newClearCmd(stdout, stderr, cfg))
	cmd.AddCommand(newExportCmd(stdout, cfg))
	cmd.AddCommand(newListCmd(stdout, cfg))
	cmd.AddCommand(newSuggestCmd(stdout, cfg))
	cmd.AddCommand(newSettingsCmd(stdout, cfg))
	cmd.AddCommand(newSetupCmd(stdout, stderr, cfg))
	cmd.AddCommand(newChatCmd(stdout, stderr, cfg))
	cmd.AddCommand(newTuiCmd(cfg))

	return cmd
}

// applyGlobalFlags folds persistent flag values into cfg.
func applyGlobalFlags(cmd *cobra.Command, cfg *Config) {
	if noPrompt, _ := cmd.Flags().GetBool("no-prompt"); noPrompt {
		cfg.NoPrompt = true
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Verbose = true
	}
	utils.SetVerboseMode(cfg.Verbose)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg.ConfigPath = path
	}
}

// openStore loads the configuration and opens the list store on the
// configured persistence backend.
func openStore(ctx context.Context, cfg *Config) (*store.Store, *config.Config, error) {
	appCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if err := appCfg.Validate(); err != nil {
		return nil, nil, err
	}

	var backend kv.Store
	switch appCfg.Storage.Backend {
	case "file":
		backend, err = file.New(file.Config{Dir: appCfg.Storage.File.Dir})
	case "memory":
		backend = memory.New()
	default:
		backend, err = sqlite.New(appCfg.Storage.SQLite.Path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s backend: %w", appCfg.Storage.Backend, err)
	}

	st, err := store.New(ctx, backend, store.Options{
		LegacyTodoPath:     appCfg.LegacyImport.TodoPath,
		LegacyShoppingPath: appCfg.LegacyImport.ShoppingPath,
	})
	if err != nil {
		_ = backend.Close()
		return nil, nil, err
	}
	return st, appCfg, nil
}

// resolveMode picks the list domain from the --mode flag, falling back
// to the persisted mode setting.
func resolveMode(cmd *cobra.Command, st *store.Store) (store.Mode, error) {
	flagValue, _ := cmd.Flags().GetString("mode")
	parsed, err := utils.ParseMode(flagValue)
	if err != nil {
		return "", err
	}
	if parsed == "" {
		parsed = st.Settings().Mode
	}
	if parsed == "" {
		parsed = string(store.ModeTodo)
	}
	return store.Mode(parsed), nil
}

// newAddCmd creates the 'add' subcommand
func newAddCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [item]",
		Short: "Add an item to the current list",
		Args:  cobra.MinimumNArgs(1),
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
			priorityStr, _ := cmd.Flags().GetString("priority")
			priority, err := utils.ParsePriority(priorityStr)
			if err != nil {
				return err
			}

			completed, _ := cmd.Flags().GetBool("done")
			jsonOutput, _ := cmd.Flags().GetBool("json")
			return doAdd(ctx, st, mode, strings.Join(args, " "), store.Priority(priority), completed, cfg, stdout, jsonOutput)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringP("priority", "p", "", "Item priority (urgent, medium, low)")
	cmd.Flags().Bool("done", false, "Add the item already completed")
	return cmd
}

// doAdd adds an item to the current list of the given domain
func doAdd(ctx context.Context, st *store.Store, mode store.Mode, name string, priority store.Priority, completed bool, cfg *Config, stdout io.Writer, jsonOutput bool) error {
	item, err := st.AddTask(ctx, mode, name, priority, completed)
	if err != nil {
		return err
	}

	if item == nil {
		// Empty name or case-insensitive duplicate; not an error.
		if jsonOutput {
			return outputResultJSON(ResultDuplicate, stdout)
		}
		_, _ = fmt.Fprintf(stdout, "'%s' is already on the list\n", strings.TrimSpace(name))
		if cfg != nil && cfg.NoPrompt {
			_, _ = fmt.Fprintln(stdout, ResultDuplicate)
		}
		return nil
	}

	if jsonOutput {
		return outputActionJSON("add", item, stdout)
	}

	_, _ = fmt.Fprintf(stdout, "Added: %s\n", item.Name)
	if cfg != nil && cfg.NoPrompt {
		_, _ = fmt.Fprintln(stdout, ResultActionCompleted)
	}
	return nil
}

// newGetCmd creates the 'get' subcommand
func newGetCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the current list",
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

			jsonOutput, _ := cmd.Flags().GetBool("json")
			return doGet(st, mode, cfg, stdout, jsonOutput)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// doGet displays the items of the current list
func doGet(st *store.Store, mode store.Mode, cfg *Config, stdout io.Writer, jsonOutput bool) error {
	items := st.Tasks(mode)
	listName := st.Lists(mode)[st.CurrentListID(mode)]

	if jsonOutput {
		return outputItemListJSON(items, listName, stdout)
	}

	if len(items) == 0 {
		_, _ = fmt.Fprintf(stdout, "No items in '%s'\n", listName)
	} else {
		_, _ = fmt.Fprintf(stdout, "Items in '%s':\n", listName)
		for _, item := range items {
			box := "⬜"
			if item.Completed {
				box = "✅"
			}
			line := fmt.Sprintf("%s %s", box, item.Name)
			if mode == store.ModeTodo && item.Priority != "" {
				line += fmt.Sprintf(" (%s)", item.Priority)
			}
			_, _ = fmt.Fprintln(stdout, line)
		}
	}

	if cfg != nil && cfg.NoPrompt {
		_, _ = fmt.Fprintln(stdout, ResultInfoOnly)
	}
	return nil
}

// newDoneCmd creates the 'done' subcommand
func newDoneCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "done [item]",
		Short: "Mark an item as completed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyGlobalFlags(cmd, cfg)
			jsonOutput, _ := cmd.Flags().GetBool("json")
			return runStatusChange(cmd, cfg, stdout, strings.Join(args, " "), true, jsonOutput)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newUndoneCmd creates the 'undone' subcommand
func newUndoneCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "undone [item]",
		Short: "Mark an item as open again",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyGlobalFlags(cmd, cfg)
			jsonOutput, _ := cmd.Flags().GetBool("json")
			return runStatusChange(cmd, cfg, stdout, strings.Join(args, " "), false, jsonOutput)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func runStatusChange(cmd *cobra.Command, cfg *Config, stdout io.Writer, name string, completed bool, jsonOutput bool) error {
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
	return doStatusChange(ctx, st, mode, name, completed, cfg, stdout, jsonOutput)
}

// doStatusChange toggles completion for the item matching name
func doStatusChange(ctx context.Context, st *store.Store, mode store.Mode, name string, completed bool, cfg *Config, stdout io.Writer, jsonOutput bool) error {
	item, err := findItem(st, mode, name, cfg)
	if err != nil {
		return err
	}

	if err := st.UpdateTaskStatus(ctx, mode, item.Name, completed); err != nil {
		return err
	}
	item.Completed = completed

	action := "done"
	verb := "Completed"
	if !completed {
		action = "undone"
		verb = "Reopened"
	}

	if jsonOutput {
		return outputActionJSON(action, item, stdout)
	}

	_, _ = fmt.Fprintf(stdout, "%s: %s\n", verb, item.Name)
	if cfg != nil && cfg.NoPrompt {
		_, _ = fmt.Fprintln(stdout, ResultActionCompleted)
	}
	return nil
}

// newRmCmd creates the 'rm' subcommand
func newRmCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rm [item]",
		Short: "Remove an item from the current list",
		Args:  cobra.MinimumNArgs(1),
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

			jsonOutput, _ := cmd.Flags().GetBool("json")
			return doRemove(ctx, st, mode, strings.Join(args, " "), cfg, stdout, jsonOutput)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// doRemove deletes the item matching name
func doRemove(ctx context.Context, st *store.Store, mode store.Mode, name string, cfg *Config, stdout io.Writer, jsonOutput bool) error {
	item, err := findItem(st, mode, name, cfg)
	if err != nil {
		return err
	}

	if err := st.DeleteTask(ctx, mode, item.Name); err != nil {
		return err
	}

	if jsonOutput {
		return outputActionJSON("delete", item, stdout)
	}

	_, _ = fmt.Fprintf(stdout, "Removed: %s\n", item.Name)
	if cfg != nil && cfg.NoPrompt {
		_, _ = fmt.Fprintln(stdout, ResultActionCompleted)
	}
	return nil
}

// newClearCmd creates the 'clear' subcommand
func newClearCmd(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove items from the current list",
		Long:  "Remove every item from the current list, or only completed items with --done.",
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

			doneOnly, _ := cmd.Flags().GetBool("done")
			if !cfg.NoPrompt && !doneOnly {
				if !utils.PromptYesNo("Clear the whole list?") {
					_, _ = fmt.Fprintln(stdout, "Cancelled")
					return nil
				}
			}

			if doneOnly {
				err = st.ClearCompletedTasks(ctx, mode)
			} else {
				err = st.ClearTasks(ctx, mode)
			}
			if err != nil {
				return err
			}

			jsonOutput, _ := cmd.Flags().GetBool("json")
			if jsonOutput {
				return outputResultJSON(ResultActionCompleted, stdout)
			}
			if doneOnly {
				_, _ = fmt.Fprintln(stdout, "Cleared completed items")
			} else {
				_, _ = fmt.Fprintln(stdout, "Cleared list")
			}
			if cfg.NoPrompt {
				_, _ = fmt.Fprintln(stdout, ResultActionCompleted)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().Bool("done", false, "Only remove completed items")
	return cmd
}

// newExportCmd creates the 'export' subcommand
func newExportCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the current list as shareable text",
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

			_, _ = fmt.Fprint(stdout, st.ExportAsText(mode))
			if cfg.NoPrompt {
				_, _ = fmt.Fprintln(stdout, ResultInfoOnly)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newListCmd creates the 'list' subcommand for list management
func newListCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Manage lists",
		Long:  "View all lists of the current domain or manage them with subcommands.",
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

			jsonOutput, _ := cmd.Flags().GetBool("json")
			return doListView(st, mode, cfg, stdout, jsonOutput)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	listCmd.AddCommand(newListCreateCmd(stdout, cfg))
	listCmd.AddCommand(newListRenameCmd(stdout, cfg))
	listCmd.AddCommand(newListDeleteCmd(stdout, cfg))
	listCmd.AddCommand(newListUseCmd(stdout, cfg))

	return listCmd
}

// doListView displays all lists of the domain with item counts
func doListView(st *store.Store, mode store.Mode, cfg *Config, stdout io.Writer, jsonOutput bool) error {
	lists := st.Lists(mode)
	current := st.CurrentListID(mode)

	ids := make([]string, 0, len(lists))
	for id := range lists {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if jsonOutput {
		type listJSON struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Current bool   `json:"current"`
		}
		output := make([]listJSON, 0, len(ids))
		for _, id := range ids {
			output = append(output, listJSON{ID: id, Name: lists[id], Current: id == current})
		}
		jsonBytes, err := json.Marshal(output)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(stdout, string(jsonBytes))
		return nil
	}

	_, _ = fmt.Fprintf(stdout, "Lists (%s):\n\n", mode)
	_, _ = fmt.Fprintf(stdout, "  %-10s %s\n", "ID", "NAME")
	for _, id := range ids {
		marker := " "
		if id == current {
			marker = "*"
		}
		_, _ = fmt.Fprintf(stdout, "%s %-10s %s\n", marker, id, lists[id])
	}

	if cfg != nil && cfg.NoPrompt {
		_, _ = fmt.Fprintln(stdout, ResultInfoOnly)
	}
	return nil
}

// newListCreateCmd creates the 'list create' subcommand
func newListCreateCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new list and switch to it",
		Args:  cobra.ExactArgs(1),
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

			id, err := st.CreateList(ctx, mode, args[0])
			if err != nil {
				return err
			}

			jsonOutput, _ := cmd.Flags().GetBool("json")
			if jsonOutput {
				jsonBytes, err := json.Marshal(map[string]string{"id": id, "name": args[0], "result": ResultActionCompleted})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(stdout, string(jsonBytes))
				return nil
			}

			_, _ = fmt.Fprintf(stdout, "Created list: %s (%s)\n", args[0], id)
			if cfg.NoPrompt {
				_, _ = fmt.Fprintln(stdout, ResultActionCompleted)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newListRenameCmd creates the 'list rename' subcommand
func newListRenameCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rename [name] [new-name]",
		Short: "Rename a list",
		Args:  cobra.ExactArgs(2),
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

			id, err := findListID(st, mode, args[0])
			if err != nil {
				return err
			}
			if err := st.RenameList(ctx, mode, id, args[1]); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(stdout, "Renamed list: %s -> %s\n", args[0], args[1])
			if cfg.NoPrompt {
				_, _ = fmt.Fprintln(stdout, ResultActionCompleted)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newListDeleteCmd creates the 'list delete' subcommand
func newListDeleteCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a list",
		Long:  "Delete a list of the current domain. The default list and the last remaining list cannot be deleted.",
		Args:  cobra.ExactArgs(1),
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

			id, err := findListID(st, mode, args[0])
			if err != nil {
				return err
			}

			deleted, err := st.DeleteList(ctx, mode, id)
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("list '%s' cannot be deleted", args[0])
			}

			_, _ = fmt.Fprintf(stdout, "Deleted list: %s\n", args[0])
			if cfg.NoPrompt {
				_, _ = fmt.Fprintln(stdout, ResultActionCompleted)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newListUseCmd creates the 'list use' subcommand
func newListUseCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "use [name]",
		Short: "Switch the current list",
		Args:  cobra.ExactArgs(1),
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

			id, err := findListID(st, mode, args[0])
			if err != nil {
				return err
			}
			if err := st.SetCurrentListID(ctx, mode, id); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(stdout, "Now using list: %s\n", args[0])
			if cfg.NoPrompt {
				_, _ = fmt.Fprintln(stdout, ResultActionCompleted)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newSuggestCmd creates the 'suggest' subcommand
func newSuggestCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [prefix]",
		Short: "Show shopping suggestions matching a prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyGlobalFlags(cmd, cfg)

			ctx := context.Background()
			st, appCfg, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			var matches []string
			if len(args) == 0 {
				matches = st.Suggestions().All()
			} else {
				matches = st.MatchSuggestions(args[0])
			}
			if limit := appCfg.Suggestions.DisplayLimit; limit > 0 && len(matches) > limit {
				matches = matches[:limit]
			}

			jsonOutput, _ := cmd.Flags().GetBool("json")
			if jsonOutput {
				jsonBytes, err := json.Marshal(matches)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(stdout, string(jsonBytes))
				return nil
			}

			for _, m := range matches {
				_, _ = fmt.Fprintln(stdout, m)
			}
			if cfg.NoPrompt {
				_, _ = fmt.Fprintln(stdout, ResultInfoOnly)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newSettingsCmd creates the 'settings' subcommand
func newSettingsCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "View and change app settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "get [key]",
		Short: "Show current settings, or one value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyGlobalFlags(cmd, cfg)

			ctx := context.Background()
			st, _, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			settings := st.Settings()

			if len(args) == 1 {
				var value string
				switch args[0] {
				case "language":
					value = settings.Language
				case "mode":
					value = settings.Mode
				case "theme_mode":
					value = settings.ThemeMode
				case "ai_provider":
					value = settings.AIProvider
				default:
					return utils.ErrUnknownSetting(args[0])
				}
				_, _ = fmt.Fprintln(stdout, value)
				if cfg.NoPrompt {
					_, _ = fmt.Fprintln(stdout, ResultInfoOnly)
				}
				return nil
			}

			jsonOutput, _ := cmd.Flags().GetBool("json")
			if jsonOutput {
				jsonBytes, err := json.Marshal(settings)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(stdout, string(jsonBytes))
				return nil
			}

			_, _ = fmt.Fprintf(stdout, "language:    %s\n", settings.Language)
			_, _ = fmt.Fprintf(stdout, "mode:        %s\n", settings.Mode)
			_, _ = fmt.Fprintf(stdout, "theme_mode:  %s\n", settings.ThemeMode)
			_, _ = fmt.Fprintf(stdout, "ai_provider: %s\n", settings.AIProvider)
			if cfg.NoPrompt {
				_, _ = fmt.Fprintln(stdout, ResultInfoOnly)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "set [key] [value]",
		Short: "Change a setting",
		Long:  "Change one of: language, mode, theme_mode, ai_provider.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyGlobalFlags(cmd, cfg)

			key, value := args[0], args[1]
			if key == "mode" {
				parsed, err := utils.ParseMode(value)
				if err != nil {
					return err
				}
				value = parsed
			}

			ctx := context.Background()
			st, _, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			if err := st.UpdateSetting(ctx, key, value); err != nil {
				var unknownErr *store.UnknownSettingError
				if errors.As(err, &unknownErr) {
					return utils.ErrUnknownSetting(key)
				}
				return err
			}

			_, _ = fmt.Fprintf(stdout, "Set %s = %s\n", key, value)
			if cfg.NoPrompt {
				_, _ = fmt.Fprintln(stdout, ResultActionCompleted)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	})

	return settingsCmd
}

// findItem searches the current list by name using exact then partial
// matching, case-insensitive.
func findItem(st *store.Store, mode store.Mode, searchTerm string, cfg *Config) (*store.Item, error) {
	if strings.TrimSpace(searchTerm) == "" {
		return nil, fmt.Errorf("item name is required")
	}

	items := st.Tasks(mode)
	searchLower := strings.ToLower(searchTerm)

	for i := range items {
		if strings.EqualFold(items[i].Name, searchTerm) {
			return &items[i], nil
		}
	}

	var matches []store.Item
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), searchLower) {
			matches = append(matches, item)
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no item found matching '%s'", searchTerm)
	}
	if len(matches) == 1 {
		return &matches[0], nil
	}

	var matchNames []string
	for _, m := range matches {
		matchNames = append(matchNames, fmt.Sprintf("  - %s", m.Name))
	}
	return nil, fmt.Errorf("multiple items match '%s':\n%s", searchTerm, strings.Join(matchNames, "\n"))
}

// findListID resolves a list name (case-insensitive) or raw id to its id.
func findListID(st *store.Store, mode store.Mode, nameOrID string) (string, error) {
	lists := st.Lists(mode)
	if _, ok := lists[nameOrID]; ok {
		return nameOrID, nil
	}
	for id, name := range lists {
		if strings.EqualFold(name, nameOrID) {
			return id, nil
		}
	}
	return "", utils.ErrListNotFound(nameOrID)
}

// JSON output structures
type itemJSON struct {
	Name      string `json:"name"`
	Priority  string `json:"priority,omitempty"`
	Completed bool   `json:"completed"`
}

type listItemsResponse struct {
	Items  []itemJSON `json:"items"`
	List   string     `json:"list"`
	Count  int        `json:"count"`
	Result string     `json:"result"`
}

type actionResponse struct {
	Action string   `json:"action"`
	Item   itemJSON `json:"item"`
	Result string   `json:"result"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Code   int    `json:"code"`
	Result string `json:"result"`
}

func itemToJSON(item *store.Item) itemJSON {
	return itemJSON{
		Name:      item.Name,
		Priority:  string(item.Priority),
		Completed: item.Completed,
	}
}

// outputItemListJSON outputs items in JSON format
func outputItemListJSON(items []store.Item, listName string, stdout io.Writer) error {
	jsonItems := make([]itemJSON, 0, len(items))
	for i := range items {
		jsonItems = append(jsonItems, itemToJSON(&items[i]))
	}

	response := listItemsResponse{
		Items:  jsonItems,
		List:   listName,
		Count:  len(jsonItems),
		Result: ResultInfoOnly,
	}

	jsonBytes, err := json.Marshal(response)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout, string(jsonBytes))
	return nil
}

// outputActionJSON outputs action result in JSON format
func outputActionJSON(action string, item *store.Item, stdout io.Writer) error {
	response := actionResponse{
		Action: action,
		Item:   itemToJSON(item),
		Result: ResultActionCompleted,
	}

	jsonBytes, err := json.Marshal(response)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout, string(jsonBytes))
	return nil
}

// outputResultJSON outputs a bare result code in JSON format
func outputResultJSON(result string, stdout io.Writer) error {
	jsonBytes, err := json.Marshal(map[string]string{"result": result})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout, string(jsonBytes))
	return nil
}

// outputErrorJSON outputs error in JSON format
func outputErrorJSON(err error, stdout io.Writer) {
	response := errorResponse{
		Error:  err.Error(),
		Code:   1,
		Result: ResultError,
	}

	jsonBytes, _ := json.Marshal(response)
	_, _ = fmt.Fprintln(stdout, string(jsonBytes))
}
