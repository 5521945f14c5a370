package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestConfig creates a config file pointing at a throwaway file
// backend so invocations share state without touching the real XDG dirs.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("storage:\n  backend: file\n  file:\n    dir: %s\n", filepath.Join(dir, "data"))
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return cfgPath
}

// runListy executes the CLI against the given config file.
func runListy(t *testing.T, cfgPath string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config", cfgPath}, args...)
	code := Execute(full, &stdout, &stderr, &Config{})
	return code, stdout.String(), stderr.String()
}

// --- Help and Version Tests ---

func TestHelpFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer

	exitCode := Execute([]string{"--help"}, &stdout, &stderr, nil)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, stderr.String())
	}

	output := stdout.String()
	if !strings.Contains(output, "listy") {
		t.Errorf("help output should contain 'listy', got: %s", output)
	}
	if !strings.Contains(output, "Usage:") {
		t.Errorf("help output should contain 'Usage:', got: %s", output)
	}
}

func TestVersionFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer

	exitCode := Execute([]string{"--version"}, &stdout, &stderr, nil)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, stderr.String())
	}
	if !strings.Contains(stdout.String(), "listy") {
		t.Errorf("version output should contain 'listy', got: %s", stdout.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer

	exitCode := Execute([]string{"frobnicate"}, &stdout, &stderr, nil)

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(stderr.String(), "Error:") {
		t.Errorf("expected error on stderr, got: %s", stderr.String())
	}
}

// --- Add and Get Tests ---

func TestAddAndGet(t *testing.T) {
	cfgPath := writeTestConfig(t)

	code, out, errOut := runListy(t, cfgPath, "add", "Buy", "groceries")
	if code != 0 {
		t.Fatalf("add failed with code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Added: Buy groceries") {
		t.Errorf("expected 'Added: Buy groceries', got: %s", out)
	}

	// A second invocation sees the persisted item.
	code, out, _ = runListy(t, cfgPath, "get")
	if code != 0 {
		t.Fatalf("get failed with code %d", code)
	}
	if !strings.Contains(out, "⬜ Buy groceries") {
		t.Errorf("expected open item in output, got: %s", out)
	}
}

func TestAddWithPriority(t *testing.T) {
	cfgPath := writeTestConfig(t)

	code, _, errOut := runListy(t, cfgPath, "add", "-p", "urgent", "File", "taxes")
	if code != 0 {
		t.Fatalf("add failed with code %d: %s", code, errOut)
	}

	_, out, _ := runListy(t, cfgPath, "get")
	if !strings.Contains(out, "File taxes (urgent)") {
		t.Errorf("expected priority in todo output, got: %s", out)
	}
}

func TestAddInvalidPriority(t *testing.T) {
	cfgPath := writeTestConfig(t)

	code, _, errOut := runListy(t, cfgPath, "add", "-p", "high", "Milk")
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errOut, "priority") {
		t.Errorf("expected priority error, got: %s", errOut)
	}
}

func TestAddAlreadyCompleted(t *testing.T) {
	cfgPath := writeTestConfig(t)

	code, _, errOut := runListy(t, cfgPath, "add", "--done", "Old", "errand")
	if code != 0 {
		t.Fatalf("add --done failed with code %d: %s", code, errOut)
	}

	_, out, _ := runListy(t, cfgPath, "get")
	if !strings.Contains(out, "✅ Old errand") {
		t.Errorf("expected completed item, got: %s", out)
	}
}

func TestRootDefaultShowsList(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "add", "Milk")

	code, out, errOut := runListy(t, cfgPath)
	if code != 0 {
		t.Fatalf("bare invocation failed with code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "⬜ Milk") {
		t.Errorf("bare invocation should show the current list, got: %s", out)
	}
}

func TestAddDuplicate(t *testing.T) {
	cfgPath := writeTestConfig(t)

	runListy(t, cfgPath, "add", "Milk")
	code, out, _ := runListy(t, cfgPath, "-y", "add", "MILK")

	// Duplicates are reported, not treated as errors.
	if code != 0 {
		t.Fatalf("expected exit code 0 for duplicate, got %d", code)
	}
	if !strings.Contains(out, "'MILK' is already on the list") {
		t.Errorf("expected duplicate message, got: %s", out)
	}
	if !strings.Contains(out, ResultDuplicate) {
		t.Errorf("expected %s result code, got: %s", ResultDuplicate, out)
	}

	_, out, _ = runListy(t, cfgPath, "get")
	if strings.Count(out, "Milk") != 1 {
		t.Errorf("expected a single Milk entry, got: %s", out)
	}
}

func TestAddNoPromptResultCode(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, out, _ := runListy(t, cfgPath, "-y", "add", "Milk")
	if !strings.Contains(out, ResultActionCompleted) {
		t.Errorf("expected %s, got: %s", ResultActionCompleted, out)
	}
}

func TestAddJSON(t *testing.T) {
	cfgPath := writeTestConfig(t)

	code, out, _ := runListy(t, cfgPath, "--json", "add", "Milk")
	if code != 0 {
		t.Fatalf("add failed with code %d: %s", code, out)
	}

	var response actionResponse
	if err := json.Unmarshal([]byte(out), &response); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if response.Action != "add" || response.Item.Name != "Milk" {
		t.Errorf("unexpected response: %+v", response)
	}
	if response.Result != ResultActionCompleted {
		t.Errorf("expected result %s, got %s", ResultActionCompleted, response.Result)
	}
}

func TestGetJSON(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "add", "Milk")

	_, out, _ := runListy(t, cfgPath, "--json", "get")

	var response listItemsResponse
	if err := json.Unmarshal([]byte(out), &response); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if response.Count != 1 || len(response.Items) != 1 {
		t.Fatalf("expected one item, got: %+v", response)
	}
	if response.Items[0].Name != "Milk" || response.Items[0].Completed {
		t.Errorf("unexpected item: %+v", response.Items[0])
	}
}

// --- Status Change Tests ---

func TestDoneAndUndone(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "add", "Milk")

	code, out, errOut := runListy(t, cfgPath, "done", "Milk")
	if code != 0 {
		t.Fatalf("done failed with code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Completed: Milk") {
		t.Errorf("expected 'Completed: Milk', got: %s", out)
	}

	_, out, _ = runListy(t, cfgPath, "get")
	if !strings.Contains(out, "✅ Milk") {
		t.Errorf("expected completed item, got: %s", out)
	}

	code, out, _ = runListy(t, cfgPath, "undone", "Milk")
	if code != 0 {
		t.Fatalf("undone failed with code %d", code)
	}
	if !strings.Contains(out, "Reopened: Milk") {
		t.Errorf("expected 'Reopened: Milk', got: %s", out)
	}
}

func TestDonePartialMatch(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "add", "Buy", "groceries")

	code, out, errOut := runListy(t, cfgPath, "done", "groc")
	if code != 0 {
		t.Fatalf("done failed with code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Completed: Buy groceries") {
		t.Errorf("partial match should resolve to full name, got: %s", out)
	}
}

func TestDoneAmbiguousMatch(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "add", "Milk")
	runListy(t, cfgPath, "add", "Milkshake")

	code, _, errOut := runListy(t, cfgPath, "done", "ilk")
	if code != 1 {
		t.Errorf("expected exit code 1 for ambiguous match, got %d", code)
	}
	if !strings.Contains(errOut, "multiple items match") {
		t.Errorf("expected ambiguity error, got: %s", errOut)
	}
}

func TestDoneExactMatchBeatsPartial(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "add", "Milk")
	runListy(t, cfgPath, "add", "Milkshake")

	code, out, errOut := runListy(t, cfgPath, "done", "milk")
	if code != 0 {
		t.Fatalf("done failed with code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Completed: Milk\n") {
		t.Errorf("exact match should win, got: %s", out)
	}
}

func TestDoneMissingItem(t *testing.T) {
	cfgPath := writeTestConfig(t)

	code, out, errOut := runListy(t, cfgPath, "-y", "done", "Nothing")
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errOut, "no item found matching 'Nothing'") {
		t.Errorf("expected not-found error, got: %s", errOut)
	}
	if !strings.Contains(out, ResultError) {
		t.Errorf("expected %s on stdout in no-prompt mode, got: %s", ResultError, out)
	}
}

func TestErrorJSON(t *testing.T) {
	cfgPath := writeTestConfig(t)

	code, out, _ := runListy(t, cfgPath, "--json", "done", "Nothing")
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}

	var response errorResponse
	if err := json.Unmarshal([]byte(out), &response); err != nil {
		t.Fatalf("invalid JSON error output: %v\n%s", err, out)
	}
	if response.Result != ResultError || response.Error == "" {
		t.Errorf("unexpected error response: %+v", response)
	}
}

// --- Remove and Clear Tests ---

func TestRemove(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "add", "Milk")

	code, out, errOut := runListy(t, cfgPath, "rm", "Milk")
	if code != 0 {
		t.Fatalf("rm failed with code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Removed: Milk") {
		t.Errorf("expected 'Removed: Milk', got: %s", out)
	}

	_, out, _ = runListy(t, cfgPath, "get")
	if strings.Contains(out, "Milk") {
		t.Errorf("item should be gone, got: %s", out)
	}
}

func TestClearNoPrompt(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "add", "Milk")
	runListy(t, cfgPath, "add", "Bread")

	code, out, errOut := runListy(t, cfgPath, "-y", "clear")
	if code != 0 {
		t.Fatalf("clear failed with code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Cleared list") {
		t.Errorf("expected 'Cleared list', got: %s", out)
	}

	_, out, _ = runListy(t, cfgPath, "get")
	if !strings.Contains(out, "No items") {
		t.Errorf("expected empty list, got: %s", out)
	}
}

func TestClearCompletedOnly(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "add", "Milk")
	runListy(t, cfgPath, "add", "Bread")
	runListy(t, cfgPath, "done", "Milk")

	code, out, errOut := runListy(t, cfgPath, "clear", "--done")
	if code != 0 {
		t.Fatalf("clear --done failed with code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Cleared completed items") {
		t.Errorf("expected 'Cleared completed items', got: %s", out)
	}

	_, out, _ = runListy(t, cfgPath, "get")
	if strings.Contains(out, "Milk") {
		t.Errorf("completed item should be gone, got: %s", out)
	}
	if !strings.Contains(out, "Bread") {
		t.Errorf("open item should remain, got: %s", out)
	}
}

// --- Export Tests ---

func TestExport(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "add", "Milk")
	runListy(t, cfgPath, "add", "Bread")
	runListy(t, cfgPath, "done", "Bread")

	code, out, errOut := runListy(t, cfgPath, "export")
	if code != 0 {
		t.Fatalf("export failed with code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "📝") {
		t.Errorf("export should carry the list header, got: %s", out)
	}
	if !strings.Contains(out, "⬜ Milk") || !strings.Contains(out, "✅ Bread") {
		t.Errorf("export should list both items, got: %s", out)
	}
}

// --- Mode Tests ---

func TestModeFlagSeparatesDomains(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "add", "File", "taxes")
	runListy(t, cfgPath, "-m", "shopping", "add", "Milk")

	_, out, _ := runListy(t, cfgPath, "get")
	if !strings.Contains(out, "File taxes") || strings.Contains(out, "Milk") {
		t.Errorf("todo list should only hold todo items, got: %s", out)
	}

	_, out, _ = runListy(t, cfgPath, "-m", "shopping", "get")
	if !strings.Contains(out, "Milk") || strings.Contains(out, "File taxes") {
		t.Errorf("shopping list should only hold shopping items, got: %s", out)
	}
}

func TestModeFlagInvalid(t *testing.T) {
	cfgPath := writeTestConfig(t)

	code, _, errOut := runListy(t, cfgPath, "-m", "groceries", "get")
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errOut, "mode") {
		t.Errorf("expected mode error, got: %s", errOut)
	}
}

// --- List Management Tests ---

func TestListCreateAndView(t *testing.T) {
	cfgPath := writeTestConfig(t)

	code, out, errOut := runListy(t, cfgPath, "list", "create", "Work")
	if code != 0 {
		t.Fatalf("list create failed with code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Created list: Work") {
		t.Errorf("expected creation message, got: %s", out)
	}

	// The new list becomes current; items land there.
	runListy(t, cfgPath, "add", "Ship", "release")
	_, out, _ = runListy(t, cfgPath, "get")
	if !strings.Contains(out, "Items in 'Work'") {
		t.Errorf("expected items under 'Work', got: %s", out)
	}

	_, out, _ = runListy(t, cfgPath, "list")
	if !strings.Contains(out, "Work") || !strings.Contains(out, "default") {
		t.Errorf("list view should show both lists, got: %s", out)
	}
}

func TestListUseByName(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "list", "create", "Work")

	code, out, errOut := runListy(t, cfgPath, "list", "use", "work")
	if code != 0 {
		t.Fatalf("list use failed with code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Now using list: work") {
		t.Errorf("expected switch message, got: %s", out)
	}
}

func TestListUseUnknown(t *testing.T) {
	cfgPath := writeTestConfig(t)

	code, _, errOut := runListy(t, cfgPath, "list", "use", "Nowhere")
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errOut, "Nowhere") {
		t.Errorf("expected list name in error, got: %s", errOut)
	}
}

func TestListRename(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "list", "create", "Work")

	code, out, errOut := runListy(t, cfgPath, "list", "rename", "Work", "Office")
	if code != 0 {
		t.Fatalf("list rename failed with code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Renamed list: Work -> Office") {
		t.Errorf("expected rename message, got: %s", out)
	}

	_, out, _ = runListy(t, cfgPath, "list")
	if !strings.Contains(out, "Office") || strings.Contains(out, "Work") {
		t.Errorf("expected renamed list only, got: %s", out)
	}
}

func TestListDelete(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "list", "create", "Work")

	code, out, errOut := runListy(t, cfgPath, "list", "delete", "Work")
	if code != 0 {
		t.Fatalf("list delete failed with code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Deleted list: Work") {
		t.Errorf("expected deletion message, got: %s", out)
	}

	// Current falls back to the default list.
	_, out, _ = runListy(t, cfgPath, "list")
	if strings.Contains(out, "Work") {
		t.Errorf("deleted list should be gone, got: %s", out)
	}
	if !strings.Contains(out, "* default") {
		t.Errorf("default list should be current again, got: %s", out)
	}
}

func TestListDeleteDefaultRefused(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "list", "create", "Work")

	code, _, errOut := runListy(t, cfgPath, "list", "delete", "default")
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errOut, "cannot be deleted") {
		t.Errorf("expected protection error, got: %s", errOut)
	}
}

func TestListJSON(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "list", "create", "Work")

	_, out, _ := runListy(t, cfgPath, "--json", "list")

	var lists []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Current bool   `json:"current"`
	}
	if err := json.Unmarshal([]byte(out), &lists); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(lists) != 2 {
		t.Fatalf("expected two lists, got: %+v", lists)
	}

	currentCount := 0
	for _, l := range lists {
		if l.Current {
			currentCount++
			if l.Name != "Work" {
				t.Errorf("new list should be current, got: %+v", l)
			}
		}
	}
	if currentCount != 1 {
		t.Errorf("expected exactly one current list, got: %+v", lists)
	}
}

// --- Suggestion Tests ---

func TestSuggestPrefix(t *testing.T) {
	cfgPath := writeTestConfig(t)

	code, out, errOut := runListy(t, cfgPath, "suggest", "Mil")
	if code != 0 {
		t.Fatalf("suggest failed with code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Milch") {
		t.Errorf("expected vocabulary match, got: %s", out)
	}
}

func TestSuggestLearnsFromShoppingAdds(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "-m", "shopping", "add", "Dragonfruit")

	_, out, _ := runListy(t, cfgPath, "suggest", "Dragon")
	if !strings.Contains(out, "Dragonfruit") {
		t.Errorf("expected learned name in suggestions, got: %s", out)
	}
}

func TestSuggestIgnoresTodoAdds(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "add", "Walk the dog")

	_, out, _ := runListy(t, cfgPath, "suggest", "Walk")
	if strings.Contains(out, "Walk the dog") {
		t.Errorf("todo items must not enter the vocabulary, got: %s", out)
	}
}

func TestSuggestJSON(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, out, _ := runListy(t, cfgPath, "--json", "suggest", "Mil")

	var matches []string
	if err := json.Unmarshal([]byte(out), &matches); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(matches) == 0 {
		t.Errorf("expected at least one match, got: %s", out)
	}
}

// --- Settings Tests ---

func TestSettingsSetAndGet(t *testing.T) {
	cfgPath := writeTestConfig(t)

	code, out, errOut := runListy(t, cfgPath, "settings", "set", "mode", "shopping")
	if code != 0 {
		t.Fatalf("settings set failed with code %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Set mode = shopping") {
		t.Errorf("expected confirmation, got: %s", out)
	}

	_, out, _ = runListy(t, cfgPath, "settings", "get")
	if !strings.Contains(out, "shopping") {
		t.Errorf("expected persisted mode, got: %s", out)
	}

	// The stored mode becomes the default domain for item commands.
	runListy(t, cfgPath, "add", "Milk")
	_, out, _ = runListy(t, cfgPath, "-m", "shopping", "get")
	if !strings.Contains(out, "Milk") {
		t.Errorf("add should have used the shopping domain, got: %s", out)
	}
}

func TestSettingsGetSingleKey(t *testing.T) {
	cfgPath := writeTestConfig(t)
	runListy(t, cfgPath, "settings", "set", "language", "de")

	code, out, errOut := runListy(t, cfgPath, "settings", "get", "language")
	if code != 0 {
		t.Fatalf("settings get failed with code %d: %s", code, errOut)
	}
	if strings.TrimSpace(out) != "de" {
		t.Errorf("expected bare value 'de', got: %q", out)
	}

	code, _, _ = runListy(t, cfgPath, "settings", "get", "color")
	if code != 1 {
		t.Errorf("expected exit code 1 for unknown key, got %d", code)
	}
}

func TestSettingsSetInvalidMode(t *testing.T) {
	cfgPath := writeTestConfig(t)

	code, _, errOut := runListy(t, cfgPath, "settings", "set", "mode", "groceries")
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errOut, "mode") {
		t.Errorf("expected mode error, got: %s", errOut)
	}
}

func TestSettingsSetUnknownKey(t *testing.T) {
	cfgPath := writeTestConfig(t)

	code, _, errOut := runListy(t, cfgPath, "settings", "set", "color", "blue")
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errOut, "color") {
		t.Errorf("expected unknown key error, got: %s", errOut)
	}
}

// --- Config Tests ---

func TestInvalidBackendInConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("storage:\n  backend: redis\n"), 0644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	code, _, errOut := runListy(t, cfgPath, "get")
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errOut, "unknown storage backend") {
		t.Errorf("expected backend error, got: %s", errOut)
	}
}
