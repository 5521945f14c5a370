package assistant

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"

	listutils "listy/internal/utils"
	"listy/store"
)

// Toolbox implements the five list-management tools the assistant can
// call. All of them operate on the shared list store; the provider
// variants share one implementation.
type Toolbox struct {
	store *store.Store
}

// NewToolbox creates a toolbox over the given store.
func NewToolbox(st *store.Store) *Toolbox {
	return &Toolbox{store: st}
}

// AddItemInput is the schema for the add_item tool.
type AddItemInput struct {
	ItemName string `json:"item_name" jsonschema:"description=Name of the item to add"`
	Mode     string `json:"mode" jsonschema:"description=Which list domain to target,enum=shopping,enum=todo"`
	Priority string `json:"priority,omitempty" jsonschema:"description=Priority for todo items,enum=urgent,enum=medium,enum=low"`
}

// AddItem adds an item to the current list of the given domain.
func (t *Toolbox) AddItem(ctx context.Context, in *AddItemInput) (string, error) {
	mode, err := parseToolMode(in.Mode)
	if err != nil {
		return "", err
	}
	priority, err := listutils.ParsePriority(in.Priority)
	if err != nil {
		return "", err
	}

	listutils.Debugf("assistant: adding %q to %s", in.ItemName, mode)
	item, err := t.store.AddTask(ctx, mode, in.ItemName, store.Priority(priority), false)
	if err != nil {
		return "", err
	}
	if item == nil {
		return fmt.Sprintf("'%s' is already on the %s list (or the name was empty); nothing was added.", in.ItemName, mode), nil
	}
	return fmt.Sprintf("Added '%s' to %s list.", item.Name, mode), nil
}

// RemoveItemInput is the schema for the remove_item tool.
type RemoveItemInput struct {
	ItemName string `json:"item_name" jsonschema:"description=Exact name of the item to remove"`
	Mode     string `json:"mode" jsonschema:"description=Which list domain to target,enum=shopping,enum=todo"`
}

// RemoveItem removes an item from the current list of the given domain.
func (t *Toolbox) RemoveItem(ctx context.Context, in *RemoveItemInput) (string, error) {
	mode, err := parseToolMode(in.Mode)
	if err != nil {
		return "", err
	}

	listutils.Debugf("assistant: removing %q from %s", in.ItemName, mode)
	if err := t.store.DeleteTask(ctx, mode, in.ItemName); err != nil {
		return "", err
	}
	return fmt.Sprintf("Removed '%s' from %s list.", in.ItemName, mode), nil
}

// CreateListInput is the schema for the create_list tool.
type CreateListInput struct {
	ListName string `json:"list_name" jsonschema:"description=Name of the new list"`
	Mode     string `json:"mode" jsonschema:"description=Which list domain to target,enum=shopping,enum=todo"`
}

// CreateList creates a new list and makes it the current one.
func (t *Toolbox) CreateList(ctx context.Context, in *CreateListInput) (string, error) {
	mode, err := parseToolMode(in.Mode)
	if err != nil {
		return "", err
	}

	if _, err := t.store.CreateList(ctx, mode, in.ListName); err != nil {
		return "", err
	}
	return fmt.Sprintf("Created new %s list: '%s'.", mode, in.ListName), nil
}

// ClearListInput is the schema for the clear_list tool.
type ClearListInput struct {
	Mode string `json:"mode" jsonschema:"description=Which list domain to target,enum=shopping,enum=todo"`
}

// ClearList removes every item from the current list of the given domain.
func (t *Toolbox) ClearList(ctx context.Context, in *ClearListInput) (string, error) {
	mode, err := parseToolMode(in.Mode)
	if err != nil {
		return "", err
	}

	if err := t.store.ClearTasks(ctx, mode); err != nil {
		return "", err
	}
	return fmt.Sprintf("Cleared all items from %s list.", mode), nil
}

// ListContentInput is the schema for the get_list_content tool.
type ListContentInput struct {
	Mode string `json:"mode" jsonschema:"description=Which list domain to read,enum=shopping,enum=todo"`
}

// ListContent returns the item names of the current list as a bare array.
func (t *Toolbox) ListContent(ctx context.Context, in *ListContentInput) ([]string, error) {
	mode, err := parseToolMode(in.Mode)
	if err != nil {
		return nil, err
	}

	items := t.store.Tasks(mode)
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names, nil
}

// Tools builds the eino tool set from the toolbox methods.
func (t *Toolbox) Tools() ([]tool.BaseTool, error) {
	addItem, err := utils.InferTool("add_item", "Add an item to a list", t.AddItem)
	if err != nil {
		return nil, err
	}
	removeItem, err := utils.InferTool("remove_item", "Remove an item from a list", t.RemoveItem)
	if err != nil {
		return nil, err
	}
	createList, err := utils.InferTool("create_list", "Create a new list", t.CreateList)
	if err != nil {
		return nil, err
	}
	clearList, err := utils.InferTool("clear_list", "Clear all items from a list", t.ClearList)
	if err != nil {
		return nil, err
	}
	listContent, err := utils.InferTool("get_list_content", "Get content of a list", t.ListContent)
	if err != nil {
		return nil, err
	}

	return []tool.BaseTool{addItem, removeItem, createList, clearList, listContent}, nil
}

// parseToolMode validates the mode argument of a tool call. Tool-call
// errors go back to the model so it can correct itself.
func parseToolMode(mode string) (store.Mode, error) {
	parsed, err := listutils.ParseMode(mode)
	if err != nil || parsed == "" {
		return "", fmt.Errorf("mode must be 'shopping' or 'todo', got %q", mode)
	}
	return store.Mode(parsed), nil
}
