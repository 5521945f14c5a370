// Package store is the single source of truth for all list and item state
// across the two domains (todo, shopping). Every mutating call ends in a
// full save of the affected domain record, so the persisted state never
// lags the in-memory state by more than the call in flight.
package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"listy/kv"
	"listy/suggest"
)

// Persisted record keys.
const (
	todoKey        = "listy.todo_data"
	shoppingKey    = "listy.shopping_data"
	suggestionsKey = "listy.user_suggestions"
)

// DefaultListID is the protected list every domain always contains.
const DefaultListID = "default"

// DefaultListName is the canonical display name of the default list.
const DefaultListName = "Allgemein"

// Mode selects which domain an operation applies to.
type Mode string

const (
	ModeTodo     Mode = "todo"
	ModeShopping Mode = "shopping"
)

// Priority represents the urgency of a todo item. Shopping items carry the
// field too but shopping logic never reads it.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Item is a single entry in a list. Its identity within a list is its
// name, compared case-insensitively; there is no separate id.
type Item struct {
	Name      string   `json:"name"`
	Priority  Priority `json:"priority"`
	Completed bool     `json:"is_completed"`
}

// List is a named, insertion-ordered collection of items.
type List struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Settings holds the global application settings, persisted inside the
// todo record.
type Settings struct {
	Language   string `json:"language"`
	Mode       string `json:"mode"`
	ThemeMode  string `json:"theme_mode"`
	AIProvider string `json:"ai_provider,omitempty"`
}

// collection is the persisted shape of one domain. LegacyTasks only exists
// in pre-multi-list records and is consumed by the structural migration.
type collection struct {
	Settings      *Settings        `json:"settings,omitempty"`
	CurrentListID string           `json:"current_list_id"`
	Lists         map[string]*List `json:"lists"`
	LegacyTasks   []Item           `json:"tasks,omitempty"`
}

// Store owns the two domain collections and the suggestion engine.
// Operations on one domain never block the other; each domain serializes
// its own read-modify-persist cycle behind a mutex.
type Store struct {
	backend kv.Store

	todoMu     sync.Mutex
	todo       *collection
	shoppingMu sync.Mutex
	shopping   *collection

	engine *suggest.Engine
}

// domain returns the collection, lock and save function for mode. Any
// unknown mode falls back to todo, mirroring the mode-defaulting of the
// persisted layout.
func (s *Store) domain(mode Mode) (*collection, *sync.Mutex, func(context.Context) error) {
	if mode == ModeShopping {
		return s.shopping, &s.shoppingMu, s.saveShopping
	}
	return s.todo, &s.todoMu, s.saveTodo
}

func (s *Store) saveTodo(ctx context.Context) error {
	return s.saveCollection(ctx, todoKey, s.todo)
}

func (s *Store) saveShopping(ctx context.Context) error {
	return s.saveCollection(ctx, shoppingKey, s.shopping)
}

func (s *Store) saveCollection(ctx context.Context, key string, c *collection) error {
	for _, l := range c.Lists {
		if l.Items == nil {
			l.Items = []Item{}
		}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, key, data)
}

// Suggestions exposes the suggestion engine for autocomplete consumers.
func (s *Store) Suggestions() *suggest.Engine {
	return s.engine
}

// MatchSuggestions returns vocabulary entries starting with query.
func (s *Store) MatchSuggestions(query string) []string {
	return s.engine.MatchPrefix(query)
}

// Close closes the underlying persistence backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// =============================================================================
// Settings
// =============================================================================

// Settings returns a copy of the global settings.
func (s *Store) Settings() Settings {
	s.todoMu.Lock()
	defer s.todoMu.Unlock()
	return *s.todo.Settings
}

// UpdateSetting sets one settings key and persists immediately. Unknown
// keys are rejected.
func (s *Store) UpdateSetting(ctx context.Context, key, value string) error {
	s.todoMu.Lock()
	defer s.todoMu.Unlock()

	switch key {
	case "language":
		s.todo.Settings.Language = value
	case "mode":
		s.todo.Settings.Mode = value
	case "theme_mode":
		s.todo.Settings.ThemeMode = value
	case "ai_provider":
		s.todo.Settings.AIProvider = value
	default:
		return &UnknownSettingError{Key: key}
	}
	return s.saveTodo(ctx)
}

// UnknownSettingError reports an attempt to update a settings key that
// does not exist.
type UnknownSettingError struct {
	Key string
}

func (e *UnknownSettingError) Error() string {
	return "unknown setting: " + e.Key
}

// =============================================================================
// List Operations
// =============================================================================

// Lists returns a snapshot of list id to display name for the domain.
func (s *Store) Lists(mode Mode) map[string]string {
	c, mu, _ := s.domain(mode)
	mu.Lock()
	defer mu.Unlock()

	out := make(map[string]string, len(c.Lists))
	for id, l := range c.Lists {
		out[id] = l.Name
	}
	return out
}

// CreateList inserts an empty list under a fresh short id, makes it the
// current list and persists. Returns the new id.
func (s *Store) CreateList(ctx context.Context, mode Mode, name string) (string, error) {
	c, mu, save := s.domain(mode)
	mu.Lock()
	defer mu.Unlock()

	id := newListID()
	c.Lists[id] = &List{Name: name, Items: []Item{}}
	c.CurrentListID = id
	if err := save(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// newListID generates a collision-resistant short token.
func newListID() string {
	return uuid.New().String()[:8]
}

// CurrentListID returns the id of the domain's active list.
func (s *Store) CurrentListID(mode Mode) string {
	c, mu, _ := s.domain(mode)
	mu.Lock()
	defer mu.Unlock()
	return c.CurrentListID
}

// SetCurrentListID switches the active list. Unknown ids are silently
// ignored.
func (s *Store) SetCurrentListID(ctx context.Context, mode Mode, id string) error {
	c, mu, save := s.domain(mode)
	mu.Lock()
	defer mu.Unlock()

	if _, ok := c.Lists[id]; !ok {
		return nil
	}
	c.CurrentListID = id
	return save(ctx)
}

// RenameList renames a list in place. Unknown ids are a no-op; names need
// not be unique.
func (s *Store) RenameList(ctx context.Context, mode Mode, id, newName string) error {
	c, mu, save := s.domain(mode)
	mu.Lock()
	defer mu.Unlock()

	l, ok := c.Lists[id]
	if !ok {
		return nil
	}
	l.Name = newName
	return save(ctx)
}

// DeleteList removes a list. The default list and the last remaining list
// cannot be deleted; those attempts return false without mutating. When
// the current list is removed, the pointer moves to the default list if
// present, else to the lexicographically smallest remaining id.
func (s *Store) DeleteList(ctx context.Context, mode Mode, id string) (bool, error) {
	if id == DefaultListID {
		return false, nil
	}

	c, mu, save := s.domain(mode)
	mu.Lock()
	defer mu.Unlock()

	if len(c.Lists) <= 1 {
		return false, nil
	}
	if _, ok := c.Lists[id]; !ok {
		return false, nil
	}

	delete(c.Lists, id)

	if c.CurrentListID == id {
		c.CurrentListID = firstListID(c.Lists)
	}

	if err := save(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// firstListID picks a stable successor list: the default list when it
// exists, otherwise the smallest id.
func firstListID(lists map[string]*List) string {
	if _, ok := lists[DefaultListID]; ok {
		return DefaultListID
	}
	ids := make([]string, 0, len(lists))
	for id := range lists {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids[0]
}

// =============================================================================
// Task Operations
// =============================================================================

// Tasks returns the items of the domain's current list in stored order.
// A missing current list yields an empty slice.
func (s *Store) Tasks(mode Mode) []Item {
	c, mu, _ := s.domain(mode)
	mu.Lock()
	defer mu.Unlock()

	l, ok := c.Lists[c.CurrentListID]
	if !ok {
		return []Item{}
	}
	return append([]Item(nil), l.Items...)
}

// AddTask appends a new item to the current list. The name is trimmed and
// auto-corrected to the suggestion vocabulary's casing; in shopping mode
// the (corrected) name is learned before the duplicate check. An empty
// name or a case-insensitive duplicate returns (nil, nil) without
// mutating the list.
func (s *Store) AddTask(ctx context.Context, mode Mode, name string, priority Priority, completed bool) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	if priority == "" {
		priority = PriorityMedium
	}

	name = s.engine.Canonical(name)

	// Learning happens even when the add below turns out to be a duplicate.
	if mode == ModeShopping {
		if err := s.engine.Learn(name); err != nil {
			return nil, err
		}
	}

	c, mu, save := s.domain(mode)
	mu.Lock()
	defer mu.Unlock()

	l, ok := c.Lists[c.CurrentListID]
	if !ok {
		return nil, nil
	}

	lower := strings.ToLower(name)
	for _, item := range l.Items {
		if strings.ToLower(item.Name) == lower {
			return nil, nil
		}
	}

	item := Item{Name: name, Priority: priority, Completed: completed}
	l.Items = append(l.Items, item)
	if err := save(ctx); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateTaskStatus sets the completion flag of the first item whose name
// matches exactly. The domain is persisted even when nothing matched.
func (s *Store) UpdateTaskStatus(ctx context.Context, mode Mode, name string, completed bool) error {
	c, mu, save := s.domain(mode)
	mu.Lock()
	defer mu.Unlock()

	if l, ok := c.Lists[c.CurrentListID]; ok {
		for i := range l.Items {
			if l.Items[i].Name == name {
				l.Items[i].Completed = completed
				break
			}
		}
	}
	return save(ctx)
}

// DeleteTask removes every item whose name matches exactly. The domain is
// persisted even when nothing matched.
func (s *Store) DeleteTask(ctx context.Context, mode Mode, name string) error {
	c, mu, save := s.domain(mode)
	mu.Lock()
	defer mu.Unlock()

	if l, ok := c.Lists[c.CurrentListID]; ok {
		kept := make([]Item, 0, len(l.Items))
		for _, item := range l.Items {
			if item.Name != name {
				kept = append(kept, item)
			}
		}
		l.Items = kept
	}
	return save(ctx)
}

// ClearTasks empties the current list.
func (s *Store) ClearTasks(ctx context.Context, mode Mode) error {
	c, mu, save := s.domain(mode)
	mu.Lock()
	defer mu.Unlock()

	if l, ok := c.Lists[c.CurrentListID]; ok {
		l.Items = []Item{}
	}
	return save(ctx)
}

// ClearCompletedTasks removes completed items from the current list,
// preserving the order of the rest.
func (s *Store) ClearCompletedTasks(ctx context.Context, mode Mode) error {
	c, mu, save := s.domain(mode)
	mu.Lock()
	defer mu.Unlock()

	if l, ok := c.Lists[c.CurrentListID]; ok {
		kept := make([]Item, 0, len(l.Items))
		for _, item := range l.Items {
			if !item.Completed {
				kept = append(kept, item)
			}
		}
		l.Items = kept
	}
	return save(ctx)
}

// ClearShoppingCart removes completed items from the current shopping
// list ("clear cart").
func (s *Store) ClearShoppingCart(ctx context.Context) error {
	return s.ClearCompletedTasks(ctx, ModeShopping)
}

// =============================================================================
// Sharing
// =============================================================================

// ExportAsText renders the current list as shareable text: the list name
// followed by one glyph-prefixed line per item, in stored order.
func (s *Store) ExportAsText(mode Mode) string {
	c, mu, _ := s.domain(mode)
	mu.Lock()
	defer mu.Unlock()

	l, ok := c.Lists[c.CurrentListID]
	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("📝 ")
	sb.WriteString(l.Name)
	sb.WriteString("\n\n")
	for _, item := range l.Items {
		if item.Completed {
			sb.WriteString("✅ ")
		} else {
			sb.WriteString("⬜ ")
		}
		sb.WriteString(item.Name)
		sb.WriteString("\n")
	}
	return sb.String()
}
