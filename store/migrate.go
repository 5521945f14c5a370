package store

import (
	"context"
	"encoding/json"
	"os"

	"listy/internal/utils"
	"listy/kv"
	"listy/suggest"
)

// legacyShoppingNames are the localized default-list names older versions
// shipped for the shopping domain. They are normalized to DefaultListName
// on load.
var legacyShoppingNames = []string{"Einkaufsliste", "Shopping List", "购物清单", "買い物リスト"}

// Options configures store initialization.
type Options struct {
	// LegacyTodoPath and LegacyShoppingPath point at the old file-based
	// records. They are read once, best-effort, when the kv store has no
	// record for the domain yet.
	LegacyTodoPath     string
	LegacyShoppingPath string

	// StaticSuggestions overrides the built-in vocabulary (tests). Nil
	// means suggest.StaticVocabulary().
	StaticSuggestions []string
}

func defaultSettings() *Settings {
	return &Settings{
		Language:  "en",
		Mode:      string(ModeTodo),
		ThemeMode: "dark",
	}
}

func defaultTodoData() *collection {
	return &collection{
		Settings:      defaultSettings(),
		CurrentListID: DefaultListID,
		Lists: map[string]*List{
			DefaultListID: {Name: DefaultListName, Items: []Item{}},
		},
	}
}

func defaultShoppingData() *collection {
	return &collection{
		CurrentListID: DefaultListID,
		Lists: map[string]*List{
			DefaultListID: {Name: "Einkaufsliste", Items: []Item{}},
		},
	}
}

// New loads both domain collections and the learned suggestions from the
// backend, importing legacy files or installing defaults where records are
// absent, then runs the structural migration and name normalization.
// All steps are idempotent: re-running them on migrated data changes
// nothing.
func New(ctx context.Context, backend kv.Store, opts Options) (*Store, error) {
	s := &Store{backend: backend}

	todo, err := loadCollection(ctx, backend, todoKey)
	if err != nil {
		return nil, err
	}
	shopping, err := loadCollection(ctx, backend, shoppingKey)
	if err != nil {
		return nil, err
	}

	// One-time import from the old file-based format. A malformed legacy
	// file is treated as absent.
	todoImported, shoppingImported := false, false
	if todo == nil && opts.LegacyTodoPath != "" {
		if c := loadLegacyFile(opts.LegacyTodoPath); c != nil {
			utils.Infof("importing legacy todo data from %s", opts.LegacyTodoPath)
			todo = c
			todoImported = true
		}
	}
	if shopping == nil && opts.LegacyShoppingPath != "" {
		if c := loadLegacyFile(opts.LegacyShoppingPath); c != nil {
			utils.Infof("importing legacy shopping data from %s", opts.LegacyShoppingPath)
			shopping = c
			shoppingImported = true
		}
	}

	todoDirty, shoppingDirty := todoImported, shoppingImported
	if todo == nil {
		todo = defaultTodoData()
		todoDirty = true
	}
	if shopping == nil {
		shopping = defaultShoppingData()
		shoppingDirty = true
	}

	s.todo = todo
	s.shopping = shopping

	if migrateStructure(todo) {
		utils.Debugf("migrated todo data to multi-list structure")
		todoDirty = true
	}
	if migrateStructure(shopping) {
		utils.Debugf("migrated shopping data to multi-list structure")
		shoppingDirty = true
	}

	if normalizeShoppingDefaultName(shopping) {
		shoppingDirty = true
	}
	if normalizeTodoDefaultName(todo) {
		todoDirty = true
	}

	if todo.Settings == nil {
		todo.Settings = defaultSettings()
		todoDirty = true
	}

	if todoDirty {
		if err := s.saveTodo(ctx); err != nil {
			return nil, err
		}
	}
	if shoppingDirty {
		if err := s.saveShopping(ctx); err != nil {
			return nil, err
		}
	}

	if err := s.initSuggestions(ctx, opts.StaticSuggestions); err != nil {
		return nil, err
	}

	return s, nil
}

// loadCollection reads and decodes one domain record. Absence is (nil, nil);
// a corrupt record is a hard failure, unlike the best-effort legacy path.
func loadCollection(ctx context.Context, backend kv.Store, key string) (*collection, error) {
	data, err := backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var c collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// loadLegacyFile reads an old-format JSON file. Missing or unparseable
// files yield nil so the caller falls through to defaults.
func loadLegacyFile(path string) *collection {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var c collection
	if err := json.Unmarshal(data, &c); err != nil {
		utils.Warnf("ignoring malformed legacy file %s: %v", path, err)
		return nil
	}
	return &c
}

// migrateStructure upgrades a pre-multi-list record: a flat legacy task
// array becomes the items of a synthetic default list. It also repairs a
// missing default list or a dangling current-list pointer, so a partially
// inconsistent record degrades to an empty default list instead of
// crashing. Returns true when anything changed.
func migrateStructure(c *collection) bool {
	changed := false

	if c.Lists == nil {
		items := c.LegacyTasks
		if items == nil {
			items = []Item{}
		}
		c.Lists = map[string]*List{
			DefaultListID: {Name: DefaultListName, Items: items},
		}
		c.CurrentListID = DefaultListID
		c.LegacyTasks = nil
		changed = true
	}

	if _, ok := c.Lists[DefaultListID]; !ok {
		c.Lists[DefaultListID] = &List{Name: DefaultListName, Items: []Item{}}
		changed = true
	}

	if _, ok := c.Lists[c.CurrentListID]; !ok {
		c.CurrentListID = DefaultListID
		changed = true
	}

	if c.LegacyTasks != nil {
		c.LegacyTasks = nil
		changed = true
	}

	return changed
}

// normalizeShoppingDefaultName replaces the localized default-list names
// of older versions with the canonical one.
func normalizeShoppingDefaultName(c *collection) bool {
	l, ok := c.Lists[DefaultListID]
	if !ok {
		return false
	}
	for _, legacy := range legacyShoppingNames {
		if l.Name == legacy {
			l.Name = DefaultListName
			return true
		}
	}
	return false
}

// normalizeTodoDefaultName forces the canonical name unconditionally; the
// deletion protection keys off it.
func normalizeTodoDefaultName(c *collection) bool {
	l, ok := c.Lists[DefaultListID]
	if !ok {
		return false
	}
	if l.Name != DefaultListName {
		l.Name = DefaultListName
		return true
	}
	return false
}

// initSuggestions loads (or initializes) the learned vocabulary and wires
// the engine's persistence back into the kv store.
func (s *Store) initSuggestions(ctx context.Context, static []string) error {
	if static == nil {
		static = suggest.StaticVocabulary()
	}

	data, err := s.backend.Get(ctx, suggestionsKey)
	if err != nil {
		return err
	}

	var learned []string
	if data == nil {
		if err := s.backend.Set(ctx, suggestionsKey, []byte("[]")); err != nil {
			return err
		}
	} else if err := json.Unmarshal(data, &learned); err != nil {
		return err
	}

	backend := s.backend
	s.engine = suggest.New(static, learned, func(learned []string) error {
		data, err := json.Marshal(learned)
		if err != nil {
			return err
		}
		return backend.Set(context.Background(), suggestionsKey, data)
	})
	return nil
}
