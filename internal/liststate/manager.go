package liststate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/pageza/gomp-client/internal/client"
	"github.com/pageza/gomp-client/internal/storage"
	"github.com/pageza/gomp-client/internal/types"
)

// RecipeSource is the part of the API client the manager reloads from
type RecipeSource interface {
	ListRecipes(ctx context.Context, f types.SearchFilter) (*types.RecipeList, error)
	ListTags(ctx context.Context, sort, dir string, count int) ([]string, error)
}

// RecipeView is what a reload hands to the renderer
type RecipeView struct {
	State       State
	Recipes     []types.RecipeSummary
	Columns     [][]types.RecipeSummary
	Total       int64
	LastPage    int
	SeeMoreLink string
}

// TagOption is one entry of the tag filter checklist
type TagOption struct {
	Name    string
	Checked bool
}

// Renderer draws reload results. Calls are serialized and must not call
// back into the Manager.
type Renderer interface {
	RenderRecipes(view RecipeView)
	RenderTags(options []TagOption)
}

// Options configures a Manager
type Options struct {
	PageSize int
	Columns  int
}

// Manager owns the list state. Every transition persists the changed keys
// to the session store before reloading.
//
// Reloads are numbered. A reload whose response arrives after a newer
// reload has started is dropped rather than rendered.
type Manager struct {
	mu       sync.Mutex
	state    State
	total    int64
	seq      uint64
	tagSeq   uint64
	store    storage.Store
	source   RecipeSource
	renderer Renderer
	pageSize int
	columns  int
}

// NewManager creates a manager in the default state. Call Load to pick up
// persisted state.
func NewManager(store storage.Store, source RecipeSource, renderer Renderer, opts Options) *Manager {
	if opts.PageSize <= 0 {
		opts.PageSize = 12
	}
	if opts.Columns <= 0 {
		opts.Columns = 3
	}
	return &Manager{
		state:    DefaultState(),
		store:    store,
		source:   source,
		renderer: renderer,
		pageSize: opts.PageSize,
		columns:  opts.Columns,
	}
}

// State returns a copy of the current state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyState(m.state)
}

func copyState(s State) State {
	s.Tags = append([]string{}, s.Tags...)
	return s
}

// SeeMoreLink is the full search page link for the current state
func (m *Manager) SeeMoreLink() string {
	return client.SeeMoreLink(m.State().Filter(m.pageSize))
}

// Load replaces the state with what the session store holds. Missing or
// invalid values fall back to the defaults.
func (m *Manager) Load(ctx context.Context) State {
	s := DefaultState()

	var view, sortBy, dir, query string
	var tags []string
	var page int

	if m.read(ctx, KeyView, &view) && ValidView(view) {
		s.View = ViewMode(view)
	}
	if m.read(ctx, KeySort, &sortBy) && types.ValidSortField(sortBy) {
		s.SortBy = types.SortField(sortBy)
	}
	if m.read(ctx, KeyDir, &dir) && types.ValidSortDir(dir) {
		s.SortDir = types.SortDir(dir)
	}
	if m.read(ctx, KeyTags, &tags) {
		s.Tags = types.UniqueTags(tags)
	}
	if m.read(ctx, KeyPage, &page) && page >= 1 {
		s.Page = page
	}
	if m.read(ctx, KeyQuery, &query) {
		s.Query = query
	}

	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
	return copyState(s)
}

func (m *Manager) read(ctx context.Context, key string, out interface{}) bool {
	err := storage.GetJSON(ctx, m.store, key, out)
	if err == nil {
		return true
	}
	if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("[ListState] ignoring stored %s: %v", key, err)
	}
	return false
}

// persist writes the given keys of s. Failures are logged and otherwise
// ignored; the in-memory state stays authoritative.
func (m *Manager) persist(ctx context.Context, s State, keys ...string) {
	for _, key := range keys {
		var value interface{}
		switch key {
		case KeyView:
			value = s.View
		case KeySort:
			value = s.SortBy
		case KeyDir:
			value = s.SortDir
		case KeyTags:
			value = s.Tags
		case KeyPage:
			value = s.Page
		case KeyQuery:
			value = s.Query
		default:
			continue
		}
		if err := storage.SetJSON(ctx, m.store, key, value); err != nil {
			log.Printf("[ListState] failed to persist %s: %v", key, err)
		}
	}
}

// update applies fn to the current state and persists keys while holding the
// lock, so concurrent transitions are applied one after another
func (m *Manager) update(ctx context.Context, fn func(State) (State, error), keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := fn(copyState(m.state))
	if err != nil {
		return err
	}
	m.state = next
	m.persist(ctx, next, keys...)
	return nil
}

// Reset clears the session store, restores the defaults and reloads
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	if err := m.store.Clear(ctx); err != nil {
		log.Printf("[ListState] failed to clear session storage: %v", err)
	}
	m.state = DefaultState()
	m.total = 0
	m.mu.Unlock()
	return m.Reload(ctx)
}

// ChangeView switches between full and compact rendering
func (m *Manager) ChangeView(ctx context.Context, value string) error {
	err := m.update(ctx, func(s State) (State, error) {
		return s.WithView(ViewMode(value))
	}, KeyView)
	if err != nil {
		return err
	}
	return m.Reload(ctx)
}

// ChangeSort toggles the direction for the current field or switches to a
// new field with defaultDir
func (m *Manager) ChangeSort(ctx context.Context, field types.SortField, defaultDir types.SortDir) error {
	err := m.update(ctx, func(s State) (State, error) {
		return s.WithSort(field, defaultDir)
	}, KeySort, KeyDir)
	if err != nil {
		return err
	}
	return m.Reload(ctx)
}

// ApplyTags replaces the selected tags with checked and reloads both the
// recipes and the tag checklist
func (m *Manager) ApplyTags(ctx context.Context, checked []string) error {
	_ = m.update(ctx, func(s State) (State, error) {
		return s.WithTags(checked), nil
	}, KeyTags, KeyPage)

	recipesErr := m.Reload(ctx)
	tagsErr := m.LoadTags(ctx)
	return errors.Join(recipesErr, tagsErr)
}

// Search sets the free-text query and reloads from page 1
func (m *Manager) Search(ctx context.Context, query string) error {
	_ = m.update(ctx, func(s State) (State, error) {
		return s.WithQuery(query), nil
	}, KeyQuery, KeyPage)
	return m.Reload(ctx)
}

// ChangePage moves to page p, clamped to the known page range
func (m *Manager) ChangePage(ctx context.Context, p int) error {
	_ = m.update(ctx, func(s State) (State, error) {
		return s.WithPage(p, m.lastKnownPage()), nil
	}, KeyPage)
	return m.Reload(ctx)
}

// NextPage moves one page forward
func (m *Manager) NextPage(ctx context.Context) error {
	return m.step(ctx, 1)
}

// PrevPage moves one page back
func (m *Manager) PrevPage(ctx context.Context) error {
	return m.step(ctx, -1)
}

// lastKnownPage is 0 until a reload has reported a total. Callers hold mu.
func (m *Manager) lastKnownPage() int {
	if m.total > 0 {
		return LastPage(m.total, m.pageSize)
	}
	return 0
}

func (m *Manager) step(ctx context.Context, delta int) error {
	_ = m.update(ctx, func(s State) (State, error) {
		return s.WithPage(s.Page+delta, m.lastKnownPage()), nil
	}, KeyPage)
	return m.Reload(ctx)
}

// Reload fetches the recipes for the current state and renders them
func (m *Manager) Reload(ctx context.Context) error {
	m.mu.Lock()
	m.seq++
	seq := m.seq
	s := copyState(m.state)
	m.mu.Unlock()

	list, err := m.source.ListRecipes(ctx, s.Filter(m.pageSize))
	if err != nil {
		log.Printf("[ListState] failed to load recipes: %v", err)
		return fmt.Errorf("failed to load recipes: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.seq {
		log.Printf("[ListState] dropping stale recipe response %d (latest %d)", seq, m.seq)
		return nil
	}
	m.total = list.Total

	view := RecipeView{
		State:       s,
		Recipes:     list.Recipes,
		Total:       list.Total,
		LastPage:    LastPage(list.Total, m.pageSize),
		SeeMoreLink: client.SeeMoreLink(s.Filter(m.pageSize)),
	}
	if s.View == ViewCompact {
		view.Columns = Partition(list.Recipes, m.columns)
	}
	m.renderer.RenderRecipes(view)
	return nil
}

// LoadTags fetches the whole tag vocabulary in ascending order and renders
// it as a checklist with the selected tags checked. On failure an empty
// checklist is rendered.
func (m *Manager) LoadTags(ctx context.Context) error {
	m.mu.Lock()
	m.tagSeq++
	seq := m.tagSeq
	m.mu.Unlock()

	tags, fetchErr := m.source.ListTags(ctx, "tag", string(types.SortAsc), 0)
	if fetchErr != nil {
		log.Printf("[ListState] failed to load tags: %v", fetchErr)
		tags = nil
	}
	tags = types.UniqueTags(tags)
	sort.Strings(tags)

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.tagSeq {
		return nil
	}

	options := make([]TagOption, len(tags))
	for i, t := range tags {
		options[i] = TagOption{Name: t, Checked: m.state.HasTag(t)}
	}
	m.renderer.RenderTags(options)

	if fetchErr != nil {
		return fmt.Errorf("failed to load tags: %w", fetchErr)
	}
	return nil
}
