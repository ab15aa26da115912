package catering

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/catering/pkg/enums/clienttype"
	"github.com/appetiteclub/catering/pkg/enums/eventtype"
	"github.com/appetiteclub/catering/pkg/enums/recipestatus"
)

// Registry is the in-memory store of menus, recipes, events and clients.
// It is built once by the composition root and shared by reference; every
// caller holding the same *Registry observes the same state.
//
// All mutations run under one coarse lock. Notifications are delivered after
// the lock is released, so subscribers may read from the registry.
type Registry struct {
	mu       sync.RWMutex
	menus    *collection[*Menu]
	sections map[string]map[string]*Section // menu id -> section id -> section
	recipes  *collection[*Recipe]
	events   *collection[*Event]
	clients  *collection[*Client]

	ids      *IDGenerator
	notifier *Notifier
	logger   apt.Logger
}

// NewRegistry creates an empty registry. Nil dependencies get working defaults.
func NewRegistry(ids *IDGenerator, notifier *Notifier, logger apt.Logger) *Registry {
	if ids == nil {
		ids = NewIDGenerator()
	}
	if notifier == nil {
		notifier = NewNotifier()
	}
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Registry{
		menus:    newCollection[*Menu](),
		sections: make(map[string]map[string]*Section),
		recipes:  newCollection[*Recipe](),
		events:   newCollection[*Event](),
		clients:  newCollection[*Client](),
		ids:      ids,
		notifier: notifier,
		logger:   logger,
	}
}

// Notifier returns the notifier changes are published to.
func (r *Registry) Notifier() *Notifier {
	return r.notifier
}

// Menu operations

// CreateMenu stores a new menu with no sections.
func (r *Registry) CreateMenu(ctx context.Context, name, description, notes string) (*Menu, error) {
	m := &Menu{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Notes:       notes,
	}

	r.mu.Lock()
	m.ID = r.ids.Next(KindMenu)
	m.BeforeCreate()
	r.menus.put(m.ID, m)
	r.sections[m.ID] = make(map[string]*Section)
	snapshot := m.Clone()
	r.mu.Unlock()

	r.logger.Info("menu created", "menu_id", m.ID, "name", m.Name)
	r.notifyMenu(ctx, ChangeCreated, snapshot)
	return snapshot.Clone(), nil
}

// Menu returns a copy of the menu with the given id.
func (r *Registry) Menu(ctx context.Context, id string) (*Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.menus.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMenuNotFound, id)
	}
	return m.Clone(), nil
}

// Menus returns copies of every menu in creation order.
func (r *Registry) Menus(ctx context.Context) []*Menu {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Menu, 0, r.menus.len())
	for _, m := range r.menus.list() {
		out = append(out, m.Clone())
	}
	return out
}

// MenusUsingRecipe returns copies of the menus with at least one item
// referencing recipeID.
func (r *Registry) MenusUsingRecipe(ctx context.Context, recipeID string) []*Menu {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Menu
	for _, m := range r.menus.list() {
		for _, s := range m.Sections {
			if s.indexOfRecipe(recipeID) >= 0 {
				out = append(out, m.Clone())
				break
			}
		}
	}
	return out
}

// RenameMenu replaces the menu name.
func (r *Registry) RenameMenu(ctx context.Context, menuID, name string) error {
	return r.updateMenu(ctx, menuID, func(m *Menu) error {
		m.Name = strings.TrimSpace(name)
		return nil
	})
}

// AppendNote adds note to the menu notes, separated by a newline from any
// existing text.
func (r *Registry) AppendNote(ctx context.Context, menuID, note string) error {
	return r.updateMenu(ctx, menuID, func(m *Menu) error {
		if m.Notes == "" {
			m.Notes = note
		} else {
			m.Notes = m.Notes + "\n" + note
		}
		return nil
	})
}

// DeleteMenu removes the menu and reports whether anything was removed.
// The deleted notification is only sent when it was.
func (r *Registry) DeleteMenu(ctx context.Context, menuID string) bool {
	r.mu.Lock()
	m, ok := r.menus.get(menuID)
	if !ok {
		r.mu.Unlock()
		return false
	}
	r.menus.delete(menuID)
	delete(r.sections, menuID)
	snapshot := m.Clone()
	r.mu.Unlock()

	r.logger.Info("menu deleted", "menu_id", menuID)
	r.notifyMenu(ctx, ChangeDeleted, snapshot)
	return true
}

// Section and item operations

// AddSection appends a section titled title. Its order is the section count + 1.
func (r *Registry) AddSection(ctx context.Context, menuID, title string) (*Section, error) {
	var added *Section
	err := r.updateMenu(ctx, menuID, func(m *Menu) error {
		s := &Section{
			ID:    r.ids.Next(KindSection),
			Title: strings.TrimSpace(title),
			Order: len(m.Sections) + 1,
			Items: []*Item{},
		}
		m.Sections = append(m.Sections, s)
		r.sections[m.ID][s.ID] = s
		added = s.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// AddItemToSection appends an item built from the recipe to the section.
func (r *Registry) AddItemToSection(ctx context.Context, menuID, sectionID, recipeID string) (*Item, error) {
	var added *Item
	err := r.updateMenu(ctx, menuID, func(m *Menu) error {
		s, ok := r.sections[m.ID][sectionID]
		if !ok {
			return fmt.Errorf("%w: %s in menu %s", ErrSectionNotFound, sectionID, m.ID)
		}
		it, err := r.newItemLocked(recipeID)
		if err != nil {
			return err
		}
		s.Items = append(s.Items, it)
		cp := *it
		added = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// AddItemToSectionByTitle is AddItemToSection addressed by the title of the
// first matching section.
func (r *Registry) AddItemToSectionByTitle(ctx context.Context, menuID, title, recipeID string) (*Item, error) {
	r.mu.RLock()
	m, ok := r.menus.get(menuID)
	var sectionID string
	if ok {
		if s, found := m.SectionByTitle(title); found {
			sectionID = s.ID
		}
	}
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMenuNotFound, menuID)
	}
	if sectionID == "" {
		return nil, fmt.Errorf("%w: title %q in menu %s", ErrSectionNotFound, title, menuID)
	}
	return r.AddItemToSection(ctx, menuID, sectionID, recipeID)
}

// UpdateItem sets the display name and note of an item. An empty name keeps
// the current one.
func (r *Registry) UpdateItem(ctx context.Context, menuID, sectionID, itemID, name, note string) (*Item, error) {
	var updated *Item
	err := r.updateMenu(ctx, menuID, func(m *Menu) error {
		s, ok := r.sections[m.ID][sectionID]
		if !ok {
			return fmt.Errorf("%w: %s in menu %s", ErrSectionNotFound, sectionID, m.ID)
		}
		i := s.indexOf(itemID)
		if i < 0 {
			return fmt.Errorf("%w: %s in section %s", ErrItemNotFound, itemID, sectionID)
		}
		it := s.Items[i]
		if n := strings.TrimSpace(name); n != "" {
			it.Name = n
		}
		it.Note = note
		cp := *it
		updated = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveItem removes the item from the section. The referenced recipe stays.
func (r *Registry) RemoveItem(ctx context.Context, menuID, sectionID, itemID string) error {
	return r.updateMenu(ctx, menuID, func(m *Menu) error {
		s, ok := r.sections[m.ID][sectionID]
		if !ok {
			return fmt.Errorf("%w: %s in menu %s", ErrSectionNotFound, sectionID, m.ID)
		}
		i := s.indexOf(itemID)
		if i < 0 {
			return fmt.Errorf("%w: %s in section %s", ErrItemNotFound, itemID, sectionID)
		}
		s.removeAt(i)
		return nil
	})
}

// MoveItem moves the first item referencing recipeID, scanning sections in
// order, to the end of the target section.
func (r *Registry) MoveItem(ctx context.Context, menuID, recipeID, targetSectionID string) error {
	return r.updateMenu(ctx, menuID, func(m *Menu) error {
		target, ok := r.sections[m.ID][targetSectionID]
		if !ok {
			return fmt.Errorf("%w: %s in menu %s", ErrSectionNotFound, targetSectionID, m.ID)
		}
		for _, s := range m.Sections {
			if i := s.indexOfRecipe(recipeID); i >= 0 {
				it := s.removeAt(i)
				target.Items = append(target.Items, it)
				return nil
			}
		}
		return fmt.Errorf("%w: no item references recipe %s in menu %s", ErrItemNotFound, recipeID, m.ID)
	})
}

func (r *Registry) newItemLocked(recipeID string) (*Item, error) {
	rec, ok := r.recipes.get(recipeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, recipeID)
	}
	return &Item{
		ID:       r.ids.Next(KindItem),
		Name:     rec.Name,
		RecipeID: rec.ID,
	}, nil
}

// updateMenu runs fn on the stored menu under the write lock and sends an
// updated notification when fn succeeds.
func (r *Registry) updateMenu(ctx context.Context, menuID string, fn func(m *Menu) error) error {
	r.mu.Lock()
	m, ok := r.menus.get(menuID)
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrMenuNotFound, menuID)
	}
	if err := fn(m); err != nil {
		r.mu.Unlock()
		return err
	}
	m.BeforeUpdate()
	snapshot := m.Clone()
	r.mu.Unlock()

	r.logger.Debug("menu updated", "menu_id", menuID)
	r.notifyMenu(ctx, ChangeUpdated, snapshot)
	return nil
}

// Recipe operations

// RecipeOption customises a recipe at creation time.
type RecipeOption func(*Recipe)

func WithIngredients(doses ...IngredientDose) RecipeOption {
	return func(rec *Recipe) {
		for _, d := range doses {
			rec.AddIngredient(d.Name, d.Quantity, d.Unit)
		}
	}
}

func WithSteps(steps ...string) RecipeOption {
	return func(rec *Recipe) {
		for _, s := range steps {
			rec.AddStep(s)
		}
	}
}

func WithTags(tags ...string) RecipeOption {
	return func(rec *Recipe) {
		for _, t := range tags {
			rec.AddTag(t)
		}
	}
}

// CreateRecipe stores a new recipe. An empty status means draft; any other
// value outside recipestatus fails with ErrInvalidInput.
func (r *Registry) CreateRecipe(ctx context.Context, name, description string, prepTime int, status, author string, opts ...RecipeOption) (*Recipe, error) {
	if status != "" && recipestatus.ByName(status) == nil {
		return nil, fmt.Errorf("%w: unsupported recipe status %q", ErrInvalidInput, status)
	}

	rec := &Recipe{
		Name:            strings.TrimSpace(name),
		Description:     strings.TrimSpace(description),
		PreparationTime: prepTime,
		Status:          status,
		Author:          strings.TrimSpace(author),
	}
	rec.BeforeCreate()
	for _, opt := range opts {
		opt(rec)
	}

	r.mu.Lock()
	rec.ID = r.ids.Next(KindRecipe)
	r.recipes.put(rec.ID, rec)
	snapshot := rec.Clone()
	r.mu.Unlock()

	r.logger.Info("recipe created", "recipe_id", rec.ID, "name", rec.Name)
	r.notify(ctx, Change{Kind: ChangeCreated, Aggregate: AggregateRecipe, ID: rec.ID})
	return snapshot, nil
}

// Recipe returns a copy of the recipe with the given id.
func (r *Registry) Recipe(ctx context.Context, id string) (*Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.recipes.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
	}
	return rec.Clone(), nil
}

// Recipes returns copies of every recipe in creation order.
func (r *Registry) Recipes(ctx context.Context) []*Recipe {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Recipe, 0, r.recipes.len())
	for _, rec := range r.recipes.list() {
		out = append(out, rec.Clone())
	}
	return out
}

// UpdateRecipe applies fn to a working copy of the recipe and commits it if
// fn succeeds and the status is still supported. The id cannot change.
func (r *Registry) UpdateRecipe(ctx context.Context, id string, fn func(rec *Recipe) error) (*Recipe, error) {
	r.mu.Lock()
	stored, ok := r.recipes.get(id)
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
	}
	work := stored.Clone()
	if err := fn(work); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	if recipestatus.ByName(work.Status) == nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: unsupported recipe status %q", ErrInvalidInput, work.Status)
	}
	work.ID = stored.ID
	work.CreatedAt = stored.CreatedAt
	work.BeforeUpdate()
	r.recipes.put(id, work)
	snapshot := work.Clone()
	r.mu.Unlock()

	r.logger.Debug("recipe updated", "recipe_id", id)
	r.notify(ctx, Change{Kind: ChangeUpdated, Aggregate: AggregateRecipe, ID: id})
	return snapshot, nil
}

// Client operations

// CreateClient stores a new client. typ must be a clienttype code.
func (r *Registry) CreateClient(ctx context.Context, name, typ, contact string) (*Client, error) {
	if clienttype.ByName(typ) == nil {
		return nil, fmt.Errorf("%w: unsupported client type %q", ErrInvalidInput, typ)
	}

	c := &Client{
		Name:      strings.TrimSpace(name),
		Type:      typ,
		Contact:   strings.TrimSpace(contact),
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	c.ID = r.ids.Next(KindClient)
	r.clients.put(c.ID, c)
	r.mu.Unlock()

	r.logger.Info("client created", "client_id", c.ID)
	r.notify(ctx, Change{Kind: ChangeCreated, Aggregate: AggregateClient, ID: c.ID})
	return c.Clone(), nil
}

func (r *Registry) Client(ctx context.Context, id string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, id)
	}
	return c.Clone(), nil
}

func (r *Registry) Clients(ctx context.Context) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Client, 0, r.clients.len())
	for _, c := range r.clients.list() {
		out = append(out, c.Clone())
	}
	return out
}

// Event operations

// CreateEvent stores a new event. A non-empty client id must resolve to a
// stored client; the event keeps only the id.
func (r *Registry) CreateEvent(ctx context.Context, req EventCreateRequest) (*Event, error) {
	if eventtype.ByName(req.Type) == nil {
		return nil, fmt.Errorf("%w: unsupported event type %q", ErrInvalidInput, req.Type)
	}
	if req.End.Before(req.Start) {
		return nil, fmt.Errorf("%w: event ends before it starts", ErrInvalidInput)
	}

	e := &Event{
		Start:     req.Start,
		End:       req.End,
		Location:  strings.TrimSpace(req.Location),
		Type:      req.Type,
		Notes:     req.Notes,
		ClientID:  req.ClientID,
		Services:  append([]Service(nil), req.Services...),
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	if e.ClientID != "" {
		if _, ok := r.clients.get(e.ClientID); !ok {
			r.mu.Unlock()
			return nil, fmt.Errorf("%w: %s", ErrClientNotFound, e.ClientID)
		}
	}
	e.ID = r.ids.Next(KindEvent)
	r.events.put(e.ID, e)
	snapshot := e.Clone()
	r.mu.Unlock()

	r.logger.Info("event created", "event_id", e.ID, "type", e.Type)
	r.notify(ctx, Change{Kind: ChangeCreated, Aggregate: AggregateEvent, ID: e.ID})
	return snapshot, nil
}

func (r *Registry) Event(ctx context.Context, id string) (*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	return e.Clone(), nil
}

// Events returns copies of every event in creation order.
func (r *Registry) Events(ctx context.Context) []*Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Event, 0, r.events.len())
	for _, e := range r.events.list() {
		out = append(out, e.Clone())
	}
	return out
}

// EventsForClient returns copies of the events booked by clientID.
func (r *Registry) EventsForClient(ctx context.Context, clientID string) []*Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Event
	for _, e := range r.events.list() {
		if e.ClientID == clientID {
			out = append(out, e.Clone())
		}
	}
	return out
}

// DeleteEvent removes the event and reports whether anything was removed.
func (r *Registry) DeleteEvent(ctx context.Context, id string) bool {
	r.mu.Lock()
	if _, ok := r.events.get(id); !ok {
		r.mu.Unlock()
		return false
	}
	r.events.delete(id)
	r.mu.Unlock()

	r.logger.Info("event deleted", "event_id", id)
	r.notify(ctx, Change{Kind: ChangeDeleted, Aggregate: AggregateEvent, ID: id})
	return true
}

// Notification helpers

func (r *Registry) notifyMenu(ctx context.Context, kind ChangeKind, m *Menu) {
	r.notify(ctx, Change{Kind: kind, Aggregate: AggregateMenu, ID: m.ID, Menu: m})
}

// notify never fails the calling operation: the mutation is already committed.
func (r *Registry) notify(ctx context.Context, change Change) {
	if err := r.notifier.Notify(ctx, change); err != nil {
		r.logger.Error("change notification failed",
			"aggregate", change.Aggregate, "id", change.ID, "kind", change.Kind, "error", err)
	}
}

// collection keeps values by id and remembers insertion order.
type collection[T any] struct {
	items map[string]T
	order []string
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[string]T)}
}

func (c *collection[T]) get(id string) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

func (c *collection[T]) put(id string, v T) {
	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}
	c.items[id] = v
}

func (c *collection[T]) delete(id string) {
	if _, exists := c.items[id]; !exists {
		return
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *collection[T]) len() int {
	return len(c.items)
}

func (c *collection[T]) list() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}
