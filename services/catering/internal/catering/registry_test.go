package catering

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/appetiteclub/apt"
)

func newTestRegistry(t *testing.T) (*Registry, *recordingSubscriber) {
	t.Helper()
	rec := &recordingSubscriber{}
	n := NewNotifier()
	n.Subscribe(rec)
	return NewRegistry(NewIDGenerator(), n, apt.NewNoopLogger()), rec
}

func mustCreateRecipe(t *testing.T, reg *Registry, name string) *Recipe {
	t.Helper()
	rec, err := reg.CreateRecipe(context.Background(), name, name+" description", 20, "published", "chef")
	if err != nil {
		t.Fatalf("CreateRecipe(%s) error = %v", name, err)
	}
	return rec
}

func mustCreateMenu(t *testing.T, reg *Registry, name string, sections ...string) (*Menu, []*Section) {
	t.Helper()
	ctx := context.Background()
	m, err := reg.CreateMenu(ctx, name, "Elegant", "")
	if err != nil {
		t.Fatalf("CreateMenu() error = %v", err)
	}
	var out []*Section
	for _, title := range sections {
		s, err := reg.AddSection(ctx, m.ID, title)
		if err != nil {
			t.Fatalf("AddSection(%s) error = %v", title, err)
		}
		out = append(out, s)
	}
	return m, out
}

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name     string
		ids      *IDGenerator
		notifier *Notifier
		logger   apt.Logger
	}{
		{name: "withAllDependencies", ids: NewIDGenerator(), notifier: NewNotifier(), logger: apt.NewNoopLogger()},
		{name: "withNilDependencies"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry(tt.ids, tt.notifier, tt.logger)
			if reg == nil {
				t.Fatal("NewRegistry() returned nil")
			}
			if reg.Notifier() == nil {
				t.Error("Notifier() returned nil")
			}
			if len(reg.Menus(context.Background())) != 0 {
				t.Error("new registry is not empty")
			}
		})
	}
}

func TestRegistryCreateMenu(t *testing.T) {
	reg, rec := newTestRegistry(t)
	ctx := context.Background()

	var prev uint64
	for i := 0; i < 5; i++ {
		m, err := reg.CreateMenu(ctx, fmt.Sprintf("Menu %d", i), "desc", "")
		if err != nil {
			t.Fatalf("CreateMenu() error = %v", err)
		}
		n, err := Counter(KindMenu, m.ID)
		if err != nil {
			t.Fatalf("Counter(%s) error = %v", m.ID, err)
		}
		if n <= prev {
			t.Errorf("menu id counter %d not greater than %d", n, prev)
		}
		prev = n
		if m.Sections == nil {
			t.Error("new menu has nil sections")
		}
	}

	if got := rec.count(AggregateMenu, ChangeCreated); got != 5 {
		t.Errorf("created notifications = %d, want 5", got)
	}
	if got := len(reg.Menus(ctx)); got != 5 {
		t.Errorf("Menus() len = %d, want 5", got)
	}
}

func TestRegistryWeddingMenu(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	m, sections := mustCreateMenu(t, reg, "Wedding Menu", "Starters", "Mains", "Desserts")
	tiramisu, err := reg.CreateRecipe(ctx, "Tiramisu", "Coffee dessert", 30, "published", "chef")
	if err != nil {
		t.Fatalf("CreateRecipe() error = %v", err)
	}

	if _, err := reg.AddItemToSectionByTitle(ctx, m.ID, "Desserts", tiramisu.ID); err != nil {
		t.Fatalf("AddItemToSectionByTitle() error = %v", err)
	}

	got, err := reg.Menu(ctx, m.ID)
	if err != nil {
		t.Fatalf("Menu() error = %v", err)
	}
	if len(got.Sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(got.Sections))
	}
	for i, s := range got.Sections {
		if s.ID != sections[i].ID || s.Order != i+1 {
			t.Errorf("section %d = %s order %d, want %s order %d", i, s.ID, s.Order, sections[i].ID, i+1)
		}
	}

	desserts, ok := got.SectionByTitle("Desserts")
	if !ok {
		t.Fatal("Desserts section missing")
	}
	if len(desserts.Items) != 1 || desserts.Items[0].Name != "Tiramisu" {
		t.Errorf("Desserts items = %+v, want one Tiramisu", desserts.Items)
	}
	if desserts.Items[0].RecipeID != tiramisu.ID {
		t.Errorf("item recipe id = %s, want %s", desserts.Items[0].RecipeID, tiramisu.ID)
	}
}

func TestRegistryAddItemToSection(t *testing.T) {
	reg, rec := newTestRegistry(t)
	ctx := context.Background()

	m, sections := mustCreateMenu(t, reg, "Gala Dinner", "Starters", "Mains")
	recipe := mustCreateRecipe(t, reg, "Carpaccio")
	updatesBefore := rec.count(AggregateMenu, ChangeUpdated)

	tests := []struct {
		name      string
		menuID    string
		sectionID string
		recipeID  string
		wantErr   error
	}{
		{name: "valid", menuID: m.ID, sectionID: sections[0].ID, recipeID: recipe.ID},
		{name: "unknownMenu", menuID: "M9999", sectionID: sections[0].ID, recipeID: recipe.ID, wantErr: ErrMenuNotFound},
		{name: "unknownSection", menuID: m.ID, sectionID: "S9999", recipeID: recipe.ID, wantErr: ErrSectionNotFound},
		{name: "unknownRecipe", menuID: m.ID, sectionID: sections[0].ID, recipeID: "R9999", wantErr: ErrRecipeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.AddItemToSection(ctx, tt.menuID, tt.sectionID, tt.recipeID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddItemToSection() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	got, _ := reg.Menu(ctx, m.ID)
	if len(got.Sections[0].Items) != 1 {
		t.Errorf("Starters items = %d, want 1", len(got.Sections[0].Items))
	}
	if len(got.Sections[1].Items) != 0 {
		t.Errorf("Mains items = %d, want 0", len(got.Sections[1].Items))
	}
	if got := rec.count(AggregateMenu, ChangeUpdated) - updatesBefore; got != 1 {
		t.Errorf("updated notifications = %d, want 1", got)
	}
}

func TestRegistryAddItemToSectionByTitleMissing(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	m, _ := mustCreateMenu(t, reg, "Brunch", "Sweet")
	recipe := mustCreateRecipe(t, reg, "Pancakes")

	if _, err := reg.AddItemToSectionByTitle(ctx, m.ID, "Savoury", recipe.ID); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("AddItemToSectionByTitle() error = %v, want ErrSectionNotFound", err)
	}
	if _, err := reg.AddItemToSectionByTitle(ctx, "M9999", "Sweet", recipe.ID); !errors.Is(err, ErrMenuNotFound) {
		t.Errorf("AddItemToSectionByTitle() error = %v, want ErrMenuNotFound", err)
	}
}

func TestRegistryMoveItem(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	m, sections := mustCreateMenu(t, reg, "Buffet", "Starters", "Mains", "Desserts")
	a := mustCreateRecipe(t, reg, "Arancini")
	b := mustCreateRecipe(t, reg, "Lasagne")
	reg.AddItemToSection(ctx, m.ID, sections[0].ID, a.ID)
	reg.AddItemToSection(ctx, m.ID, sections[0].ID, b.ID)
	reg.AddItemToSection(ctx, m.ID, sections[1].ID, a.ID)

	before, _ := reg.Menu(ctx, m.ID)

	if err := reg.MoveItem(ctx, m.ID, a.ID, sections[2].ID); err != nil {
		t.Fatalf("MoveItem() error = %v", err)
	}

	after, _ := reg.Menu(ctx, m.ID)
	if before.ItemCount() != after.ItemCount() {
		t.Errorf("item count before = %d, after = %d", before.ItemCount(), after.ItemCount())
	}
	if len(after.Sections[0].Items) != 1 || after.Sections[0].Items[0].RecipeID != b.ID {
		t.Errorf("Starters items = %+v, want only Lasagne", after.Sections[0].Items)
	}
	if len(after.Sections[1].Items) != 1 {
		t.Errorf("Mains items = %d, want 1 (only first occurrence moves)", len(after.Sections[1].Items))
	}
	if len(after.Sections[2].Items) != 1 || after.Sections[2].Items[0].RecipeID != a.ID {
		t.Errorf("Desserts items = %+v, want Arancini", after.Sections[2].Items)
	}

	tests := []struct {
		name     string
		recipeID string
		targetID string
		wantErr  error
	}{
		{name: "unknownTarget", recipeID: a.ID, targetID: "S9999", wantErr: ErrSectionNotFound},
		{name: "recipeNotOnMenu", recipeID: "R9999", targetID: sections[0].ID, wantErr: ErrItemNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := reg.MoveItem(ctx, m.ID, tt.recipeID, tt.targetID); !errors.Is(err, tt.wantErr) {
				t.Errorf("MoveItem() error = %v, want %v", err, tt.wantErr)
			}
			got, _ := reg.Menu(ctx, m.ID)
			if got.ItemCount() != after.ItemCount() {
				t.Errorf("failed move changed item count to %d", got.ItemCount())
			}
		})
	}
}

func TestRegistryUpdateAndRemoveItem(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	m, sections := mustCreateMenu(t, reg, "Aperitivo", "Bites")
	recipe := mustCreateRecipe(t, reg, "Olive ascolane")
	item, err := reg.AddItemToSection(ctx, m.ID, sections[0].ID, recipe.ID)
	if err != nil {
		t.Fatalf("AddItemToSection() error = %v", err)
	}

	updated, err := reg.UpdateItem(ctx, m.ID, sections[0].ID, item.ID, "Stuffed olives", "contains pork")
	if err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}
	if updated.Name != "Stuffed olives" || updated.Note != "contains pork" {
		t.Errorf("UpdateItem() = %+v", updated)
	}

	kept, _ := reg.UpdateItem(ctx, m.ID, sections[0].ID, item.ID, "  ", "")
	if kept.Name != "Stuffed olives" {
		t.Errorf("blank name replaced display name with %q", kept.Name)
	}

	if _, err := reg.UpdateItem(ctx, m.ID, sections[0].ID, "I9999", "x", ""); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("UpdateItem() unknown item error = %v", err)
	}

	if err := reg.RemoveItem(ctx, m.ID, "S9999", item.ID); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("RemoveItem() unknown section error = %v", err)
	}
	if err := reg.RemoveItem(ctx, m.ID, sections[0].ID, item.ID); err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	if err := reg.RemoveItem(ctx, m.ID, sections[0].ID, item.ID); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("second RemoveItem() error = %v, want ErrItemNotFound", err)
	}

	if _, err := reg.Recipe(ctx, recipe.ID); err != nil {
		t.Errorf("recipe removed together with item: %v", err)
	}
}

func TestRegistryDeleteMenu(t *testing.T) {
	reg, rec := newTestRegistry(t)
	ctx := context.Background()

	m, _ := mustCreateMenu(t, reg, "Short lived")

	if !reg.DeleteMenu(ctx, m.ID) {
		t.Fatal("DeleteMenu() = false for stored menu")
	}
	for _, listed := range reg.Menus(ctx) {
		if listed.ID == m.ID {
			t.Error("deleted menu still listed")
		}
	}
	if reg.DeleteMenu(ctx, m.ID) {
		t.Error("second DeleteMenu() = true")
	}
	if got := rec.count(AggregateMenu, ChangeDeleted); got != 1 {
		t.Errorf("deleted notifications = %d, want 1", got)
	}
	if _, err := reg.Menu(ctx, m.ID); !errors.Is(err, ErrMenuNotFound) {
		t.Errorf("Menu() after delete error = %v", err)
	}
}

func TestRegistryRenameAndNotes(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	m, _ := mustCreateMenu(t, reg, "Draft name")

	if err := reg.RenameMenu(ctx, m.ID, "  Final name "); err != nil {
		t.Fatalf("RenameMenu() error = %v", err)
	}
	reg.AppendNote(ctx, m.ID, "no nuts")
	reg.AppendNote(ctx, m.ID, "two vegans")

	got, _ := reg.Menu(ctx, m.ID)
	if got.Name != "Final name" {
		t.Errorf("Name = %q, want Final name", got.Name)
	}
	if got.Notes != "no nuts\ntwo vegans" {
		t.Errorf("Notes = %q", got.Notes)
	}
	if err := reg.RenameMenu(ctx, "M9999", "x"); !errors.Is(err, ErrMenuNotFound) {
		t.Errorf("RenameMenu() unknown menu error = %v", err)
	}
}

func TestRegistryReadersReturnCopies(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	m, sections := mustCreateMenu(t, reg, "Copy test", "Only")
	recipe := mustCreateRecipe(t, reg, "Focaccia")
	reg.AddItemToSection(ctx, m.ID, sections[0].ID, recipe.ID)

	got, _ := reg.Menu(ctx, m.ID)
	got.Name = "mutated"
	got.Sections[0].Items[0].Name = "mutated"
	got.Sections = append(got.Sections, &Section{ID: "S9999"})

	again, _ := reg.Menu(ctx, m.ID)
	if again.Name != "Copy test" || len(again.Sections) != 1 || again.Sections[0].Items[0].Name != "Focaccia" {
		t.Errorf("registry state changed through a reader copy: %+v", again)
	}

	r, _ := reg.Recipe(ctx, recipe.ID)
	r.Tags = append(r.Tags, "mutated")
	r2, _ := reg.Recipe(ctx, recipe.ID)
	if r2.HasTag("mutated") {
		t.Error("recipe changed through a reader copy")
	}
}

func TestRegistryCreateRecipe(t *testing.T) {
	reg, rec := newTestRegistry(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		status     string
		wantStatus string
		wantErr    error
	}{
		{name: "emptyStatusDefaultsToDraft", status: "", wantStatus: "draft"},
		{name: "published", status: "published", wantStatus: "published"},
		{name: "unknownStatus", status: "archived", wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := reg.CreateRecipe(ctx, "Panna cotta", "Cream", 20, tt.status, "chef",
				WithTags("dessert", "dessert", "gluten-free"),
				WithSteps("heat cream"),
				WithIngredients(IngredientDose{Name: "cream", Quantity: 500, Unit: "ml"}))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateRecipe() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateRecipe() error = %v", err)
			}
			if r.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", r.Status, tt.wantStatus)
			}
			if len(r.Tags) != 2 {
				t.Errorf("Tags = %v, want 2 unique tags", r.Tags)
			}
			if len(r.Steps) != 1 || len(r.Ingredients) != 1 {
				t.Errorf("Steps = %v Ingredients = %v", r.Steps, r.Ingredients)
			}
		})
	}

	if got := rec.count(AggregateRecipe, ChangeCreated); got != 2 {
		t.Errorf("recipe created notifications = %d, want 2", got)
	}
}

func TestRegistryUpdateRecipe(t *testing.T) {
	reg, rec := newTestRegistry(t)
	ctx := context.Background()

	r, _ := reg.CreateRecipe(ctx, "Minestrone", "Soup", 45, "", "chef")

	updated, err := reg.UpdateRecipe(ctx, r.ID, func(rec *Recipe) error {
		rec.Status = "published"
		rec.AddTag("vegan")
		rec.ID = "R0"
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateRecipe() error = %v", err)
	}
	if updated.ID != r.ID || !updated.Published() || !updated.HasTag("vegan") {
		t.Errorf("UpdateRecipe() = %+v", updated)
	}

	failing := errors.New("rejected")
	if _, err := reg.UpdateRecipe(ctx, r.ID, func(rec *Recipe) error {
		rec.Description = "changed"
		return failing
	}); !errors.Is(err, failing) {
		t.Errorf("UpdateRecipe() error = %v, want mutator error", err)
	}
	if _, err := reg.UpdateRecipe(ctx, r.ID, func(rec *Recipe) error {
		rec.Status = "archived"
		return nil
	}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("UpdateRecipe() error = %v, want ErrInvalidInput", err)
	}
	if _, err := reg.UpdateRecipe(ctx, "R9999", func(*Recipe) error { return nil }); !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("UpdateRecipe() error = %v, want ErrRecipeNotFound", err)
	}

	stored, _ := reg.Recipe(ctx, r.ID)
	if stored.Description != "Soup" || stored.Status != "published" {
		t.Errorf("failed updates leaked into stored recipe: %+v", stored)
	}
	if got := rec.count(AggregateRecipe, ChangeUpdated); got != 1 {
		t.Errorf("recipe updated notifications = %d, want 1", got)
	}
}

func TestRegistryMenusUsingRecipe(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	shared := mustCreateRecipe(t, reg, "Caprese")
	other := mustCreateRecipe(t, reg, "Gelato")
	m1, s1 := mustCreateMenu(t, reg, "Lunch", "Starters")
	m2, s2 := mustCreateMenu(t, reg, "Dinner", "Starters")
	mustCreateMenu(t, reg, "Empty")
	reg.AddItemToSection(ctx, m1.ID, s1[0].ID, shared.ID)
	reg.AddItemToSection(ctx, m2.ID, s2[0].ID, shared.ID)
	reg.AddItemToSection(ctx, m2.ID, s2[0].ID, other.ID)

	if got := reg.MenusUsingRecipe(ctx, shared.ID); len(got) != 2 {
		t.Errorf("MenusUsingRecipe(shared) = %d menus, want 2", len(got))
	}
	if got := reg.MenusUsingRecipe(ctx, other.ID); len(got) != 1 || got[0].ID != m2.ID {
		t.Errorf("MenusUsingRecipe(other) = %+v, want only %s", got, m2.ID)
	}
}

func TestRegistryClientsAndEvents(t *testing.T) {
	reg, rec := newTestRegistry(t)
	ctx := context.Background()

	if _, err := reg.CreateClient(ctx, "Acme", "corporate", "x"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("CreateClient() unknown type error = %v", err)
	}

	c, err := reg.CreateClient(ctx, "Acme", "business", "events@acme.com")
	if err != nil {
		t.Fatalf("CreateClient() error = %v", err)
	}

	start := time.Date(2026, 9, 12, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		req     EventCreateRequest
		wantErr error
	}{
		{
			name: "withClient",
			req:  EventCreateRequest{Start: start, End: start.Add(4 * time.Hour), Location: "HQ", Type: "complex", ClientID: c.ID},
		},
		{
			name: "withoutClient",
			req:  EventCreateRequest{Start: start, End: start, Location: "Park", Type: "single"},
		},
		{
			name:    "unknownClient",
			req:     EventCreateRequest{Start: start, End: start, Location: "HQ", Type: "single", ClientID: "C9999"},
			wantErr: ErrClientNotFound,
		},
		{
			name:    "endBeforeStart",
			req:     EventCreateRequest{Start: start, End: start.Add(-time.Minute), Location: "HQ", Type: "single"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknownType",
			req:     EventCreateRequest{Start: start, End: start, Location: "HQ", Type: "party"},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.CreateEvent(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateEvent() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if got := len(reg.Events(ctx)); got != 2 {
		t.Fatalf("Events() = %d, want 2", got)
	}
	forClient := reg.EventsForClient(ctx, c.ID)
	if len(forClient) != 1 || forClient[0].Duration() != 4*time.Hour {
		t.Errorf("EventsForClient() = %+v", forClient)
	}

	if !reg.DeleteEvent(ctx, forClient[0].ID) {
		t.Error("DeleteEvent() = false for stored event")
	}
	if reg.DeleteEvent(ctx, forClient[0].ID) {
		t.Error("second DeleteEvent() = true")
	}
	if _, err := reg.Client(ctx, c.ID); err != nil {
		t.Errorf("client removed with its event: %v", err)
	}

	if got := rec.count(AggregateClient, ChangeCreated); got != 1 {
		t.Errorf("client created notifications = %d, want 1", got)
	}
	if got := rec.count(AggregateEvent, ChangeCreated); got != 2 {
		t.Errorf("event created notifications = %d, want 2", got)
	}
	if got := rec.count(AggregateEvent, ChangeDeleted); got != 1 {
		t.Errorf("event deleted notifications = %d, want 1", got)
	}
}

func TestRegistrySubscriberMayReadBack(t *testing.T) {
	reg := NewRegistry(nil, nil, nil)
	ctx := context.Background()

	var seen string
	reg.Notifier().Subscribe(&funcSubscriber{fn: func(ctx context.Context, change Change) error {
		if change.Aggregate != AggregateMenu {
			return nil
		}
		m, err := reg.Menu(ctx, change.ID)
		if err != nil {
			return err
		}
		seen = m.Name
		return nil
	}})

	done := make(chan struct{})
	go func() {
		defer close(done)
		reg.CreateMenu(ctx, "Reentrant", "desc", "")
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("CreateMenu() deadlocked while a subscriber read the registry")
	}
	if seen != "Reentrant" {
		t.Errorf("subscriber read %q, want Reentrant", seen)
	}
}

func TestRegistryFailingSubscriberDoesNotFailMutation(t *testing.T) {
	reg := NewRegistry(nil, nil, nil)
	reg.Notifier().Subscribe(&funcSubscriber{fn: func(ctx context.Context, change Change) error {
		return errSubscriberFailed
	}})

	m, err := reg.CreateMenu(context.Background(), "Resilient", "desc", "")
	if err != nil {
		t.Fatalf("CreateMenu() error = %v", err)
	}
	if _, err := reg.Menu(context.Background(), m.ID); err != nil {
		t.Errorf("menu not stored: %v", err)
	}
}

func TestRegistryConcurrentMutations(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	m, sections := mustCreateMenu(t, reg, "Concurrent", "A", "B")
	recipe := mustCreateRecipe(t, reg, "Grissini")

	const workers, perWorker = 8, 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				reg.AddItemToSection(ctx, m.ID, sections[w%2].ID, recipe.ID)
				reg.Menus(ctx)
			}
		}(w)
	}
	wg.Wait()

	got, _ := reg.Menu(ctx, m.ID)
	if got.ItemCount() != workers*perWorker {
		t.Errorf("ItemCount() = %d, want %d", got.ItemCount(), workers*perWorker)
	}

	ids := make(map[string]bool)
	for _, s := range got.Sections {
		for _, it := range s.Items {
			if ids[it.ID] {
				t.Fatalf("duplicate item id %s", it.ID)
			}
			ids[it.ID] = true
		}
	}
}
