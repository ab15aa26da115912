package catering

import (
	"context"
	"testing"

	"github.com/appetiteclub/apt"
)

func TestApplyDemoSeeds(t *testing.T) {
	reg := NewRegistry(nil, nil, nil)
	ctx := context.Background()

	if err := ApplyDemoSeeds(ctx, reg, apt.NewNoopLogger()); err != nil {
		t.Fatalf("ApplyDemoSeeds() error = %v", err)
	}

	menus := reg.Menus(ctx)
	if len(menus) != 1 {
		t.Fatalf("menus = %d, want 1", len(menus))
	}
	m := menus[0]
	if m.Name != "Wedding Menu" || m.Description != "Elegant" {
		t.Errorf("menu = %q/%q, want Wedding Menu/Elegant", m.Name, m.Description)
	}
	if !IsValidMenu(m) {
		t.Error("seeded menu is not valid")
	}
	if len(m.Sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(m.Sections))
	}

	desserts, ok := m.SectionByTitle("Desserts")
	if !ok {
		t.Fatal("Desserts section missing")
	}
	if len(desserts.Items) != 1 || desserts.Items[0].Name != "Tiramisu" {
		t.Errorf("Desserts items = %+v, want one Tiramisu", desserts.Items)
	}

	tiramisu, err := reg.Recipe(ctx, desserts.Items[0].RecipeID)
	if err != nil {
		t.Fatalf("Recipe() error = %v", err)
	}
	if !tiramisu.Published() || tiramisu.PreparationTime != 30 {
		t.Errorf("Tiramisu = %+v, want published with 30 minutes", tiramisu)
	}

	clients := reg.Clients(ctx)
	if len(clients) != 1 {
		t.Fatalf("clients = %d, want 1", len(clients))
	}
	if events := reg.EventsForClient(ctx, clients[0].ID); len(events) != 1 {
		t.Errorf("client events = %d, want 1", len(events))
	}
}

func TestApplyDemoSeedsIdempotent(t *testing.T) {
	reg := NewRegistry(nil, nil, nil)
	ctx := context.Background()
	logger := apt.NewNoopLogger()

	for i := 0; i < 2; i++ {
		if err := ApplyDemoSeeds(ctx, reg, logger); err != nil {
			t.Fatalf("ApplyDemoSeeds() run %d error = %v", i, err)
		}
	}

	if got := len(reg.Menus(ctx)); got != 1 {
		t.Errorf("menus = %d, want 1", got)
	}
	if got := len(reg.Recipes(ctx)); got != len(demoRecipes) {
		t.Errorf("recipes = %d, want %d", got, len(demoRecipes))
	}
}

func TestSeedingFuncDisabledByDefault(t *testing.T) {
	reg := NewRegistry(nil, nil, nil)
	start := SeedingFunc(reg, apt.NewConfig(), apt.NewNoopLogger())

	if err := start(context.Background()); err != nil {
		t.Fatalf("seeding hook error = %v", err)
	}
	if got := len(reg.Menus(context.Background())); got != 0 {
		t.Errorf("menus = %d, want 0 when seed.demo is unset", got)
	}
}
