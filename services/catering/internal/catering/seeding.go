package catering

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/catering/pkg/enums/clienttype"
	"github.com/appetiteclub/catering/pkg/enums/eventtype"
	"github.com/appetiteclub/catering/pkg/enums/recipestatus"
)

const demoMenuName = "Wedding Menu"

type demoRecipe struct {
	Name        string
	Description string
	PrepTime    int
	Section     string
	Tags        []string
}

var demoRecipes = []demoRecipe{
	{Name: "Bruschetta", Description: "Grilled bread, tomato and basil", PrepTime: 15, Section: "Starters", Tags: []string{"vegetarian"}},
	{Name: "Risotto ai funghi", Description: "Carnaroli rice with porcini", PrepTime: 40, Section: "Mains", Tags: []string{"vegetarian", "gluten-free"}},
	{Name: "Tiramisu", Description: "Mascarpone, coffee and savoiardi", PrepTime: 30, Section: "Desserts", Tags: []string{"contains-eggs"}},
}

// SeedingFunc returns a start hook that loads the demo data when seed.demo is true.
func SeedingFunc(reg *Registry, config *apt.Config, logger apt.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		enabled := config.GetStringOrDef("seed.demo", "false")
		if enabled != "true" {
			return nil
		}
		logger.Info("Applying catering demo seeds...")
		if err := ApplyDemoSeeds(ctx, reg, logger); err != nil {
			return fmt.Errorf("apply demo seeds: %w", err)
		}
		logger.Info("Catering demo seeds applied successfully")
		return nil
	}
}

// ApplyDemoSeeds creates the wedding menu scenario. It is a no-op when a
// menu with the demo name already exists.
func ApplyDemoSeeds(ctx context.Context, reg *Registry, logger apt.Logger) error {
	for _, m := range reg.Menus(ctx) {
		if m.Name == demoMenuName {
			logger.Info("Demo menu already present", "menu_id", m.ID)
			return nil
		}
	}

	menu, err := reg.CreateMenu(ctx, demoMenuName, "Elegant", "")
	if err != nil {
		return fmt.Errorf("create demo menu: %w", err)
	}

	sectionIDs := make(map[string]string)
	for _, title := range []string{"Starters", "Mains", "Desserts"} {
		s, err := reg.AddSection(ctx, menu.ID, title)
		if err != nil {
			return fmt.Errorf("add section %s: %w", title, err)
		}
		sectionIDs[title] = s.ID
	}

	for _, dr := range demoRecipes {
		rec, err := reg.CreateRecipe(ctx, dr.Name, dr.Description, dr.PrepTime,
			recipestatus.Statuses.Published.Code(), "seed", WithTags(dr.Tags...))
		if err != nil {
			return fmt.Errorf("create recipe %s: %w", dr.Name, err)
		}
		if _, err := reg.AddItemToSection(ctx, menu.ID, sectionIDs[dr.Section], rec.ID); err != nil {
			return fmt.Errorf("add %s to %s: %w", dr.Name, dr.Section, err)
		}
	}

	client, err := reg.CreateClient(ctx, "Rossi family", clienttype.Types.Private.Code(), "rossi@example.com")
	if err != nil {
		return fmt.Errorf("create demo client: %w", err)
	}

	start := time.Now().AddDate(0, 1, 0).Truncate(24 * time.Hour).Add(17 * time.Hour)
	_, err = reg.CreateEvent(ctx, EventCreateRequest{
		Start:    start,
		End:      start.Add(6 * time.Hour),
		Location: "Villa Medici",
		Type:     eventtype.Types.Single.Code(),
		Notes:    "Menu: " + menu.ID,
		ClientID: client.ID,
		Services: []Service{{Name: "Waiting staff", Description: "8 waiters"}},
	})
	if err != nil {
		return fmt.Errorf("create demo event: %w", err)
	}

	return nil
}
