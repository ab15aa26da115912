package catering

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20

// HandlerDeps groups what the HTTP handler needs.
type HandlerDeps struct {
	Registry *Registry
	Links    Links
	Exporter *TextExporter
	Feed     *ChangeFeed
}

// Handler handles HTTP requests for the catering service
type Handler struct {
	registry *Registry
	links    Links
	exporter *TextExporter
	feed     *ChangeFeed
	logger   apt.Logger
	config   *apt.Config
	tlm      *telemetry.HTTP
}

// NewHandler creates a new Handler. A nil registry gets an empty one.
func NewHandler(deps HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	if deps.Registry == nil {
		deps.Registry = NewRegistry(nil, nil, logger)
	}
	if deps.Links.BaseURL == "" {
		deps.Links = NewLinks("")
	}
	if deps.Exporter == nil {
		deps.Exporter = NewTextExporter("", logger)
	}
	return &Handler{
		registry: deps.Registry,
		links:    deps.Links,
		exporter: deps.Exporter,
		feed:     deps.Feed,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
	}
}

// RegisterRoutes registers all routes for the catering service
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/catering", func(r chi.Router) {
		r.Route("/menus", func(r chi.Router) {
			r.Post("/", h.CreateMenu)
			r.Get("/", h.ListMenus)
			r.Get("/{id}", h.GetMenu)
			r.Delete("/{id}", h.DeleteMenu)
			r.Put("/{id}/name", h.RenameMenu)
			r.Post("/{id}/notes", h.AppendNote)
			r.Post("/{id}/sections", h.AddSection)
			r.Post("/{id}/sections/{sectionID}/items", h.AddItem)
			r.Put("/{id}/sections/{sectionID}/items/{itemID}", h.UpdateItem)
			r.Delete("/{id}/sections/{sectionID}/items/{itemID}", h.RemoveItem)
			r.Post("/{id}/moves", h.MoveItem)
			r.Get("/{id}/links", h.GetLinks)
			r.Post("/{id}/exports", h.ExportMenu)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Post("/", h.CreateRecipe)
			r.Get("/", h.ListRecipes)
			r.Get("/{id}", h.GetRecipe)
			r.Patch("/{id}", h.UpdateRecipe)
			r.Get("/{id}/menus", h.ListMenusUsingRecipe)
		})

		r.Route("/events", func(r chi.Router) {
			r.Post("/", h.CreateEvent)
			r.Get("/", h.ListEvents)
			r.Get("/{id}", h.GetEvent)
			r.Delete("/{id}", h.DeleteEvent)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Post("/", h.CreateClient)
			r.Get("/", h.ListClients)
			r.Get("/{id}", h.GetClient)
			r.Get("/{id}/events", h.ListClientEvents)
		})

		r.Get("/changes", h.ListChanges)
	})
}

// Menu handlers

// CreateMenu handles POST /catering/menus
func (h *Handler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateMenu")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var req MenuCreateRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	if validationErrors := ValidateCreateMenu(ctx, req); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	menu, err := h.registry.CreateMenu(ctx, req.Name, req.Description, req.Notes)
	if err != nil {
		h.respondRegistryError(w, log, err, "Could not create menu")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, menu, resourceLinks(menu)...)
}

// ListMenus handles GET /catering/menus
func (h *Handler) ListMenus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListMenus")
	defer finish()

	menus := h.registry.Menus(r.Context())
	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"menus": menus,
	}, nil)
}

// GetMenu handles GET /catering/menus/{id}
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetMenu")
	defer finish()
	log := h.log(r)

	menu, err := h.registry.Menu(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondRegistryError(w, log, err, "Menu not found")
		return
	}

	apt.RespondSuccess(w, menu, resourceLinks(menu)...)
}

// DeleteMenu handles DELETE /catering/menus/{id}
func (h *Handler) DeleteMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteMenu")
	defer finish()

	if !h.registry.DeleteMenu(r.Context(), chi.URLParam(r, "id")) {
		apt.RespondError(w, http.StatusNotFound, "Menu not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RenameMenu handles PUT /catering/menus/{id}/name
func (h *Handler) RenameMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RenameMenu")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var req MenuRenameRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	if !IsValidMenuName(req.Name) {
		h.respondValidationErrors(w, []ValidationError{{Field: "name", Message: "name must have at least 3 characters"}})
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.registry.RenameMenu(ctx, id, req.Name); err != nil {
		h.respondRegistryError(w, log, err, "Could not rename menu")
		return
	}

	h.respondMenu(w, r, log, id)
}

// AppendNote handles POST /catering/menus/{id}/notes
func (h *Handler) AppendNote(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AppendNote")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var req MenuNoteRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.registry.AppendNote(ctx, id, req.Note); err != nil {
		h.respondRegistryError(w, log, err, "Could not append note")
		return
	}

	h.respondMenu(w, r, log, id)
}

// AddSection handles POST /catering/menus/{id}/sections
func (h *Handler) AddSection(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddSection")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var req SectionCreateRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	if !IsValidDescription(req.Title) {
		h.respondValidationErrors(w, []ValidationError{{Field: "title", Message: "title is required"}})
		return
	}

	section, err := h.registry.AddSection(ctx, chi.URLParam(r, "id"), req.Title)
	if err != nil {
		h.respondRegistryError(w, log, err, "Could not add section")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, section)
}

// AddItem handles POST /catering/menus/{id}/sections/{sectionID}/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var req ItemCreateRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	item, err := h.registry.AddItemToSection(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "sectionID"), req.RecipeID)
	if err != nil {
		h.respondRegistryError(w, log, err, "Could not add item")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, item)
}

// UpdateItem handles PUT /catering/menus/{id}/sections/{sectionID}/items/{itemID}
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var req ItemUpdateRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	item, err := h.registry.UpdateItem(ctx,
		chi.URLParam(r, "id"), chi.URLParam(r, "sectionID"), chi.URLParam(r, "itemID"),
		req.Name, req.Note)
	if err != nil {
		h.respondRegistryError(w, log, err, "Could not update item")
		return
	}

	apt.RespondSuccess(w, item)
}

// RemoveItem handles DELETE /catering/menus/{id}/sections/{sectionID}/items/{itemID}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveItem")
	defer finish()
	log := h.log(r)

	err := h.registry.RemoveItem(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "sectionID"), chi.URLParam(r, "itemID"))
	if err != nil {
		h.respondRegistryError(w, log, err, "Could not remove item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MoveItem handles POST /catering/menus/{id}/moves
func (h *Handler) MoveItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MoveItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var req ItemMoveRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.registry.MoveItem(ctx, id, req.RecipeID, req.TargetSectionID); err != nil {
		h.respondRegistryError(w, log, err, "Could not move item")
		return
	}

	h.respondMenu(w, r, log, id)
}

// GetLinks handles GET /catering/menus/{id}/links
func (h *Handler) GetLinks(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetLinks")
	defer finish()
	log := h.log(r)

	menu, err := h.registry.Menu(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondRegistryError(w, log, err, "Menu not found")
		return
	}

	apt.RespondSuccess(w, map[string]string{
		"pdf":     h.links.PDF(menu.ID),
		"publish": h.links.Publish(menu.ID),
	})
}

// ExportMenu handles POST /catering/menus/{id}/exports
func (h *Handler) ExportMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ExportMenu")
	defer finish()
	log := h.log(r)

	menu, err := h.registry.Menu(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondRegistryError(w, log, err, "Menu not found")
		return
	}

	path, err := h.exporter.Export(menu)
	if err != nil {
		log.Error("cannot export menu", "error", err, "menu_id", menu.ID)
		apt.RespondError(w, http.StatusInternalServerError, "Could not export menu")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, map[string]string{"path": path})
}

// Recipe handlers

// CreateRecipe handles POST /catering/recipes
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateRecipe")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var req RecipeCreateRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	if validationErrors := ValidateCreateRecipe(ctx, req); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	recipe, err := h.registry.CreateRecipe(ctx, req.Name, req.Description, req.PreparationTime, req.Status, req.Author,
		WithIngredients(req.Ingredients...),
		WithSteps(req.Steps...),
		WithTags(req.Tags...))
	if err != nil {
		h.respondRegistryError(w, log, err, "Could not create recipe")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, recipe, resourceLinks(recipe)...)
}

// ListRecipes handles GET /catering/recipes
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListRecipes")
	defer finish()

	recipes := h.registry.Recipes(r.Context())
	if status := r.URL.Query().Get("status"); status != "" {
		filtered := make([]*Recipe, 0, len(recipes))
		for _, rec := range recipes {
			if rec.Status == status {
				filtered = append(filtered, rec)
			}
		}
		recipes = filtered
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"recipes": recipes,
	}, nil)
}

// GetRecipe handles GET /catering/recipes/{id}
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetRecipe")
	defer finish()
	log := h.log(r)

	recipe, err := h.registry.Recipe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondRegistryError(w, log, err, "Recipe not found")
		return
	}

	apt.RespondSuccess(w, recipe, resourceLinks(recipe)...)
}

// UpdateRecipe handles PATCH /catering/recipes/{id}
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateRecipe")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var req RecipeUpdateRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	if validationErrors := ValidateUpdateRecipe(ctx, req); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	recipe, err := h.registry.UpdateRecipe(ctx, chi.URLParam(r, "id"), func(rec *Recipe) error {
		if req.Description != nil {
			rec.Description = *req.Description
		}
		if req.PreparationTime != nil {
			rec.PreparationTime = *req.PreparationTime
		}
		if req.Status != nil {
			rec.Status = *req.Status
		}
		for _, d := range req.AddIngredients {
			rec.AddIngredient(d.Name, d.Quantity, d.Unit)
		}
		for _, s := range req.AddSteps {
			rec.AddStep(s)
		}
		for _, t := range req.AddTags {
			rec.AddTag(t)
		}
		for _, t := range req.RemoveTags {
			rec.RemoveTag(t)
		}
		return nil
	})
	if err != nil {
		h.respondRegistryError(w, log, err, "Could not update recipe")
		return
	}

	apt.RespondSuccess(w, recipe, resourceLinks(recipe)...)
}

// ListMenusUsingRecipe handles GET /catering/recipes/{id}/menus
func (h *Handler) ListMenusUsingRecipe(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListMenusUsingRecipe")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	if _, err := h.registry.Recipe(ctx, id); err != nil {
		h.respondRegistryError(w, log, err, "Recipe not found")
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"menus": h.registry.MenusUsingRecipe(ctx, id),
	}, nil)
}

// Event handlers

// CreateEvent handles POST /catering/events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateEvent")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var req EventCreateRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	if validationErrors := ValidateCreateEvent(ctx, req); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	evt, err := h.registry.CreateEvent(ctx, req)
	if err != nil {
		h.respondRegistryError(w, log, err, "Could not create event")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, evt, resourceLinks(evt)...)
}

// ListEvents handles GET /catering/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListEvents")
	defer finish()

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"events": h.registry.Events(r.Context()),
	}, nil)
}

// GetEvent handles GET /catering/events/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetEvent")
	defer finish()
	log := h.log(r)

	evt, err := h.registry.Event(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondRegistryError(w, log, err, "Event not found")
		return
	}

	apt.RespondSuccess(w, evt, resourceLinks(evt)...)
}

// DeleteEvent handles DELETE /catering/events/{id}
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteEvent")
	defer finish()

	if !h.registry.DeleteEvent(r.Context(), chi.URLParam(r, "id")) {
		apt.RespondError(w, http.StatusNotFound, "Event not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Client handlers

// CreateClient handles POST /catering/clients
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateClient")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var req ClientCreateRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	if validationErrors := ValidateCreateClient(ctx, req); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	client, err := h.registry.CreateClient(ctx, req.Name, req.Type, req.Contact)
	if err != nil {
		h.respondRegistryError(w, log, err, "Could not create client")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, client, resourceLinks(client)...)
}

// ListClients handles GET /catering/clients
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListClients")
	defer finish()

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"clients": h.registry.Clients(r.Context()),
	}, nil)
}

// GetClient handles GET /catering/clients/{id}
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetClient")
	defer finish()
	log := h.log(r)

	client, err := h.registry.Client(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondRegistryError(w, log, err, "Client not found")
		return
	}

	apt.RespondSuccess(w, client, resourceLinks(client)...)
}

// ListClientEvents handles GET /catering/clients/{id}/events
func (h *Handler) ListClientEvents(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListClientEvents")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	if _, err := h.registry.Client(ctx, id); err != nil {
		h.respondRegistryError(w, log, err, "Client not found")
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"events": h.registry.EventsForClient(ctx, id),
	}, nil)
}

// ListChanges handles GET /catering/changes
func (h *Handler) ListChanges(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListChanges")
	defer finish()

	if h.feed == nil {
		apt.RespondError(w, http.StatusServiceUnavailable, "Change feed disabled")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			apt.RespondError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"changes": h.feed.Recent(limit),
	}, nil)
}

// Helper methods

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

func (h *Handler) respondMenu(w http.ResponseWriter, r *http.Request, log apt.Logger, id string) {
	menu, err := h.registry.Menu(r.Context(), id)
	if err != nil {
		h.respondRegistryError(w, log, err, "Menu not found")
		return
	}
	apt.RespondSuccess(w, menu, resourceLinks(menu)...)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log apt.Logger, target interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}

	if err := json.Unmarshal(body, target); err != nil {
		log.Debug("error decoding JSON", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}

	return true
}

func (h *Handler) respondRegistryError(w http.ResponseWriter, log apt.Logger, err error, msg string) {
	switch {
	case IsNotFound(err):
		log.Debug("not found", "error", err)
		apt.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidInput):
		log.Debug("invalid input", "error", err)
		apt.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error(msg, "error", err)
		apt.RespondError(w, http.StatusInternalServerError, msg)
	}
}

func (h *Handler) respondValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "Validation failed",
		"errors": errors,
	})
}
