package query

import (
	"context"
	"fmt"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/catalog"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET RESOURCES QUERY
// Ресурсы программы пользователя с признаками закрепления и посещения.
// Закреплённые идут первыми. Пока куратор ничего не менял, действует
// закрепление по умолчанию из каталога.
// ══════════════════════════════════════════════════════════════════════════════

// GetResourcesQuery contains the resource listing request.
type GetResourcesQuery struct{}

// ResourceView is one resource card.
type ResourceView struct {
	catalog.Resource

	// Pinned is the effective pinned state.
	Pinned bool `json:"pinned"`

	// Visited is true when the user opened the resource at least once.
	Visited bool `json:"visited"`
}

// GetResourcesResult contains the resource cards, pinned first.
type GetResourcesResult struct {
	Resources []ResourceView `json:"resources"`
}

// GetResourcesHandler handles the GetResourcesQuery.
type GetResourcesHandler struct {
	store progression.Store
}

// NewGetResourcesHandler creates a new GetResourcesHandler.
func NewGetResourcesHandler(store progression.Store) *GetResourcesHandler {
	return &GetResourcesHandler{store: store}
}

// Handle executes the resources query.
func (h *GetResourcesHandler) Handle(ctx context.Context, _ GetResourcesQuery) (*GetResourcesResult, error) {
	record, err := h.store.LoadRecord(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_resources: load record: %w", err)
	}

	pinned, err := h.store.PinnedResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_resources: load pinned set: %w", err)
	}

	isPinned := func(res catalog.Resource) bool {
		// An empty stored set means the curator never touched the pins.
		if len(pinned) == 0 {
			return res.DefaultPinned
		}
		return pinned.Contains(res.ID)
	}

	resources := catalog.ResourcesForProgram(record.Program)

	result := &GetResourcesResult{Resources: make([]ResourceView, 0, len(resources))}
	for _, res := range resources {
		if !isPinned(res) {
			continue
		}
		result.Resources = append(result.Resources, ResourceView{
			Resource: res,
			Pinned:   true,
			Visited:  record.HasAccessedResource(res.ID),
		})
	}
	for _, res := range resources {
		if isPinned(res) {
			continue
		}
		result.Resources = append(result.Resources, ResourceView{
			Resource: res,
			Pinned:   false,
			Visited:  record.HasAccessedResource(res.ID),
		})
	}

	return result, nil
}
