package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/vsrunapp/vsrun-server/internal/config"
	"github.com/vsrunapp/vsrun-server/internal/logger"
	"github.com/vsrunapp/vsrun-server/internal/search"
	"github.com/vsrunapp/vsrun-server/internal/service"
)

// SearchIndexHandle wraps the bleve index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the profile search index and wires it
// into the store so profile writes keep the index current.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	index, err := search.NewIndex(cfg.Data.BasePath, log.Logger)
	if err != nil {
		return nil, err
	}
	storeHandle.SetSearchIndexer(index)

	return &SearchIndexHandle{Index: index}, nil
}

// ProvideSearchService provides the directory search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)

	return service.NewSearchService(context.Background(), storeHandle.Store, indexHandle.Index, log.Logger)
}
