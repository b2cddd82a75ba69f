package webhook

import (
	"sort"
	"sync"

	"github.com/dukex/operion-betterstack/pkg/sources/webhook/models"
)

// WebhookStore keeps the registered webhook sources.
type WebhookStore interface {
	SaveWebhookSource(source *models.WebhookSource) error
	WebhookSourceByExternalID(externalID string) (*models.WebhookSource, error)
	WebhookSourceBySourceID(sourceID string) (*models.WebhookSource, error)
	WebhookSources() ([]*models.WebhookSource, error)
	DeleteWebhookSource(sourceID string) error
}

// MemoryStore is a WebhookStore living for the life of the process. Lookups
// of unknown sources return nil without an error.
type MemoryStore struct {
	mu         sync.RWMutex
	bySourceID map[string]*models.WebhookSource
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bySourceID: make(map[string]*models.WebhookSource)}
}

func (m *MemoryStore) SaveWebhookSource(source *models.WebhookSource) error {
	if err := source.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.bySourceID[source.ID] = source

	return nil
}

func (m *MemoryStore) WebhookSourceByExternalID(externalID string) (*models.WebhookSource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, source := range m.bySourceID {
		if source.ExternalID.String() == externalID {
			return source, nil
		}
	}

	return nil, nil
}

func (m *MemoryStore) WebhookSourceBySourceID(sourceID string) (*models.WebhookSource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.bySourceID[sourceID], nil
}

// WebhookSources returns every source ordered by source ID.
func (m *MemoryStore) WebhookSources() ([]*models.WebhookSource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sources := make([]*models.WebhookSource, 0, len(m.bySourceID))
	for _, source := range m.bySourceID {
		sources = append(sources, source)
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].ID < sources[j].ID
	})

	return sources, nil
}

func (m *MemoryStore) DeleteWebhookSource(sourceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.bySourceID, sourceID)

	return nil
}
