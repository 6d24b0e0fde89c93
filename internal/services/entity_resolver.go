package services

import (
	"sync"

	"easybuk_backend/internal/logger"
	"easybuk_backend/internal/models"
	"easybuk_backend/internal/repositories"
)

// Resolution is the tagged result of an entity lookup. A zero Resolved flag
// means the profile chain was missing or the lookup failed; callers decide
// whether to degrade or skip, the resolver never reports an error.
type Resolution struct {
	EntityID string
	Resolved bool
}

// EntityResolver maps an account id plus role to the domain-entity id
// (Client / ServiceProvider / Admin) notifications are filed under.
type EntityResolver interface {
	Resolve(accountID string, role models.UserRole) Resolution
	// ResolveAll looks up every role concurrently and returns the entity ids
	// that resolved. An account usually holds one role; the result order is
	// CLIENT, PROVIDER, ADMIN with unresolved roles omitted.
	ResolveAll(accountID string) []string
}

type entityResolver struct {
	entityRepo repositories.EntityRepository
}

func NewEntityResolver(entityRepo repositories.EntityRepository) EntityResolver {
	return &entityResolver{entityRepo: entityRepo}
}

func (r *entityResolver) Resolve(accountID string, role models.UserRole) Resolution {
	if accountID == "" {
		return Resolution{}
	}

	var entityID string
	var err error

	switch role {
	case models.UserRoleClient:
		var client *models.Client
		if client, err = r.entityRepo.FindClientByUserID(accountID); err == nil {
			entityID = client.ID
		}
	case models.UserRoleProvider:
		var provider *models.ServiceProvider
		if provider, err = r.entityRepo.FindProviderByUserID(accountID); err == nil {
			entityID = provider.ID
		}
	case models.UserRoleAdmin:
		var admin *models.Admin
		if admin, err = r.entityRepo.FindAdminByUserID(accountID); err == nil {
			entityID = admin.ID
		}
	default:
		logger.Warn("entity resolution for unknown role", "role", string(role))
		return Resolution{}
	}

	if err != nil {
		// Missing link records are routine (an account holds one role);
		// anything else still degrades to unresolved rather than failing
		// the caller.
		if err != repositories.ErrEntityNotFound {
			logger.WithError(err).Warn("entity lookup failed",
				"account_id", accountID,
				"role", string(role),
			)
		}
		return Resolution{}
	}

	return Resolution{EntityID: entityID, Resolved: true}
}

func (r *entityResolver) ResolveAll(accountID string) []string {
	roles := []models.UserRole{
		models.UserRoleClient,
		models.UserRoleProvider,
		models.UserRoleAdmin,
	}

	results := make([]Resolution, len(roles))
	var wg sync.WaitGroup
	for i, role := range roles {
		wg.Add(1)
		go func(i int, role models.UserRole) {
			defer wg.Done()
			results[i] = r.Resolve(accountID, role)
		}(i, role)
	}
	wg.Wait()

	var entityIDs []string
	for _, res := range results {
		if res.Resolved {
			entityIDs = append(entityIDs, res.EntityID)
		}
	}
	return entityIDs
}
