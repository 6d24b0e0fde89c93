package repositories

import (
	"errors"

	"easybuk_backend/internal/models"

	"gorm.io/gorm"
)

var ErrEntityNotFound = errors.New("domain entity not found")

// EntityRepository holds the profile-link lookups the entity resolver walks:
// account id -> Client / ServiceProvider / Admin record.
type EntityRepository interface {
	FindClientByUserID(userID string) (*models.Client, error)
	FindProviderByUserID(userID string) (*models.ServiceProvider, error)
	FindAdminByUserID(userID string) (*models.Admin, error)

	FindClientByID(id string) (*models.Client, error)
	FindProviderByID(id string) (*models.ServiceProvider, error)

	CreateClient(client *models.Client) error
	CreateProvider(provider *models.ServiceProvider) error
	CreateAdmin(admin *models.Admin) error

	FindProvidersByCategory(category string, limit, offset int) ([]models.ServiceProvider, int64, error)
}

type EntityRepositoryImpl struct {
	db *gorm.DB
}

func NewEntityRepository(db *gorm.DB) EntityRepository {
	return &EntityRepositoryImpl{db: db}
}

func (r *EntityRepositoryImpl) FindClientByUserID(userID string) (*models.Client, error) {
	var client models.Client
	err := r.db.First(&client, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *EntityRepositoryImpl) FindProviderByUserID(userID string) (*models.ServiceProvider, error) {
	var provider models.ServiceProvider
	err := r.db.First(&provider, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}
	return &provider, nil
}

func (r *EntityRepositoryImpl) FindAdminByUserID(userID string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.First(&admin, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *EntityRepositoryImpl) FindClientByID(id string) (*models.Client, error) {
	var client models.Client
	err := r.db.First(&client, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *EntityRepositoryImpl) FindProviderByID(id string) (*models.ServiceProvider, error) {
	var provider models.ServiceProvider
	err := r.db.First(&provider, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}
	return &provider, nil
}

func (r *EntityRepositoryImpl) CreateClient(client *models.Client) error {
	return r.db.Create(client).Error
}

func (r *EntityRepositoryImpl) CreateProvider(provider *models.ServiceProvider) error {
	return r.db.Create(provider).Error
}

func (r *EntityRepositoryImpl) CreateAdmin(admin *models.Admin) error {
	return r.db.Create(admin).Error
}

func (r *EntityRepositoryImpl) FindProvidersByCategory(category string, limit, offset int) ([]models.ServiceProvider, int64, error) {
	var providers []models.ServiceProvider
	var total int64

	query := r.db.Model(&models.ServiceProvider{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("rating DESC").Limit(limit).Offset(offset).Find(&providers).Error
	if err != nil {
		return nil, 0, err
	}
	return providers, total, nil
}
