package services

import (
	"fmt"
	"strings"
	"testing"

	"easybuk_backend/internal/logger"
	"easybuk_backend/internal/models"
	"easybuk_backend/internal/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Init("test")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.ServiceProvider{},
		&models.Admin{},
		&models.Booking{},
		&models.PaymentTransaction{},
		&models.Dispute{},
		&models.Notification{},
	))
	return db
}

type testFixture struct {
	db               *gorm.DB
	userRepo         repositories.UserRepository
	entityRepo       repositories.EntityRepository
	bookingRepo      repositories.BookingRepository
	paymentRepo      repositories.PaymentRepository
	disputeRepo      repositories.DisputeRepository
	notificationRepo repositories.NotificationRepository
	resolver         EntityResolver
	notifications    NotificationService
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()
	db := newTestDB(t)

	entityRepo := repositories.NewEntityRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	resolver := NewEntityResolver(entityRepo)

	return &testFixture{
		db:               db,
		userRepo:         repositories.NewUserRepository(db),
		entityRepo:       entityRepo,
		bookingRepo:      repositories.NewBookingRepository(db),
		paymentRepo:      repositories.NewPaymentRepository(db),
		disputeRepo:      repositories.NewDisputeRepository(db),
		notificationRepo: notificationRepo,
		resolver:         resolver,
		notifications:    NewNotificationService(notificationRepo, resolver),
	}
}

// seedClient creates an account with a linked client record and returns
// (accountID, clientEntityID).
func (f *testFixture) seedClient(t *testing.T, email, name string) (string, string) {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Role:         models.UserRoleClient,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, f.db.Create(user).Error)

	client := &models.Client{UserID: user.ID, Name: name}
	require.NoError(t, f.db.Create(client).Error)
	return user.ID, client.ID
}

// seedProvider creates an account with a linked provider record and returns
// (accountID, providerEntityID).
func (f *testFixture) seedProvider(t *testing.T, email, name, category string) (string, string) {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Role:         models.UserRoleProvider,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, f.db.Create(user).Error)

	provider := &models.ServiceProvider{UserID: user.ID, Name: name, Category: category}
	require.NoError(t, f.db.Create(provider).Error)
	return user.ID, provider.ID
}

func (f *testFixture) seedAdmin(t *testing.T, email, name string) (string, string) {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, f.db.Create(user).Error)

	admin := &models.Admin{UserID: user.ID, Name: name}
	require.NoError(t, f.entityRepo.CreateAdmin(admin))
	return user.ID, admin.ID
}

func (f *testFixture) notificationsFor(t *testing.T, entityID string) []models.Notification {
	t.Helper()
	var rows []models.Notification
	require.NoError(t, f.db.Where("user_id = ?", entityID).Order("created_at DESC").Find(&rows).Error)
	return rows
}
