package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/polly-storefront/internal/admins"
	"github.com/angelmondragon/polly-storefront/pkg/config"
	"github.com/angelmondragon/polly-storefront/pkg/db"
	"github.com/angelmondragon/polly-storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
	"github.com/angelmondragon/polly-storefront/pkg/security"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))
	return conn
}

func newRegisterService(t *testing.T, conn *gorm.DB) RegisterService {
	t.Helper()
	svc, err := NewRegisterService(RegisterServiceParams{
		AdminRepo: admins.NewRepository(conn),
		Hasher:    security.NewHasher(config.PasswordConfig{}),
	})
	require.NoError(t, err)
	return svc
}

func newProfileService(t *testing.T, conn *gorm.DB) ProfileService {
	t.Helper()
	svc, err := NewProfileService(ProfileServiceParams{
		DB:     db.FromConn(conn),
		Hasher: security.NewHasher(config.PasswordConfig{}),
	})
	require.NoError(t, err)
	return svc
}

func TestRegisterDefaultsCompanyAndRejectsDuplicates(t *testing.T) {
	conn := openTestDB(t)
	svc := newRegisterService(t, conn)
	ctx := context.Background()

	admin, err := svc.Register(ctx, RegisterRequest{Name: "Ana", Email: "Ana@Polly.com", Password: "segredo"})
	require.NoError(t, err)
	assert.Equal(t, "ana@polly.com", admin.Email)
	assert.Equal(t, DefaultCompanyName, admin.CompanyName)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Outra", Email: "ana@polly.com", Password: "segredo"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	stored, err := admins.NewRepository(conn).FindByEmail(ctx, "ana@polly.com")
	require.NoError(t, err)
	assert.NotEqual(t, "segredo", stored.PasswordHash)
}

func TestProfileUpdate(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	created, err := newRegisterService(t, conn).Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@polly.com", Password: "antiga", CompanyName: "Loja Ana"})
	require.NoError(t, err)
	_, err = newRegisterService(t, conn).Register(ctx, RegisterRequest{Name: "Bia", Email: "bia@polly.com", Password: "outra1"})
	require.NoError(t, err)
	svc := newProfileService(t, conn)

	name := "Ana Paula"
	updated, err := svc.Update(ctx, created.ID, UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", updated.Name)
	assert.Equal(t, "Loja Ana", updated.CompanyName)

	newPassword := "nova-senha"
	_, err = svc.Update(ctx, created.ID, UpdateProfileRequest{NewPassword: &newPassword})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	wrong := "errada"
	_, err = svc.Update(ctx, created.ID, UpdateProfileRequest{NewPassword: &newPassword, CurrentPassword: &wrong})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	current := "antiga"
	_, err = svc.Update(ctx, created.ID, UpdateProfileRequest{NewPassword: &newPassword, CurrentPassword: &current})
	require.NoError(t, err)

	stored, err := admins.NewRepository(conn).FindByID(ctx, created.ID)
	require.NoError(t, err)
	ok, err := security.NewHasher(config.PasswordConfig{}).Verify(newPassword, stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	taken := "bia@polly.com"
	_, err = svc.Update(ctx, created.ID, UpdateProfileRequest{Email: &taken})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestProfileDeleteRemovesProducts(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	owner, err := newRegisterService(t, conn).Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@polly.com", Password: "segredo"})
	require.NoError(t, err)
	other, err := newRegisterService(t, conn).Register(ctx, RegisterRequest{Name: "Bia", Email: "bia@polly.com", Password: "segredo"})
	require.NoError(t, err)

	for _, adminID := range []uuid.UUID{owner.ID, owner.ID, other.ID} {
		p := &models.Product{AdminID: adminID, Name: "P", Category: "X", Price: decimal.NewFromInt(1)}
		require.NoError(t, conn.Create(p).Error)
	}

	svc := newProfileService(t, conn)
	require.NoError(t, svc.Delete(ctx, owner.ID))

	_, err = svc.Get(ctx, owner.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	var remaining []models.Product
	require.NoError(t, conn.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, other.ID, remaining[0].AdminID)

	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, owner.ID), pkgerrors.CodeNotFound))
}
