package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// firstUserLock é a chave do advisory lock que serializa o cadastro do
// primeiro administrador.
const firstUserLock = 7_310_001

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) FindUserByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, account.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateFirstUser: contagem e inserção na mesma transação, depois do
// pg_advisory_xact_lock. O segundo cadastro espera o primeiro terminar e
// já enxerga o usuário criado.
func (r *UserGormRepository) CreateFirstUser(
	ctx context.Context,
	user *models.User,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`SELECT pg_advisory_xact_lock(?)`, firstUserLock).Error; err != nil {
			return fmt.Errorf("lock users: %w", err)
		}

		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if count > 0 {
			return account.ErrRegistrationClosed
		}

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
}

// Compile-time check
var _ account.Repository = (*UserGormRepository)(nil)
