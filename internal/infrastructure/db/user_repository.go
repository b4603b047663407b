package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-manager/internal/domain/entities"
	"task-manager/internal/domain/repositories"
)

type UserRepository struct {
	db         *gorm.DB
	bcryptCost int
}

func NewUserRepository(db *gorm.DB, bcryptCost int) repositories.UserRepository {
	return &UserRepository{db: db, bcryptCost: bcryptCost}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error) {
	userEntity := user.GetUser()

	// Hash password before saving
	if err := userEntity.HashPassword(r.bcryptCost); err != nil {
		return nil, err
	}

	userModel := toUserModel(userEntity)
	if err := r.db.WithContext(ctx).Create(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, repositories.ErrDuplicateEmail
		}
		return nil, err
	}

	return r.FindById(ctx, userEntity.Id)
}

func (r *UserRepository) FindById(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var userModel UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}

	return r.mapToEntity(&userModel), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	var userModel UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}

	return r.mapToEntity(&userModel), nil
}

func (r *UserRepository) Update(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error) {
	userEntity := user.GetUser()

	// Compare against the previously stored value so the password is hashed
	// exactly once per actual change and never re-hashed on unrelated updates.
	var stored UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", userEntity.Id).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	if userEntity.Password != stored.Password {
		if err := userEntity.HashPassword(r.bcryptCost); err != nil {
			return nil, err
		}
	}

	userModel := toUserModel(userEntity)
	if err := r.db.WithContext(ctx).Save(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, repositories.ErrDuplicateEmail
		}
		return nil, err
	}

	return r.FindById(ctx, userEntity.Id)
}

// Delete removes the user's tasks and then the user inside one transaction,
// so a task can never outlive its owner.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&TaskModel{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&UserModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return nil
	})
}

func toUserModel(userEntity *entities.User) UserModel {
	return UserModel{
		Id:        userEntity.Id,
		CreatedAt: userEntity.CreatedAt,
		UpdatedAt: userEntity.UpdatedAt,
		Name:      userEntity.Name,
		Email:     userEntity.Email,
		Password:  userEntity.Password,
		Age:       userEntity.Age,
		Tokens:    TokenList(userEntity.Tokens),
		Avatar:    userEntity.Avatar,
	}
}

func (r *UserRepository) mapToEntity(userModel *UserModel) *entities.User {
	return &entities.User{
		Id:        userModel.Id,
		CreatedAt: userModel.CreatedAt,
		UpdatedAt: userModel.UpdatedAt,
		Name:      userModel.Name,
		Email:     userModel.Email,
		Password:  userModel.Password,
		Age:       userModel.Age,
		Tokens:    []string(userModel.Tokens),
		Avatar:    userModel.Avatar,
	}
}
