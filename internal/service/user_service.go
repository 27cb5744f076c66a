package service

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/storefront/pkg/er"
	"github.com/google/uuid"
)

type IUserService interface {
	CreateUser(ctx context.Context, email, password, name string) (*model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ResolveRole(ctx context.Context, userID uuid.UUID) (constants.RoleEnum, error)
	EnsureAdminUser(ctx context.Context, email, password, name string) error
}

type UserService struct {
	userRepo db.IUserRepository
}

func NewUserService(userRepo db.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) CreateUser(ctx context.Context, email, password, name string) (*model.User, error) {
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, er.Wrap(er.InternalErrorCode, "", err)
	}

	user := &model.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hashed,
		Name:           name,
		Role:           string(constants.RoleUser),
		IsActive:       true,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, mapDbErr(err, "email already registered")
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapDbErr(err, "user not found")
	}
	return user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, mapDbErr(err, "user not found")
	}
	return user, nil
}

// ResolveRole 解析使用者角色
// 查無使用者時回預設role user 這是刻意的預設值 不是錯誤吞掉
func (s *UserService) ResolveRole(ctx context.Context, userID uuid.UUID) (constants.RoleEnum, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return constants.RoleUser, nil
		}
		return constants.RoleUser, er.Wrap(er.InternalErrorCode, "", err)
	}
	if user.Role == string(constants.RoleAdmin) {
		return constants.RoleAdmin, nil
	}
	return constants.RoleUser, nil
}

// EnsureAdminUser 以seed方式建立admin帳號 冪等
// 取代寫死在程式碼裡的admin帳密捷徑
func (s *UserService) EnsureAdminUser(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		//未設定admin seed 跳過
		return nil
	}

	_, err := s.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return err
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}
	admin := &model.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hashed,
		Name:           name,
		Role:           string(constants.RoleAdmin),
		IsActive:       true,
	}
	err = s.userRepo.CreateUser(ctx, admin)
	if errors.Is(err, db.ErrDuplicate) {
		return nil
	}
	return err
}
