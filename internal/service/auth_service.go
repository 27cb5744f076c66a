package service

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/integrations"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/token"
	"github.com/RoyceAzure/lab/storefront/pkg/er"
	"github.com/google/uuid"
)

type LoginResult struct {
	User        *model.User
	AccessToken string
	Payload     *token.Payload
}

type IAuthService interface {
	Register(ctx context.Context, email, password, name string) (*LoginResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
	ForgotPassword(ctx context.Context, email string) error
}

type AuthService struct {
	userService IUserService
	tokenMaker  token.Maker
	mailer      integrations.Mailer
}

func NewAuthService(userService IUserService, tokenMaker token.Maker, mailer integrations.Mailer) *AuthService {
	if userService == nil || tokenMaker == nil {
		panic("userService and tokenMaker cannot be nil")
	}
	return &AuthService{
		userService: userService,
		tokenMaker:  tokenMaker,
		mailer:      mailer,
	}
}

func (a *AuthService) Register(ctx context.Context, email, password, name string) (*LoginResult, error) {
	user, err := a.userService.CreateUser(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	return a.issueToken(user)
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := a.userService.GetUserByEmail(ctx, email)
	if err != nil {
		//不暴露帳號是否存在
		if er.CodeOf(err) == er.NotFoundCode {
			return nil, er.New(er.UnauthenticatedCode, "invalid email or password")
		}
		return nil, err
	}

	if err := checkPassword(password, user.HashedPassword); err != nil {
		return nil, er.New(er.UnauthenticatedCode, "invalid email or password")
	}

	if !user.IsActive {
		return nil, er.New(er.UnauthorizedCode, "account is disabled")
	}

	return a.issueToken(user)
}

func (a *AuthService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return a.userService.GetUserByID(ctx, userID)
}

// ForgotPassword 一律回成功 不暴露帳號是否存在
func (a *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := a.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if er.CodeOf(err) == er.NotFoundCode {
			return nil
		}
		return err
	}

	resetToken := uuid.New().String()
	if a.mailer != nil {
		if err := a.mailer.SendPasswordReset(ctx, user.Email, resetToken); err != nil {
			return er.Wrap(er.UpstreamErrorCode, "failed to send reset mail", err)
		}
	}
	return nil
}

func (a *AuthService) issueToken(user *model.User) (*LoginResult, error) {
	duration := time.Duration(constants.AccessTokenDuration) * time.Hour
	accessToken, payload, err := a.tokenMaker.CreateToken(user.ID, user.Email, duration)
	if err != nil {
		return nil, er.Wrap(er.InternalErrorCode, "failed to create access token", err)
	}
	return &LoginResult{
		User:        user,
		AccessToken: accessToken,
		Payload:     payload,
	}, nil
}
