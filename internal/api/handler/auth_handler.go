package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

type AuthHandler struct {
	authService service.IAuthService
}

func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	return &AuthHandler{
		authService: authService,
	}
}

// @Summary register
// @Tags auth
// @Accept json
// @Produce json
// @Param registerInfo body dto.RegisterDTO true "email, password and name"
// @Success 200 {object} api.Response{data=dto.LoginResponse} "success"
// @Failure 409 {object} api.ResponseError "ConflictCode"
// @Router /auth/register [post]
func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var registerDTO dto.RegisterDTO
	if err := decodeJSON(r, &registerDTO); err != nil {
		api.ErrorJSON(w, err)
		return
	}

	ctx := r.Context()

	loginRes, err := a.authService.Register(ctx, registerDTO.Email, registerDTO.Password, registerDTO.Name)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, convertLoginResult(loginRes), nil)
}

// @Summary email and password login
// @Tags auth
// @Accept json
// @Produce json
// @Param loginInfo body dto.LoginDTO true "email and password"
// @Success 200 {object} api.Response{data=dto.LoginResponse} "success"
// @Failure 401 {object} api.ResponseError "UnauthenticatedCode"
// @Router /auth/login [post]
func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginDTO dto.LoginDTO
	if err := decodeJSON(r, &loginDTO); err != nil {
		api.ErrorJSON(w, err)
		return
	}

	ctx := r.Context()

	loginRes, err := a.authService.Login(ctx, loginDTO.Email, loginDTO.Password)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, convertLoginResult(loginRes), nil)
}

// @Summary forgot password
// @Tags auth
// @Accept json
// @Produce json
// @Param email body dto.ForgotPasswordDTO true "email"
// @Success 200 {object} api.Response "success"
// @Router /auth/forgot-password [post]
func (a *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var forgotDTO dto.ForgotPasswordDTO
	if err := decodeJSON(r, &forgotDTO); err != nil {
		api.ErrorJSON(w, err)
		return
	}

	if err := a.authService.ForgotPassword(r.Context(), forgotDTO.Email); err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, nil, nil)
}

// @Summary current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=dto.UserDTO} "success"
// @Failure 401 {object} api.ResponseError "UnauthenticatedCode"
// @Router /auth/me [get]
func (a *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	user, err := a.authService.Me(r.Context(), actor.UserID)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, convertUserModelToDTO(user), nil)
}

// @Summary logout
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response "success"
// @Router /auth/logout [post]
// token為無狀態paseto 登出由client丟棄token即可 server端不留session
func (a *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := actorFromContext(r.Context()); err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, nil, nil)
}

func convertUserModelToDTO(user *model.User) dto.UserDTO {
	return dto.UserDTO{
		ID:       user.ID.String(),
		Email:    user.Email,
		Name:     user.Name,
		Role:     user.Role,
		IsActive: user.IsActive,
	}
}

func convertLoginResult(loginRes *service.LoginResult) dto.LoginResponse {
	return dto.LoginResponse{
		AccessToken: dto.TokenInfo{
			Value:     loginRes.AccessToken,
			ExpiresIn: int(constants.AccessTokenDuration) * 3600,
		},
		User: convertUserModelToDTO(loginRes.User),
	}
}
