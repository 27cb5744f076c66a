package dto

type RegisterDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordDTO struct {
	Email string `json:"email" validate:"required,email"`
}

// TokenInfo 表示令牌資訊
type TokenInfo struct {
	Value     string `json:"value"`
	ExpiresIn int    `json:"expires_in"`
}

// UserDTO 表示用戶資訊
type UserDTO struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// LoginResponse 表示登入響應的完整結構
type LoginResponse struct {
	AccessToken TokenInfo `json:"access_token"`
	User        UserDTO   `json:"user"`
}
