package dto

import "github.com/Fanyuxuan0817/StudySync/internal/domain/models"

type RegisterRequest struct {
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
