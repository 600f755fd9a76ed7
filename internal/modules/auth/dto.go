package auth

import "manvan/internal/storage"

type RegisterRequest struct {
	Username   string `json:"username" binding:"required,min=3,max=50"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6,max=72,maxbytes=72"`
	FullName   string `json:"fullName" binding:"required,min=2,max=100"`
	Phone      string `json:"phone" binding:"omitempty,max=30"`
	IsVanOwner bool   `json:"isVanOwner"`
}

// LoginRequest accepts either the username or the email in Username.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User  *storage.User `json:"user"`
	Token string        `json:"token"`
}
