package dto

type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	SendMessages *bool  `json:"sendMessages,omitempty"`
}

type RegisterResponse struct {
	UserID             string `json:"userId"`
	Username           string `json:"username"`
	RequiresActivation bool   `json:"requiresActivation"`
}

type ActivateResponse struct {
	Username         string `json:"username"`
	Activated        bool   `json:"activated"`
	AlreadyActivated bool   `json:"alreadyActivated"`
}

type ProfileResponse struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	SendMessages bool   `json:"sendMessages"`
	IsActivated  bool   `json:"isActivated"`
}

type ProfileUpdateRequest struct {
	Username     string `json:"username"`
	SendMessages *bool  `json:"sendMessages,omitempty"`
}

type PasswordChangeRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}
