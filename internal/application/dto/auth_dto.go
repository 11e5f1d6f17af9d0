package dto

// RegisterRequest alta de usuario.
type RegisterRequest struct {
	StoreID  string `json:"store_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse representación HTTP de un usuario (sin hash).
type UserResponse struct {
	ID      string `json:"id"`
	StoreID string `json:"store_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
}

// LoginResponse token + usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
