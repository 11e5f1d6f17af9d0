package repository

import "github.com/tu-usuario/tienda-pos/internal/domain/entity"

// UserRepository define el puerto de persistencia para usuarios (auth).
type UserRepository interface {
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
}
