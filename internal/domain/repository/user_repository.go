package repository

import "github.com/bellezapp/backend/internal/domain/entity"

// UserRepository puerto de persistencia de usuarios (auth y denormalización
// del nombre en auditoría; el CRUD completo queda fuera del núcleo).
type UserRepository interface {
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
}
