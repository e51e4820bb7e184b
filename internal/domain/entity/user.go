package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin    = "admin"
	RoleGerente  = "gerente"
	RoleVendedor = "vendedor"
)

// User usuario del sistema (solo lo que necesitan auth y auditoría;
// el CRUD completo de usuarios queda fuera del núcleo).
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	StoreID      string // tienda por defecto
	Active       bool
	CreatedAt    time.Time
}
