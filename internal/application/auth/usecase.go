// Package auth autentica usuarios y emite los tokens que consume el
// middleware HTTP.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bellezapp/backend/internal/application/audit"
	"github.com/bellezapp/backend/internal/application/dto"
	"github.com/bellezapp/backend/internal/domain"
	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/repository"
	"github.com/bellezapp/backend/pkg/jwt"
	"github.com/bellezapp/backend/pkg/logger"
)

// UseCase caso de uso de autenticación.
type UseCase struct {
	users     repository.UserRepository
	audits    repository.AuditLogRepository
	auditor   *audit.Logger
	log       *logger.Logger
	secret    string
	issuer    string
	expMinute int
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	users repository.UserRepository,
	audits repository.AuditLogRepository,
	auditor *audit.Logger,
	log *logger.Logger,
	secret, issuer string,
	expMinutes int,
) *UseCase {
	return &UseCase{
		users:     users,
		audits:    audits,
		auditor:   auditor,
		log:       log,
		secret:    secret,
		issuer:    issuer,
		expMinute: expMinutes,
	}
}

// Login valida credenciales contra el hash almacenado y emite un JWT.
// Nunca distingue "usuario no existe" de "contraseña incorrecta".
func (uc *UseCase) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := uc.users.GetByEmail(req.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		uc.log.Warn().Str("email", req.Email).Msg("intento de login fallido")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.Generate(uc.secret, user.ID, user.StoreID, user.Role, uc.issuer, uc.expMinute)
	if err != nil {
		return nil, fmt.Errorf("generando token: %w", err)
	}

	if err := uc.auditor.Record(uc.audits, audit.Entry{
		ActionType:  entity.ActionUserLogin,
		Description: "Inicio de sesión",
		EntityType:  "user",
		EntityID:    user.ID,
		UserID:      user.ID,
		StoreID:     user.StoreID,
	}); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo auditar el login")
	}

	return &dto.LoginResponse{
		Token:   token,
		UserID:  user.ID,
		Name:    user.Name,
		Role:    user.Role,
		StoreID: user.StoreID,
	}, nil
}

// Logout registra el cierre de sesión en la auditoría. El token sigue siendo
// válido hasta su expiración; el registro existe para la trazabilidad de
// sesiones, no para revocar.
func (uc *UseCase) Logout(userID, storeID string) error {
	if userID == "" || storeID == "" {
		return domain.ErrInvalidInput
	}
	return uc.auditor.Record(uc.audits, audit.Entry{
		ActionType:  entity.ActionUserLogout,
		Description: "Cierre de sesión",
		EntityType:  "user",
		EntityID:    userID,
		UserID:      userID,
		StoreID:     storeID,
	})
}
