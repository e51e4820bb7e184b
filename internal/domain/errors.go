package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidCredentials  = errors.New("credenciales inválidas")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrStoreMismatch       = errors.New("la tienda no coincide con el recurso")
	ErrAlreadyProcessed    = errors.New("la solicitud ya ha sido procesada")
	ErrInvalidTransition   = errors.New("transición de estado no permitida")
	ErrRegisterAlreadyOpen = errors.New("ya existe una caja abierta para la tienda")
	ErrRegisterClosed      = errors.New("la caja ya está cerrada")
)
