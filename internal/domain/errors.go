package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Validación de entrada: se rechazan antes de mutar estado, nunca se reintentan.
	ErrInvalidQuantity   = errors.New("cantidad inválida: debe ser mayor que cero")
	ErrInvalidCost       = errors.New("costo unitario inválido: debe ser mayor que cero")
	ErrIncompatibleUnits = errors.New("unidades incompatibles: no existe conversión")
	ErrMissingRecipe     = errors.New("ítem de menú sin receta: defecto de integridad de datos")

	// Integridad: detienen la operación y requieren decisión del operador.
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrOverReceipt           = errors.New("cantidad recibida excede la orden de compra más la tolerancia")
	ErrMissingAccountMapping = errors.New("mapeo contable incompleto: no se puede contabilizar el movimiento")

	// Concurrencia: se reintenta internamente con backoff antes de propagarse.
	ErrConcurrentUpdate = errors.New("conflicto de actualización concurrente")

	// El caller opera sobre estado obsoleto y debe recargar.
	ErrBatchNotFound = errors.New("lote no encontrado: no se puede reversar")
)
