package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/restops-core/internal/application/dto"
	"github.com/tu-usuario/restops-core/internal/application/inventory"
	"github.com/tu-usuario/restops-core/pkg/validator"
)

// ValuationHandler expone valoración, conciliación y costeo de recetas
// (solo lecturas).
type ValuationHandler struct {
	valuation *inventory.ValuationUseCase
}

// NewValuationHandler construye el handler.
func NewValuationHandler(valuation *inventory.ValuationUseCase) *ValuationHandler {
	return &ValuationHandler{valuation: valuation}
}

// CurrentValuation devuelve la valoración actual. location_id vacío agrega
// todas las sedes de la empresa.
func (h *ValuationHandler) CurrentValuation(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.valuation.CurrentValuation(c.Context(), companyID, c.Query("location_id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// Reconcile godoc
// @Summary      Conciliar diario, lotes y libro contable
// @Description  Reproduce el diario de movimientos contra el remanente de lotes y
//
//	cruza la valoración contra el saldo del activo. Reporta hallazgos,
//	nunca corrige.
//
// @Tags         valuation
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Sede (vacío = consolidado)"
// @Param        as_of        query  string  false  "RFC3339 (vacío = ahora)"
// @Success      200  {object}  dto.ReconciliationReport
// @Router       /api/valuation/reconcile [get]
func (h *ValuationHandler) Reconcile(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "as_of debe ser RFC3339"})
		}
		asOf = parsed
	}
	report, err := h.valuation.Reconcile(c.Context(), companyID, c.Query("location_id"), asOf)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(report)
}

// UpsertAccountMapping configura las cuentas contables de la empresa o de una
// sede (location_id en el body).
func (h *ValuationHandler) UpsertAccountMapping(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AccountMappingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "VALIDATION", "fields": errs})
	}
	mapping, err := h.valuation.UpsertAccountMapping(c.Context(), companyID, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(mapping)
}

// JournalByCorrelation devuelve los asientos contables de una operación.
func (h *ValuationHandler) JournalByCorrelation(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	entries, err := h.valuation.JournalByCorrelation(c.Context(), companyID, c.Params("correlationID"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(entries)
}

// RecipeCost devuelve el costo actual de la receta de un ítem de menú.
func (h *ValuationHandler) RecipeCost(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	menuItemID := c.Params("menuItemID")
	resp, err := h.valuation.RecipeCost(c.Context(), companyID, menuItemID, c.Query("location_id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}
