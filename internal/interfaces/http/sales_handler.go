package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/restops-core/internal/application/dto"
	"github.com/tu-usuario/restops-core/internal/application/inventory"
	"github.com/tu-usuario/restops-core/pkg/validator"
)

// SalesHandler maneja la confirmación y anulación de ventas del POS.
type SalesHandler struct {
	sales *inventory.SaleUseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(sales *inventory.SaleUseCase) *SalesHandler {
	return &SalesHandler{sales: sales}
}

// CommitSale godoc
// @Summary      Confirmar venta y descontar inventario por receta
// @Description  Idempotente: reintentar con la misma idempotency_key devuelve el
//
//	resultado previo sin duplicar consumo.
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommitSaleRequest  true  "order_id, location_id, lines"
// @Success      201   {object}  dto.CommitSaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SalesHandler) CommitSale(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CommitSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "VALIDATION", "fields": errs})
	}
	resp, err := h.sales.CommitSale(c.Context(), companyID, userID, in)
	if err != nil {
		return handleError(c, err)
	}
	status := fiber.StatusCreated
	if resp.AlreadyApplied {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(resp)
}

// VoidSale anula una venta reversando exactamente los lotes que consumió.
func (h *SalesHandler) VoidSale(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	orderID := c.Params("orderID")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "order_id requerido"})
	}
	resp, err := h.sales.VoidSale(c.Context(), companyID, userID, orderID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}
