package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/restops-core/internal/application/dto"
	"github.com/tu-usuario/restops-core/internal/application/inventory"
	"github.com/tu-usuario/restops-core/pkg/validator"
)

// CatalogHandler maneja el catálogo de ítems y las lecturas de reporting
// (stock, movimientos, reorden).
type CatalogHandler struct {
	catalog *inventory.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(catalog *inventory.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CreateItem da de alta un SKU en el catálogo.
func (h *CatalogHandler) CreateItem(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "VALIDATION", "fields": errs})
	}
	item, err := h.catalog.CreateItem(c.Context(), companyID, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// ListItems lista el catálogo paginado (query: limit, offset).
func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	items, err := h.catalog.ListItems(c.Context(), companyID, c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(items)
}

// DeactivateItem desactiva un SKU (nunca se elimina físicamente).
func (h *CatalogHandler) DeactivateItem(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.catalog.DeactivateItem(c.Context(), companyID, c.Params("itemID")); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ItemStock devuelve el remanente vivo de un ítem (query: location_id).
func (h *CatalogHandler) ItemStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.catalog.ItemStock(c.Context(), companyID, c.Params("itemID"), c.Query("location_id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// ItemMovements godoc
// @Summary      Historial de movimientos de un ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        itemID  path   string  true   "Ítem"
// @Param        from    query  string  false  "RFC3339"
// @Param        to      query  string  false  "RFC3339"
// @Param        limit   query  int     false  "default 50"
// @Param        offset  query  int     false  "default 0"
// @Success      200  {array}  dto.MovementDTO
// @Router       /api/inventory/items/{itemID}/movements [get]
func (h *CatalogHandler) ItemMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
		}
		from = &parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
		}
		to = &parsed
	}
	movs, err := h.catalog.ItemMovements(c.Context(), companyID, c.Params("itemID"), from, to, c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(movs)
}

// ReorderReport lista los ítems bajo su punto de reorden (query: location_id).
func (h *CatalogHandler) ReorderReport(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	items, err := h.catalog.ReorderReport(c.Context(), companyID, c.Query("location_id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(items)
}
