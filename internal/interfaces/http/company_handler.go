package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/servigo/platform-api/internal/application/dto"
	"github.com/servigo/platform-api/internal/application/usecase"
	"github.com/servigo/platform-api/pkg/logger"
)

// CompanyHandler maneja las peticiones HTTP para el recurso Company.
type CompanyHandler struct {
	uc  *usecase.CompanyUseCase
	log *logger.Logger
}

// NewCompanyHandler construye el handler inyectando el caso de uso.
func NewCompanyHandler(uc *usecase.CompanyUseCase, log *logger.Logger) *CompanyHandler {
	return &CompanyHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar empresas con filtros
// @Tags         companies
// @Produce      json
// @Param        service_area  query  string  false  "Zona de cobertura exacta"
// @Param        pricing_tier  query  string  false  "Nivel de tarifa exacto"
// @Param        q             query  string  false  "Búsqueda en nombre y descripción"
// @Param        sort          query  string  false  "Campo de orden"  Enums(name, create_time, update_time, pricing_tier)
// @Param        desc          query  bool    false  "Orden descendente"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.CompanyListResponse
// @Router       /api/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	var in dto.ListCompaniesRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	in.DefaultPage()
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetAll godoc
// @Summary      Todas las empresas sin paginar
// @Tags         companies
// @Produce      json
// @Success      200  {array}  dto.CompanyResponse
// @Router       /api/companies/all [get]
func (h *CompanyHandler) GetAll(c *fiber.Ctx) error {
	out, err := h.uc.GetAll(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Lookup godoc
// @Summary      Buscar empresa por nombre o teléfono exacto
// @Tags         companies
// @Produce      json
// @Param        name   query  string  false  "Nombre exacto"
// @Param        phone  query  string  false  "Teléfono de contacto exacto"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/lookup [get]
func (h *CompanyHandler) Lookup(c *fiber.Ctx) error {
	var (
		out *dto.CompanyResponse
		err error
	)
	switch {
	case c.Query("name") != "":
		out, err = h.uc.GetByName(c.UserContext(), c.Query("name"))
	case c.Query("phone") != "":
		out, err = h.uc.GetByPhone(c.UserContext(), c.Query("phone"))
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_KEY", Message: "se requiere name o phone"})
	}
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "empresa no encontrada")
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Tags         companies
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "empresa no encontrada")
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar empresa
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Reemplazar empresa completa
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la empresa"
// @Param        body  body  dto.UpdateCompanyRequest  true  "Registro completo con data_creator/create_time originales"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/companies/{id} [put]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// PatchServiceArea godoc
// @Summary      Cambiar zona de cobertura
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la empresa"
// @Param        body  body  dto.UpdateServiceAreaRequest  true  "Nueva zona (vacía la limpia)"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/companies/{id}/service-area [patch]
func (h *CompanyHandler) PatchServiceArea(c *fiber.Ctx) error {
	var in dto.UpdateServiceAreaRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateServiceArea(c.UserContext(), c.Params("id"), in.ServiceArea)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// PatchFleetDetail godoc
// @Summary      Cambiar descripción de flota
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la empresa"
// @Param        body  body  dto.UpdateFleetDetailRequest  true  "Nueva descripción (vacía la limpia)"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/companies/{id}/fleet-detail [patch]
func (h *CompanyHandler) PatchFleetDetail(c *fiber.Ctx) error {
	var in dto.UpdateFleetDetailRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateFleetDetail(c.UserContext(), c.Params("id"), in.FleetDetail)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// PatchPricingTier godoc
// @Summary      Cambiar nivel de tarifa
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la empresa"
// @Param        body  body  dto.UpdatePricingTierRequest  true  "Nuevo nivel (vacío lo limpia)"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/companies/{id}/pricing-tier [patch]
func (h *CompanyHandler) PatchPricingTier(c *fiber.Ctx) error {
	var in dto.UpdatePricingTierRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdatePricingTier(c.UserContext(), c.Params("id"), in.PricingTier)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar empresa
// @Tags         companies
// @Param        id  path  string  true  "ID de la empresa"
// @Success      204
// @Security     BearerAuth
// @Router       /api/companies/{id} [delete]
func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
