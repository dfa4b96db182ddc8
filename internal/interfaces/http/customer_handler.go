package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/servigo/platform-api/internal/application/dto"
	"github.com/servigo/platform-api/internal/application/usecase"
	"github.com/servigo/platform-api/pkg/logger"
)

// CustomerHandler maneja las peticiones HTTP para el recurso Customer.
type CustomerHandler struct {
	uc  *usecase.CustomerUseCase
	log *logger.Logger
}

// NewCustomerHandler construye el handler inyectando el caso de uso.
func NewCustomerHandler(uc *usecase.CustomerUseCase, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar clientes
// @Tags         customers
// @Produce      json
// @Param        q       query  string  false  "Búsqueda en nombre, apellido y email"
// @Param        sort    query  string  false  "Campo de orden"  Enums(last_name, first_name, email, create_time, update_time)
// @Param        desc    query  bool    false  "Orden descendente"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.CustomerListResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var in dto.ListCustomersRequest
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
// @Summary      Todos los clientes sin paginar
// @Tags         customers
// @Produce      json
// @Success      200  {array}  dto.CustomerResponse
// @Router       /api/customers/all [get]
func (h *CustomerHandler) GetAll(c *fiber.Ctx) error {
	out, err := h.uc.GetAll(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Lookup godoc
// @Summary      Buscar cliente por email o teléfono exacto
// @Tags         customers
// @Produce      json
// @Param        email  query  string  false  "Email (insensible a mayúsculas)"
// @Param        phone  query  string  false  "Teléfono exacto"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/lookup [get]
func (h *CustomerHandler) Lookup(c *fiber.Ctx) error {
	var (
		out *dto.CustomerResponse
		err error
	)
	switch {
	case c.Query("email") != "":
		out, err = h.uc.GetByEmail(c.UserContext(), c.Query("email"))
	case c.Query("phone") != "":
		out, err = h.uc.GetByPhone(c.UserContext(), c.Query("phone"))
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_KEY", Message: "se requiere email o phone"})
	}
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "cliente no encontrado")
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente por ID
// @Tags         customers
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "cliente no encontrado")
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar cliente
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
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
// @Summary      Reemplazar cliente completo
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del cliente"
// @Param        body  body  dto.UpdateCustomerRequest  true  "Registro completo con data_creator/create_time originales"
// @Success      200   {object}  dto.CustomerResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// PatchProfile godoc
// @Summary      Actualizar perfil (solo campos presentes)
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id    path  string                            true  "ID del cliente"
// @Param        body  body  dto.UpdateCustomerProfileRequest  true  "Campos a reemplazar; los ausentes se conservan"
// @Success      200   {object}  dto.CustomerResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/customers/{id}/profile [patch]
func (h *CustomerHandler) PatchProfile(c *fiber.Ctx) error {
	var in dto.UpdateCustomerProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateProfile(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// PatchPreferences godoc
// @Summary      Reemplazar preferencias
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del cliente"
// @Param        body  body  dto.UpdatePreferencesRequest  true  "Preferencias (vacías las limpian)"
// @Success      200   {object}  dto.CustomerResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/customers/{id}/preferences [patch]
func (h *CustomerHandler) PatchPreferences(c *fiber.Ctx) error {
	var in dto.UpdatePreferencesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdatePreferences(c.UserContext(), c.Params("id"), in.Preferences)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cliente
// @Tags         customers
// @Param        id  path  string  true  "ID del cliente"
// @Success      204
// @Security     BearerAuth
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Authenticate godoc
// @Summary      Identificar cliente por email
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AuthenticateCustomerRequest  true  "Email del cliente"
// @Success      200   {object}  dto.CustomerResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/customers/authenticate [post]
func (h *CustomerHandler) Authenticate(c *fiber.Ctx) error {
	var in dto.AuthenticateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Authenticate(c.UserContext(), in.Email)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "cliente no encontrado")
	}
	return c.JSON(out)
}
