package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/servigo/platform-api/internal/application/usecase"
	"github.com/servigo/platform-api/pkg/logger"
)

// CatalogHandler expone los catálogos de referencia (municipios DANE).
type CatalogHandler struct {
	areas *usecase.ServiceAreaUseCase
	log   *logger.Logger
}

func NewCatalogHandler(areas *usecase.ServiceAreaUseCase, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{areas: areas, log: log}
}

// ServiceAreas godoc
// @Summary      Catálogo de municipios
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  dto.ServiceAreaResponse
// @Router       /api/service-areas [get]
func (h *CatalogHandler) ServiceAreas(c *fiber.Ctx) error {
	out, err := h.areas.GetAll(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
