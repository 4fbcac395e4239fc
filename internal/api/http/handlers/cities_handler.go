package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// CitiesHandler exposes the service-area catalog.
type CitiesHandler struct {
	cities *service.CityService
}

// NewCitiesHandler constructs handler.
func NewCitiesHandler(cities *service.CityService) *CitiesHandler {
	return &CitiesHandler{cities: cities}
}

// List handles GET /cities.
func (h *CitiesHandler) List(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active", false)
	cities, err := h.cities.List(c.UserContext(), activeOnly)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCityListResponse(cities)})
}

// Create handles POST /cities.
func (h *CitiesHandler) Create(c *fiber.Ctx) error {
	var req dto.CityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	city := cityFromRequest(req)
	if err := h.cities.Create(c.UserContext(), city); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCityResponse(city)})
}

// Update handles PUT /cities/:id.
func (h *CitiesHandler) Update(c *fiber.Ctx) error {
	var req dto.CityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	city := cityFromRequest(req)
	city.ID = c.Params("id")
	if err := h.cities.Update(c.UserContext(), city); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCityResponse(city)})
}

func cityFromRequest(req dto.CityRequest) *domain.City {
	city := &domain.City{Name: req.Name, State: req.State, IsActive: true}
	if req.IsActive != nil {
		city.IsActive = *req.IsActive
	}
	return city
}
