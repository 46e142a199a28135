package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/driveease/car-rental-api/internal/model"
	"github.com/driveease/car-rental-api/internal/repository"
)

// AdminCarHandler implements fleet management.  All routes sit behind the
// admin role middleware.
type AdminCarHandler struct {
	Cars *repository.CarRepo
}

func NewAdminCarHandler(cars *repository.CarRepo) *AdminCarHandler {
	if cars == nil {
		panic("nil repository passed to NewAdminCarHandler")
	}
	return &AdminCarHandler{Cars: cars}
}

type carReq struct {
	Name            string   `json:"name"`
	Model           string   `json:"model"`
	ImageURL        *string  `json:"image_url"`
	IsAvailable     *bool    `json:"is_available"`
	DailyRate       float64  `json:"daily_rate"`
	CarType         string   `json:"car_type"`
	FuelType        string   `json:"fuel_type"`
	SeatingCapacity int      `json:"seating_capacity"`
	Transmission    string   `json:"transmission"`
	Description     string   `json:"description"`
	Mileage         *float64 `json:"mileage"`
}

type locationsReq struct {
	PickupLocations  []string `json:"pickup_locations"`
	DropoffLocations []string `json:"dropoff_locations"`
}

func (req *carReq) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	req.Model = strings.TrimSpace(req.Model)
	if req.Name == "" || req.Model == "" {
		return "name and model are required"
	}
	if req.DailyRate <= 0 {
		return "daily_rate must be positive"
	}
	if req.SeatingCapacity <= 0 {
		return "seating_capacity must be positive"
	}
	if req.Mileage != nil && *req.Mileage < 0 {
		return "mileage cannot be negative"
	}
	return ""
}

// CreateCar handles POST /v1/admin/cars.
func (h *AdminCarHandler) CreateCar(c echo.Context) error {
	var req carReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	car := model.Car{
		Name:            req.Name,
		Model:           req.Model,
		ImageURL:        req.ImageURL,
		IsAvailable:     available,
		DailyRate:       req.DailyRate,
		CarType:         strings.TrimSpace(req.CarType),
		FuelType:        strings.TrimSpace(req.FuelType),
		SeatingCapacity: req.SeatingCapacity,
		Transmission:    strings.TrimSpace(req.Transmission),
		Description:     strings.TrimSpace(req.Description),
		Mileage:         req.Mileage,
	}
	if err := h.Cars.Create(c.Request().Context(), &car); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create car"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toCarResp(car)})
}

// UpdateCar handles PUT /v1/admin/cars/:id.  A null image_url keeps the
// stored image.
func (h *AdminCarHandler) UpdateCar(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	var req carReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	existing, err := h.Cars.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load car"})
	}
	available := existing.IsAvailable
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	car := model.Car{
		ID:              id,
		Name:            req.Name,
		Model:           req.Model,
		ImageURL:        req.ImageURL,
		IsAvailable:     available,
		DailyRate:       req.DailyRate,
		CarType:         strings.TrimSpace(req.CarType),
		FuelType:        strings.TrimSpace(req.FuelType),
		SeatingCapacity: req.SeatingCapacity,
		Transmission:    strings.TrimSpace(req.Transmission),
		Description:     strings.TrimSpace(req.Description),
		Mileage:         req.Mileage,
	}
	if err := h.Cars.Update(ctx, car); err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update car"})
	}
	updated, err := h.Cars.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load car"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toCarResp(updated)})
}

// DeleteCar handles DELETE /v1/admin/cars/:id.  A car with booking
// history is never hard-deleted: it is marked unavailable instead so past
// bookings keep their reference, and the response says which happened.
func (h *AdminCarHandler) DeleteCar(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	ctx := c.Request().Context()
	err = h.Cars.Delete(ctx, id)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"message": "car deleted"})
	case errors.Is(err, repository.ErrCarNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
	case errors.Is(err, repository.ErrCarInUse):
		if err := h.Cars.SetAvailability(ctx, id, false); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retire car"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"message": "car has bookings; marked unavailable instead of deleting",
		})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete car"})
	}
}

// SetAvailability handles PATCH /v1/admin/cars/:id/availability with a
// JSON body {"is_available": bool}.
func (h *AdminCarHandler) SetAvailability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	var req struct {
		IsAvailable *bool `json:"is_available"`
	}
	if err := c.Bind(&req); err != nil || req.IsAvailable == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_available required"})
	}
	if err := h.Cars.SetAvailability(c.Request().Context(), id, *req.IsAvailable); err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update availability"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "availability updated"})
}

// ReplaceLocations handles PUT /v1/admin/cars/:id/locations, swapping the
// car's pickup and dropoff lists atomically.
func (h *AdminCarHandler) ReplaceLocations(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	var req locationsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	if _, err := h.Cars.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load car"})
	}
	if err := h.Cars.ReplaceLocations(ctx, id, req.PickupLocations, req.DropoffLocations); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update locations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "locations updated"})
}
