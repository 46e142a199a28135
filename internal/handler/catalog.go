package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/driveease/car-rental-api/internal/booking"
	"github.com/driveease/car-rental-api/internal/model"
	"github.com/driveease/car-rental-api/internal/repository"
)

// CatalogHandler serves the public, unauthenticated car catalog: listing
// with filters, car detail, location lists, price quotes and the site
// contact card.  Responses are cache-friendly; the router wraps them in
// the Redis response cache.
type CatalogHandler struct {
	Cars     *repository.CarRepo
	Bookings *repository.BookingRepo
	Settings *repository.SiteSettingRepo
}

func NewCatalogHandler(cars *repository.CarRepo, bookings *repository.BookingRepo, settings *repository.SiteSettingRepo) *CatalogHandler {
	if cars == nil || bookings == nil || settings == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Cars: cars, Bookings: bookings, Settings: settings}
}

type carResp struct {
	ID              uint64   `json:"id"`
	Name            string   `json:"name"`
	Model           string   `json:"model"`
	ImageURL        *string  `json:"image_url"`
	IsAvailable     bool     `json:"is_available"`
	DailyRate       float64  `json:"daily_rate"`
	CarType         string   `json:"car_type"`
	FuelType        string   `json:"fuel_type"`
	SeatingCapacity int      `json:"seating_capacity"`
	Transmission    string   `json:"transmission"`
	Description     string   `json:"description"`
	Mileage         *float64 `json:"mileage"`
}

func toCarResp(c model.Car) carResp {
	return carResp{
		ID: c.ID, Name: c.Name, Model: c.Model, ImageURL: c.ImageURL,
		IsAvailable: c.IsAvailable, DailyRate: c.DailyRate, CarType: c.CarType,
		FuelType: c.FuelType, SeatingCapacity: c.SeatingCapacity,
		Transmission: c.Transmission, Description: c.Description, Mileage: c.Mileage,
	}
}

// ListCars handles GET /v1/cars.  All filters are optional query params:
// car_type, fuel_type, transmission, max_daily_rate, min_seats,
// available=true.
func (h *CatalogHandler) ListCars(c echo.Context) error {
	f := repository.CarFilter{
		CarType:      c.QueryParam("car_type"),
		FuelType:     c.QueryParam("fuel_type"),
		Transmission: c.QueryParam("transmission"),
	}
	if s := c.QueryParam("max_daily_rate"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_daily_rate"})
		}
		f.MaxDailyRate = v
	}
	if s := c.QueryParam("min_seats"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_seats"})
		}
		f.MinSeats = v
	}
	if c.QueryParam("available") == "true" {
		f.OnlyAvailable = true
	}

	cars, err := h.Cars.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load cars"})
	}
	items := make([]carResp, 0, len(cars))
	for _, car := range cars {
		items = append(items, toCarResp(car))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetCar handles GET /v1/cars/:id.
func (h *CatalogHandler) GetCar(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	car, err := h.Cars.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load car"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toCarResp(car)})
}

// GetCarLocations handles GET /v1/cars/:id/locations.  The optional
// "type" query param ("Pickup" or "Dropoff") narrows the list.
func (h *CatalogHandler) GetCarLocations(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Cars.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load car"})
	}
	typ := model.LocationType(c.QueryParam("type"))
	if typ != "" && typ != model.LocationPickup && typ != model.LocationDropoff {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be Pickup or Dropoff"})
	}
	locs, err := h.Cars.ListLocations(ctx, id, typ)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load locations"})
	}
	pickups := make([]string, 0)
	dropoffs := make([]string, 0)
	for _, l := range locs {
		if l.Type == model.LocationPickup {
			pickups = append(pickups, l.Name)
		} else {
			dropoffs = append(dropoffs, l.Name)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"pickup_locations":  pickups,
		"dropoff_locations": dropoffs,
	})
}

// GetQuote handles GET /v1/cars/:id/quote?pickup_date=&return_date=.  It
// prices the inclusive date range and reports whether the car currently
// has a conflicting booking.  The quote carries no reservation: prices
// and availability may both change before a hold is placed.
func (h *CatalogHandler) GetQuote(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	pickup, err := booking.ParseDate(c.QueryParam("pickup_date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pickup_date (want YYYY-MM-DD)"})
	}
	ret, err := booking.ParseDate(c.QueryParam("return_date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid return_date (want YYYY-MM-DD)"})
	}
	if err := booking.ValidateRange(pickup, ret, booking.Today()); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	car, err := h.Cars.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load car"})
	}
	conflict, err := h.Bookings.HasOverlap(ctx, id, pickup, ret, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}
	q, err := booking.NewQuote(car.DailyRate, pickup, ret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "quote failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"car_id":     car.ID,
		"daily_rate": car.DailyRate,
		"quote":      q,
		"available":  car.IsAvailable && !conflict,
	})
}

// SiteInfo handles GET /v1/site-info, the public contact card.
func (h *CatalogHandler) SiteInfo(c echo.Context) error {
	s, err := h.Settings.Get(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load settings"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"contact_email": s.ContactEmail,
		"contact_phone": s.ContactPhone,
		"address":       s.Address,
	})
}
