package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/driveease/car-rental-api/internal/model"
	"github.com/driveease/car-rental-api/internal/repository"
)

// AdminHandler implements the back office: dashboard counters, customer
// directory, the full booking ledger, manual notifications and site
// settings.
type AdminHandler struct {
	Users    *repository.UserRepo
	Cars     *repository.CarRepo
	Bookings *repository.BookingRepo
	Notifs   *repository.NotificationRepo
	Settings *repository.SiteSettingRepo
}

func NewAdminHandler(users *repository.UserRepo, cars *repository.CarRepo, bookings *repository.BookingRepo, notifs *repository.NotificationRepo, settings *repository.SiteSettingRepo) *AdminHandler {
	if users == nil || cars == nil || bookings == nil || notifs == nil || settings == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Users: users, Cars: cars, Bookings: bookings, Notifs: notifs, Settings: settings}
}

// Dashboard handles GET /v1/admin/dashboard.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	totalCars, availableCars, err := h.Cars.Counts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count cars"})
	}
	totalBookings, err := h.Bookings.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count bookings"})
	}
	totalCustomers, err := h.Users.CountCustomers(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count customers"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_cars":      totalCars,
		"available_cars":  availableCars,
		"total_bookings":  totalBookings,
		"total_customers": totalCustomers,
	})
}

type customerResp struct {
	ID         uint64 `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	IsActive   bool   `json:"is_active"`
	DateJoined string `json:"date_joined"`
}

func toCustomerResp(u model.User) customerResp {
	return customerResp{
		ID: u.ID, Username: u.Username, Email: u.Email,
		FullName: u.FullName, Phone: u.Phone, IsActive: u.IsActive,
		DateJoined: u.DateJoined.UTC().Format(time.RFC3339),
	}
}

// ListCustomers handles GET /v1/admin/customers.
func (h *AdminHandler) ListCustomers(c echo.Context) error {
	users, err := h.Users.ListCustomers(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load customers"})
	}
	items := make([]customerResp, 0, len(users))
	for _, u := range users {
		items = append(items, toCustomerResp(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CustomerDetail handles GET /v1/admin/customers/:id, returning the
// profile together with the customer's booking history.
func (h *AdminHandler) CustomerDetail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	ctx := c.Request().Context()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load customer"})
	}
	if u.Role != model.RoleCustomer {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	}
	details, err := h.Bookings.ListByCustomer(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	bookings := make([]echo.Map, 0, len(details))
	for _, d := range details {
		bookings = append(bookings, echo.Map{
			"booking":   toBookingResp(d.Booking),
			"car_name":  d.CarName,
			"car_model": d.CarModel,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"customer": toCustomerResp(u),
		"bookings": bookings,
	})
}

// ListBookings handles GET /v1/admin/bookings, the full booking ledger.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	details, err := h.Bookings.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	items := make([]echo.Map, 0, len(details))
	for _, d := range details {
		items = append(items, echo.Map{
			"booking":     toBookingResp(d.Booking),
			"customer_id": d.CustomerID,
			"car_name":    d.CarName,
			"car_model":   d.CarModel,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateNotification handles POST /v1/admin/notifications, pushing a
// manual message to one customer.
func (h *AdminHandler) CreateNotification(c echo.Context) error {
	var req struct {
		UserID  uint64 `json:"user_id"`
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.UserID == 0 || req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and message required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
	}
	if err := h.Notifs.Create(ctx, req.UserID, req.Message); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create notification"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "notification sent"})
}

// GetSiteSettings handles GET /v1/admin/settings.
func (h *AdminHandler) GetSiteSettings(c echo.Context) error {
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

// UpdateSiteSettings handles PUT /v1/admin/settings, upserting the single
// settings row.
func (h *AdminHandler) UpdateSiteSettings(c echo.Context) error {
	var req struct {
		ContactEmail string `json:"contact_email"`
		ContactPhone string `json:"contact_phone"`
		Address      string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s := model.SiteSetting{
		ID:           1,
		ContactEmail: strings.TrimSpace(req.ContactEmail),
		ContactPhone: strings.TrimSpace(req.ContactPhone),
		Address:      strings.TrimSpace(req.Address),
	}
	if err := h.Settings.Update(c.Request().Context(), s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update settings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "settings updated"})
}
