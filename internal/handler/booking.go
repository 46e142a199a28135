package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	logrus "github.com/sirupsen/logrus"

	"github.com/driveease/car-rental-api/internal/booking"
	"github.com/driveease/car-rental-api/internal/config"
	"github.com/driveease/car-rental-api/internal/model"
	"github.com/driveease/car-rental-api/internal/queue"
	"github.com/driveease/car-rental-api/internal/repository"
	"github.com/driveease/car-rental-api/internal/service"
	"github.com/driveease/car-rental-api/internal/utils"
)

// BookingHandler implements the customer booking lifecycle: hold, commit,
// listing and cancellation.  A hold is a Redis-parked quote that reserves
// nothing; only commit writes a bookings row, and commit re-checks
// availability because the world may have moved while the hold sat in
// Redis.
type BookingHandler struct {
	Cfg      config.Config
	Cars     *repository.CarRepo
	Bookings *repository.BookingRepo
	Holds    *repository.HoldRepo
	Notifs   *repository.NotificationRepo
}

func NewBookingHandler(cfg config.Config, cars *repository.CarRepo, bookings *repository.BookingRepo, holds *repository.HoldRepo, notifs *repository.NotificationRepo) *BookingHandler {
	if cars == nil || bookings == nil || holds == nil || notifs == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Cfg: cfg, Cars: cars, Bookings: bookings, Holds: holds, Notifs: notifs}
}

type holdReq struct {
	CarID               uint64 `json:"car_id"`
	PickupDate          string `json:"pickup_date"`
	ReturnDate          string `json:"return_date"`
	PickupLocation      string `json:"pickup_location"`
	ReturnLocation      string `json:"return_location"`
	SpecialRequirements string `json:"special_requirements"`
}

type commitReq struct {
	HoldToken     string `json:"hold_token"`
	PaymentMethod string `json:"payment_method"` // PayOnPickup | PayNow
}

type bookingResp struct {
	ID                  uint64  `json:"id"`
	CarID               uint64  `json:"car_id"`
	PickupDate          string  `json:"pickup_date"`
	ReturnDate          string  `json:"return_date"`
	DayCount            int     `json:"day_count"`
	TotalCost           float64 `json:"total_cost"`
	Status              string  `json:"status"`
	PaymentStatus       string  `json:"payment_status"`
	TransactionID       *string `json:"transaction_id,omitempty"`
	PaymentMethod       *string `json:"payment_method,omitempty"`
	SpecialRequirements string  `json:"special_requirements,omitempty"`
	PickupLocation      string  `json:"pickup_location"`
	ReturnLocation      string  `json:"return_location"`
	BookingDate         string  `json:"booking_date"`
}

func toBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID:                  b.ID,
		CarID:               b.CarID,
		PickupDate:          b.PickupDate.Format(booking.DateLayout),
		ReturnDate:          b.ReturnDate.Format(booking.DateLayout),
		DayCount:            booking.DayCount(b.PickupDate, b.ReturnDate),
		TotalCost:           b.TotalCost,
		Status:              string(b.Status),
		PaymentStatus:       string(b.PaymentStatus),
		TransactionID:       b.TransactionID,
		PaymentMethod:       b.PaymentMethod,
		SpecialRequirements: b.SpecialRequirements,
		PickupLocation:      b.PickupLocation,
		ReturnLocation:      b.ReturnLocation,
		BookingDate:         b.BookingDate.UTC().Format(time.RFC3339),
	}
}

// locationAllowed checks a chosen location against the car's configured
// list.  A car with no configured list of that type accepts any non-empty
// name.
func locationAllowed(locs []model.CarLocation, typ model.LocationType, name string) bool {
	if name == "" {
		return false
	}
	hasAny := false
	for _, l := range locs {
		if l.Type != typ {
			continue
		}
		hasAny = true
		if strings.EqualFold(l.Name, name) {
			return true
		}
	}
	return !hasAny
}

// Hold handles POST /v1/bookings/hold.  It validates the car, dates and
// locations, checks availability, and parks a priced provisional booking
// in Redis.  The returned token is the only handle on the hold; when the
// TTL lapses the hold evaporates with no durable trace.  Holds do not
// block other customers: two clients can hold the same range, and commit
// decides the winner.
func (h *BookingHandler) Hold(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req holdReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CarID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "car_id required"})
	}
	pickup, err := booking.ParseDate(req.PickupDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pickup_date (want YYYY-MM-DD)"})
	}
	ret, err := booking.ParseDate(req.ReturnDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid return_date (want YYYY-MM-DD)"})
	}
	if err := booking.ValidateRange(pickup, ret, booking.Today()); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	car, err := h.Cars.GetByID(ctx, req.CarID)
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load car"})
	}
	if !car.IsAvailable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "car is not available for booking"})
	}

	locs, err := h.Cars.ListLocations(ctx, car.ID, "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load locations"})
	}
	if !locationAllowed(locs, model.LocationPickup, strings.TrimSpace(req.PickupLocation)) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pickup_location for this car"})
	}
	if !locationAllowed(locs, model.LocationDropoff, strings.TrimSpace(req.ReturnLocation)) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid return_location for this car"})
	}

	conflict, err := h.Bookings.HasOverlap(ctx, car.ID, pickup, ret, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}
	if conflict {
		return c.JSON(http.StatusConflict, echo.Map{"error": "dates conflict with an existing booking"})
	}

	token, err := utils.RandomHex(32)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}
	q, err := booking.NewQuote(car.DailyRate, pickup, ret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "quote failed"})
	}
	now := time.Now().UTC()
	prov := booking.Provisional{
		Token:               token,
		CustomerID:          userID,
		CarID:               car.ID,
		CarName:             car.Name,
		PickupDate:          pickup.Format(booking.DateLayout),
		ReturnDate:          ret.Format(booking.DateLayout),
		DayCount:            q.DayCount,
		TotalCost:           q.TotalCost,
		SpecialRequirements: strings.TrimSpace(req.SpecialRequirements),
		PickupLocation:      strings.TrimSpace(req.PickupLocation),
		ReturnLocation:      strings.TrimSpace(req.ReturnLocation),
		CreatedAt:           now,
		ExpiresAt:           now.Add(h.Holds.TTL()),
	}
	if err := h.Holds.Put(ctx, prov); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create hold"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"hold_token": token,
		"expires_at": prov.ExpiresAt.Format(time.RFC3339),
		"car_name":   car.Name,
		"quote":      q,
	})
}

// ReleaseHold handles DELETE /v1/bookings/hold/:token.  Abandoning an
// expired or foreign token is indistinguishable from abandoning nothing.
func (h *BookingHandler) ReleaseHold(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hold token"})
	}
	ctx := c.Request().Context()
	prov, err := h.Holds.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrHoldNotFound) {
			return c.NoContent(http.StatusNoContent)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hold"})
	}
	if prov.CustomerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Holds.Delete(ctx, token); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release hold"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Commit handles POST /v1/bookings/commit.  It loads the hold, re-checks
// availability inside a transaction and inserts the Confirmed booking.
// With BOOKING_LOCK_ENABLED the re-check runs SELECT ... FOR UPDATE,
// serializing racing commits for the same car; without it the legacy
// check-then-insert window remains and a lost race surfaces only if the
// loser's re-check happens after the winner's commit.
func (h *BookingHandler) Commit(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req commitReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.HoldToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hold_token required"})
	}
	method, ok := model.ParsePaymentMethod(strings.TrimSpace(req.PaymentMethod))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method must be PayOnPickup or PayNow"})
	}

	ctx := c.Request().Context()
	prov, err := h.Holds.Get(ctx, strings.TrimSpace(req.HoldToken))
	if err != nil {
		if errors.Is(err, repository.ErrHoldNotFound) {
			return c.JSON(http.StatusGone, echo.Map{"error": "hold not found or expired"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hold"})
	}
	if prov.CustomerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	pickup, ret, err := prov.Dates()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "corrupt hold"})
	}

	payStatus := model.PaymentDueAtPickup
	var txnID *string
	if method == model.PayNow {
		// Synthetic gateway: payment always succeeds and mints a reference.
		ref, err := utils.RandomHex(12)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment reference failed"})
		}
		ref = "TXN-" + strings.ToUpper(ref)
		txnID = &ref
		payStatus = model.PaymentPaid
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	conflict, err := h.Bookings.HasOverlapTx(ctx, tx, prov.CarID, pickup, ret, 0, h.Cfg.BookingLock)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}
	if conflict {
		return c.JSON(http.StatusConflict, echo.Map{"error": "dates were booked while the hold was pending"})
	}

	methodStr := string(method)
	b := model.Booking{
		CustomerID:          prov.CustomerID,
		CarID:               prov.CarID,
		PickupDate:          pickup,
		ReturnDate:          ret,
		TotalCost:           prov.TotalCost,
		Status:              model.BookingConfirmed,
		PaymentStatus:       payStatus,
		TransactionID:       txnID,
		PaymentMethod:       &methodStr,
		SpecialRequirements: prov.SpecialRequirements,
		PickupLocation:      prov.PickupLocation,
		ReturnLocation:      prov.ReturnLocation,
	}
	if err := h.Bookings.CreateTx(ctx, tx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// The hold is spent; its disappearance is best-effort since TTL expiry
	// cleans up regardless.
	if err := h.Holds.Delete(ctx, prov.Token); err != nil {
		logrus.WithError(err).WithField("token", prov.Token).Warn("failed to delete spent hold")
	}

	evt := queue.BookingConfirmedEvent{
		BookingID:      b.ID,
		CustomerID:     b.CustomerID,
		CarID:          b.CarID,
		CarName:        prov.CarName,
		PickupDate:     prov.PickupDate,
		ReturnDate:     prov.ReturnDate,
		PickupLocation: b.PickupLocation,
		ReturnLocation: b.ReturnLocation,
		DayCount:       prov.DayCount,
		TotalCost:      b.TotalCost,
		PaymentStatus:  string(b.PaymentStatus),
		ConfirmedAt:    b.BookingDate.UTC().Format(time.RFC3339),
	}
	pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := service.PublishBookingConfirmed(pubCtx, evt); err != nil {
		logrus.WithError(err).WithField("booking_id", b.ID).Warn("booking.confirmed publish failed")
	}

	return c.JSON(http.StatusCreated, echo.Map{"item": toBookingResp(b)})
}

// ListMyBookings handles GET /v1/my-bookings.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Bookings.ListByCustomer(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	items := make([]echo.Map, 0, len(details))
	for _, d := range details {
		items = append(items, echo.Map{
			"booking":   toBookingResp(d.Booking),
			"car_name":  d.CarName,
			"car_model": d.CarModel,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id.  Customers see only their own
// bookings; an admin token sees any.  A foreign id reads as not found so
// existence is not leaked.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	if b.CustomerID != userID && currentRole(c) != model.RoleAdmin {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toBookingResp(b)})
}

// Cancel handles DELETE /v1/bookings/:id (and the admin mirror under
// /v1/admin/bookings/:id).  The lifecycle rules live in booking.CanCancel:
// owner-or-admin, Confirmed only, strictly before the pickup day.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}

	isAdmin := currentRole(c) == model.RoleAdmin
	if err := booking.CanCancel(b, userID, isAdmin, booking.Today()); err != nil {
		switch {
		case errors.Is(err, booking.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, booking.ErrInvalidState):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if err := h.Bookings.Cancel(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost a cancel race; the booking is no longer Confirmed.
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking state does not allow this operation"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}

	msg := "Your booking #" + c.Param("id") + " has been cancelled."
	if isAdmin && b.CustomerID != userID {
		msg = "Your booking #" + c.Param("id") + " was cancelled by support."
	}
	if err := h.Notifs.Create(ctx, b.CustomerID, msg); err != nil {
		logrus.WithError(err).WithField("booking_id", id).Warn("cancel notification failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled"})
}
