package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/driveease/car-rental-api/internal/booking"
    "github.com/driveease/car-rental-api/internal/model"
)

// BookingRepo provides access to the bookings ledger.  The overlap
// predicate lives both here (as SQL, for the hot path) and in the
// booking package (as a pure function, for the lifecycle rules and
// tests); the two must implement the same closed-interval comparison.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for handlers that open commit
// transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingCols = `id, customer_id, car_id, pickup_date, return_date, total_cost,
                     booking_status, payment_status, transaction_id, payment_method,
                     special_requirements, pickup_location, return_location, booking_date`

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
    var b model.Booking
    var status, payStatus string
    var txnID, method sql.NullString
    err := row.Scan(&b.ID, &b.CustomerID, &b.CarID, &b.PickupDate, &b.ReturnDate,
        &b.TotalCost, &status, &payStatus, &txnID, &method,
        &b.SpecialRequirements, &b.PickupLocation, &b.ReturnLocation, &b.BookingDate)
    if err != nil {
        return model.Booking{}, err
    }
    b.Status = model.BookingStatus(status)
    b.PaymentStatus = model.PaymentStatus(payStatus)
    if txnID.Valid {
        v := txnID.String
        b.TransactionID = &v
    }
    if method.Valid {
        v := method.String
        b.PaymentMethod = &v
    }
    return b, nil
}

// overlapQuery counts active bookings of a car whose inclusive day range
// intersects [pickup, return].  Both boundaries conflict: a pickup on the
// day another rental returns is rejected (turnaround-day rule).
const overlapQuery = `SELECT COUNT(*) FROM bookings
     WHERE car_id = ?
       AND booking_status <> 'Cancelled'
       AND id <> ?
       AND pickup_date <= ?
       AND return_date >= ?`

// HasOverlap reports whether an active booking of the car overlaps the
// candidate range.  excludeID skips one booking (0 skips none).  The
// check is read-only and carries no atomicity with a later insert; the
// commit path repeats it inside a transaction.
func (r *BookingRepo) HasOverlap(ctx context.Context, carID uint64, pickup, ret time.Time, excludeID uint64) (bool, error) {
    var n int
    err := r.db.QueryRowContext(ctx, overlapQuery,
        carID, excludeID,
        ret.Format(booking.DateLayout), pickup.Format(booking.DateLayout)).Scan(&n)
    return n > 0, err
}

// HasOverlapTx runs the overlap check inside an existing transaction.
// With forUpdate the matching rows (and, under MySQL's ordinary
// REPEATABLE READ, the gap they guard) are locked until commit, which
// serializes two racing commits for the same car and closes the
// check-then-insert double-booking window.  Without it the behavior is
// the legacy one: two concurrent commits can both pass.
func (r *BookingRepo) HasOverlapTx(ctx context.Context, tx *sql.Tx, carID uint64, pickup, ret time.Time, excludeID uint64, forUpdate bool) (bool, error) {
    q := overlapQuery
    if forUpdate {
        q += " FOR UPDATE"
    }
    var n int
    err := tx.QueryRowContext(ctx, q,
        carID, excludeID,
        ret.Format(booking.DateLayout), pickup.Format(booking.DateLayout)).Scan(&n)
    return n > 0, err
}

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID and booking_date on the
// provided record.  The caller must commit or roll back.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    res, err := tx.ExecContext(ctx,
        `INSERT INTO bookings (customer_id, car_id, pickup_date, return_date, total_cost,
                               booking_status, payment_status, transaction_id, payment_method,
                               special_requirements, pickup_location, return_location)
         VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
        b.CustomerID, b.CarID,
        b.PickupDate.Format(booking.DateLayout), b.ReturnDate.Format(booking.DateLayout),
        b.TotalCost, string(b.Status), string(b.PaymentStatus),
        b.TransactionID, b.PaymentMethod,
        b.SpecialRequirements, b.PickupLocation, b.ReturnLocation)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    // Read back booking_date (set by the column default).
    return tx.QueryRowContext(ctx,
        "SELECT booking_date FROM bookings WHERE id=?", b.ID).Scan(&b.BookingDate)
}

// GetByID fetches a single booking; sql.ErrNoRows for unknown ids.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
    row := r.db.QueryRowContext(ctx, "SELECT "+bookingCols+" FROM bookings WHERE id=?", id)
    return scanBooking(row)
}

// Cancel flips a booking to Cancelled.  The lifecycle rules (ownership,
// pre-pickup timing, Confirmed-only) are enforced by the caller via
// booking.CanCancel before this runs; the status guard here only keeps a
// racing double-cancel from looking like success twice.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx,
        "UPDATE bookings SET booking_status=? WHERE id=? AND booking_status=?",
        string(model.BookingCancelled), id, string(model.BookingConfirmed))
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// BookingDetail pairs a booking with display fields of its car for
// listing endpoints.
type BookingDetail struct {
    model.Booking
    CarName  string `json:"car_name"`
    CarModel string `json:"car_model"`
}

func (r *BookingRepo) listDetails(ctx context.Context, where string, args ...any) ([]BookingDetail, error) {
    q := `SELECT b.id, b.customer_id, b.car_id, b.pickup_date, b.return_date, b.total_cost,
                 b.booking_status, b.payment_status, b.transaction_id, b.payment_method,
                 b.special_requirements, b.pickup_location, b.return_location, b.booking_date,
                 c.name, c.model
          FROM bookings b
          JOIN cars c ON c.id = b.car_id ` + where + ` ORDER BY b.booking_date DESC`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]BookingDetail, 0)
    for rows.Next() {
        var d BookingDetail
        var status, payStatus string
        var txnID, method sql.NullString
        if err := rows.Scan(&d.ID, &d.CustomerID, &d.CarID, &d.PickupDate, &d.ReturnDate,
            &d.TotalCost, &status, &payStatus, &txnID, &method,
            &d.SpecialRequirements, &d.PickupLocation, &d.ReturnLocation, &d.BookingDate,
            &d.CarName, &d.CarModel); err != nil {
            return nil, err
        }
        d.Status = model.BookingStatus(status)
        d.PaymentStatus = model.PaymentStatus(payStatus)
        if txnID.Valid {
            v := txnID.String
            d.TransactionID = &v
        }
        if method.Valid {
            v := method.String
            d.PaymentMethod = &v
        }
        details = append(details, d)
    }
    return details, rows.Err()
}

// ListByCustomer returns a customer's bookings, newest first.
func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]BookingDetail, error) {
    return r.listDetails(ctx, "WHERE b.customer_id = ?", customerID)
}

// ListAll returns every booking for the admin back office.
func (r *BookingRepo) ListAll(ctx context.Context) ([]BookingDetail, error) {
    return r.listDetails(ctx, "")
}

// Count returns the total number of bookings (dashboard counter).
func (r *BookingRepo) Count(ctx context.Context) (int, error) {
    var n int
    err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings").Scan(&n)
    return n, err
}
