package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/driveease/car-rental-api/internal/model"
)

// CarRepo provides CRUD for the car catalog and the per-car location
// lists.  The is_available flag is advisory; true availability for a
// date range is answered by BookingRepo.HasOverlap.
type CarRepo struct{ db *sql.DB }

func NewCarRepo(db *sql.DB) *CarRepo { return &CarRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning cars and bookings.
func (r *CarRepo) DB() *sql.DB { return r.db }

const carCols = `id, name, model, image_url, is_available, daily_rate, car_type,
                 fuel_type, seating_capacity, transmission, description, mileage, date_added`

func scanCar(row interface{ Scan(...any) error }) (model.Car, error) {
    var c model.Car
    var img sql.NullString
    var mileage sql.NullFloat64
    err := row.Scan(&c.ID, &c.Name, &c.Model, &img, &c.IsAvailable, &c.DailyRate,
        &c.CarType, &c.FuelType, &c.SeatingCapacity, &c.Transmission,
        &c.Description, &mileage, &c.DateAdded)
    if err != nil {
        return model.Car{}, err
    }
    if img.Valid {
        v := img.String
        c.ImageURL = &v
    }
    if mileage.Valid {
        v := mileage.Float64
        c.Mileage = &v
    }
    return c, nil
}

// Create inserts a new car and populates its generated ID.
func (r *CarRepo) Create(ctx context.Context, c *model.Car) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO cars (name, model, image_url, is_available, daily_rate, car_type,
                           fuel_type, seating_capacity, transmission, description, mileage)
         VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
        c.Name, c.Model, c.ImageURL, c.IsAvailable, c.DailyRate, c.CarType,
        c.FuelType, c.SeatingCapacity, c.Transmission, c.Description, c.Mileage)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    c.ID = uint64(id)
    return nil
}

// Update overwrites the editable fields of a car.  A nil ImageURL keeps
// the stored image (matching the edit form, where uploading is optional).
func (r *CarRepo) Update(ctx context.Context, c model.Car) error {
    var res sql.Result
    var err error
    if c.ImageURL == nil {
        res, err = r.db.ExecContext(ctx,
            `UPDATE cars SET name=?, model=?, is_available=?, daily_rate=?, car_type=?,
                             fuel_type=?, seating_capacity=?, transmission=?, description=?, mileage=?
             WHERE id=?`,
            c.Name, c.Model, c.IsAvailable, c.DailyRate, c.CarType,
            c.FuelType, c.SeatingCapacity, c.Transmission, c.Description, c.Mileage, c.ID)
    } else {
        res, err = r.db.ExecContext(ctx,
            `UPDATE cars SET name=?, model=?, image_url=?, is_available=?, daily_rate=?, car_type=?,
                             fuel_type=?, seating_capacity=?, transmission=?, description=?, mileage=?
             WHERE id=?`,
            c.Name, c.Model, *c.ImageURL, c.IsAvailable, c.DailyRate, c.CarType,
            c.FuelType, c.SeatingCapacity, c.Transmission, c.Description, c.Mileage, c.ID)
    }
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        // RowsAffected is 0 both for a missing row and a no-change update;
        // confirm existence before reporting not-found.
        var exists int
        if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM cars WHERE id=?", c.ID).Scan(&exists); err == sql.ErrNoRows {
            return ErrCarNotFound
        } else if err != nil {
            return err
        }
    }
    return nil
}

// GetByID fetches a single car.  ErrCarNotFound is returned for unknown ids.
func (r *CarRepo) GetByID(ctx context.Context, id uint64) (model.Car, error) {
    row := r.db.QueryRowContext(ctx, "SELECT "+carCols+" FROM cars WHERE id=?", id)
    c, err := scanCar(row)
    if err == sql.ErrNoRows {
        return model.Car{}, ErrCarNotFound
    }
    return c, err
}

// CarFilter narrows the public catalog listing.  Zero values mean "no
// filter" for every field.
type CarFilter struct {
    CarType       string
    FuelType      string
    Transmission  string
    MaxDailyRate  float64
    MinSeats      int
    OnlyAvailable bool
}

// List returns catalog cars matching the filter, newest first.
func (r *CarRepo) List(ctx context.Context, f CarFilter) ([]model.Car, error) {
    var conds []string
    var args []any
    if f.CarType != "" {
        conds = append(conds, "car_type = ?")
        args = append(args, f.CarType)
    }
    if f.FuelType != "" {
        conds = append(conds, "fuel_type = ?")
        args = append(args, f.FuelType)
    }
    if f.Transmission != "" {
        conds = append(conds, "transmission = ?")
        args = append(args, f.Transmission)
    }
    if f.MaxDailyRate > 0 {
        conds = append(conds, "daily_rate <= ?")
        args = append(args, f.MaxDailyRate)
    }
    if f.MinSeats > 0 {
        conds = append(conds, "seating_capacity >= ?")
        args = append(args, f.MinSeats)
    }
    if f.OnlyAvailable {
        conds = append(conds, "is_available = TRUE")
    }
    q := "SELECT " + carCols + " FROM cars"
    if len(conds) > 0 {
        q += " WHERE " + strings.Join(conds, " AND ")
    }
    q += " ORDER BY date_added DESC"

    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    cars := make([]model.Car, 0)
    for rows.Next() {
        c, err := scanCar(rows)
        if err != nil {
            return nil, err
        }
        cars = append(cars, c)
    }
    return cars, rows.Err()
}

// Delete removes a car that no booking references.  When bookings exist
// it returns ErrCarInUse without touching the row; the handler then
// falls back to SetAvailability(false) (the soft-delete policy).
func (r *CarRepo) Delete(ctx context.Context, id uint64) error {
    var n int
    if err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM bookings WHERE car_id=?", id).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrCarInUse
    }
    res, err := r.db.ExecContext(ctx, "DELETE FROM cars WHERE id=?", id)
    if err != nil {
        return err
    }
    if affected, _ := res.RowsAffected(); affected == 0 {
        return ErrCarNotFound
    }
    // Location lists ride along with the car.
    _, err = r.db.ExecContext(ctx, "DELETE FROM car_locations WHERE car_id=?", id)
    return err
}

// SetAvailability flips the advisory availability flag.
func (r *CarRepo) SetAvailability(ctx context.Context, id uint64, available bool) error {
    res, err := r.db.ExecContext(ctx, "UPDATE cars SET is_available=? WHERE id=?", available, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrCarNotFound
    }
    return nil
}

// ListLocations returns a car's location entries, optionally filtered to
// one LocationType (empty string returns both lists).
func (r *CarRepo) ListLocations(ctx context.Context, carID uint64, typ model.LocationType) ([]model.CarLocation, error) {
    q := "SELECT id, car_id, location_name, location_type FROM car_locations WHERE car_id=?"
    args := []any{carID}
    if typ != "" {
        q += " AND location_type=?"
        args = append(args, string(typ))
    }
    q += " ORDER BY location_type, location_name"
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    locs := make([]model.CarLocation, 0)
    for rows.Next() {
        var l model.CarLocation
        var t string
        if err := rows.Scan(&l.ID, &l.CarID, &l.Name, &t); err != nil {
            return nil, err
        }
        l.Type = model.LocationType(t)
        locs = append(locs, l)
    }
    return locs, rows.Err()
}

// ReplaceLocations swaps a car's pickup and dropoff lists atomically.
func (r *CarRepo) ReplaceLocations(ctx context.Context, carID uint64, pickups, dropoffs []string) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if _, err := tx.ExecContext(ctx, "DELETE FROM car_locations WHERE car_id=?", carID); err != nil {
        return err
    }
    insert := func(names []string, typ model.LocationType) error {
        for _, name := range names {
            name = strings.TrimSpace(name)
            if name == "" {
                continue
            }
            if _, err := tx.ExecContext(ctx,
                "INSERT INTO car_locations (car_id, location_name, location_type) VALUES (?,?,?)",
                carID, name, string(typ)); err != nil {
                return err
            }
        }
        return nil
    }
    if err := insert(pickups, model.LocationPickup); err != nil {
        return err
    }
    if err := insert(dropoffs, model.LocationDropoff); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Counts returns total and advisory-available car counts for the admin
// dashboard.
func (r *CarRepo) Counts(ctx context.Context) (total, available int, err error) {
    err = r.db.QueryRowContext(ctx,
        "SELECT COUNT(*), COALESCE(SUM(is_available), 0) FROM cars").Scan(&total, &available)
    return
}
