package model

import "time"

// LocationType distinguishes the two per-car location lists.
type LocationType string

const (
    LocationPickup  LocationType = "Pickup"
    LocationDropoff LocationType = "Dropoff"
)

// Car describes a rentable vehicle as stored in the `cars` table.
// IsAvailable is an advisory flag set by operators; true availability for
// a date range is always derived from the booking ledger.  Cars that have
// bookings are never hard-deleted, only marked unavailable.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – marketing name (e.g. "Corolla Altis").
//  Model           – model/trim designation.
//  ImageURL        – optional catalog image path.
//  IsAvailable     – advisory availability flag.
//  DailyRate       – positive daily rental price.
//  CarType         – body style (Sedan, SUV, Hatchback, ...).
//  FuelType        – Petrol, Diesel, Electric, ...
//  SeatingCapacity – number of seats (2..12).
//  Transmission    – Automatic or Manual.
//  Description     – free-text description.
//  Mileage         – optional odometer reading.
//  DateAdded       – when the car entered the catalog.
type Car struct {
    ID              uint64    // cars.id
    Name            string    // cars.name
    Model           string    // cars.model
    ImageURL        *string   // cars.image_url (nullable)
    IsAvailable     bool      // cars.is_available
    DailyRate       float64   // cars.daily_rate (DECIMAL(8,2))
    CarType         string    // cars.car_type
    FuelType        string    // cars.fuel_type
    SeatingCapacity int       // cars.seating_capacity
    Transmission    string    // cars.transmission
    Description     string    // cars.description
    Mileage         *float64  // cars.mileage (nullable)
    DateAdded       time.Time // cars.date_added
}

// CarLocation is one entry of a car's pickup or dropoff location list.
type CarLocation struct {
    ID    uint64       // car_locations.id
    CarID uint64       // car_locations.car_id
    Name  string       // car_locations.location_name
    Type  LocationType // car_locations.location_type
}
