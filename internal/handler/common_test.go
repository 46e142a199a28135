package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/driveease/car-rental-api/internal/model"
)

func testContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestGetUserID(t *testing.T) {
	cases := []struct {
		name    string
		value   interface{}
		want    uint64
		wantErr bool
	}{
		{"uint64", uint64(42), 42, false},
		{"float64 from jwt claims", float64(7), 7, false},
		{"numeric string", "19", 19, false},
		{"garbage string", "abc", 0, true},
		{"missing", nil, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := testContext(t)
			if tc.value != nil {
				c.Set("user_id", tc.value)
			}
			got, err := getUserID(c)
			if tc.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr = %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCurrentRoleDegradesToCustomer(t *testing.T) {
	c := testContext(t)
	c.Set("role", "SuperUser")
	if got := currentRole(c); got != model.RoleCustomer {
		t.Errorf("unknown role parsed as %q", got)
	}
	c.Set("role", "Admin")
	if got := currentRole(c); got != model.RoleAdmin {
		t.Errorf("Admin parsed as %q", got)
	}
}

func TestLocationAllowed(t *testing.T) {
	locs := []model.CarLocation{
		{Name: "Downtown Branch", Type: model.LocationPickup},
		{Name: "Airport", Type: model.LocationPickup},
		{Name: "Airport", Type: model.LocationDropoff},
	}
	cases := []struct {
		name string
		typ  model.LocationType
		loc  string
		want bool
	}{
		{"listed pickup", model.LocationPickup, "Airport", true},
		{"case-insensitive match", model.LocationPickup, "downtown branch", true},
		{"unlisted pickup", model.LocationPickup, "Harbor", false},
		{"listed dropoff", model.LocationDropoff, "Airport", true},
		{"empty name", model.LocationPickup, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := locationAllowed(locs, tc.typ, tc.loc); got != tc.want {
				t.Errorf("locationAllowed(%q, %q) = %v, want %v", tc.typ, tc.loc, got, tc.want)
			}
		})
	}
	// A car with no dropoff list accepts any non-empty name.
	pickupOnly := locs[:2]
	if !locationAllowed(pickupOnly, model.LocationDropoff, "Anywhere") {
		t.Error("free-form dropoff rejected when car has no dropoff list")
	}
}
