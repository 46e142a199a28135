package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/driveease/car-rental-api/internal/model"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// currentRole reads the role the JWT middleware stored on the context.
// Anything unparseable degrades to Customer, never to Admin.
func currentRole(c echo.Context) model.Role {
	if s, ok := c.Get("role").(string); ok {
		if r, ok := model.ParseRole(s); ok {
			return r
		}
	}
	return model.RoleCustomer
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}
