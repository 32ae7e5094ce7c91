package handler

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"

	"evenapp/pkg/errors"
	"evenapp/pkg/response"
)

type DevTokenIssuer interface {
	GenerateDevToken(ctx context.Context, uid string, admin bool) (string, error)
}

type DevTokenHandler struct {
	issuer DevTokenIssuer
}

var devTokenHandler *DevTokenHandler

func NewDevTokenHandler(issuer DevTokenIssuer) *DevTokenHandler {
	return &DevTokenHandler{
		issuer: issuer,
	}
}

func SetupDevTokenHandler(issuer DevTokenIssuer) {
	devTokenHandler = NewDevTokenHandler(issuer)
}

func GetDevTokenHandler() *DevTokenHandler {
	return devTokenHandler
}

// GenerateToken returns a Firebase custom token for :uid; ?admin=true adds
// the admin claim.
func (h *DevTokenHandler) GenerateToken(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return response.Error(c, errors.BadRequest("uid is required", nil))
	}
	admin, _ := strconv.ParseBool(c.QueryParam("admin"))

	token, err := h.issuer.GenerateDevToken(c.Request().Context(), uid, admin)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to generate token", err))
	}

	return response.Success(c, map[string]interface{}{
		"uid":   uid,
		"admin": admin,
		"token": token,
	})
}
