package handler

import (
	"github.com/labstack/echo/v4"

	"evenapp/internal/adapter/api/middleware"
	"evenapp/internal/usecase"
	"evenapp/pkg/response"
)

type StrikeHandler struct {
	strikeUseCase *usecase.StrikeUseCase
}

func NewStrikeHandler(strikeUseCase *usecase.StrikeUseCase) *StrikeHandler {
	return &StrikeHandler{
		strikeUseCase: strikeUseCase,
	}
}

func (h *StrikeHandler) GetMyStrikes(c echo.Context) error {
	return h.list(c, middleware.UID(c))
}

// GetUserStrikes is the admin view of any user's ledger.
func (h *StrikeHandler) GetUserStrikes(c echo.Context) error {
	return h.list(c, c.Param("uid"))
}

func (h *StrikeHandler) list(c echo.Context, uid string) error {
	summary, err := h.strikeUseCase.ListStrikes(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, summary)
}
