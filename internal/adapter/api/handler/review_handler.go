package handler

import (
	"github.com/labstack/echo/v4"

	"evenapp/internal/adapter/api/middleware"
	"evenapp/internal/domain/entity"
	"evenapp/internal/usecase"
	"evenapp/pkg/errors"
	"evenapp/pkg/response"
	"evenapp/pkg/utils"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
	grantUseCase  *usecase.EmergencyGrantUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase, grantUseCase *usecase.EmergencyGrantUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
		grantUseCase:  grantUseCase,
	}
}

type submitReviewRequest struct {
	TargetUID           string `json:"targetUid" validate:"required"`
	Rating              int    `json:"rating"`
	Comment             string `json:"comment" validate:"max=2000"`
	Type                string `json:"type" validate:"omitempty,oneof=normal emergency report"`
	PhoneNumberSnapshot string `json:"phoneNumberSnapshot,omitempty"`
}

func (h *ReviewHandler) SubmitReview(c echo.Context) error {
	var req submitReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	reviewType, ok := entity.ParseReviewType(req.Type)
	if !ok {
		return response.Error(c, errors.BadRequest("Unknown review type", nil))
	}

	review, err := h.reviewUseCase.SubmitReview(c.Request().Context(), middleware.UID(c), usecase.SubmitReviewInput{
		TargetUID:           req.TargetUID,
		Rating:              req.Rating,
		Comment:             req.Comment,
		Type:                reviewType,
		PhoneNumberSnapshot: req.PhoneNumberSnapshot,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, review)
}

// GetReviewsForUser lists reviews the user received, newest first.
func (h *ReviewHandler) GetReviewsForUser(c echo.Context) error {
	uid := c.Param("uid")
	pagination := utils.GetPaginationParams(c)

	reviews, total, err := h.reviewUseCase.ListReviewsForUser(c.Request().Context(), uid, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, reviews, total, pagination.Page, pagination.PageSize)
}

func (h *ReviewHandler) GetAverageRating(c echo.Context) error {
	stats, err := h.reviewUseCase.GetAverageRating(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}

func (h *ReviewHandler) GetMyWeekUsage(c echo.Context) error {
	usage, err := h.reviewUseCase.GetWeeklyUsage(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, usage)
}

func (h *ReviewHandler) GetEmergencyStatus(c echo.Context) error {
	targetUID := c.Param("targetUid")
	if targetUID == middleware.UID(c) {
		return response.Error(c, errors.SelfReview())
	}

	status, err := h.grantUseCase.GetStatus(c.Request().Context(), middleware.UID(c), targetUID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, status)
}
