package handler

import (
	"evenapp/internal/usecase"
)

var (
	reviewHandler *ReviewHandler
	strikeHandler *StrikeHandler
)

func Setup(
	reviewUseCase *usecase.ReviewUseCase,
	strikeUseCase *usecase.StrikeUseCase,
	grantUseCase *usecase.EmergencyGrantUseCase,
) {
	reviewHandler = NewReviewHandler(reviewUseCase, grantUseCase)
	strikeHandler = NewStrikeHandler(strikeUseCase)
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetStrikeHandler() *StrikeHandler {
	return strikeHandler
}
