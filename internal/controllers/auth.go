package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"records-system/internal/dto"
	"records-system/internal/services"
	"records-system/pkg/api"
	apperrors "records-system/pkg/errors"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewValidationError("некорректное тело запроса"))
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewValidationError("email и пароль обязательны"))
	}

	pair, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "Вход выполнен", pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (ctrl *AuthController) Refresh(c echo.Context) error {
	var payload refreshRequest
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewValidationError("некорректное тело запроса"))
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewValidationError("refresh_token обязателен"))
	}

	pair, err := ctrl.authService.Refresh(c.Request().Context(), payload.RefreshToken)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "Токены обновлены", pair)
}
