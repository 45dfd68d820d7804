package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/propertyhub/internal/domain"
)

// CustomValidator wraps go-playground/validator to implement echo.Validator.
// Failures wrap domain.ErrInvalidInput so the error handler answers 400.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a CustomValidator with the domain rules registered.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: domain.Validator()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

// FavoriteRequest is the body of POST /api/favorites.
type FavoriteRequest struct {
	EntityType string `json:"entityType" form:"entityType" validate:"required,entitytype"`
	EntityID   string `json:"entityId" form:"entityId" validate:"required,max=100"`
}

// HomeSectionRequest is the body of PUT /admin/api/home/:section.
type HomeSectionRequest struct {
	Content map[string]any `json:"content" validate:"required"`
}

// bind decodes the request into dst and validates it.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return c.Validate(dst)
}
