package handlers

import (
	"fmt"
	"net/http"
	"teises_draugas_go/models"
	"teises_draugas_go/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type courtFeeQuote struct {
	Amount   decimal.Decimal `json:"amount"`
	CourtFee decimal.Decimal `json:"court_fee"`
}

// CourtFeeHandler quotes the stamp duty for ?amount=.
func (h *Handler) CourtFeeHandler(c echo.Context) error {
	amount, err := decimal.NewFromString(c.QueryParam("amount"))
	if err != nil {
		return respondError(c, services.NewValidationError("amount", "must be a number"))
	}
	if err := services.ValidateClaimAmount(amount); err != nil {
		return respondError(c, services.NewValidationError("amount", err.Error()))
	}
	return c.JSON(http.StatusOK, courtFeeQuote{Amount: amount, CourtFee: services.CalculateCourtFee(amount)})
}

// LegalArticlesHandler lists the Civil Code article groups for ?category=.
func (h *Handler) LegalArticlesHandler(c echo.Context) error {
	category := models.CaseCategory(c.QueryParam("category"))
	if !category.Valid() {
		return respondError(c, services.NewValidationError("category", fmt.Sprintf("unknown value %q", string(category))))
	}
	return c.JSON(http.StatusOK, services.ArticleGroupsFor(category))
}
