package handlers

import (
	"fmt"
	"net/http"
	"teises_draugas_go/services"

	"github.com/labstack/echo/v4"
)

// AnalyzeCaseHandler runs the AI assessment. A failed generation still
// answers 200 with the neutral analysis flagged as fallback.
func (h *Handler) AnalyzeCaseHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	analysis, err := h.svc.Analysis.Analyze(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, analysis)
}

// GenerateLetterHandler drafts a new demand letter. Earlier letters are kept.
func (h *Handler) GenerateLetterHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.GenerateLetterInput
	if err := bindJSON(c, &input); err != nil {
		return respondError(c, err)
	}

	letter, err := h.svc.Letters.Generate(c.Request().Context(), c.Param("id"), user.ID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, letter)
}

func (h *Handler) ListLettersHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	letters, err := h.svc.Letters.List(c.Param("id"), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, letters)
}

// PrintLetterHandler returns the plain-text print envelope of a letter.
func (h *Handler) PrintLetterHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	text, err := h.svc.Letters.FormatForPrint(c.Param("letterID"), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentType, "text/plain; charset=utf-8")
	return c.String(http.StatusOK, text)
}

// SendLetterHandler delivers a letter through E. pristatymas. A gateway
// failure answers 502 with the result body.
func (h *Handler) SendLetterHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	result, err := h.svc.Delivery.SendLetter(c.Request().Context(), c.Param("letterID"), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return respondDelivery(c, result)
}

func (h *Handler) GenerateFilingHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.GenerateFilingInput
	if err := bindJSON(c, &input); err != nil {
		return respondError(c, err)
	}

	filing, err := h.svc.Filings.Generate(c.Param("id"), user.ID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, filing)
}

func (h *Handler) ListFilingsHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	filings, err := h.svc.Filings.List(c.Param("id"), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, filings)
}

func (h *Handler) MarkFilingReadyHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	filing, err := h.svc.Filings.MarkReadyToSign(c.Param("filingID"), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, filing)
}

// FilingXMLHandler returns the e.teismas XML stored with the filing.
func (h *Handler) FilingXMLHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	filing, err := h.svc.Filings.Get(c.Param("filingID"), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, []byte(filing.XMLContent))
}

func (h *Handler) FilingPDFHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	pdf, err := h.svc.Filings.RenderPDF(c.Request().Context(), c.Param("filingID"), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	filename := fmt.Sprintf("teismo_isakymas_%s.pdf", c.Param("filingID"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// SubmitFilingHandler signs and sends a filing to e.teismas.
func (h *Handler) SubmitFilingHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.SubmitFilingInput
	if err := bindJSON(c, &input); err != nil {
		return respondError(c, err)
	}

	result, err := h.svc.Delivery.SubmitFiling(c.Request().Context(), c.Param("filingID"), user.ID, input)
	if err != nil {
		return respondError(c, err)
	}
	return respondDelivery(c, result)
}

// NegotiationAdviceHandler analyses the opponent's reply and suggests an answer.
func (h *Handler) NegotiationAdviceHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.NegotiationInput
	if err := bindJSON(c, &input); err != nil {
		return respondError(c, err)
	}

	round, err := h.svc.Negotiations.Advise(c.Request().Context(), c.Param("id"), user.ID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, round)
}

func (h *Handler) ListNegotiationsHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	rounds, err := h.svc.Negotiations.List(c.Param("id"), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rounds)
}

func respondDelivery(c echo.Context, result *services.DeliveryResult) error {
	if result.Rejected {
		return c.JSON(http.StatusConflict, result)
	}
	if !result.Success {
		return c.JSON(http.StatusBadGateway, result)
	}
	return c.JSON(http.StatusOK, result)
}
