package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pentadosen-api/internal/dto"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
	"github.com/noah-isme/pentadosen-api/pkg/format"
	"github.com/noah-isme/pentadosen-api/pkg/response"
)

// FormatHandler applies the form masks server side so clients share one rule set.
type FormatHandler struct{}

// NewFormatHandler constructs the handler.
func NewFormatHandler() *FormatHandler {
	return &FormatHandler{}
}

// Identity godoc
// @Summary Format and validate identity fields
// @Tags Formats
// @Accept json
// @Produce json
// @Param payload body dto.IdentityFormatRequest true "Raw values"
// @Success 200 {object} response.Envelope
// @Router /formats/identity [post]
func (h *FormatHandler) Identity(c *gin.Context) {
	var req dto.IdentityFormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid format payload"))
		return
	}
	var out dto.IdentityFormatResponse
	if req.NIDN != "" {
		out.NIDN = &dto.FormattedField{Input: req.NIDN, Formatted: format.FormatNIDN(req.NIDN), Valid: format.ValidNIDN(req.NIDN)}
	}
	if req.NIP != "" {
		out.NIP = &dto.FormattedField{Input: req.NIP, Formatted: format.FormatNIP(req.NIP), Valid: format.ValidNIP(req.NIP)}
	}
	if req.ISBN != "" {
		out.ISBN = &dto.FormattedField{Input: req.ISBN, Formatted: format.FormatISBN(req.ISBN), Valid: format.ValidISBN(req.ISBN)}
	}
	if req.Email != "" {
		email := strings.TrimSpace(req.Email)
		out.Email = &dto.FormattedField{Input: req.Email, Formatted: email, Valid: format.ValidEmail(email)}
	}
	response.JSON(c, http.StatusOK, out, nil)
}

// Rupiah godoc
// @Summary Format a rupiah amount and spell it out
// @Tags Formats
// @Produce json
// @Param amount query string true "Amount, digits or formatted"
// @Success 200 {object} response.Envelope
// @Router /formats/rupiah [get]
func (h *FormatHandler) Rupiah(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("amount"))
	if raw == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "amount is required"))
		return
	}
	amount := format.ParseRupiah(raw)
	response.JSON(c, http.StatusOK, dto.RupiahResponse{
		Amount:    amount,
		Formatted: format.FormatRupiah(amount),
		InWords:   format.Terbilang(amount),
	}, nil)
}
