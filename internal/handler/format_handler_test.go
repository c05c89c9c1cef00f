package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pentadosen-api/internal/dto"
)

func TestFormatHandlerIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewFormatHandler()

	c, rec := jsonContext(http.MethodPost, "/formats/identity", dto.IdentityFormatRequest{
		NIDN:  "0312345678",
		NIP:   "1980010120050",
		Email: "jane@yarsi.ac.id",
	})
	handler.Identity(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var out dto.IdentityFormatResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &out))

	require.NotNil(t, out.NIDN)
	assert.Equal(t, "0-312345-678", out.NIDN.Formatted)
	assert.True(t, out.NIDN.Valid)

	require.NotNil(t, out.NIP)
	assert.False(t, out.NIP.Valid)

	require.NotNil(t, out.Email)
	assert.True(t, out.Email.Valid)
	assert.Nil(t, out.ISBN)
}

func TestFormatHandlerRupiah(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewFormatHandler()

	c, rec := jsonContext(http.MethodGet, "/formats/rupiah?amount=Rp+45.000.000", nil)
	handler.Rupiah(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var out dto.RupiahResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &out))
	assert.Equal(t, int64(45000000), out.Amount)
	assert.Equal(t, "Rp 45.000.000", out.Formatted)
	assert.Equal(t, "empat puluh lima juta rupiah", out.InWords)
}

func TestFormatHandlerRupiahRequiresAmount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewFormatHandler()

	c, rec := jsonContext(http.MethodGet, "/formats/rupiah", nil)
	handler.Rupiah(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
