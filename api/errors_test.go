package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("insert booking: %w", domain.ErrConflict), http.StatusConflict},
		{domain.ErrInvalidSignature, http.StatusPaymentRequired},
		{domain.ErrInvalidTransition, http.StatusConflict},
		{domain.ErrAlreadyExists, http.StatusConflict},
		{domain.ErrPaymentGateway, http.StatusBadGateway},
		{domain.ErrInvalidDuration, http.StatusBadRequest},
		{domain.ErrInvalidDateRange, http.StatusBadRequest},
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	c, w := testContext("GET", "/", "")

	writeError(c, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Len(t, c.Errors, 1)
}
