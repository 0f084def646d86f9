package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/chargebooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockScanUseCase struct {
	mock.Mock
}

func (m *MockScanUseCase) Scan(ctx context.Context, token string) (*domain.Booking, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func scanContext(t *testing.T, body string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/scan", bytes.NewReader([]byte(body)))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func TestScanHandler_success(t *testing.T) {
	mockService := &MockScanUseCase{}
	handler := NewScanHandler(mockService)

	w, c := scanContext(t, `{"token": "qr-value"}`)

	validated := sampleBooking()
	validated.Status = domain.BookingStatusApproved
	mockService.On("Scan", c.Request.Context(), "qr-value").Return(validated, nil)

	handler.scan(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestScanHandler_missingToken(t *testing.T) {
	mockService := &MockScanUseCase{}
	handler := NewScanHandler(mockService)

	w, c := scanContext(t, `{}`)

	handler.scan(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything)
}

func TestScanHandler_alreadyUsed(t *testing.T) {
	mockService := &MockScanUseCase{}
	handler := NewScanHandler(mockService)

	w, c := scanContext(t, `{"token": "qr-value"}`)

	mockService.On("Scan", c.Request.Context(), "qr-value").
		Return(nil, domain.ScanFailure(domain.ScanAlreadyUsed))

	handler.scan(c)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "AlreadyUsed", response["code"])
}
