package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"feedinneed_backend/internal/handlers"
	"feedinneed_backend/internal/services"
	"feedinneed_backend/internal/services/dto"
	"feedinneed_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDonationService struct {
	services.DonationService
}

func (fakeDonationService) ListPublic(*dto.DonationListQuery) (*dto.DonationListResponse, error) {
	return &dto.DonationListResponse{}, nil
}

func newDonationRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewDonationHandler(handlers.NewBaseHandler(validator.New()), fakeDonationService{})
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestPublicListingNeedsNoToken(t *testing.T) {
	router := newDonationRouter()

	req, err := http.NewRequest(http.MethodGet, "/api/v1/donations", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOwnListingsStillRequireAuth(t *testing.T) {
	router := newDonationRouter()

	req, err := http.NewRequest(http.MethodGet, "/api/v1/donations/mine", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
