package get_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type stubUseCase struct {
	got  *getAvailability.Request
	resp *getAvailability.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
	s.got = req
	return s.resp, s.err
}

func get(uc GetAvailabilityUseCase, url string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/shops/{shopId}/availability", NewHandler(uc, logger.Discard()).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestHandle_ReturnsIntervals(t *testing.T) {
	shopID := uuid.New()
	start := time.Date(2023, 11, 9, 9, 0, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &getAvailability.Response{
		ShopID: shopID,
		Intervals: []getAvailability.Interval{
			{StartTime: start, EndTime: start.Add(time.Hour)},
		},
	}}

	rec := get(uc, "/api/v1/shops/"+shopID.String()+"/availability?start=2023-11-09&end=2023-11-10&minDurationMinutes=30")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"startTime": "2023-11-09T09:00:00Z", "endTime": "2023-11-09T10:00:00Z"}]`, rec.Body.String())

	require.NotNil(t, uc.got)
	assert.Equal(t, shopID, uc.got.ShopID)
	assert.Equal(t, 9, uc.got.Start.Day())
	assert.Equal(t, 10, uc.got.End.Day())
	require.NotNil(t, uc.got.MinDurationMinutes)
	assert.Equal(t, 30, *uc.got.MinDurationMinutes)
}

func TestHandle_EmptyResultIsEmptyArray(t *testing.T) {
	uc := &stubUseCase{resp: &getAvailability.Response{Intervals: []getAvailability.Interval{}}}

	rec := get(uc, "/api/v1/shops/"+uuid.NewString()+"/availability?start=2023-11-11&end=2023-11-12")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandle_BadRequests(t *testing.T) {
	shop := uuid.NewString()
	tests := []struct {
		name string
		url  string
		err  error
	}{
		{name: "invalid shop id", url: "/api/v1/shops/abc/availability?start=2023-11-09&end=2023-11-09"},
		{name: "missing end", url: "/api/v1/shops/" + shop + "/availability?start=2023-11-09"},
		{name: "missing both", url: "/api/v1/shops/" + shop + "/availability"},
		{name: "bad date", url: "/api/v1/shops/" + shop + "/availability?start=09.11.2023&end=2023-11-09"},
		{name: "bad min duration", url: "/api/v1/shops/" + shop + "/availability?start=2023-11-09&end=2023-11-09&minDurationMinutes=half"},
		{
			name: "range rejected by use case",
			url:  "/api/v1/shops/" + shop + "/availability?start=2023-01-01&end=2023-12-31",
			err:  domain.NewValidationError("end", "range must not exceed 92 days"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(&stubUseCase{err: tt.err}, tt.url)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestHandle_ShopNotFound(t *testing.T) {
	rec := get(&stubUseCase{err: getAvailability.ErrShopNotFound},
		"/api/v1/shops/"+uuid.NewString()+"/availability?start=2023-11-09&end=2023-11-09")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
