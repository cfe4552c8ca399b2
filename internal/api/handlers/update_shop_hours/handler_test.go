package update_shop_hours

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SchedulingService/internal/service/shophours"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

func newHandler() *Handler {
	service := shophours.NewService(memory.NewStore().Shops(), "UTC", logger.Discard())
	return NewHandler(service, logger.Discard())
}

func put(h *Handler, shopID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/shops/"+shopID+"/hours", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"shopId": shopID})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_UpdatesHours(t *testing.T) {
	shopID := uuid.NewString()
	rec := put(newHandler(), shopID, `{
		"timezone": "Europe/Moscow",
		"hoursOfOperation": {
			"monday": {"isOpen": true, "openTime": "09:00", "closeTime": "18:00"},
			"sunday": {"isOpen": false}
		}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ShopID           string `json:"shopId"`
		Timezone         string `json:"timezone"`
		HoursOfOperation struct {
			Monday struct {
				IsOpen    bool   `json:"isOpen"`
				OpenTime  string `json:"openTime"`
				CloseTime string `json:"closeTime"`
			} `json:"monday"`
		} `json:"hoursOfOperation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, shopID, resp.ShopID)
	assert.Equal(t, "Europe/Moscow", resp.Timezone)
	assert.True(t, resp.HoursOfOperation.Monday.IsOpen)
	assert.Equal(t, "09:00", resp.HoursOfOperation.Monday.OpenTime)
	assert.Equal(t, "18:00", resp.HoursOfOperation.Monday.CloseTime)
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		shopID string
		body   string
	}{
		{name: "bad shop id", shopID: "42", body: `{}`},
		{name: "malformed body", shopID: uuid.NewString(), body: `{"hoursOfOperation":`},
		{
			name:   "close before open",
			shopID: uuid.NewString(),
			body:   `{"hoursOfOperation":{"monday":{"isOpen":true,"openTime":"18:00","closeTime":"09:00"}}}`,
		},
		{
			name:   "unknown timezone",
			shopID: uuid.NewString(),
			body:   `{"timezone":"Mars/Olympus","hoursOfOperation":{}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := put(newHandler(), tt.shopID, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
