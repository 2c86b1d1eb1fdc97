package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bookit/bookit-backend/internal/models"
	"github.com/bookit/bookit-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ============================================================================
// FAKES
// ============================================================================

type fakeExperiences struct {
	list   []models.Experience
	detail *models.ExperienceDetail
	err    error
}

func (f *fakeExperiences) ListExperiences(ctx context.Context) ([]models.Experience, error) {
	return f.list, f.err
}

func (f *fakeExperiences) GetExperience(ctx context.Context, id string) (*models.ExperienceDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

type fakeBookings struct {
	created  *models.BookingDetails
	err      error
	received *models.CreateBookingRequest
}

func (f *fakeBookings) CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.BookingDetails, error) {
	f.received = req
	if f.err != nil {
		return nil, f.err
	}
	return f.created, nil
}

func (f *fakeBookings) GetBooking(ctx context.Context, id string) (*models.BookingDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.created, nil
}

type fakeInvalidator struct {
	paths []string
	err   error
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, paths ...string) error {
	f.paths = append(f.paths, paths...)
	return f.err
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(ctx context.Context) error { return f.err }

// ============================================================================
// EXPERIENCES
// ============================================================================

func TestExperienceHandler_ListExperiences(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		fake := &fakeExperiences{list: []models.Experience{{ID: "exp-1", Title: "Kayaking", Price: 999}}}
		handler := NewExperienceHandler(fake, quietLogger())

		router := gin.New()
		router.GET("/api/experiences", handler.ListExperiences)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/experiences", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.True(t, body.Success)
		assert.Equal(t, "Experiences fetched successfully", body.Message)

		var experiences []models.Experience
		require.NoError(t, json.Unmarshal(body.Data, &experiences))
		require.Len(t, experiences, 1)
		assert.Equal(t, "Kayaking", experiences[0].Title)
	})

	t.Run("InternalErrorHidesCause", func(t *testing.T) {
		fake := &fakeExperiences{err: services.NewInternal("Error fetching experiences", errors.New("pq: connection refused"))}
		handler := NewExperienceHandler(fake, quietLogger())

		router := gin.New()
		router.GET("/api/experiences", handler.ListExperiences)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/experiences", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.False(t, body.Success)
		assert.Equal(t, "Error fetching experiences", body.Message)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestExperienceHandler_GetExperience(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		fake := &fakeExperiences{detail: &models.ExperienceDetail{
			Experience: models.Experience{ID: "exp-1", Title: "Kayaking"},
			Slots: models.SlotsByDate{
				"2026-11-16": {{ID: "slot-1", Time: "09:00"}},
			},
		}}
		handler := NewExperienceHandler(fake, quietLogger())

		router := gin.New()
		router.GET("/api/experiences/:id", handler.GetExperience)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/experiences/exp-1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Experience details fetched successfully", body.Message)

		var detail models.ExperienceDetail
		require.NoError(t, json.Unmarshal(body.Data, &detail))
		assert.Equal(t, "Kayaking", detail.Experience.Title)
		assert.Len(t, detail.Slots["2026-11-16"], 1)
	})

	t.Run("NotFound", func(t *testing.T) {
		fake := &fakeExperiences{err: services.NewNotFound("Experience not found")}
		handler := NewExperienceHandler(fake, quietLogger())

		router := gin.New()
		router.GET("/api/experiences/:id", handler.GetExperience)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/experiences/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		body := decode(t, w)
		assert.False(t, body.Success)
		assert.Equal(t, "Experience not found", body.Message)
		assert.Equal(t, "not_found", body.Error)
	})
}

// ============================================================================
// PROMO
// ============================================================================

func TestPromoHandler_ValidatePromo(t *testing.T) {
	promos := services.NewPromoService([]models.PromoCode{
		{Code: "SAVE10", Kind: models.PromoKindPercentage, Value: 10, Description: "10% off"},
		{Code: "FLAT100", Kind: models.PromoKindFixed, Value: 100, Description: "100 off"},
	})
	handler := NewPromoHandler(promos, quietLogger())

	router := gin.New()
	router.POST("/api/promo/validate", handler.ValidatePromo)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
		wantQuote  *models.PromoQuote
	}{
		{
			name:       "percentage code",
			body:       `{"code":"save10","totalPrice":2500}`,
			wantStatus: http.StatusOK,
			wantMsg:    "Promo code applied successfully",
			wantQuote:  &models.PromoQuote{Code: "SAVE10", Discount: 250, OriginalPrice: 2500, FinalPrice: 2250},
		},
		{
			name:       "fixed code",
			body:       `{"code":"FLAT100","totalPrice":2500}`,
			wantStatus: http.StatusOK,
			wantMsg:    "Promo code applied successfully",
			wantQuote:  &models.PromoQuote{Code: "FLAT100", Discount: 100, OriginalPrice: 2500, FinalPrice: 2400},
		},
		{
			name:       "unknown code",
			body:       `{"code":"BOGUS","totalPrice":2500}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid promo code",
		},
		{
			name:       "missing fields",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Promo code is required",
		},
		{
			name:       "malformed body",
			body:       `{"code":`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/promo/validate", tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.Equal(t, tt.wantQuote != nil, body.Success)

			if tt.wantQuote != nil {
				var quote models.PromoQuote
				require.NoError(t, json.Unmarshal(body.Data, &quote))
				assert.Equal(t, tt.wantQuote.Code, quote.Code)
				assert.Equal(t, tt.wantQuote.Discount, quote.Discount)
				assert.Equal(t, tt.wantQuote.OriginalPrice, quote.OriginalPrice)
				assert.Equal(t, tt.wantQuote.FinalPrice, quote.FinalPrice)
			}
		})
	}
}

// ============================================================================
// BOOKINGS
// ============================================================================

const bookingBody = `{
	"experienceId": "exp-1",
	"slotId": "slot-1",
	"userInfo": {"name": "Ada", "email": "ada@example.com", "phone": "555"},
	"selectedSlot": {"date": "2026-11-16", "time": "09:00"},
	"promoCode": "SAVE10"
}`

func sampleDetails() *models.BookingDetails {
	promo := "SAVE10"
	return &models.BookingDetails{
		Booking: models.Booking{
			ID:            "booking-1",
			ExperienceID:  "exp-1",
			SlotID:        "slot-1",
			UserInfo:      models.UserInfo{Name: "Ada", Email: "ada@example.com", Phone: "555"},
			SelectedSlot:  models.SelectedSlot{Date: "2026-11-16", Time: "09:00"},
			OriginalPrice: 2500,
			Discount:      250,
			TotalPrice:    2250,
			PromoCode:     &promo,
			Status:        models.BookingStatusConfirmed,
		},
		Experience: models.ExperienceSummary{ID: "exp-1", Title: "Kayaking"},
		Slot:       models.SlotRef{ID: "slot-1", Date: "2026-11-16", Time: "09:00"},
	}
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		fake := &fakeBookings{created: sampleDetails()}
		cache := &fakeInvalidator{}
		handler := NewBookingHandler(fake, cache, quietLogger())

		router := gin.New()
		router.POST("/api/bookings", handler.CreateBooking)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/bookings", bookingBody))

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decode(t, w)
		assert.True(t, body.Success)
		assert.Equal(t, "Booking created successfully", body.Message)

		var booking map[string]interface{}
		require.NoError(t, json.Unmarshal(body.Data, &booking))
		assert.Equal(t, "booking-1", booking["id"])
		assert.Equal(t, float64(2250), booking["totalPrice"])
		assert.Equal(t, "SAVE10", booking["promoCode"])
		assert.NotContains(t, booking, "idempotencyKey")

		require.NotNil(t, fake.received)
		assert.Equal(t, "exp-1", fake.received.ExperienceID)
		assert.Equal(t, "Ada", fake.received.UserInfo.Name)
		assert.Equal(t, []string{"/api/experiences/exp-1"}, cache.paths)
	})

	t.Run("IdempotencyKeyHeader", func(t *testing.T) {
		fake := &fakeBookings{created: sampleDetails()}
		handler := NewBookingHandler(fake, nil, quietLogger())

		router := gin.New()
		router.POST("/api/bookings", handler.CreateBooking)

		req := jsonRequest(http.MethodPost, "/api/bookings", bookingBody)
		req.Header.Set(IdempotencyKeyHeader, " retry-1 ")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "retry-1", fake.received.IdempotencyKey)
	})

	t.Run("BodyKeyWinsOverHeader", func(t *testing.T) {
		fake := &fakeBookings{created: sampleDetails()}
		handler := NewBookingHandler(fake, nil, quietLogger())

		router := gin.New()
		router.POST("/api/bookings", handler.CreateBooking)

		req := jsonRequest(http.MethodPost, "/api/bookings",
			`{"experienceId":"exp-1","slotId":"slot-1","idempotencyKey":"from-body"}`)
		req.Header.Set(IdempotencyKeyHeader, "from-header")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "from-body", fake.received.IdempotencyKey)
	})

	t.Run("InvalidationFailureStillCreated", func(t *testing.T) {
		fake := &fakeBookings{created: sampleDetails()}
		cache := &fakeInvalidator{err: errors.New("redis down")}
		handler := NewBookingHandler(fake, cache, quietLogger())

		router := gin.New()
		router.POST("/api/bookings", handler.CreateBooking)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/bookings", bookingBody))

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		fake := &fakeBookings{}
		handler := NewBookingHandler(fake, nil, quietLogger())

		router := gin.New()
		router.POST("/api/bookings", handler.CreateBooking)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/bookings", `not json`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", decode(t, w).Message)
		assert.Nil(t, fake.received)
	})

	errorCases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantCode   string
	}{
		{"missing fields", services.NewInvalidRequest("Missing required fields"), http.StatusBadRequest, "Missing required fields", "invalid_request"},
		{"slot taken", services.NewConflict("Slot is already booked"), http.StatusBadRequest, "Slot is already booked", "conflict"},
		{"unknown slot", services.NewNotFound("Slot not found"), http.StatusNotFound, "Slot not found", "not_found"},
		{"store failure", services.NewInternal("Error creating booking", errors.New("deadlock")), http.StatusInternalServerError, "Error creating booking", "internal"},
		{"untyped failure", errors.New("boom"), http.StatusInternalServerError, "Error creating booking", "internal"},
	}

	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeBookings{err: tc.err}
			cache := &fakeInvalidator{}
			handler := NewBookingHandler(fake, cache, quietLogger())

			router := gin.New()
			router.POST("/api/bookings", handler.CreateBooking)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/bookings", bookingBody))

			assert.Equal(t, tc.wantStatus, w.Code)
			body := decode(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, tc.wantMsg, body.Message)
			assert.Equal(t, tc.wantCode, body.Error)
			assert.Empty(t, cache.paths)
		})
	}
}

func TestBookingHandler_GetBooking(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler := NewBookingHandler(&fakeBookings{created: sampleDetails()}, nil, quietLogger())

		router := gin.New()
		router.GET("/api/bookings/:id", handler.GetBooking)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/booking-1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Booking fetched successfully", body.Message)

		var details models.BookingDetails
		require.NoError(t, json.Unmarshal(body.Data, &details))
		assert.Equal(t, "Kayaking", details.Experience.Title)
		assert.Equal(t, "09:00", details.Slot.Time)
	})

	t.Run("NotFound", func(t *testing.T) {
		handler := NewBookingHandler(&fakeBookings{err: services.NewNotFound("Booking not found")}, nil, quietLogger())

		router := gin.New()
		router.GET("/api/bookings/:id", handler.GetBooking)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/nope", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Booking not found", decode(t, w).Message)
	})
}

// ============================================================================
// HEALTH
// ============================================================================

func TestHealthHandler(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		handler := NewHealthHandler(fakePinger{}, "1.0.0")

		router := gin.New()
		router.GET("/api/health", handler.Health)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.True(t, body.Success)
		assert.Equal(t, "Server is running", body.Message)
	})

	t.Run("DatabaseDown", func(t *testing.T) {
		handler := NewHealthHandler(fakePinger{err: errors.New("dial tcp: refused")}, "1.0.0")

		router := gin.New()
		router.GET("/api/health", handler.Health)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.False(t, decode(t, w).Success)
	})

	t.Run("Banner", func(t *testing.T) {
		handler := NewHealthHandler(nil, "1.0.0")

		router := gin.New()
		router.GET("/", handler.Root)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var banner map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &banner))
		assert.Equal(t, "BookIt API Server", banner["message"])
		assert.Equal(t, "running", banner["status"])
		endpoints, ok := banner["endpoints"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "/api/bookings", endpoints["bookings"])
	})
}

func TestNotFound(t *testing.T) {
	router := gin.New()
	router.NoRoute(NotFound)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nothing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "Not Found - /api/nothing", body.Message)
}
