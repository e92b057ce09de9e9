package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ev-rental/internal/dto/request"
	"ev-rental/internal/dto/response"
	"ev-rental/internal/usecase"
	"ev-rental/pkg/apperror"
	"ev-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	} `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation", apperror.Validation("bad input", map[string]any{"endTime": "Must be after startTime"}), http.StatusBadRequest, apperror.CodeValidation, "bad input"},
		{"unauthorized", apperror.Unauthorized("no session"), http.StatusUnauthorized, apperror.CodeUnauthorized, "no session"},
		{"forbidden", apperror.Forbidden("not yours"), http.StatusForbidden, apperror.CodeForbidden, "not yours"},
		{"not found", apperror.ErrBookingNotFound, http.StatusNotFound, apperror.CodeBookingNotFound, "booking not found"},
		{"slot conflict", apperror.ErrSlotConflict, http.StatusConflict, apperror.CodeSlotConflict, apperror.ErrSlotConflict.Message},
		{"vehicle unavailable", apperror.ErrVehicleUnavailable, http.StatusConflict, apperror.CodeVehicleUnavailable, apperror.ErrVehicleUnavailable.Message},
		{"internal with cause", apperror.Internal("db down", errors.New("dial tcp: refused")), http.StatusInternalServerError, apperror.CodeInternal, "Internal server error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperror.CodeInternal, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tt.err, "test")

			assert.Equal(t, tt.status, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tt.message, env.Message)
			assert.Equal(t, tt.code, env.Errors.Code)
			assert.NotContains(t, env.Message, "refused")
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
		field   string
	}{
		{name: "empty body", body: "", message: "Request body is required"},
		{name: "malformed", body: "{", message: "Invalid request body"},
		{name: "wrong type", body: `{"amount":"ten"}`, message: "Invalid request body"},
		{name: "fails validation", body: `{"amount":0}`, message: "Validation failed", field: "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var req request.RefundRequest
			err := decodeJSON(r, &req)
			require.Error(t, err)

			appErr := apperror.As(err)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			assert.Equal(t, tt.message, appErr.Message)
			if tt.field != "" {
				assert.Contains(t, appErr.Details, tt.field)
			}
		})
	}

	t.Run("valid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":12.5}`))
		var req request.RefundRequest
		require.NoError(t, decodeJSON(r, &req))
		assert.Equal(t, 12.5, req.Amount)
	})
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=3&per_page=25", nil)
	assert.Equal(t, request.PaginatedRequest{Page: 3, PerPage: 25}, parsePagination(r))

	r = httptest.NewRequest(http.MethodGet, "/?perPage=5&per_page=25", nil)
	assert.Equal(t, request.PaginatedRequest{Page: 1, PerPage: 5}, parsePagination(r))

	r = httptest.NewRequest(http.MethodGet, "/?page=abc", nil)
	assert.Equal(t, request.PaginatedRequest{Page: 1, PerPage: 10}, parsePagination(r))

	for _, page := range []string{"0", "-3"} {
		r = httptest.NewRequest(http.MethodGet, "/?page="+page, nil)
		assert.Equal(t, 1, parsePagination(r).Page, "page=%s", page)
	}
}

// stubBookings records the arguments it receives and returns canned results.
type stubBookings struct {
	usecase.BookingService

	gotActor  utils.Identity
	gotID     string
	gotCreate *request.CreateBookingRequest
	gotList   *request.BookingListRequest
	err       error
}

func (s *stubBookings) CreateBooking(_ context.Context, renterID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	s.gotActor = utils.Identity{UserID: renterID}
	s.gotCreate = req
	if s.err != nil {
		return nil, s.err
	}
	return &response.BookingResponse{ID: uuid.NewString(), UserID: renterID.String(), Status: "PENDING"}, nil
}

func (s *stubBookings) CompleteBooking(_ context.Context, actor utils.Identity, bookingID string) (*response.BookingResponse, error) {
	s.gotActor, s.gotID = actor, bookingID
	if s.err != nil {
		return nil, s.err
	}
	return &response.BookingResponse{ID: bookingID, Status: "COMPLETED"}, nil
}

func (s *stubBookings) ListBookings(_ context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	s.gotList = req
	return response.NewPaginatedResponse([]response.BookingResponse{}, req.Page, req.Limit(), 0), nil
}

func bookingRouter(svc usecase.BookingService, actor *utils.Identity) http.Handler {
	h := NewBookingHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if actor != nil {
				req = req.WithContext(utils.SetIdentityContext(req.Context(), *actor))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/bookings", h.CreateBooking)
	r.Get("/bookings", h.ListBookings)
	r.Post("/bookings/{id}/complete", h.CompleteBooking)
	return r
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	renter := utils.Identity{UserID: uuid.New(), Role: "RENTER", SessionID: uuid.New()}
	body := `{"vehicleId":"` + uuid.NewString() + `","stationId":"` + uuid.NewString() +
		`","startTime":"2030-01-01T10:00:00Z","endTime":"2030-01-01T12:00:00Z","pickupLocation":"Gate A"}`

	t.Run("created", func(t *testing.T) {
		svc := &stubBookings{}
		rec := httptest.NewRecorder()
		bookingRouter(svc, &renter).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, renter.UserID, svc.gotActor.UserID)
		require.NotNil(t, svc.gotCreate)
		assert.Equal(t, "Gate A", svc.gotCreate.PickupLocation)
	})

	t.Run("slot conflict", func(t *testing.T) {
		svc := &stubBookings{err: apperror.ErrSlotConflict}
		rec := httptest.NewRecorder()
		bookingRouter(svc, &renter).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body)))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, apperror.CodeSlotConflict, decodeEnvelope(t, rec).Errors.Code)
	})

	t.Run("invalid body never reaches the service", func(t *testing.T) {
		svc := &stubBookings{}
		rec := httptest.NewRecorder()
		bookingRouter(svc, &renter).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"vehicleId":"x"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, svc.gotCreate)
		assert.Contains(t, decodeEnvelope(t, rec).Errors.Details, "vehicleId")
	})

	t.Run("anonymous", func(t *testing.T) {
		svc := &stubBookings{}
		rec := httptest.NewRecorder()
		bookingRouter(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, svc.gotCreate)
	})
}

func TestBookingHandler_CompleteBooking(t *testing.T) {
	renter := utils.Identity{UserID: uuid.New(), Role: "RENTER"}
	id := uuid.NewString()

	svc := &stubBookings{}
	rec := httptest.NewRecorder()
	bookingRouter(svc, &renter).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings/"+id+"/complete", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, svc.gotID)
	assert.Equal(t, renter, svc.gotActor)

	svc.err = apperror.InvalidState("booking is COMPLETED and cannot become COMPLETED")
	rec = httptest.NewRecorder()
	bookingRouter(svc, &renter).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings/"+id+"/complete", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apperror.CodeInvalidState, decodeEnvelope(t, rec).Errors.Code)
}

func TestBookingHandler_ListBookings(t *testing.T) {
	staff := utils.Identity{UserID: uuid.New(), Role: "STAFF"}
	vehicleID := uuid.NewString()

	svc := &stubBookings{}
	rec := httptest.NewRecorder()
	bookingRouter(svc, &staff).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/bookings?status=PENDING&vehicleId="+vehicleID+"&page=2&perPage=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotList)
	assert.Equal(t, "PENDING", *svc.gotList.Status)
	assert.Equal(t, vehicleID, *svc.gotList.VehicleID)
	assert.Nil(t, svc.gotList.StationID)
	assert.Equal(t, 2, svc.gotList.Page)
}

type stubPayments struct {
	usecase.PaymentService
	got *request.WebhookNotification
}

func (s *stubPayments) HandleWebhook(_ context.Context, req *request.WebhookNotification) error {
	s.got = req
	return nil
}

func TestPaymentHandler_Webhook(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		body     string
		wantType string
		wantID   string
	}{
		{"json body", "/webhook", `{"type":"payment","action":"payment.updated","data":{"id":"123"}}`, "payment", "123"},
		{"query data.id", "/webhook?type=payment&data.id=456", "", "payment", "456"},
		{"legacy topic", "/webhook?topic=payment&id=789", "", "payment", "789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubPayments{}
			h := NewPaymentHandler(svc, zap.NewNop())

			var r *http.Request
			if tt.body == "" {
				r = httptest.NewRequest(http.MethodPost, tt.target, nil)
			} else {
				r = httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body))
			}
			rec := httptest.NewRecorder()
			h.Webhook(rec, r)

			assert.Equal(t, http.StatusOK, rec.Code)
			require.NotNil(t, svc.got)
			assert.Equal(t, tt.wantType, svc.got.Type)
			assert.Equal(t, tt.wantID, svc.got.Data.ID)
		})
	}
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(pingerFunc(func(context.Context) error { return nil }), zap.NewNop()).
		Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(pingerFunc(func(context.Context) error { return errors.New("no route to host") }), zap.NewNop()).
		Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
