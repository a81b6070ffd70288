package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	intconfig "travellink/internal/config"
	h "travellink/internal/http/handlers"
	"travellink/internal/layout"
	"travellink/internal/repositories"
	"travellink/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	accounts, err := services.NewDemoDirectory(bcrypt.MinCost)
	require.NoError(t, err)

	bookings := repositories.NewMemoryBookingStore()
	app := &h.App{
		Flows: services.NewFlowRegistry(services.FlowDeps{
			Gateway: services.NewSimulatedGateway(0, 1),
			Store:   bookings,
		}),
		Bookings:    bookings,
		Leads:       repositories.NewMemoryLeadStore(),
		Itineraries: repositories.NewMemoryItineraryStore(),
		Accounts:    accounts,
		Tokens:      services.TokenService{Secret: []byte("test-secret"), TTL: time.Hour},
		Engine:      layout.NewEngine(),
	}
	return NewRouter(intconfig.Env{CORSAllowedOrigins: []string{"*"}}, app)
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func login(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": services.DemoPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)["token"].(string)
}

var card = map[string]string{
	"name":   "Asha Rao",
	"number": "4111 1111 1111 1111",
	"expiry": "1230",
	"cvv":    "123",
}

func TestHealthAndUnknownRoute(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(t, r, http.MethodGet, "/api/nope", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuote(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/bookings/quote", "", map[string]any{"pricePerPerson": 15999, "travelers": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode(t, w)
	require.InDelta(t, 31998.0, out["base"], 1e-9)
	require.InDelta(t, 31998*1.20, out["total"], 1e-6)

	w = do(t, r, http.MethodPost, "/api/bookings/quote", "", map[string]any{"pricePerPerson": 100, "travelers": 0})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "travelers", decode(t, w)["field"])
}

func TestBookingFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, "customer@demo.com")

	w := do(t, r, http.MethodPost, "/api/bookings/flows", token, map[string]any{
		"packageTitle":   "Manali Adventure",
		"pricePerPerson": 15999,
		"travelers":      1,
		"travelDate":     "2026-05-01",
		"customerName":   "Asha Rao",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	flow := decode(t, w)
	id := flow["id"].(string)
	require.Equal(t, "payment", flow["state"])
	require.Equal(t, "customer@demo.com", flow["request"].(map[string]any)["customerEmail"])

	// invalid card never reaches the gateway and keeps the flow in payment
	bad := map[string]string{"name": "Asha Rao", "number": "4111", "expiry": "12/30", "cvv": "123"}
	w = do(t, r, http.MethodPost, "/api/bookings/flows/"+id+"/payment", "", bad)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "number", decode(t, w)["field"])

	w = do(t, r, http.MethodGet, "/api/bookings/flows/"+id+"/receipt", "", nil)
	require.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/api/bookings/flows/"+id+"/payment", "", card)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	booking := decode(t, w)["booking"].(map[string]any)
	require.Regexp(t, `^TL[0-9]{10}$`, booking["confirmationNumber"])
	bookingID := booking["id"].(string)

	w = do(t, r, http.MethodPost, "/api/bookings/flows/"+id+"/payment", "", card)
	require.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodGet, "/api/bookings/flows/"+id+"/receipt", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = do(t, r, http.MethodGet, "/api/bookings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 1, decode(t, w)["count"])

	w = do(t, r, http.MethodGet, "/api/bookings/"+bookingID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	other := login(t, r, "unverified@demo.com")
	w = do(t, r, http.MethodGet, "/api/bookings/"+bookingID, other, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/bookings", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCancelBookingOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, "customer@demo.com")

	w := do(t, r, http.MethodPost, "/api/bookings/flows", token, map[string]any{"travelers": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["id"].(string)
	w = do(t, r, http.MethodPost, "/api/bookings/flows/"+id+"/payment", "", card)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	bookingID := decode(t, w)["booking"].(map[string]any)["id"].(string)

	w = do(t, r, http.MethodPost, "/api/bookings/"+bookingID+"/cancel", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	unverified := login(t, r, "unverified@demo.com")
	w = do(t, r, http.MethodPost, "/api/bookings/"+bookingID+"/cancel", unverified, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/api/bookings/"+bookingID+"/cancel", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "cancelled", decode(t, w)["status"])

	w = do(t, r, http.MethodPost, "/api/bookings/"+bookingID+"/cancel", login(t, r, "agency@demo.com"), nil)
	require.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodGet, "/api/bookings/"+bookingID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "cancelled", decode(t, w)["status"])
}

func TestItineraryLifecycle(t *testing.T) {
	r := newTestRouter(t)
	agency := login(t, r, "agency@demo.com")
	listing := map[string]any{
		"title":          "Manali Adventure",
		"destination":    "Manali, Himachal Pradesh",
		"description":    "River rafting and Solang Valley",
		"pricePerPerson": 15999,
		"durationDays":   5,
		"durationNights": 4,
		"category":       "Adventure",
	}

	w := do(t, r, http.MethodPost, "/api/itineraries", login(t, r, "customer@demo.com"), listing)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = do(t, r, http.MethodPost, "/api/itineraries", login(t, r, "unverified@demo.com"), listing)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodPost, "/api/itineraries", agency, listing)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	id := created["id"].(string)
	require.Equal(t, true, created["active"])
	require.Equal(t, "Mountain Explorers", created["agentName"])

	w = do(t, r, http.MethodGet, "/api/itineraries?agent=Mountain%20Explorers", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 1, decode(t, w)["count"])

	listing["title"] = "Manali Winter Special"
	w = do(t, r, http.MethodPut, "/api/itineraries/"+id, agency, listing)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Manali Winter Special", decode(t, w)["title"])

	w = do(t, r, http.MethodPatch, "/api/itineraries/"+id+"/active", agency, map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "active", decode(t, w)["field"])

	w = do(t, r, http.MethodPatch, "/api/itineraries/"+id+"/active", agency, map[string]any{"active": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, false, decode(t, w)["active"])

	// hidden listings leave the catalogue and are only visible to their owner
	w = do(t, r, http.MethodGet, "/api/itineraries", "", nil)
	require.EqualValues(t, 0, decode(t, w)["count"])
	w = do(t, r, http.MethodGet, "/api/itineraries/"+id, "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodGet, "/api/itineraries/"+id+"/pdf", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/itineraries/mine", agency, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 1, decode(t, w)["count"])

	w = do(t, r, http.MethodGet, "/api/itineraries/"+id+"/pdf", agency, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	admin := login(t, r, "admin@demo.com")
	w = do(t, r, http.MethodPatch, "/api/itineraries/"+id+"/active", admin, map[string]any{"active": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(t, r, http.MethodGet, "/api/itineraries/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownFlow(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/bookings/flows/flow_missing/payment", "", card)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthMe(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "agency@demo.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token := login(t, r, "agency@demo.com")
	w = do(t, r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	require.Equal(t, "agency", out["role"])
	require.Equal(t, true, out["attrs"].(map[string]any)["verified"])
}

func TestLeadsScopedByRole(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/leads", "", map[string]any{
		"agentName":     "Mountain Explorers",
		"customerName":  "Asha Rao",
		"customerEmail": "customer@demo.com",
		"message":       "Is the Manali trip available in May?",
		"groupSize":     2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	leadID := decode(t, w)["id"].(string)

	agency := login(t, r, "agency@demo.com")
	w = do(t, r, http.MethodGet, "/api/leads", agency, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 1, decode(t, w)["count"])

	unverified := login(t, r, "unverified@demo.com")
	w = do(t, r, http.MethodGet, "/api/leads", unverified, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 0, decode(t, w)["count"])

	customer := login(t, r, "customer@demo.com")
	w = do(t, r, http.MethodPut, "/api/leads/"+leadID+"/status", customer, map[string]string{"status": "contacted"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodPut, "/api/leads/"+leadID+"/status", agency, map[string]string{"status": "contacted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "contacted", decode(t, w)["status"])

	admin := login(t, r, "admin@demo.com")
	w = do(t, r, http.MethodGet, "/api/analytics", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/analytics", agency, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodGet, "/api/dashboard", unverified, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, decode(t, w)["notice"])
}

func TestDocumentEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/docs/itinerary?inline=1", "", map[string]any{
		"itinerary": map[string]any{"title": "Manali Adventure", "pricePerPerson": 15999, "durationDays": 5, "durationNights": 4},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Header().Get("Content-Disposition"), "inline")

	w = do(t, r, http.MethodPost, "/api/docs/itinerary", "", map[string]any{"itinerary": map[string]any{}})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, r, http.MethodPost, "/api/docs/itinerary", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutesListing(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/routes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	require.Contains(t, out["routes"], "POST /api/bookings/flows/:id/payment")
	require.Contains(t, out["routes"], "GET /api/health")
	require.Contains(t, out["routes"], "PATCH /api/itineraries/:id/active")
	require.Contains(t, out["routes"], "POST /api/bookings/:id/cancel")
}
