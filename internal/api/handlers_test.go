package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentsafe/server/config"
	"rentsafe/server/internal/aggregator"
	"rentsafe/server/internal/bus"
	"rentsafe/server/internal/database"
	"rentsafe/server/internal/models"
	"rentsafe/server/internal/notify"
)

type testAPI struct {
	router   *gin.Engine
	db       *database.Database
	notifier *notify.Service
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	changeBus := bus.NewBus(8, logger)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"), changeBus, logger)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	hub := aggregator.NewHub(models.WatchedCollections, db, changeBus, logger)
	notifier := notify.NewService(logger)

	cfg := &config.Config{}
	cfg.Compliance.ExpiryWindowDays = 90
	cfg.Compliance.AffordabilityRiskThreshold = 40

	router := gin.New()
	SetupRoutes(router, NewHandler(db, hub, notifier, cfg, logger))

	t.Cleanup(func() {
		hub.Stop()
		db.Close()
		changeBus.Close()
	})
	return &testAPI{router: router, db: db, notifier: notifier}
}

func (a *testAPI) do(t *testing.T, method, path, owner string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if owner != "" {
		req.Header.Set("X-Owner-ID", owner)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (a *testAPI) createProperty(t *testing.T, owner string) models.Property {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/properties", owner, models.Property{
		AddressLine1: "4 Clarence Gardens",
		City:         "Leeds",
		Postcode:     "LS6 2AB",
		PropertyType: "Flat",
		Bedrooms:     2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return decode[models.Property](t, w)
}

func TestMissingOwnerHeader(t *testing.T) {
	api := setupTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/properties", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPropertyCRUDOverHTTP(t *testing.T) {
	api := setupTestAPI(t)

	created := api.createProperty(t, "owner-1")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "owner-1", created.OwnerID)
	assert.Equal(t, models.PropertyStatusVacant, created.Status)

	w := api.do(t, http.MethodGet, "/api/properties", "owner-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Property](t, w), 1)

	created.Status = models.PropertyStatusOccupied
	w = api.do(t, http.MethodPut, "/api/properties/"+created.ID, "owner-1", created)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/properties/"+created.ID, "owner-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.PropertyStatusOccupied, decode[models.Property](t, w).Status)

	w = api.do(t, http.MethodDelete, "/api/properties/"+created.ID, "owner-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/properties", "owner-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.Property](t, w))
}

func TestCreatePropertyInvalidStatus(t *testing.T) {
	api := setupTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/properties", "owner-1", map[string]any{
		"address_line1": "1 Test Street",
		"status":        "Demolished",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePropertyRequiresStatus(t *testing.T) {
	api := setupTestAPI(t)
	p := api.createProperty(t, "owner-1")

	// A PUT that omits status must be rejected, not persisted with a
	// blank status that hides the property from every view.
	w := api.do(t, http.MethodPut, "/api/properties/"+p.ID, "owner-1", map[string]any{
		"address_line1": "4a Clarence Gardens",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/properties", "owner-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	properties := decode[[]models.Property](t, w)
	require.Len(t, properties, 1)
	assert.Equal(t, models.PropertyStatusVacant, properties[0].Status)
	assert.Equal(t, "4 Clarence Gardens", properties[0].AddressLine1)
}

func TestCrossOwnerIsolation(t *testing.T) {
	api := setupTestAPI(t)
	p := api.createProperty(t, "owner-1")

	w := api.do(t, http.MethodGet, "/api/properties/"+p.ID, "owner-2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodDelete, "/api/properties/"+p.ID, "owner-2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Nested collections are shielded the same way
	w = api.do(t, http.MethodGet, "/api/properties/"+p.ID+"/documents", "owner-2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDocumentStatusDerivedOnRead(t *testing.T) {
	api := setupTestAPI(t)
	p := api.createProperty(t, "owner-1")

	past := time.Now().AddDate(0, 0, -1)
	soon := time.Now().AddDate(0, 0, 30)

	for _, doc := range []models.Document{
		{Title: "EPC", DocType: "EPC", ExpiryDate: &past},
		{Title: "Gas Safety Certificate", DocType: "Gas Safety", ExpiryDate: &soon},
		{Title: "Tenancy Agreement", DocType: "Tenancy"},
	} {
		w := api.do(t, http.MethodPost, "/api/properties/"+p.ID+"/documents", "owner-1", doc)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := api.do(t, http.MethodGet, "/api/properties/"+p.ID+"/documents", "owner-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	statuses := make(map[string]string)
	for _, view := range decode[[]models.DocumentView](t, w) {
		statuses[view.Title] = view.Status
	}
	assert.Equal(t, models.DocumentStatusExpired, statuses["EPC"])
	assert.Equal(t, models.DocumentStatusExpiring, statuses["Gas Safety Certificate"])
	assert.Equal(t, models.DocumentStatusUnknown, statuses["Tenancy Agreement"])
}

func TestCreateInspectionRejectsUnknownVariant(t *testing.T) {
	api := setupTestAPI(t)
	p := api.createProperty(t, "owner-1")

	w := api.do(t, http.MethodPost, "/api/properties/"+p.ID+"/inspections", "owner-1", map[string]any{
		"variant": "Commercial",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/properties/"+p.ID+"/inspections", "owner-1", map[string]any{
		"variant": models.InspectionVariantHMO,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateRentPaymentRejectsBadMonth(t *testing.T) {
	api := setupTestAPI(t)
	p := api.createProperty(t, "owner-1")

	w := api.do(t, http.MethodPost, "/api/properties/"+p.ID+"/rent-payments", "owner-1", models.RentPayment{
		Amount: 95000, Year: 2026, Month: 13, Status: models.RentStatusPaid,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScreeningViewDerivesAffordability(t *testing.T) {
	api := setupTestAPI(t)
	p := api.createProperty(t, "owner-1")

	w := api.do(t, http.MethodPost, "/api/properties/"+p.ID+"/tenants", "owner-1", models.Tenant{
		FullName: "Priya Shah",
		Email:    "priya@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	tenant := decode[models.Tenant](t, w)

	w = api.do(t, http.MethodPost, "/api/tenants/"+tenant.ID+"/screenings", "owner-1", models.TenantScreening{
		MonthlyIncome: 2500,
		ProposedRent:  1200,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	view := decode[models.ScreeningView](t, w)
	assert.Equal(t, 48.0, view.AffordabilityRatio)
	assert.True(t, view.Risky)
	assert.False(t, view.IncomeUnknown)
}

type portfolioResponse[T any] struct {
	Records []T  `json:"records"`
	Loading bool `json:"loading"`
	Errors  int  `json:"errors"`
}

func TestPortfolioDocumentsView(t *testing.T) {
	api := setupTestAPI(t)
	p1 := api.createProperty(t, "owner-1")
	p2 := api.createProperty(t, "owner-1")

	early := time.Now().AddDate(0, 1, 0)
	late := time.Now().AddDate(1, 0, 0)
	w := api.do(t, http.MethodPost, "/api/properties/"+p2.ID+"/documents", "owner-1",
		models.Document{Title: "Later", DocType: "EPC", ExpiryDate: &late})
	require.Equal(t, http.StatusCreated, w.Code)
	w = api.do(t, http.MethodPost, "/api/properties/"+p1.ID+"/documents", "owner-1",
		models.Document{Title: "Sooner", DocType: "Gas Safety", ExpiryDate: &early})
	require.Equal(t, http.StatusCreated, w.Code)

	// The aggregator loads asynchronously on first read.
	require.Eventually(t, func() bool {
		w := api.do(t, http.MethodGet, "/api/portfolio/documents", "owner-1", nil)
		if w.Code != http.StatusOK {
			return false
		}
		resp := decode[portfolioResponse[models.DocumentView]](t, w)
		return !resp.Loading && len(resp.Records) == 2
	}, 2*time.Second, 25*time.Millisecond)

	w = api.do(t, http.MethodGet, "/api/portfolio/documents", "owner-1", nil)
	resp := decode[portfolioResponse[models.DocumentView]](t, w)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, 0, resp.Errors)

	// Soonest expiry first, regardless of which parent it came from
	assert.Equal(t, "Sooner", resp.Records[0].Title)
	assert.Equal(t, "Later", resp.Records[1].Title)
	assert.Equal(t, models.DocumentStatusExpiring, resp.Records[0].Status)
	assert.Equal(t, models.DocumentStatusValid, resp.Records[1].Status)
}

func TestPortfolioViewTracksWrites(t *testing.T) {
	api := setupTestAPI(t)
	p := api.createProperty(t, "owner-1")

	// Open the view before any records exist
	require.Eventually(t, func() bool {
		w := api.do(t, http.MethodGet, "/api/portfolio/maintenance", "owner-1", nil)
		if w.Code != http.StatusOK {
			return false
		}
		return !decode[portfolioResponse[models.MaintenanceLog]](t, w).Loading
	}, 2*time.Second, 25*time.Millisecond)

	w := api.do(t, http.MethodPost, "/api/properties/"+p.ID+"/maintenance", "owner-1", models.MaintenanceLog{
		Title:    "Leaking gutter",
		Priority: "Low",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// The write propagates through the change bus without another prime
	require.Eventually(t, func() bool {
		w := api.do(t, http.MethodGet, "/api/portfolio/maintenance", "owner-1", nil)
		resp := decode[portfolioResponse[models.MaintenanceLog]](t, w)
		return len(resp.Records) == 1 && resp.Records[0].Title == "Leaking gutter"
	}, 2*time.Second, 25*time.Millisecond)
}

func TestPortfolioRentLedger(t *testing.T) {
	api := setupTestAPI(t)
	p := api.createProperty(t, "owner-1")

	w := api.do(t, http.MethodPost, "/api/properties/"+p.ID+"/rent-payments", "owner-1", models.RentPayment{
		Amount: 95000, Year: 2026, Month: 3, Status: models.RentStatusPaid,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Year    int                      `json:"year"`
		Records []models.RentLedgerEntry `json:"records"`
		Loading bool                     `json:"loading"`
	}
	require.Eventually(t, func() bool {
		w := api.do(t, http.MethodGet, "/api/portfolio/rent?year=2026", "owner-1", nil)
		if w.Code != http.StatusOK {
			return false
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return !resp.Loading && len(resp.Records) == 12
	}, 2*time.Second, 25*time.Millisecond)

	assert.Equal(t, 2026, resp.Year)
	byMonth := make(map[int]models.RentLedgerEntry)
	for _, entry := range resp.Records {
		byMonth[entry.Month] = entry
	}
	assert.Equal(t, models.RentStatusPaid, byMonth[3].Status)
	assert.Equal(t, int64(95000), byMonth[3].Amount)
	assert.Equal(t, models.RentStatusPending, byMonth[4].Status)
}

func TestPortfolioRentRejectsBadYear(t *testing.T) {
	api := setupTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/portfolio/rent?year=banana", "owner-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPortfolioStats(t *testing.T) {
	api := setupTestAPI(t)
	p := api.createProperty(t, "owner-1")

	past := time.Now().AddDate(0, 0, -10)
	w := api.do(t, http.MethodPost, "/api/properties/"+p.ID+"/documents", "owner-1",
		models.Document{Title: "EPC", DocType: "EPC", ExpiryDate: &past})
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(t, http.MethodPost, "/api/properties/"+p.ID+"/maintenance", "owner-1",
		models.MaintenanceLog{Title: "Broken latch", Priority: "Low"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(t, http.MethodGet, "/api/stats", "owner-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stats := decode[models.PortfolioStats](t, w)
	assert.Equal(t, 1, stats.TotalProperties)
	assert.Equal(t, 1, stats.OpenMaintenance)
	assert.Equal(t, 1, stats.DocumentsExpired)
	assert.Equal(t, 0, stats.DocumentsValid)
}

func TestAlertConfigRoundTrip(t *testing.T) {
	api := setupTestAPI(t)

	// Unconfigured owners read an empty, disabled config
	w := api.do(t, http.MethodGet, "/api/alerts/config", "owner-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Fake Telegram endpoint accepts the validation test message
	telegram := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer telegram.Close()
	api.notifier.SetAPIURL(telegram.URL)

	w = api.do(t, http.MethodPut, "/api/alerts/config", "owner-1", models.AlertConfigRequest{
		BotToken:  "123456789:AAAAAAAAAAAAAAAAAAAAAAAA",
		ChatID:    "42",
		IsEnabled: true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/alerts/config", "owner-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cfg := decode[models.AlertConfig](t, w)
	assert.True(t, cfg.IsEnabled)
	// Token comes back masked
	assert.NotContains(t, cfg.BotToken, "123456789:")
	assert.Contains(t, cfg.BotToken, "AAAA")
}

func TestUpdateAlertConfigRejectsBadToken(t *testing.T) {
	api := setupTestAPI(t)

	w := api.do(t, http.MethodPut, "/api/alerts/config", "owner-1", models.AlertConfigRequest{
		BotToken:  "short",
		ChatID:    "42",
		IsEnabled: true,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTestAlertWithoutConfig(t *testing.T) {
	api := setupTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/alerts/test", "owner-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
