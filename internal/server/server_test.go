package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/database"
)

const nativeCSV = `trade_id,symbol,side,entry_time,exit_time,entry_price,exit_price,qty,fees
t1,ES,long,2025-09-05 09:30,2025-09-05 10:00,5000,5010,2,1.5
t2,NQ,short,2025-09-05 11:00,2025-09-05 11:30,18000,18050,1,2
`

func setupAPI(t *testing.T) (*httptest.Server, *resty.Client) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{}
	cfg.Import.RateLimit = 100
	cfg.Import.RateLimitBurst = 10

	srv := httptest.NewServer(New(cfg, zap.NewNop(), db))
	t.Cleanup(srv.Close)
	return srv, resty.New().SetBaseURL(srv.URL)
}

func createJournal(t *testing.T, client *resty.Client, name string) string {
	var j struct {
		Slug string `json:"id"`
	}
	resp, err := client.R().
		SetBody(map[string]string{"name": name}).
		SetResult(&j).
		Post("/api/journals")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())
	return j.Slug
}

func importCSV(t *testing.T, client *resty.Client, slug, csv string) *resty.Response {
	resp, err := client.R().
		SetFileReader("file", "trades.csv", strings.NewReader(csv)).
		Post("/api/journals/" + slug + "/import")
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	_, client := setupAPI(t)

	resp, err := client.R().Get("/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	resp, err = client.R().Get("/readyz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestJournalLifecycle(t *testing.T) {
	_, client := setupAPI(t)

	slug := createJournal(t, client, "Index Futures")
	assert.Equal(t, "index-futures", slug)

	var journals []map[string]any
	resp, err := client.R().SetResult(&journals).Get("/api/journals")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, journals, 1)
	assert.Equal(t, "Index Futures", journals[0]["name"])

	t.Run("CreateWithoutNameFails", func(t *testing.T) {
		resp, err := client.R().SetBody(map[string]string{}).Post("/api/journals")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	})
}

func TestImport(t *testing.T) {
	t.Run("MultipartUpload", func(t *testing.T) {
		_, client := setupAPI(t)
		slug := createJournal(t, client, "Scalps")

		resp := importCSV(t, client, slug, nativeCSV)
		require.Equal(t, http.StatusOK, resp.StatusCode())

		var run struct {
			Format string `json:"format"`
			Rows   int    `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(resp.Body(), &run))
		assert.Equal(t, "native", run.Format)
		assert.Equal(t, 2, run.Rows)

		var trades []map[string]any
		tresp, err := client.R().SetResult(&trades).Get("/api/journals/" + slug + "/trades")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, tresp.StatusCode())
		require.Len(t, trades, 2)
		assert.Equal(t, "t1", trades[0]["trade_id"])
		assert.InDelta(t, 18.5, trades[0]["pnl"].(float64), 1e-9)
		assert.InDelta(t, -52.0, trades[1]["pnl"].(float64), 1e-9)
	})

	t.Run("ValidationFailureReturns422", func(t *testing.T) {
		_, client := setupAPI(t)
		slug := createJournal(t, client, "Scalps")

		bad := `trade_id,symbol,side,entry_time,exit_time,entry_price,exit_price,qty,fees
t1,ES,long,2025-09-05 10:00,2025-09-05 09:30,5000,5010,2,1.5
`
		resp := importCSV(t, client, slug, bad)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode())

		var body struct {
			Error string   `json:"error"`
			Rule  string   `json:"rule"`
			Rows  []string `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(resp.Body(), &body))
		assert.Equal(t, "validation", body.Error)
		assert.Equal(t, "time-order", body.Rule)
		assert.Equal(t, []string{"t1"}, body.Rows)

		// fail-closed: nothing was stored
		var trades []map[string]any
		tresp, err := client.R().SetResult(&trades).Get("/api/journals/" + slug + "/trades")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, tresp.StatusCode())
		assert.Empty(t, trades)
	})

	t.Run("SchemaFailureReturns422", func(t *testing.T) {
		_, client := setupAPI(t)
		slug := createJournal(t, client, "Scalps")

		resp := importCSV(t, client, slug, "foo,bar\n1,2\n")
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode())

		var body struct {
			Error   string   `json:"error"`
			Missing []string `json:"missing"`
		}
		require.NoError(t, json.Unmarshal(resp.Body(), &body))
		assert.Equal(t, "schema", body.Error)
		assert.NotEmpty(t, body.Missing)
	})

	t.Run("UnknownJournalReturns404", func(t *testing.T) {
		_, client := setupAPI(t)

		resp := importCSV(t, client, "missing", nativeCSV)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	})
}

func TestStats(t *testing.T) {
	_, client := setupAPI(t)
	slug := createJournal(t, client, "Scalps")
	require.Equal(t, http.StatusOK, importCSV(t, client, slug, nativeCSV).StatusCode())

	var body struct {
		Summary struct {
			Trades  int     `json:"total_trades"`
			Wins    int     `json:"wins"`
			Losses  int     `json:"losses"`
			WinRate float64 `json:"win_rate"`
			NetPnL  float64 `json:"net_pnl"`
		} `json:"summary"`
		ProfitFactorInfinite bool `json:"profit_factor_infinite"`
	}
	resp, err := client.R().SetResult(&body).Get("/api/journals/" + slug + "/stats")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	assert.Equal(t, 2, body.Summary.Trades)
	assert.Equal(t, 1, body.Summary.Wins)
	assert.Equal(t, 1, body.Summary.Losses)
	assert.InDelta(t, 0.5, body.Summary.WinRate, 1e-9)
	assert.InDelta(t, -33.5, body.Summary.NetPnL, 1e-9)
	assert.False(t, body.ProfitFactorInfinite)
}

func TestEquity(t *testing.T) {
	_, client := setupAPI(t)
	slug := createJournal(t, client, "Scalps")
	require.Equal(t, http.StatusOK, importCSV(t, client, slug, nativeCSV).StatusCode())

	var curve struct {
		Points []struct {
			Equity float64 `json:"equity"`
		} `json:"points"`
	}
	resp, err := client.R().
		SetQueryParam("start_equity", "1000").
		SetResult(&curve).
		Get("/api/journals/" + slug + "/equity")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, curve.Points, 2)
	assert.InDelta(t, 1018.5, curve.Points[0].Equity, 1e-9)
	assert.InDelta(t, 966.5, curve.Points[1].Equity, 1e-9)

	t.Run("DailyGranularity", func(t *testing.T) {
		resp, err := client.R().
			SetQueryParams(map[string]string{"start_equity": "1000", "granularity": "daily"}).
			SetResult(&curve).
			Get("/api/journals/" + slug + "/equity")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())
		require.Len(t, curve.Points, 1)
		assert.InDelta(t, 966.5, curve.Points[0].Equity, 1e-9)
	})
}

func TestCalendar(t *testing.T) {
	_, client := setupAPI(t)
	slug := createJournal(t, client, "Scalps")
	require.Equal(t, http.StatusOK, importCSV(t, client, slug, nativeCSV).StatusCode())

	var body struct {
		Year  int `json:"year"`
		Month int `json:"month"`
	}
	resp, err := client.R().
		SetQueryParams(map[string]string{"year": "2025", "month": "9"}).
		SetResult(&body).
		Get("/api/journals/" + slug + "/calendar")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, 2025, body.Year)
	assert.Equal(t, 9, body.Month)

	t.Run("BadMonthRejected", func(t *testing.T) {
		resp, err := client.R().
			SetQueryParam("month", "13").
			Get("/api/journals/" + slug + "/calendar")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	})
}

func TestChecklistRoutes(t *testing.T) {
	_, client := setupAPI(t)

	var tpl struct {
		Name string `json:"name"`
	}
	resp, err := client.R().SetResult(&tpl).Get("/api/checklist/template")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "A+ iFVG Setup", tpl.Name)
}

func TestSettingsRoutes(t *testing.T) {
	_, client := setupAPI(t)

	var settings struct {
		StartingEquity map[string]float64 `json:"starting_equity"`
	}
	resp, err := client.R().SetResult(&settings).Get("/api/settings")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, 5000.0, settings.StartingEquity["__default__"])

	type putBody struct {
		StartingEquity map[string]float64 `json:"starting_equity"`
	}
	resp, err = client.R().
		SetBody(putBody{StartingEquity: map[string]float64{"__default__": 7500}}).
		Put("/api/settings")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	resp, err = client.R().SetResult(&settings).Get("/api/settings")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, 7500.0, settings.StartingEquity["__default__"])
}
