package server

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trade-journal-go/internal/account"
	"trade-journal-go/internal/analytics"
	"trade-journal-go/internal/ingest"
	"trade-journal-go/internal/journal"
)

// JournalHandler serves journal management, CSV import and the analytics
// endpoints the dashboard pages read from.
type JournalHandler struct {
	Logger   *zap.Logger
	Journals *journal.Service
	Ingestor *ingest.Ingestor
	Fetcher  *ingest.Fetcher
	Settings *account.Service
}

// Register mounts the journal routes.
func (h *JournalHandler) Register(r *gin.Engine) {
	g := r.Group("/api/journals")
	g.POST("", h.create)
	g.GET("", h.list)
	g.POST("/:id/import", h.importCSV)
	g.GET("/:id/imports", h.imports)
	g.GET("/:id/trades", h.trades)
	g.GET("/:id/stats", h.stats)
	g.GET("/:id/equity", h.equity)
	g.GET("/:id/monthly", h.monthly)
	g.GET("/:id/calendar", h.calendar)
}

func (h *JournalHandler) create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "name is required")
		return
	}
	j, err := h.Journals.Create(req.Name)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusCreated, j)
}

func (h *JournalHandler) list(c *gin.Context) {
	js, err := h.Journals.List()
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, js)
}

// importCSV ingests a trade CSV into a journal. The body is either a
// multipart upload ("file" field) or a JSON document {"url": "..."} for
// import-by-URL. Any pipeline failure aborts the import with a structured
// 422 and no rows are stored.
func (h *JournalHandler) importCSV(c *gin.Context) {
	slug := c.Param("id")

	var (
		trades []ingest.Trade
		format ingest.Format
		source string
	)

	if file, err := c.FormFile("file"); err == nil {
		source = file.Filename
		f, err := file.Open()
		if err != nil {
			Error(c, http.StatusBadRequest, "cannot read upload")
			return
		}
		defer f.Close()
		trades, format, err = h.Ingestor.IngestWithFormat(f)
		if err != nil {
			ingestError(c, err)
			return
		}
	} else {
		var req struct {
			URL string `json:"url" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			Error(c, http.StatusBadRequest, "provide a multipart file or a url")
			return
		}
		source = req.URL
		body, err := h.Fetcher.Fetch(c.Request.Context(), req.URL)
		if err != nil {
			Error(c, http.StatusBadGateway, err.Error())
			return
		}
		trades, format, err = h.Ingestor.IngestWithFormat(body)
		if err != nil {
			ingestError(c, err)
			return
		}
	}

	run, err := h.Journals.ImportTrades(slug, trades, source, format)
	if err != nil {
		Error(c, http.StatusNotFound, err.Error())
		return
	}

	h.Logger.Info("Import completed",
		zap.String("journal", slug),
		zap.String("source", source),
		zap.Int("rows", run.Rows),
	)
	c.JSON(http.StatusOK, run)
}

func (h *JournalHandler) imports(c *gin.Context) {
	runs, err := h.Journals.Imports(c.Param("id"))
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (h *JournalHandler) trades(c *gin.Context) {
	trades, err := h.Journals.Trades(c.Param("id"))
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, trades)
}

func (h *JournalHandler) stats(c *gin.Context) {
	trades, err := h.Journals.Trades(c.Param("id"))
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	summary := analytics.Summarize(trades)
	long, short := analytics.LongShortSplit(trades)

	// JSON cannot carry +Inf; flag it instead
	pfInf := math.IsInf(summary.ProfitFactor, 1)
	if pfInf {
		summary.ProfitFactor = 0
	}
	if math.IsInf(summary.PayoffRatio, 1) {
		summary.PayoffRatio = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":                summary,
		"profit_factor_infinite": pfInf,
		"long":                   long,
		"short":                  short,
		"streaks":                analytics.ComputeStreaks(trades),
		"longest_losing_streak":  analytics.LongestLosingStreak(trades),
	})
}

func (h *JournalHandler) equity(c *gin.Context) {
	slug := c.Param("id")
	trades, err := h.Journals.Trades(slug)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	start, err := h.startEquity(c, slug)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	var curve analytics.EquityCurve
	if c.DefaultQuery("granularity", "trade") == "daily" {
		curve = analytics.DailyEquity(trades, start)
	} else {
		curve = analytics.BuildEquity(trades, start)
	}
	c.JSON(http.StatusOK, curve)
}

func (h *JournalHandler) monthly(c *gin.Context) {
	trades, err := h.Journals.Trades(c.Param("id"))
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, analytics.MonthlyStats(trades))
}

func (h *JournalHandler) calendar(c *gin.Context) {
	trades, err := h.Journals.Trades(c.Param("id"))
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	now := time.Now()
	year := intQuery(c, "year", now.Year())
	month := intQuery(c, "month", int(now.Month()))
	if month < 1 || month > 12 {
		Error(c, http.StatusBadRequest, "month must be 1..12")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":  year,
		"month": month,
		"days":  analytics.CalendarRollup(trades, year, time.Month(month)),
	})
}

// startEquity resolves the equity baseline: an explicit query value wins,
// otherwise the per-account settings entry for this journal.
func (h *JournalHandler) startEquity(c *gin.Context, slug string) (float64, error) {
	if raw := c.Query("start_equity"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v, nil
		}
	}
	settings, err := h.Settings.Load()
	if err != nil {
		return 0, err
	}
	return settings.StartEquityFor(slug), nil
}

func intQuery(c *gin.Context, key string, def int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return def
}
