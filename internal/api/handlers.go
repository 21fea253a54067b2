package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/almanac-api/internal/almanac"
	"github.com/zapponejosh/almanac-api/internal/calendar"
	"github.com/zapponejosh/almanac-api/internal/config"
	"github.com/zapponejosh/almanac-api/internal/database"
	"github.com/zapponejosh/almanac-api/internal/flyingstar"
	"github.com/zapponejosh/almanac-api/internal/logger"
)

// Handlers contains all HTTP handlers and their dependencies. They log
// through the request context's logger.
type Handlers struct {
	svc *almanac.Service
	db  *database.DB // nil when serving the embedded ephemeris
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance. db may be nil.
func NewHandlers(svc *almanac.Service, db *database.DB, cfg *config.Config) *Handlers {
	return &Handlers{
		svc: svc,
		db:  db,
		cfg: cfg,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Check database health
	if h.db != nil {
		if err := h.db.Health(ctx); err != nil {
			logger.Warn(ctx, "health check failed", slog.Any("error", err))
			WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
			return
		}
	}

	WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"ephemeris": h.cfg.EphemerisSource,
		"locale":    h.cfg.Locale,
	})
}

// GetDay handles GET /api/v1/day/{YYYY-MM-DD}?time=HH:MM
func (h *Handlers) GetDay(w http.ResponseWriter, r *http.Request) {
	in, ok := h.instant(w, r)
	if !ok {
		return
	}
	report, err := h.svc.Day(in)
	h.respond(w, r, report, err)
}

// GetLunar handles GET /api/v1/lunar/{YYYY-MM-DD}
func (h *Handlers) GetLunar(w http.ResponseWriter, r *http.Request) {
	in, ok := h.instant(w, r)
	if !ok {
		return
	}
	lunar, err := h.svc.Lunar(in)
	h.respond(w, r, lunar, err)
}

// GetPillars handles GET /api/v1/pillars/{YYYY-MM-DD}?time=HH:MM
func (h *Handlers) GetPillars(w http.ResponseWriter, r *http.Request) {
	in, ok := h.instant(w, r)
	if !ok {
		return
	}
	pillars, err := h.svc.Pillars(in)
	h.respond(w, r, pillars, err)
}

// GetFlyingStars handles GET /api/v1/flying-stars/{scale}/{YYYY-MM-DD}?time=HH:MM
func (h *Handlers) GetFlyingStars(w http.ResponseWriter, r *http.Request) {
	scale, err := flyingstar.ParseScale(chi.URLParam(r, "scale"))
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid scale: %s. Use year, month, day or hour", chi.URLParam(r, "scale")))
		return
	}
	in, ok := h.instant(w, r)
	if !ok {
		return
	}
	grid, err := h.svc.FlyingStars(scale, in)
	h.respond(w, r, grid, err)
}

// GetOfficer handles GET /api/v1/officer/{YYYY-MM-DD}
func (h *Handlers) GetOfficer(w http.ResponseWriter, r *http.Request) {
	in, ok := h.instant(w, r)
	if !ok {
		return
	}
	day, err := h.svc.Officer(in)
	h.respond(w, r, day, err)
}

// GetOfficerRange handles GET /api/v1/officer?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) GetOfficerRange(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" || endStr == "" {
		WriteBadRequest(w, "Both start and end date parameters are required")
		return
	}

	start, err := calendar.ParseInstant(startStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", startStr))
		return
	}
	end, err := calendar.ParseInstant(endStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid end date format: %s. Use YYYY-MM-DD", endStr))
		return
	}

	days, err := h.svc.Officers(start, end)
	h.respond(w, r, days, err)
}

// GetZiWei handles GET /api/v1/ziwei?birth=YYYY-MM-DD&hour=H&year=YYYY
func (h *Handlers) GetZiWei(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	birthStr := q.Get("birth")
	if birthStr == "" {
		WriteBadRequest(w, "birth parameter is required")
		return
	}
	birth, err := calendar.ParseInstant(birthStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid birth date format: %s. Use YYYY-MM-DD", birthStr))
		return
	}

	hour, err := strconv.Atoi(q.Get("hour"))
	if err != nil {
		WriteBadRequest(w, "hour must be an integer 0-23")
		return
	}

	// Defaults to the birth year
	evalYear := birth.Year
	if ys := q.Get("year"); ys != "" {
		if evalYear, err = strconv.Atoi(ys); err != nil {
			WriteBadRequest(w, "year must be an integer")
			return
		}
	}

	chart, err := h.svc.ZiWei(birth, hour, evalYear)
	h.respond(w, r, chart, err)
}

// GetSolar handles GET /api/v1/solar?year=YYYY&month=M&day=D&leap=true
func (h *Handlers) GetSolar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var d calendar.LunarDate
	for _, f := range []struct {
		name string
		dst  *int
	}{{"year", &d.Year}, {"month", &d.Month}, {"day", &d.Day}} {
		v, err := strconv.Atoi(q.Get(f.name))
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("%s must be an integer", f.name))
			return
		}
		*f.dst = v
	}
	if ls := q.Get("leap"); ls != "" {
		leap, err := strconv.ParseBool(ls)
		if err != nil {
			WriteBadRequest(w, "leap must be true or false")
			return
		}
		d.IsLeapMonth = leap
	}

	solar, err := h.svc.Solar(d)
	h.respond(w, r, solar, err)
}

// GetSolarTerms handles GET /api/v1/solar-terms/{year}
func (h *Handlers) GetSolarTerms(w http.ResponseWriter, r *http.Request) {
	yearStr := chi.URLParam(r, "year")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s", yearStr))
		return
	}

	terms, err := h.svc.SolarTerms(year)
	h.respond(w, r, terms, err)
}

// instant reads the {date} path parameter and optional time query.
// On failure it writes a 400 and returns false.
func (h *Handlers) instant(w http.ResponseWriter, r *http.Request) (calendar.Instant, bool) {
	dateStr := chi.URLParam(r, "date")
	if dateStr == "" {
		WriteBadRequest(w, "Date parameter is required")
		return calendar.Instant{}, false
	}

	in, err := calendar.ParseInstant(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return calendar.Instant{}, false
	}

	timeStr := r.URL.Query().Get("time")
	if in, err = in.WithClock(timeStr); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid time format: %s. Use HH:MM", timeStr))
		return calendar.Instant{}, false
	}
	return in, true
}

// respond writes data, or maps err to a status and logs server-side failures.
func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, data any, err error) {
	if err == nil {
		WriteSuccess(w, data)
		return
	}

	if status, _ := StatusOf(err); status >= http.StatusInternalServerError {
		logger.Error(r.Context(), "almanac query failed", err, slog.String("path", r.URL.Path))
	}
	WriteCalendarError(w, err)
}
