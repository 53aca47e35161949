package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/prayer-times/internal/hijri"
	"github.com/smokyabdulrahman/prayer-times/internal/prayer"
	"github.com/smokyabdulrahman/prayer-times/internal/store"
)

// Server answers Al Adhan shaped requests from the local calculator.
type Server struct {
	store  *store.Store
	log    zerolog.Logger
	method prayer.Method
	loc    *time.Location
	now    func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the SQLite read-through cache for calendar months.
func WithStore(st *store.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithLogger sets the request and diagnostics logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithDefaultMethod sets the method used when a request names none.
func WithDefaultMethod(m prayer.Method) Option {
	return func(s *Server) { s.method = m }
}

// WithDefaultLocation sets the timezone used when a request names none.
func WithDefaultLocation(loc *time.Location) Option {
	return func(s *Server) { s.loc = loc }
}

// NewServer returns a Server with MWL and UTC as defaults.
func NewServer(opts ...Option) *Server {
	s := &Server{
		log:    zerolog.Nop(),
		method: prayer.MuslimWorldLeague,
		loc:    time.UTC,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the HTTP handler.
//
//	GET /health
//	GET /v1/timings/{date}
//	GET /v1/calendar/{year}/{month}
//	GET /v1/gToH[/{date}]
//	GET /v1/methods
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware(s.log))
	r.Use(RecoveryMiddleware(s.log))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Invalid endpoint or route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/timings", s.timings)
		r.Get("/timings/{date}", s.timings)
		r.Get("/calendar/{year}/{month}", s.calendar)
		r.Get("/gToH", s.gregorianToHijri)
		r.Get("/gToH/{date}", s.gregorianToHijri)
		r.Get("/methods", s.methods)
	})
	return r
}

// ListenAndServe serves Routes on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info().Msg("server stopped")
	return nil
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"code":   http.StatusOK,
		"status": "OK",
		"data":   map[string]string{"status": "healthy"},
	})
}

func (s *Server) timings(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	date, err := s.parseDate(chi.URLParam(r, "date"), q.loc)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	calc, err := q.calculator(s.log)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	day, err := calc.Daily(date)
	if err != nil {
		s.writeComputeError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, Response{
		Code:   http.StatusOK,
		Status: "OK",
		Data:   NewData(day, q.coords, q.params, q.loc, q.hijriAdjust),
	})
}

func (s *Server) calendar(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		WriteBadRequest(w, "Please specify a valid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		WriteBadRequest(w, "Please specify a valid month")
		return
	}

	calc, err := q.calculator(s.log)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	days, err := s.month(r.Context(), calc, year, time.Month(month))
	if err != nil {
		s.writeComputeError(w, err)
		return
	}

	data := make([]Data, len(days))
	for i, d := range days {
		data[i] = NewData(d, q.coords, q.params, q.loc, q.hijriAdjust)
	}
	WriteJSON(w, http.StatusOK, CalendarResponse{
		Code:   http.StatusOK,
		Status: "OK",
		Data:   data,
	})
}

func (s *Server) gregorianToHijri(w http.ResponseWriter, r *http.Request) {
	adjust, err := parseHijriAdjustment(r.URL.Query().Get("adjustment"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	date, err := s.parseDate(chi.URLParam(r, "date"), time.UTC)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, HijriResponse{
		Code:   http.StatusOK,
		Status: "OK",
		Data: HijriData{
			Hijri:     NewHijriDate(hijri.Convert(adjust, date)),
			Gregorian: NewGregorianDate(date),
		},
	})
}

func (s *Server) methods(w http.ResponseWriter, r *http.Request) {
	data := make(map[string]MethodInfo, len(prayer.Methods))
	for _, m := range prayer.Methods {
		key := strings.ToUpper(m.String())
		data[key] = NewMethodInfo(m, m.Parameters())
	}
	WriteJSON(w, http.StatusOK, MethodsResponse{
		Code:   http.StatusOK,
		Status: "OK",
		Data:   data,
	})
}

func (s *Server) writeComputeError(w http.ResponseWriter, err error) {
	if errors.Is(err, prayer.ErrUndefinedSolarEvent) {
		WriteUnprocessable(w, err.Error())
		return
	}
	s.log.Error().Err(err).Msg("computation failed")
	WriteInternalError(w, "Failed to compute prayer times")
}

// month serves a calendar month from the store when it is complete there,
// computing and saving it otherwise. Store failures only cost the cache.
func (s *Server) month(ctx context.Context, calc *prayer.Calculator, year int, month time.Month) ([]prayer.Day, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	var tt store.Timetable
	if s.store != nil {
		tt = store.NewTimetable(calc.Coordinates(), calc.Parameters())
		days, err := s.store.LoadDays(ctx, tt.Key, first, last)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("key", tt.Key).Msg("timetable read failed")
		case len(days) == last.Day():
			s.log.Debug().Str("key", tt.Key).Int("year", year).Stringer("month", month).Msg("calendar cache hit")
			return days, nil
		}
	}

	days, err := calc.Monthly(year, month)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.SaveDays(ctx, tt, days); err != nil {
			s.log.Warn().Err(err).Str("key", tt.Key).Msg("timetable write failed")
		}
	}
	return days, nil
}

// ---------------------------------------------------------------------------
// Query parsing
// ---------------------------------------------------------------------------

type query struct {
	coords      prayer.Coordinates
	params      prayer.CalculationParameters
	loc         *time.Location
	hijriAdjust int
}

func (q query) calculator(log zerolog.Logger) (*prayer.Calculator, error) {
	return prayer.NewCalculator(q.coords, q.params, prayer.WithLogger(log))
}

// tuneOrder is the Al Adhan order of the comma separated tune parameter.
var tuneOrder = []string{"Imsak", "Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Sunset", "Isha", "Midnight"}

func (s *Server) parseQuery(r *http.Request) (query, error) {
	v := r.URL.Query()
	q := query{loc: s.loc}

	lat, err := strconv.ParseFloat(v.Get("latitude"), 64)
	if err != nil {
		return q, errors.New("please specify a valid latitude")
	}
	lon, err := strconv.ParseFloat(v.Get("longitude"), 64)
	if err != nil {
		return q, errors.New("please specify a valid longitude")
	}
	q.coords = prayer.Coordinates{Latitude: lat, Longitude: lon}
	if err := q.coords.Validate(); err != nil {
		return q, err
	}

	method := s.method
	if raw := v.Get("method"); raw != "" {
		m, ok := prayer.LookupMethod(raw)
		if !ok {
			s.log.Warn().Str("method", raw).Msg("unknown method, using Other")
		}
		method = m
	}
	q.params = prayer.NewParameters(method)

	if raw := v.Get("school"); raw != "" {
		madhab, err := prayer.ParseMadhab(raw)
		if err != nil {
			return q, err
		}
		q.params = q.params.WithMadhab(madhab)
	}

	rule := prayer.RecommendedHighLatitudeRule(q.coords)
	if raw := v.Get("latitudeAdjustmentMethod"); raw != "" {
		rule, err = parseLatitudeAdjustment(raw)
		if err != nil {
			return q, err
		}
	}
	q.params = q.params.WithHighLatitudeRule(rule)

	if raw := v.Get("shafaq"); raw != "" {
		shafaq, err := prayer.ParseShafaq(raw)
		if err != nil {
			return q, err
		}
		q.params = q.params.WithShafaq(shafaq)
	}

	if raw := v.Get("tune"); raw != "" {
		adj, err := parseTune(raw)
		if err != nil {
			return q, err
		}
		q.params = q.params.WithAdjustments(adj)
	}

	if q.hijriAdjust, err = parseHijriAdjustment(v.Get("adjustment")); err != nil {
		return q, err
	}

	if raw := v.Get("timezonestring"); raw != "" {
		loc, err := time.LoadLocation(raw)
		if err != nil {
			return q, fmt.Errorf("unknown timezone %q", raw)
		}
		q.loc = loc
	}
	return q, nil
}

// parseDate reads DD-MM-YYYY or a unix timestamp in loc. Empty means today.
func (s *Server) parseDate(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return s.now().In(loc), nil
	}
	if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(ts, 0).In(loc), nil
	}
	date, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use DD-MM-YYYY", raw)
	}
	return date, nil
}

func parseTune(raw string) (prayer.Adjustments, error) {
	parts := strings.Split(raw, ",")
	if len(parts) > len(tuneOrder) {
		return prayer.Adjustments{}, fmt.Errorf("tune takes at most %d values", len(tuneOrder))
	}
	minutes := make(map[string]int, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return prayer.Adjustments{}, fmt.Errorf("invalid tune value %q for %s", p, tuneOrder[i])
		}
		minutes[tuneOrder[i]] = n
	}
	return prayer.Adjustments{
		Fajr:    minutes["Fajr"],
		Sunrise: minutes["Sunrise"],
		Dhuhr:   minutes["Dhuhr"],
		Asr:     minutes["Asr"],
		Maghrib: minutes["Maghrib"],
		Isha:    minutes["Isha"],
	}, nil
}

func parseHijriAdjustment(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < -30 || n > 30 {
		return 0, fmt.Errorf("invalid adjustment %q", raw)
	}
	return n, nil
}
