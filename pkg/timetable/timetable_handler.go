package timetable

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/campussync/campussync/internal/rest"
	"github.com/campussync/campussync/internal/utils"
	"github.com/campussync/campussync/pkg/category"
	"github.com/campussync/campussync/pkg/feed"
	"github.com/campussync/campussync/pkg/provider"
	"github.com/campussync/campussync/pkg/term"
)

// selectionParams maps query parameters to the kind they select.
var selectionParams = map[string]category.Kind{
	"courses":   category.KindCourse,
	"modules":   category.KindModule,
	"locations": category.KindLocation,
	"clubs":     category.KindClub,
	"societies": category.KindSociety,
}

type TimetableHandler struct {
	service *Service
	cal     term.Calendar
	clock   utils.Clock
}

func NewTimetableHandler(service *Service, cal term.Calendar, clock utils.Clock) *TimetableHandler {
	return &TimetableHandler{service: service, cal: cal, clock: clock}
}

// GetTimetable serves GET /api/timetable. An empty selection is a valid
// query answered with an empty feed; only a malformed window or format
// is rejected up front.
func (handler *TimetableHandler) GetTimetable(w http.ResponseWriter, r *http.Request) {
	log.Debug("Answering timetable query")
	query := r.URL.Query()

	format := feed.FormatFromString(query.Get("format"))
	if format == feed.FormatUnknown {
		rest.WriteError(w, http.StatusBadRequest, "unknown format", query.Get("format"))
		return
	}

	display := false
	if raw := query.Get("display"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "invalid display flag", raw)
			return
		}
		display = parsed
	}

	window, err := handler.parseWindow(format, query.Get("start"), query.Get("end"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid window", err.Error())
		return
	}

	selection := Selection{}
	for param, kind := range selectionParams {
		selection[kind] = splitParam(query.Get(param))
	}

	result, err := handler.service.Query(r.Context(), selection, window)
	if err != nil {
		switch {
		case errors.Is(err, provider.ErrInvalidWindow):
			rest.WriteError(w, http.StatusBadRequest, "invalid window", err.Error())
		case errors.Is(err, provider.ErrUpstreamUnavailable):
			rest.WriteError(w, http.StatusBadGateway, "upstream unavailable", err.Error())
		default:
			rest.WriteError(w, http.StatusInternalServerError, "query failed", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format == feed.FormatICal {
		// iCalendar has no side channel for warnings; they are logged
		// upstream and omitted here.
		if _, err := w.Write([]byte(feed.ToICal(result.Events, handler.clock))); err != nil {
			log.Errorf("Failed to write calendar response: %v", err)
		}
		return
	}

	payload, err := feed.ToJSON(result.Events, display, result.Warnings)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "failed to encode response", err.Error())
		return
	}
	if _, err := w.Write(payload); err != nil {
		log.Errorf("Failed to write response: %v", err)
	}
}

// parseWindow builds the query window. When both bounds are absent a
// JSON query defaults to the current Monday-to-Monday week, while an
// iCalendar query defaults to the whole term so subscribed calendars see
// every occurrence.
func (handler *TimetableHandler) parseWindow(format feed.Format, startRaw, endRaw string) (provider.Window, error) {
	if startRaw == "" && endRaw == "" {
		if format == feed.FormatICal {
			start, end := handler.cal.Window()
			return provider.NewWindow(start, end)
		}
		start, end := term.WeekWindow(handler.clock.Now())
		return provider.NewWindow(start, end)
	}

	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return provider.Window{}, err
	}
	end, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		return provider.Window{}, err
	}
	return provider.NewWindow(start, end)
}

func splitParam(raw string) []string {
	var values []string
	for _, chunk := range strings.Split(raw, ",") {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			values = append(values, chunk)
		}
	}
	return values
}
