package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/cors"

	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/format"
	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/graph"
	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/routes"
	"github.com/WhiteDiamondCube/Underspace-Train-Travel-Guide/internal/stations"
)

// maxLimit bounds the limit query parameter.
const maxLimit = 100

type Options struct {
	// Limit is the number of routes returned when the request has no limit
	// parameter. Zero returns every route.
	Limit     int
	VisitMode routes.VisitMode
	CacheTTL  time.Duration
	Printer   *format.Printer
	Logger    *slog.Logger
}

// Handler serves route queries against one immutable graph.
type Handler struct {
	graph   graph.Graph
	db      *stations.StationDB
	opts    Options
	results *gocache.Cache
}

func NewHandler(net *graph.Network, db *stations.StationDB, opts Options) *Handler {
	if opts.Limit < 0 {
		opts.Limit = routes.DefaultLimit
	}
	if opts.Printer == nil {
		opts.Printer = format.NewPrinter("en")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Handler{
		graph:   net.Graph,
		db:      db,
		opts:    opts,
		results: gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
	}
}

func NewServer(port int, h *Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Router wires the endpoints with CORS and access logging.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/stations", h.listStations).Methods(http.MethodGet)
	r.HandleFunc("/stations/search", h.searchStations).Methods(http.MethodGet)
	r.HandleFunc("/routes", h.findRoutes).Methods(http.MethodGet)
	r.Use(h.logRequests)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(r)
}

type routeView struct {
	Path        []string `json:"path"`
	Cost        int      `json:"cost"`
	CostDisplay string   `json:"cost_display"`
}

type routesResponse struct {
	From    string      `json:"from"`
	To      string      `json:"to"`
	Routes  []routeView `json:"routes"`
	Message string      `json:"message,omitempty"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"stations": len(h.db.GetAllStations()),
	})
}

func (h *Handler) listStations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.db.GetAllStations())
}

func (h *Handler) searchStations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	results := h.db.Search(q)
	if results == nil {
		results = []stations.StationInfo{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) findRoutes(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, format.MissingStationsMessage)
		return
	}
	from = h.resolve(from)
	to = h.resolve(to)

	limit := h.opts.Limit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxLimit {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxLimit))
			return
		}
		limit = n
	}

	key := "routes?" + url.Values{
		"from":  {from},
		"to":    {to},
		"limit": {strconv.Itoa(limit)},
	}.Encode()
	if cached, ok := h.results.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	ranked := routes.Query(h.graph, from, to, limit, routes.WithVisitMode(h.opts.VisitMode))
	resp := routesResponse{From: from, To: to, Routes: make([]routeView, 0, len(ranked))}
	for _, rt := range ranked {
		resp.Routes = append(resp.Routes, routeView{
			Path:        rt.Path,
			Cost:        rt.Cost,
			CostDisplay: h.opts.Printer.Credits(rt.Cost) + " Credits",
		})
	}
	if len(ranked) == 0 {
		resp.Message = format.NoRoutesMessage
	}

	h.results.SetDefault(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// resolve accepts partial or differently cased station names. Unknown input
// is kept so the response reports no routes.
func (h *Handler) resolve(input string) string {
	if name, ok := h.db.Resolve(input); ok {
		return name
	}
	return input
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
