package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/antigravity/transitcore/internal/cache"
	"github.com/antigravity/transitcore/internal/directions"
	"github.com/antigravity/transitcore/internal/service"
	"github.com/antigravity/transitcore/internal/store"
)

type routeHandler struct {
	engine *service.Engine
	cache  *cache.Cache
}

func newHandler(engine *service.Engine, c *cache.Cache) *routeHandler {
	return &routeHandler{engine: engine, cache: c}
}

// getRoute answers GET /route?src_lon=&src_lat=&dst_lon=&dst_lat=&departure=
// (departure as a unix epoch in seconds, defaulting to now). A 404 body
// means the query's endpoints couldn't be snapped to the graph or no path
// connects them.
func (h *routeHandler) getRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	srcLon, err1 := strconv.ParseFloat(q.Get("src_lon"), 64)
	srcLat, err2 := strconv.ParseFloat(q.Get("src_lat"), 64)
	dstLon, err3 := strconv.ParseFloat(q.Get("dst_lon"), 64)
	dstLat, err4 := strconv.ParseFloat(q.Get("dst_lat"), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		http.Error(w, "missing or invalid src_lon/src_lat/dst_lon/dst_lat", http.StatusBadRequest)
		return
	}

	departure := time.Now().UTC()
	if raw := q.Get("departure"); raw != "" {
		epoch, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid departure", http.StatusBadRequest)
			return
		}
		departure = time.Unix(epoch, 0).UTC()
	}

	src := store.LatLon{Lon: srcLon, Lat: srcLat}
	dst := store.LatLon{Lon: dstLon, Lat: dstLat}

	ctx := r.Context()
	key := cache.DirectionsKey(src.Lon, src.Lat, dst.Lon, dst.Lat, departure)
	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, key); err == nil && cached != nil {
			writeJSON(w, cached)
			return
		}
	}

	d, err := h.engine.Route(src, dst, departure)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if d == nil {
		http.Error(w, "no route found", http.StatusNotFound)
		return
	}

	if h.cache != nil {
		_ = h.cache.Set(ctx, key, d)
	}
	writeJSON(w, d)
}

func writeJSON(w http.ResponseWriter, v *directions.Directions) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
