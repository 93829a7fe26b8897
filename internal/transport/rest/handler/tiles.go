package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/katiamach/terraguard/internal/logger"
	"github.com/katiamach/terraguard/internal/tiles"
)

// TileHandler handles GET /tiles/{z}/{x}/{y}.
func (s *RiskServer) TileHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	coords := make([]int, 0, 3)
	for _, name := range []string{"z", "x", "y"} {
		v, err := strconv.Atoi(vars[name])
		if err != nil {
			http.Error(w, tiles.ErrInvalidTile.Error(), http.StatusBadRequest)
			return
		}
		coords = append(coords, v)
	}

	tile, err := s.tiles.Fetch(r.Context(), coords[0], coords[1], coords[2])
	switch {
	case errors.Is(err, tiles.ErrInvalidTile):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		logger.Error(fmt.Errorf("failed to fetch tile: %w", err))
		http.Error(w, tiles.ErrUpstream.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", tile.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(tile.Body); err != nil {
		logger.Error(fmt.Errorf("can't write tile: %w", err))
	}
}
