// Package mapview models a tiled slippy map independently of any UI
// toolkit: a base layer, the current view, markers with popups, and size
// invalidation. Renderers replay its state onto a real map widget.
package mapview

import (
	"errors"
	"fmt"
)

var (
	ErrNotInitialized = errors.New("map surface has no base layer yet")
	ErrNoSuchMarker   = errors.New("marker is not on the map")
)

// LatLng is a map position.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TileLayer describes the base layer. URLTemplate uses {z}, {x} and {y}.
type TileLayer struct {
	URLTemplate string `json:"url"`
	Attribution string `json:"attribution"`
	TileSize    int    `json:"tileSize"`
	ZoomOffset  int    `json:"zoomOffset"`
}

// MarkerID identifies a marker placed on a surface.
type MarkerID int

// Marker is a point on the map with an optional popup.
type Marker struct {
	ID        MarkerID `json:"id"`
	Position  LatLng   `json:"position"`
	Popup     string   `json:"popup,omitempty"`
	PopupOpen bool     `json:"popupOpen"`
}

// Surface is the map state. It is not safe for concurrent use; the owner
// serializes access.
type Surface struct {
	base    *TileLayer
	center  LatLng
	zoom    int
	markers []*Marker
	nextID  MarkerID
	redraws int
}

// NewSurface creates a surface showing center at zoom with no base layer.
func NewSurface(center LatLng, zoom int) *Surface {
	return &Surface{center: center, zoom: zoom}
}

// Init adds the base layer once. It reports whether the layer was added by
// this call; later calls keep the first layer.
func (s *Surface) Init(layer TileLayer) bool {
	if s.base != nil {
		return false
	}

	l := layer
	s.base = &l
	return true
}

// Initialized reports whether a base layer is present.
func (s *Surface) Initialized() bool {
	return s.base != nil
}

// SetView centers the map.
func (s *Surface) SetView(center LatLng, zoom int) error {
	if s.base == nil {
		return ErrNotInitialized
	}

	s.center = center
	s.zoom = zoom
	return nil
}

// AddMarker places a new marker and returns its id.
func (s *Surface) AddMarker(pos LatLng) (MarkerID, error) {
	if s.base == nil {
		return 0, ErrNotInitialized
	}

	s.nextID++
	s.markers = append(s.markers, &Marker{ID: s.nextID, Position: pos})
	return s.nextID, nil
}

// RemoveMarker takes a marker off the map.
func (s *Surface) RemoveMarker(id MarkerID) error {
	for i, m := range s.markers {
		if m.ID == id {
			s.markers = append(s.markers[:i], s.markers[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("%w: %d", ErrNoSuchMarker, id)
}

// BindPopup attaches popup content to a marker.
func (s *Surface) BindPopup(id MarkerID, content string) error {
	m, err := s.marker(id)
	if err != nil {
		return err
	}

	m.Popup = content
	return nil
}

// OpenPopup opens the marker popup, closing any other open popup.
func (s *Surface) OpenPopup(id MarkerID) error {
	m, err := s.marker(id)
	if err != nil {
		return err
	}

	for _, other := range s.markers {
		other.PopupOpen = false
	}
	m.PopupOpen = true
	return nil
}

// InvalidateSize asks the renderer to recompute the map size, needed when
// the map was laid out while hidden.
func (s *Surface) InvalidateSize() {
	s.redraws++
}

func (s *Surface) marker(id MarkerID) (*Marker, error) {
	for _, m := range s.markers {
		if m.ID == id {
			return m, nil
		}
	}

	return nil, fmt.Errorf("%w: %d", ErrNoSuchMarker, id)
}

// State is an immutable copy of a surface, suitable for rendering.
type State struct {
	Base    *TileLayer `json:"base,omitempty"`
	Center  LatLng     `json:"center"`
	Zoom    int        `json:"zoom"`
	Markers []Marker   `json:"markers"`
	Redraws int        `json:"redraws"`
}

// Snapshot copies the current state.
func (s *Surface) Snapshot() State {
	st := State{
		Center:  s.center,
		Zoom:    s.zoom,
		Markers: make([]Marker, 0, len(s.markers)),
		Redraws: s.redraws,
	}
	if s.base != nil {
		base := *s.base
		st.Base = &base
	}
	for _, m := range s.markers {
		st.Markers = append(st.Markers, *m)
	}

	return st
}
