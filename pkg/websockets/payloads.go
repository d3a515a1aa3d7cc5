package websockets

import (
	"github.com/gamedb/gridview/pkg/grid"
)

// GridPayload is sent for each grid event
type GridPayload struct {
	Event string `json:"event"`
	Table string `json:"table"`
	Grid  string `json:"grid"`
	Draw  int    `json:"draw"`
	Error string `json:"error,omitempty"`
}

// Relay forwards a grid's events to the websockets of the grid's session
func (h *Hub) Relay(g *grid.Grid) {

	handler := func(s grid.Signal) {

		if !h.HasConnections(g.Session) {
			return
		}

		payload := GridPayload{
			Event: string(s.Event),
			Table: g.Table,
			Grid:  g.ID,
			Draw:  s.Draw,
		}

		if s.Err != nil {
			payload.Error = "fetch failed"
		}

		h.Send(g.Session, payload)
	}

	for _, e := range []grid.Event{grid.EventSuccess, grid.EventError, grid.EventComplete} {
		g.Events.On(e, handler)
	}
}
