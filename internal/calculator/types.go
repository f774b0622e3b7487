package calculator

// KeysRequest is the JSON body for POST /calculator/evaluate and
// POST /calculator/sessions/{id}/keys.
type KeysRequest struct {
	Keys []string `json:"keys"`
}

// StateResponse is the JSON response for all calculator endpoints that
// return a snapshot.
type StateResponse struct {
	ID      string   `json:"id,omitempty"`
	State   State    `json:"state"`
	Display string   `json:"display"`
	Ignored []string `json:"ignored,omitempty"`
}

// LayoutResponse is the JSON response for GET /calculator/layout.
type LayoutResponse struct {
	Rows [][]string `json:"rows"`
}

func newStateResponse(id string, s State, ignored []string) StateResponse {
	return StateResponse{
		ID:      id,
		State:   s,
		Display: s.Display(),
		Ignored: ignored,
	}
}
