package models

import (
	"strconv"

	"github.com/goccy/go-json"
)

// Prediction is kept exactly as the prediction service returns it. Numbers are
// decoded as json.Number so large ids keep every digit.
type Prediction map[string]interface{}

// ID returns the prediction's identifier rendered as text, or "".
func (p Prediction) ID() string {
	v, ok := p["id"]
	if !ok || v == nil {
		return ""
	}
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}

// PredictionList is what the dashboard reads from a list response: the `results`
// member and an optional `error` message. The rest of the envelope is not interpreted.
type PredictionList struct {
	Results []Prediction
	Error   string
}
