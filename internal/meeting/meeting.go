// Package meeting builds the public meeting room links handed out with
// bookings and registrations. Links are deterministic URLs over a random
// room id; no external conferencing API is involved.
package meeting

import (
	"strings"

	"github.com/google/uuid"
)

type Link struct {
	MeetingID string
	URL       string
}

// Generator mints meeting links under a configured base URL.
type Generator struct {
	baseURL string
}

func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/")}
}

// New returns a fresh meeting link with a unique room id.
func (g *Generator) New() Link {
	id := uuid.NewString()
	return Link{MeetingID: id, URL: g.baseURL + "/" + id}
}
