package ports

import "github.com/alejandrodnm/lotobot/internal/domain"

// Scorer da la probabilidad (0..1) de que un ticket "parezca" un sorteo real.
// La implementación es intercambiable; hoy es una regresión logística.
type Scorer interface {
	Score(t domain.Ticket) float64
}
