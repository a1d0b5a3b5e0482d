package classifier

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/alejandrodnm/lotobot/internal/domain"
	"github.com/alejandrodnm/lotobot/internal/ports"
)

// Ranked es un jogo con su probabilidad.
type Ranked struct {
	Ticket domain.Ticket
	Score  float64
	index  int
}

// Rank puntúa los jogos en paralelo y los devuelve por Score descendente.
// Empates conservan el orden de entrada.
//
// Si workers <= 0 usa runtime.NumCPU().
func Rank(ctx context.Context, scorer ports.Scorer, tickets []domain.Ticket, workers int) ([]Ranked, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	workCh := make(chan int, len(tickets))
	resultCh := make(chan Ranked, len(tickets))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				if ctx.Err() != nil {
					continue
				}
				resultCh <- Ranked{Ticket: tickets[idx], Score: scorer.Score(tickets[idx]), index: idx}
			}
		}()
	}

	for i := range tickets {
		workCh <- i
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	ranked := make([]Ranked, 0, len(tickets))
	for r := range resultCh {
		ranked = append(ranked, r)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("classifier.Rank: %w", err)
	}

	slices.SortFunc(ranked, func(a, b Ranked) int {
		return cmp.Or(cmp.Compare(b.Score, a.Score), cmp.Compare(a.index, b.index))
	})

	slog.Debug("ranking complete", "tickets", len(ranked), "workers", workers)
	return ranked, nil
}
