package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alejandrodnm/lotobot/internal/analysis"
	"github.com/alejandrodnm/lotobot/internal/domain"
	"github.com/alejandrodnm/lotobot/internal/generator"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	seq := s.svc.State().Sequence
	s.mu.Unlock()

	last, _ := seq.Last()
	respondJSON(w, http.StatusOK, healthResponse{Status: "ok", Draws: seq.Len(), LastContest: last.Contest})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := s.svc.Stats()
	s.mu.Unlock()

	switch r.URL.Query().Get("order") {
	case "hot":
		stats = analysis.Hot(stats)
	case "overdue":
		stats = analysis.Overdue(stats)
	}
	out := make([]numberStat, len(stats))
	for i, st := range stats {
		out[i] = numberStat{Number: st.Number, Frequency: st.Frequency, Delay: st.Delay}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) patterns(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	pairs, trios, err := s.svc.Patterns()
	s.mu.Unlock()
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, patternsResponse{Pairs: combinationsOf(pairs), Trios: combinationsOf(trios)})
}

func (s *Server) heatmap(w http.ResponseWriter, r *http.Request) {
	metric, err := analysis.ParseHeatMetric(r.URL.Query().Get("metric"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "metric must be frequency, recent or delay", err)
		return
	}

	s.mu.Lock()
	board, err := s.svc.Heatmap(metric)
	s.mu.Unlock()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid metric", err)
		return
	}

	rows := make([][]int, analysis.BoardSide)
	for i, row := range board {
		rows[i] = make([]int, analysis.BoardSide)
		for j, c := range row {
			rows[i][j] = c.Value
		}
	}
	respondJSON(w, http.StatusOK, heatmapResponse{Metric: string(metric), Max: board.Max(), Board: rows})
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request) {
	apply, _ := strconv.ParseBool(r.URL.Query().Get("apply"))

	s.mu.Lock()
	rec := s.svc.Suggest(apply)
	s.mu.Unlock()

	ranking := make([]numberScore, len(rec.Ranking))
	for i, ns := range rec.Ranking {
		ranking[i] = numberScore{Number: ns.Number, RecentFrequency: ns.RecentFrequency, Delay: ns.Delay, Score: ns.Score}
	}
	respondJSON(w, http.StatusOK, recommendResponse{Universe: rec.Universe.Numbers(), Ranking: ranking, Applied: apply})
}

func (s *Server) getStrategy(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeStrategy(w)
}

func (s *Server) putStrategy(w http.ResponseWriter, r *http.Request) {
	var req strategyRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.svc.LoadStrategy(req.Code); err != nil {
		respondDomainError(w, err)
		return
	}
	s.writeStrategy(w)
}

// writeStrategy asume el lock tomado.
func (s *Server) writeStrategy(w http.ResponseWriter) {
	code, err := s.svc.SaveStrategy()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not encode strategy", err)
		return
	}
	st := s.svc.State()
	respondJSON(w, http.StatusOK, strategyResponse{Universe: st.Universe.Numbers(), Filter: st.Filter, Code: code})
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Universe != "" {
		u, err := domain.ParseUniverse(req.Universe)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		s.svc.SetUniverse(u)
	}
	if req.Filter != nil {
		if err := s.svc.SetFilter(*req.Filter); err != nil {
			respondDomainError(w, err)
			return
		}
	}

	res, err := s.svc.Generate(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	st := s.svc.State()
	prev, _ := st.Sequence.Last()
	tickets := res.Tickets
	if req.Limit > 0 && len(tickets) > req.Limit {
		tickets = tickets[:req.Limit]
	}
	out := make([][]int, len(tickets))
	for i, t := range tickets {
		out[i] = t.Numbers()
	}
	respondJSON(w, http.StatusOK, generateResponse{
		Universe:   st.Universe.Numbers(),
		Previous:   prev.Contest,
		Total:      res.Total,
		Considered: res.Considered,
		Kept:       res.Kept(),
		Truncated:  res.Truncated,
		Tickets:    out,
	})
}

func (s *Server) backtest(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	res := s.svc.Backtest(r.Context())
	s.mu.Unlock()

	contests := res.Contests()
	if contests == nil {
		contests = []int{}
	}
	respondJSON(w, http.StatusOK, backtestResponse{
		Window:   res.Window,
		Tested:   res.Tested,
		Hits:     res.Hits(),
		Percent:  res.Percent(),
		Contests: contests,
	})
}

func (s *Server) elite(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	res, err := s.svc.Elite(r.Context())
	s.mu.Unlock()
	if err != nil {
		respondDomainError(w, err)
		return
	}

	tickets := make([]scoredTicket, len(res.Tickets))
	for i, t := range res.Tickets {
		tickets[i] = scoredTicket{Numbers: t.Ticket.Numbers(), Score: t.Score}
	}
	respondJSON(w, http.StatusOK, eliteResponse{
		Universe: res.Universe.Numbers(),
		Pairs:    combinationsOf(res.Pairs),
		Trios:    combinationsOf(res.Trios),
		Tickets:  tickets,
	})
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	tickets, skipped, ok := readTickets(w, r, nil)
	if !ok {
		return
	}

	s.mu.Lock()
	report := s.svc.Simulate(r.Context(), tickets)
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, payoutResponse{
		Tickets: report.Tickets,
		Draws:   report.Draws,
		Hits:    hitsOf(report.Tally),
		Cost:    report.Cost,
		Revenue: report.Revenue,
		Net:     report.Net,
		Skipped: skipped,
	})
}

func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	var req ticketsRequest
	tickets, skipped, ok := readTickets(w, r, &req)
	if !ok {
		return
	}
	result, err := domain.ParseResult(req.Result)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	s.mu.Lock()
	res, err := s.svc.Check(r.Context(), tickets, result)
	s.mu.Unlock()
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := make([]checkedTicket, len(res.Tickets))
	for i, c := range res.Tickets {
		out[i] = checkedTicket{Numbers: c.Ticket.Numbers(), Hits: c.Hits, Prize: c.Prize()}
	}
	respondJSON(w, http.StatusOK, checkResponse{
		Result:  res.Result.Numbers(),
		Tickets: out,
		Hits:    hitsOf(res.Tally),
		Skipped: skipped,
	})
}

func (s *Server) score(w http.ResponseWriter, r *http.Request) {
	tickets, _, ok := readTickets(w, r, nil)
	if !ok {
		return
	}

	s.mu.Lock()
	ranked, err := s.svc.Score(r.Context(), tickets)
	s.mu.Unlock()
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := make([]rankedTicket, len(ranked))
	for i, rt := range ranked {
		out[i] = rankedTicket{Numbers: rt.Ticket.Numbers(), Score: rt.Score}
	}
	respondJSON(w, http.StatusOK, out)
}

// readTickets decodifica un ticketsRequest en req (o en uno local si es nil)
// y parsea los jogos. Sin texto devuelve nil: la sesión usa los últimos.
func readTickets(w http.ResponseWriter, r *http.Request, req *ticketsRequest) ([]domain.Ticket, int, bool) {
	if req == nil {
		req = &ticketsRequest{}
	}
	if err := decodeBody(r, req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return nil, 0, false
	}
	if req.Tickets == "" {
		return nil, 0, true
	}
	tickets, skipped := domain.ParseTickets(req.Tickets)
	if len(tickets) == 0 {
		respondError(w, http.StatusBadRequest, "no valid tickets", domain.ErrInvalidTicket)
		return nil, skipped, false
	}
	return tickets, skipped, true
}

// decodeBody acepta un body vacío.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		respondError(w, http.StatusGatewayTimeout, "request timed out", err)
	case errors.Is(err, domain.ErrNoHistory), errors.Is(err, generator.ErrNoAlignedDraws):
		respondError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidNumber),
		errors.Is(err, domain.ErrDuplicateNumber),
		errors.Is(err, domain.ErrInvalidTicket),
		errors.Is(err, domain.ErrInvalidResult),
		errors.Is(err, domain.ErrUniverseTooSmall),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrInvalidStrategy):
		respondError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, "internal error", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "err", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		slog.Warn("request failed", "status", status, "message", message, "err", err)
	}
	respondJSON(w, status, errorResponse{Error: http.StatusText(status), Message: message, Code: status})
}
