package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/alejandrodnm/lotobot/internal/analysis"
	"github.com/alejandrodnm/lotobot/internal/backtest"
	"github.com/alejandrodnm/lotobot/internal/classifier"
	"github.com/alejandrodnm/lotobot/internal/domain"
	"github.com/alejandrodnm/lotobot/internal/generator"
)

// Console implementa ports.Reporter y los reportes del CLI.
type Console struct {
	out      io.Writer
	maxShown int // jogos a listar; 0 = todos
}

// NewConsole crea un reporter que escribe a stdout.
func NewConsole(maxShown int) *Console {
	return &Console{out: os.Stdout, maxShown: maxShown}
}

// NewConsoleWriter crea un reporter para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// ReportTickets imprime el resumen de la generación y los jogos.
func (c *Console) ReportTickets(_ context.Context, s domain.GenerationSummary, tickets []domain.Ticket) error {
	fmt.Fprintf(c.out, "\n=== GENERATION — universe %d numbers ===\n", s.Universe.Len())
	fmt.Fprintf(c.out, "  Universe: %s\n", s.Universe.Format())
	if s.Previous.Contest > 0 {
		fmt.Fprintf(c.out, "  Previous: #%d  %s\n", s.Previous.Contest, s.Previous.Numbers.Format())
	}
	fmt.Fprintf(c.out, "  Considered: %d of %d  |  Kept: %d", s.Considered, s.Total, s.Kept)
	if s.Truncated {
		fmt.Fprint(c.out, "  (truncated)")
	}
	fmt.Fprintf(c.out, "  |  %s\n\n", s.Duration)

	if len(tickets) == 0 {
		fmt.Fprintln(c.out, "  No tickets passed the filters.")
		return nil
	}

	shown := tickets
	if c.maxShown > 0 && len(shown) > c.maxShown {
		shown = shown[:c.maxShown]
	}
	width := len(fmt.Sprint(len(tickets)))
	for i, t := range shown {
		fmt.Fprintf(c.out, "  %*d  %s\n", width, i+1, t.Format())
	}
	if len(shown) < len(tickets) {
		fmt.Fprintf(c.out, "  ... %d more\n", len(tickets)-len(shown))
	}
	fmt.Fprintln(c.out)
	return nil
}

// PrintStats imprime frecuencia y atraso de las 25 dezenas y los tops.
func (c *Console) PrintStats(stats []analysis.NumberStat, top int) {
	fmt.Fprintf(c.out, "\n=== FREQUENCY / DELAY ===\n")
	table := tablewriter.NewWriter(c.out)
	table.Header("Number", "Freq", "Delay")
	for _, s := range stats {
		table.Append(twoDigits(s.Number), fmt.Sprintf("%d", s.Frequency), fmt.Sprintf("%d", s.Delay))
	}
	table.Render()

	hot := analysis.Hot(stats)
	overdue := analysis.Overdue(stats)
	top = min(top, len(stats))
	fmt.Fprintf(c.out, "  Hot:     %s\n", statNumbers(hot[:top]))
	fmt.Fprintf(c.out, "  Overdue: %s\n\n", statNumbers(overdue[:top]))
}

// PrintPatterns imprime los pares y trios más frecuentes.
func (c *Console) PrintPatterns(pairs, trios []analysis.Combination) {
	fmt.Fprintf(c.out, "\n=== PATTERNS ===\n")
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Pair", "Count", "Trio", "Count")
	rows := max(len(pairs), len(trios))
	for i := 0; i < rows; i++ {
		pair, pairCount, trio, trioCount := "", "", "", ""
		if i < len(pairs) {
			pair, pairCount = pairs[i].Numbers.Format(), fmt.Sprintf("%d", pairs[i].Count)
		}
		if i < len(trios) {
			trio, trioCount = trios[i].Numbers.Format(), fmt.Sprintf("%d", trios[i].Count)
		}
		table.Append(fmt.Sprintf("%d", i+1), pair, pairCount, trio, trioCount)
	}
	table.Render()
	fmt.Fprintln(c.out)
}

// PrintRecommendation imprime el universo sugerido y el ranking de scores.
func (c *Console) PrintRecommendation(rec analysis.Recommendation) {
	fmt.Fprintf(c.out, "\n=== SUGGESTED UNIVERSE (%d) ===\n", rec.Universe.Len())
	fmt.Fprintf(c.out, "  %s\n\n", rec.Universe.Format())

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Number", "Recent freq", "Delay", "Score", "In")
	for i, s := range rec.Ranking {
		in := ""
		if rec.Universe.Has(s.Number) {
			in = "*"
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			twoDigits(s.Number),
			fmt.Sprintf("%d", s.RecentFrequency),
			fmt.Sprintf("%d", s.Delay),
			fmt.Sprintf("%.3f", s.Score),
			in,
		)
	}
	table.Render()
	fmt.Fprintln(c.out)
}

// PrintBacktest imprime la tasa de alineación de la estrategia.
func (c *Console) PrintBacktest(res backtest.Result, filter domain.FilterConfig) {
	fmt.Fprintf(c.out, "\n=== BACKTEST — last %d draws ===\n", res.Window)
	fmt.Fprintf(c.out, "  Strategy: %s\n", filterLabel(filter))
	fmt.Fprintf(c.out, "  Aligned:  %d / %d  (%.1f%%)\n", res.Hits(), res.Tested, res.Percent())
	if res.Hits() > 0 {
		contests := res.Contests()
		shown := contests[max(len(contests)-20, 0):]
		labels := make([]string, len(shown))
		for i, n := range shown {
			labels[i] = fmt.Sprintf("%d", n)
		}
		fmt.Fprintf(c.out, "  Latest aligned contests: %s\n", strings.Join(labels, ", "))
	}
	fmt.Fprintln(c.out)
}

// PrintPayout imprime la simulación de custo/benefício.
func (c *Console) PrintPayout(r domain.PayoutReport, p domain.Pricing) {
	fmt.Fprintf(c.out, "\n=== SIMULATION — %d tickets × %d draws ===\n", r.Tickets, r.Draws)
	table := tablewriter.NewWriter(c.out)
	table.Header("Hits", "Count", "Prize", "Revenue")
	for k := domain.MinPrizeHits; k <= domain.DrawSize; k++ {
		prize := "pool"
		if v, ok := p.Prizes[k]; ok {
			prize = money(v)
		}
		table.Append(
			fmt.Sprintf("%d", k),
			fmt.Sprintf("%d", r.Tally.Count(k)),
			prize,
			money(r.RevenueFor(p, k)),
		)
	}
	table.Render()

	fmt.Fprintf(c.out, "  Cost:    %s\n", money(r.Cost))
	fmt.Fprintf(c.out, "  Revenue: %s  (fixed prizes only)\n", money(r.Revenue))
	fmt.Fprintf(c.out, "  Net:     %s\n\n", money(r.Net))
}

// PrintCheck imprime la conferencia de jogos contra un resultado.
func (c *Console) PrintCheck(res backtest.CheckResult) {
	fmt.Fprintf(c.out, "\n=== CHECK — result %s ===\n", res.Result.Format())
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Ticket", "Hits", "Prize")
	for i, t := range res.Tickets {
		prize := ""
		if t.Prize() {
			prize = "*"
		}
		table.Append(fmt.Sprintf("%d", i+1), t.Ticket.Format(), fmt.Sprintf("%d", t.Hits), prize)
	}
	table.Render()
	fmt.Fprintf(c.out, "  Winners: %d of %d", res.Tally.Winners(), len(res.Tickets))
	for k := domain.DrawSize; k >= domain.MinPrizeHits; k-- {
		if n := res.Tally.Count(k); n > 0 {
			fmt.Fprintf(c.out, "  |  %d hits: %d", k, n)
		}
	}
	fmt.Fprint(c.out, "\n\n")
}

// PrintElite imprime el universo élite y los jogos mejor puntuados.
func (c *Console) PrintElite(res generator.EliteResult) {
	fmt.Fprintf(c.out, "\n=== ELITE — universe %s ===\n", res.Universe.Format())
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Ticket", "Score")
	for i, st := range res.Tickets {
		table.Append(fmt.Sprintf("%d", i+1), st.Ticket.Format(), fmt.Sprintf("%d", st.Score))
	}
	table.Render()
	fmt.Fprintln(c.out)
}

// PrintScores imprime los jogos ordenados por plausibilidad.
func (c *Console) PrintScores(ranked []classifier.Ranked) {
	fmt.Fprintf(c.out, "\n=== PLAUSIBILITY ===\n")
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Ticket", "Probability")
	for i, r := range ranked {
		table.Append(fmt.Sprintf("%d", i+1), r.Ticket.Format(), fmt.Sprintf("%.1f%%", r.Score*100))
	}
	table.Render()
	fmt.Fprintln(c.out)
}

// PrintHeatmap imprime un valor por dezena sobre el volante 5×5.
func (c *Console) PrintHeatmap(title string, b analysis.Board) {
	fmt.Fprintf(c.out, "\n=== HEATMAP — %s ===\n", title)
	table := tablewriter.NewWriter(c.out)
	table.Header("", "1", "2", "3", "4", "5")
	top := b.Max()
	for i, row := range b {
		cells := []any{fmt.Sprintf("%d", i+1)}
		for _, cell := range row {
			cells = append(cells, fmt.Sprintf("%s %s %d", twoDigits(cell.Number), shade(cell.Value, top), cell.Value))
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintln(c.out)
}

// PrintStrategy imprime el código de la estrategia para copiar.
func (c *Console) PrintStrategy(code string) {
	fmt.Fprintf(c.out, "\n=== STRATEGY CODE ===\n%s\n\n", code)
}

// PrintRuns imprime el historial de ejecuciones guardado en la base local.
func (c *Console) PrintRuns(runs []domain.Run) {
	fmt.Fprintf(c.out, "\n=== RECENT RUNS (%d) ===\n", len(runs))
	if len(runs) == 0 {
		fmt.Fprintln(c.out, "  No runs recorded yet.")
		return
	}
	table := tablewriter.NewWriter(c.out)
	table.Header("When", "Kind", "Contest", "Considered", "Kept", "Params", "Summary")
	for _, r := range runs {
		table.Append(
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(r.Kind),
			fmt.Sprintf("%d", r.LastContest),
			fmt.Sprintf("%d", r.Considered),
			fmt.Sprintf("%d", r.Kept),
			r.Params,
			r.Summary,
		)
	}
	table.Render()
	fmt.Fprintln(c.out)
}

// --- helpers ---

var shades = []string{"·", "░", "▒", "▓", "█"}

// shade elige un bloque proporcional a v/top.
func shade(v, top int) string {
	if top <= 0 || v <= 0 {
		return shades[0]
	}
	i := v * (len(shades) - 1) / top
	return shades[max(i, 1)]
}

func twoDigits(n int) string { return fmt.Sprintf("%02d", n) }

func money(d decimal.Decimal) string { return "R$ " + d.StringFixed(2) }

func statNumbers(stats []analysis.NumberStat) string {
	parts := make([]string, len(stats))
	for i, s := range stats {
		parts[i] = twoDigits(s.Number)
	}
	return strings.Join(parts, ", ")
}

func filterLabel(f domain.FilterConfig) string {
	label := fmt.Sprintf("repeated %d–%d, odd %d–%d", f.Repeated.Min, f.Repeated.Max, f.Odd.Min, f.Odd.Max)
	if f.Frame != nil {
		label += fmt.Sprintf(", frame %d–%d", f.Frame.Min, f.Frame.Max)
	}
	return label
}
