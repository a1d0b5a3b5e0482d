package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Ticket es un jogo: exactamente 15 dezenas distintas. Es un value object,
// dos tickets con las mismas dezenas son el mismo ticket.
type Ticket NumberSet

// NewTicket valida y construye un ticket a partir de sus dezenas.
func NewTicket(nums ...int) (Ticket, error) {
	s, err := NewNumberSet(nums...)
	if err != nil {
		return 0, fmt.Errorf("domain.NewTicket: %w", err)
	}
	return TicketFromSet(s)
}

// TicketFromSet convierte un conjunto en ticket si tiene exactamente 15 dezenas.
func TicketFromSet(s NumberSet) (Ticket, error) {
	if s.Len() != DrawSize {
		return 0, fmt.Errorf("domain.TicketFromSet: %w (got %d)", ErrInvalidTicket, s.Len())
	}
	return Ticket(s), nil
}

// Set devuelve el ticket como NumberSet.
func (t Ticket) Set() NumberSet { return NumberSet(t) }

// Numbers devuelve las dezenas en orden ascendente.
func (t Ticket) Numbers() []int { return NumberSet(t).Numbers() }

// Hits devuelve cuántas dezenas del ticket salieron en el sorteo dado.
func (t Ticket) Hits(drawn NumberSet) int { return NumberSet(t).Common(drawn) }

// Format devuelve "01, 02, 05, ..." en orden ascendente.
func (t Ticket) Format() string { return NumberSet(t).Format() }

func (t Ticket) String() string { return NumberSet(t).String() }

// ParseNumbers extrae los enteros de una línea "1, 2, [3]".
// Los tokens que no son enteros se descartan; el segundo valor cuenta cuántos.
func ParseNumbers(line string) (nums []int, discarded int) {
	line = strings.NewReplacer("[", " ", "]", " ", ";", ",").Replace(line)
	for _, tok := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			discarded++
			continue
		}
		nums = append(nums, n)
	}
	return nums, discarded
}

// ParseTickets interpreta un texto con un ticket por línea.
// Las líneas vacías se ignoran y las que no producen un ticket válido
// (15 dezenas distintas en 1..25) se descartan y se cuentan en skipped.
func ParseTickets(text string) (tickets []Ticket, skipped int) {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		nums, _ := ParseNumbers(line)
		t, err := NewTicket(nums...)
		if err != nil {
			skipped++
			continue
		}
		tickets = append(tickets, t)
	}
	return tickets, skipped
}

// ParseResult interpreta el resultado de un sorteo escrito a mano.
func ParseResult(text string) (NumberSet, error) {
	nums, _ := ParseNumbers(text)
	s, err := NewNumberSet(nums...)
	if err != nil || s.Len() != DrawSize {
		return 0, fmt.Errorf("domain.ParseResult: %w", ErrInvalidResult)
	}
	return s, nil
}

// ParseUniverse interpreta el universo de dezenas elegido por el usuario.
// A diferencia de ParseTickets, un token no numérico o fuera de rango es un error:
// el universo se escribe a mano y conviene avisar. Los duplicados se colapsan.
func ParseUniverse(text string) (NumberSet, error) {
	var s NumberSet
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' }) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return 0, fmt.Errorf("domain.ParseUniverse: %q: %w", tok, ErrInvalidNumber)
		}
		if n < MinNumber || n > MaxNumber {
			return 0, fmt.Errorf("domain.ParseUniverse: %d: %w", n, ErrInvalidNumber)
		}
		s |= 1 << n
	}
	return s, nil
}
