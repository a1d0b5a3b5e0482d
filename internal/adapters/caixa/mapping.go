package caixa

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

const dateLayout = "02/01/2006"

// mapResult convierte la respuesta del portal a domain.Draw.
// Una fecha ilegible no invalida el sorteo; unas dezenas ilegibles sí.
func mapResult(r resultResponse) (domain.Draw, error) {
	nums := make([]int, 0, len(r.ListaDezenas))
	for _, raw := range r.ListaDezenas {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return domain.Draw{}, fmt.Errorf("contest %d: dezena %q: %w", r.Numero, raw, domain.ErrInvalidNumber)
		}
		nums = append(nums, n)
	}
	set, err := domain.NewNumberSet(nums...)
	if err != nil {
		return domain.Draw{}, fmt.Errorf("contest %d: %w", r.Numero, err)
	}

	d := domain.Draw{Contest: r.Numero, Numbers: set}
	if t, err := time.Parse(dateLayout, r.DataApuracao); err == nil {
		d.Date = t
	}
	if err := d.Validate(); err != nil {
		return domain.Draw{}, err
	}
	return d, nil
}
