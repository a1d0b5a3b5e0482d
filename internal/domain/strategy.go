package domain

import (
	"encoding/json"
	"fmt"
)

// Strategy es la estrategia que el usuario guarda y vuelve a cargar como
// "código": el universo tal como lo escribió y los intervalos del filtro.
type Strategy struct {
	Universe string
	Filter   FilterConfig
}

// strategyCode es el formato del código: cada intervalo es un par [min, max].
// filtro_moldura es opcional; sin él la moldura no filtra la generación.
type strategyCode struct {
	Universe string `json:"universo_dezenas"`
	Repeated []int  `json:"filtro_repetidas,omitempty"`
	Odd      []int  `json:"filtro_impares,omitempty"`
	Frame    []int  `json:"filtro_moldura,omitempty"`
}

// Encode devuelve el código de la estrategia como JSON indentado.
func (s Strategy) Encode() (string, error) {
	code := strategyCode{
		Universe: s.Universe,
		Repeated: []int{s.Filter.Repeated.Min, s.Filter.Repeated.Max},
		Odd:      []int{s.Filter.Odd.Min, s.Filter.Odd.Max},
	}
	if s.Filter.Frame != nil {
		code.Frame = []int{s.Filter.Frame.Min, s.Filter.Frame.Max}
	}
	b, err := json.MarshalIndent(code, "", "  ")
	if err != nil {
		return "", fmt.Errorf("domain.Strategy.Encode: %w", err)
	}
	return string(b), nil
}

// DecodeStrategy interpreta un código de estrategia y valida universo y filtros.
// Si falta filtro_repetidas o filtro_impares se usa el intervalo por defecto.
func DecodeStrategy(code string) (Strategy, NumberSet, error) {
	var c strategyCode
	if err := json.Unmarshal([]byte(code), &c); err != nil {
		return Strategy{}, 0, fmt.Errorf("domain.DecodeStrategy: %w: %v", ErrInvalidStrategy, err)
	}
	universe, err := ParseUniverse(c.Universe)
	if err != nil {
		return Strategy{}, 0, fmt.Errorf("domain.DecodeStrategy: %w: %w", ErrInvalidStrategy, err)
	}

	def := DefaultFilterConfig()
	s := Strategy{Universe: c.Universe}
	if s.Filter.Repeated, err = pairRange("filtro_repetidas", c.Repeated, def.Repeated); err != nil {
		return Strategy{}, 0, err
	}
	if s.Filter.Odd, err = pairRange("filtro_impares", c.Odd, def.Odd); err != nil {
		return Strategy{}, 0, err
	}
	if c.Frame != nil {
		frame, err := pairRange("filtro_moldura", c.Frame, Range{})
		if err != nil {
			return Strategy{}, 0, err
		}
		s.Filter.Frame = &frame
	}

	if err := s.Filter.Validate(); err != nil {
		return Strategy{}, 0, fmt.Errorf("domain.DecodeStrategy: %w: %w", ErrInvalidStrategy, err)
	}
	return s, universe, nil
}

// pairRange convierte [min, max] en Range; nil devuelve def.
func pairRange(key string, pair []int, def Range) (Range, error) {
	if pair == nil {
		return def, nil
	}
	if len(pair) != 2 {
		return Range{}, fmt.Errorf("domain.DecodeStrategy: %w: %s must be [min, max], got %d values",
			ErrInvalidStrategy, key, len(pair))
	}
	return Range{Min: pair[0], Max: pair[1]}, nil
}
