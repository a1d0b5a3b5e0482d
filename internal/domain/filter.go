package domain

import "fmt"

// Range es un intervalo cerrado [Min, Max] sobre un conteo entero.
type Range struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Contains indica si Min <= v <= Max.
func (r Range) Contains(v int) bool { return r.Min <= v && v <= r.Max }

// Widen devuelve un intervalo ampliado en delta por cada lado, recortado a [0, limit].
func (r Range) Widen(delta, limit int) Range {
	return Range{Min: max(r.Min-delta, 0), Max: min(r.Max+delta, limit)}
}

func (r Range) validate(name string, limit int) error {
	if r.Min < 0 || r.Min > r.Max || r.Max > limit {
		return fmt.Errorf("%w: %s [%d, %d] must satisfy 0 <= min <= max <= %d",
			ErrInvalidRange, name, r.Min, r.Max, limit)
	}
	return nil
}

// FilterConfig son los intervalos de la estrategia. Frame es opcional:
// nil significa que el filtro de moldura no se aplica al generar.
type FilterConfig struct {
	Repeated Range  `yaml:"repeated" json:"repeated"`
	Odd      Range  `yaml:"odd" json:"odd"`
	Frame    *Range `yaml:"frame,omitempty" json:"frame,omitempty"`
}

// DefaultFilterConfig devuelve los intervalos más habituales en sorteos reales:
// 8–10 repetidas y 7–9 impares, sin filtro de moldura.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		Repeated: Range{Min: 8, Max: 10},
		Odd:      Range{Min: 7, Max: 9},
	}
}

// FullFrameRange es el intervalo de moldura que acepta cualquier jogo.
func FullFrameRange() Range { return Range{Min: 0, Max: FrameSet.Len()} }

// Validate comprueba 0 <= min <= max <= 15 (16 para moldura).
func (c FilterConfig) Validate() error {
	if err := c.Repeated.validate("repeated", DrawSize); err != nil {
		return err
	}
	if err := c.Odd.validate("odd", DrawSize); err != nil {
		return err
	}
	if c.Frame != nil {
		if err := c.Frame.validate("frame", FrameSet.Len()); err != nil {
			return err
		}
	}
	return nil
}

// Passes evalúa los predicados en orden repetidas → impares → moldura
// y corta en el primero que falla.
func (c FilterConfig) Passes(candidate, previous NumberSet) bool {
	if !c.Repeated.Contains(candidate.Common(previous)) {
		return false
	}
	if !c.Odd.Contains(candidate.Odd()) {
		return false
	}
	if c.Frame != nil && !c.Frame.Contains(candidate.Frame()) {
		return false
	}
	return true
}

// WithFrame devuelve una copia con el filtro de moldura dado.
func (c FilterConfig) WithFrame(r Range) FilterConfig {
	c.Frame = &r
	return c
}
