package domain

import (
	"fmt"
	"math/bits"
	"strings"
)

const (
	MinNumber = 1
	MaxNumber = 25
	DrawSize  = 15 // dezenas por sorteo y por jogo
)

// NumberSet es un conjunto de dezenas 1..25 codificado como bitmask:
// el bit n representa la dezena n. El bit 0 nunca se usa.
type NumberSet uint32

// FrameSet son las 16 dezenas del borde del volante 5×5 ("moldura").
var FrameSet = MustNumberSet(1, 2, 3, 4, 5, 6, 10, 11, 15, 16, 20, 21, 22, 23, 24, 25)

// PrimeSet son las dezenas primas del volante.
var PrimeSet = MustNumberSet(2, 3, 5, 7, 11, 13, 17, 19, 23)

// oddMask tiene activos los bits de las dezenas impares.
const oddMask NumberSet = 0b10101010101010101010101010

// NewNumberSet construye un conjunto validando rango y duplicados.
func NewNumberSet(nums ...int) (NumberSet, error) {
	var s NumberSet
	for _, n := range nums {
		if n < MinNumber || n > MaxNumber {
			return 0, fmt.Errorf("%w: %d", ErrInvalidNumber, n)
		}
		if s.Has(n) {
			return 0, fmt.Errorf("%w: %d", ErrDuplicateNumber, n)
		}
		s |= 1 << n
	}
	return s, nil
}

// MustNumberSet es como NewNumberSet pero hace panic. Solo para constantes y tests.
func MustNumberSet(nums ...int) NumberSet {
	s, err := NewNumberSet(nums...)
	if err != nil {
		panic(err)
	}
	return s
}

// RangeSet devuelve el conjunto {from..to}, recortado a 1..25.
func RangeSet(from, to int) NumberSet {
	var s NumberSet
	for n := max(from, MinNumber); n <= min(to, MaxNumber); n++ {
		s |= 1 << n
	}
	return s
}

// Len devuelve cuántas dezenas contiene el conjunto.
func (s NumberSet) Len() int { return bits.OnesCount32(uint32(s)) }

// Has indica si n pertenece al conjunto.
func (s NumberSet) Has(n int) bool {
	if n < MinNumber || n > MaxNumber {
		return false
	}
	return s&(1<<n) != 0
}

// Common devuelve |s ∩ o|.
func (s NumberSet) Common(o NumberSet) int { return bits.OnesCount32(uint32(s & o)) }

// Odd devuelve la cantidad de dezenas impares.
func (s NumberSet) Odd() int { return s.Common(oddMask) }

// Frame devuelve la cantidad de dezenas en la moldura.
func (s NumberSet) Frame() int { return s.Common(FrameSet) }

// Primes devuelve la cantidad de dezenas primas.
func (s NumberSet) Primes() int { return s.Common(PrimeSet) }

// Sum devuelve la suma de las dezenas.
func (s NumberSet) Sum() int {
	total := 0
	for v := uint32(s); v != 0; v &= v - 1 {
		total += bits.TrailingZeros32(v)
	}
	return total
}

// Contains indica si o ⊆ s.
func (s NumberSet) Contains(o NumberSet) bool { return s&o == o }

// Numbers devuelve las dezenas en orden ascendente.
func (s NumberSet) Numbers() []int {
	out := make([]int, 0, s.Len())
	for v := uint32(s); v != 0; v &= v - 1 {
		out = append(out, bits.TrailingZeros32(v))
	}
	return out
}

// Format devuelve las dezenas con dos dígitos separadas por coma: "01, 02, 05".
func (s NumberSet) Format() string {
	nums := s.Numbers()
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, ", ")
}

func (s NumberSet) String() string { return "[" + s.Format() + "]" }
