package domain

import "math/bits"

// FrequencyTable cuenta apariciones por dezena. El índice 0 no se usa.
type FrequencyTable [MaxNumber + 1]int

// DelayTable guarda el atraso por dezena: sorteos consecutivos más recientes
// sin salir. El índice 0 no se usa.
type DelayTable [MaxNumber + 1]int

// Get devuelve el conteo de la dezena n.
func (f FrequencyTable) Get(n int) int { return f[n] }

// Total devuelve la suma de todas las apariciones.
func (f FrequencyTable) Total() int {
	total := 0
	for n := MinNumber; n <= MaxNumber; n++ {
		total += f[n]
	}
	return total
}

// Max devuelve el mayor conteo.
func (f FrequencyTable) Max() int {
	m := 0
	for n := MinNumber; n <= MaxNumber; n++ {
		m = max(m, f[n])
	}
	return m
}

// Get devuelve el atraso de la dezena n.
func (d DelayTable) Get(n int) int { return d[n] }

// Max devuelve el mayor atraso.
func (d DelayTable) Max() int {
	m := 0
	for n := MinNumber; n <= MaxNumber; n++ {
		m = max(m, d[n])
	}
	return m
}

// Frequency cuenta las apariciones de cada dezena en los sorteos dados.
func Frequency(draws []NumberSet) FrequencyTable {
	var f FrequencyTable
	for _, s := range draws {
		for v := s; v != 0; v &= v - 1 {
			f[lowestNumber(v)]++
		}
	}
	return f
}

// Delay calcula el atraso de cada dezena respecto de ref.
//
//	atraso(n) = len(ref) - 1 - último índice donde aparece n
//	atraso(n) = len(ref) si n nunca aparece
//
// Una sola pasada hacia atrás: cada dezena se resuelve la primera vez que se ve.
func Delay(ref []NumberSet) DelayTable {
	var d DelayTable
	var seen NumberSet
	all := RangeSet(MinNumber, MaxNumber)
	last := len(ref) - 1
	for i := last; i >= 0 && seen != all; i-- {
		fresh := ref[i] &^ seen
		for v := fresh; v != 0; v &= v - 1 {
			d[lowestNumber(v)] = last - i
		}
		seen |= fresh
	}
	for n := MinNumber; n <= MaxNumber; n++ {
		if !seen.Has(n) {
			d[n] = len(ref)
		}
	}
	return d
}

func lowestNumber(s NumberSet) int { return bits.TrailingZeros32(uint32(s)) }
