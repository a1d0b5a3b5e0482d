// Package memo implementa la tabla de memoización que usa la sesión para no
// recalcular frecuencias, atrasos y patrones entre acciones del mismo run.
//
// La tabla pertenece al llamador: no hay estado global. No es segura para uso
// concurrente; el núcleo es single-threaded.
package memo

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

// Key es la huella xxhash de los inputs de un cálculo.
type Key uint64

// KeyBuilder acumula inputs y devuelve su huella.
type KeyBuilder struct {
	d   *xxhash.Digest
	buf [8]byte
}

// NewKey inicia una huella con un nombre de operación, para que dos cálculos
// distintos sobre los mismos sorteos no colisionen.
func NewKey(op string) *KeyBuilder {
	k := &KeyBuilder{d: xxhash.New()}
	k.d.WriteString(op)
	return k
}

// Int agrega un entero a la huella.
func (k *KeyBuilder) Int(v int) *KeyBuilder {
	binary.LittleEndian.PutUint64(k.buf[:], uint64(v))
	k.d.Write(k.buf[:])
	return k
}

// Sets agrega una lista de conjuntos, respetando el orden.
func (k *KeyBuilder) Sets(sets []domain.NumberSet) *KeyBuilder {
	k.Int(len(sets))
	for _, s := range sets {
		binary.LittleEndian.PutUint32(k.buf[:4], uint32(s))
		k.d.Write(k.buf[:4])
	}
	return k
}

// Sum devuelve la huella final.
func (k *KeyBuilder) Sum() Key { return Key(k.d.Sum64()) }

// Table guarda resultados por huella de inputs.
type Table[V any] struct {
	entries map[Key]V
	hits    int
	misses  int
}

// New crea una tabla vacía.
func New[V any]() *Table[V] {
	return &Table[V]{entries: make(map[Key]V)}
}

// Get devuelve el valor guardado para key o lo calcula con compute y lo guarda.
func (t *Table[V]) Get(key Key, compute func() V) V {
	if v, ok := t.entries[key]; ok {
		t.hits++
		return v
	}
	t.misses++
	v := compute()
	t.entries[key] = v
	return v
}

// Stats devuelve aciertos y fallos de la tabla.
func (t *Table[V]) Stats() (hits, misses int) { return t.hits, t.misses }

// Len devuelve cuántas entradas hay guardadas.
func (t *Table[V]) Len() int { return len(t.entries) }

// Reset vacía la tabla, por ejemplo tras recargar el histórico.
func (t *Table[V]) Reset() {
	clear(t.entries)
	t.hits, t.misses = 0, 0
}
