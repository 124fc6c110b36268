// Package uom resuelve conversiones entre la unidad base de un ítem y
// cualquier unidad usada en recetas o recepciones (ej. caja→kg). Función pura,
// sin estado mutable después de construir el Resolver.
package uom

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/restops-core/internal/domain"
)

// Dimensiones canónicas. Dos unidades solo son convertibles si comparten dimensión.
const (
	DimMass   = "mass"   // base: g
	DimVolume = "volume" // base: ml
	DimCount  = "count"  // base: unit
)

type factor struct {
	dim    string
	toBase decimal.Decimal // cuántas unidades base equivale 1 de esta unidad
}

// Resolver convierte cantidades entre unidades. Incluye la tabla métrica
// estándar y admite registrar empaques propios del catálogo (caja→12 unit).
type Resolver struct {
	factors map[string]factor
}

// NewResolver construye el resolver con las unidades estándar.
func NewResolver() *Resolver {
	r := &Resolver{factors: map[string]factor{}}
	reg := func(unit, dim string, toBase string) {
		r.factors[unit] = factor{dim: dim, toBase: decimal.RequireFromString(toBase)}
	}
	// Masa (base: g)
	reg("g", DimMass, "1")
	reg("kg", DimMass, "1000")
	reg("mg", DimMass, "0.001")
	reg("lb", DimMass, "453.592")
	reg("oz", DimMass, "28.3495")
	// Volumen (base: ml)
	reg("ml", DimVolume, "1")
	reg("l", DimVolume, "1000")
	reg("cl", DimVolume, "10")
	// Conteo (base: unit)
	reg("unit", DimCount, "1")
	reg("dozen", DimCount, "12")
	return r
}

// RegisterPack registra una unidad de empaque en términos de una unidad ya
// conocida (ej. "box" = 24 "unit", "sack" = 25 "kg"). qty debe ser positiva.
func (r *Resolver) RegisterPack(unit string, qty decimal.Decimal, inUnit string) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidQuantity
	}
	base, ok := r.factors[normalize(inUnit)]
	if !ok {
		return domain.ErrIncompatibleUnits
	}
	r.factors[normalize(unit)] = factor{dim: base.dim, toBase: qty.Mul(base.toBase)}
	return nil
}

// Convert convierte qty de la unidad from a la unidad to.
// Falla con ErrIncompatibleUnits si alguna unidad es desconocida o si las
// dimensiones no coinciden (no se inventa una ruta de conversión).
func (r *Resolver) Convert(qty decimal.Decimal, from, to string) (decimal.Decimal, error) {
	f, ok := r.factors[normalize(from)]
	if !ok {
		return decimal.Zero, domain.ErrIncompatibleUnits
	}
	t, ok := r.factors[normalize(to)]
	if !ok {
		return decimal.Zero, domain.ErrIncompatibleUnits
	}
	if f.dim != t.dim {
		return decimal.Zero, domain.ErrIncompatibleUnits
	}
	return qty.Mul(f.toBase).Div(t.toBase), nil
}

func normalize(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}
