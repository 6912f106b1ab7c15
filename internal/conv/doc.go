// Package conv provides overflow-checked integer arithmetic and conversions.
//
// Arena sizes are computed from caller input (element counts times element
// sizes, human-entered capacities), so products and conversions are checked
// before they reach pointer arithmetic.
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, offsets already bounded by a reservation), use direct type casts instead.
package conv
