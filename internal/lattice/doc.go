// Package lattice provides the small fixed-size linear algebra used to describe
// periodic crystals: Cartesian and fractional 3-vectors, 3x3 lattice matrices,
// periodic nearest-point lookup and the Wigner-Seitz cell map of a supercell.
//
// Lattice matrices follow the column convention: the columns of R are the
// lattice vectors, so a fractional coordinate x maps to the Cartesian point R·x.
// Reciprocal-space coordinates k are rows against G = 2π·R⁻¹, so the squared
// length of k is kᵀ·GGT·k with GGT = G·Gᵀ.
package lattice
