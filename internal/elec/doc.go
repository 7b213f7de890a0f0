// Package elec holds the electronic-state bookkeeping shared by the unit cell
// and the supercell: k-point meshes and quantum numbers, static ownership of
// states across ranks, plane-wave bases, column bundles of orbital
// coefficients, and band fillings.
package elec
