// Package phonon computes dynamical matrices by finite differences in a
// supercell.
//
// A Phonon builds a supercell commensurate with the unit-cell k mesh, maps
// every unit-cell Bloch state onto the supercell state it folds into, and
// rebuilds the supercell electronic state from the unit cell before each
// evaluation. Run displaces every atom of the unit cell along x, y and z,
// differencing forces and subspace Hamiltonians, and Assemble turns the
// force derivatives into one real dynamical-matrix block per lattice cell.
package phonon
