// Package solver is the electronic-structure collaborator of the phonon
// engine: a plane-wave model with Gaussian local pseudopotentials and a
// classical pair repulsion between ions.
//
// A [System] carries one cell's geometry and electronic state. [System.Solve]
// diagonalizes the unit cell; [System.Evaluate] returns energies and forces at
// the current, fixed electronic state; [System.SubspaceHamiltonian] projects
// the Hamiltonian onto the occupied-band subspace. [IonicMinimizer] moves
// atoms and evaluates gradients.
package solver
