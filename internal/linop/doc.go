// Package linop provides lazy linear operators over gonum dense matrices.
//
// Operators represent structured linear maps — Kronecker products and sums,
// block-diagonal direct sums, permutations, shifts — and apply them without
// materialising the full matrix. A Kronecker product of k factors of size d
// acts on d^k-dimensional vectors; densifying it costs d^2k memory, while
// applying it factor-by-factor costs k·d^(k+1) work. The equivariance solver
// builds its group-action constraints out of these operators.
package linop
