// Package recurrence evaluates Muller's recurrence
//
//	u(k+1) = 111 - 1130/u(k) + 3000/(u(k)*u(k-1))
//
// in two arithmetics:
//
//   - [Reference]: exact rational arithmetic ([math/big.Rat]), immune to
//     rounding error. With the canonical seeds u(0)=2, u(1)=-4 the exact
//     sequence converges to 6.
//   - [Float]: IEEE-754 double precision, where accumulated rounding error
//     drives the same sequence to the spurious fixed point 100.
//
// The gap between the two trajectories is what the rest of the tool
// quantifies.
package recurrence
