package pmecc

import "github.com/kb9vcn/pmecc/internal/galois"

// KeyEquationSolver runs the simplified Berlekamp-Massey iteration
// from spec.md §4.2 to derive the error-locator polynomial sigma(x)
// from the full syndromes already computed into the Workspace by
// SyndromeBuilder. This is get_sigma from
// original_source/driver/pmecc.c, generalized off the fixed TT_MAX=24
// C arrays to the Workspace's GF(2^m)-aware types but otherwise
// unchanged iteration-for-iteration -- including its two early
// termination conditions, which spec.md §9 warns are not mere
// optimizations: skipping them produces wrong answers on short-weight
// error patterns.
type KeyEquationSolver struct {
	Field *galois.Field
	T     int
}

// Solve derives sigma(x) into ws.Smu[t+1] / ws.Lmu[t+1]. ws.Si must
// already hold the full syndromes (SyndromeBuilder.Substitute).
//
// The tie-break in rho-selection (lowest-index maximum wins, strict
// '>' not '>=') and the parity-dependent early-termination conditions
// on (t-L-1) are both load-bearing per spec.md §4.2/§9 and are
// reproduced exactly as stated there.
func (s *KeyEquationSolver) Solve(ws *Workspace) {
	f := s.Field
	t := s.T

	// mu is the step counter: mu[0]=-1 (the symbolic "-1/2"
	// initializer), mu[1]=0, mu[i]=2(i-1) for i>=2.
	var mu [smuRows]int
	var dmu [smuRows]uint16
	var delta [smuRows]int

	mu[0] = -1

	ws.Smu[0][0] = 1
	dmu[0] = 1
	ws.Lmu[0] = 0
	delta[0] = (2*mu[0] - ws.Lmu[0]) / 2

	mu[1] = 0
	ws.Smu[1][0] = 1
	dmu[1] = ws.Si[1]
	ws.Lmu[1] = 0
	delta[1] = (2*mu[1] - ws.Lmu[1]) / 2

	var dmuZeroCount int

	for i := 1; i <= t; i++ {
		mu[i+1] = i << 1

		if dmu[i] == 0 {
			dmuZeroCount++

			degree := ws.Lmu[i] >> 1
			parityTerm := t - degree - 1

			var earlyTerm bool
			if parityTerm&1 != 0 {
				earlyTerm = dmuZeroCount == (parityTerm/2)+2
			} else {
				earlyTerm = dmuZeroCount == (parityTerm/2)+1
			}

			if earlyTerm {
				for j := 0; j <= degree+1; j++ {
					ws.Smu[t+1][j] = ws.Smu[i][j]
				}
				ws.Lmu[t+1] = ws.Lmu[i]
				return
			}

			for j := 0; j <= degree; j++ {
				ws.Smu[i+1][j] = ws.Smu[i][j]
			}
			ws.Lmu[i+1] = ws.Lmu[i]
		} else {
			rho := 0
			largest := -1
			for j := 0; j < i; j++ {
				if dmu[j] != 0 && delta[j] > largest {
					largest = delta[j]
					rho = j
				}
			}

			diff := mu[i] - mu[rho]

			if (ws.Lmu[i] >> 1) > (ws.Lmu[rho]>>1)+diff {
				ws.Lmu[i+1] = ws.Lmu[i]
			} else {
				ws.Lmu[i+1] = ((ws.Lmu[rho] >> 1) + diff) * 2
			}

			for k := range ws.Smu[i+1] {
				ws.Smu[i+1][k] = 0
			}

			for k := 0; k <= ws.Lmu[rho]>>1; k++ {
				if ws.Smu[rho][k] != 0 && dmu[i] != 0 {
					logSum := uint(f.IndexOf[dmu[i]]) + (f.N - uint(f.IndexOf[dmu[rho]])) + uint(f.IndexOf[ws.Smu[rho][k]])
					ws.Smu[i+1][k+diff] ^= f.AlphaTo[logSum%f.N]
				}
			}

			for k := 0; k <= ws.Lmu[i]>>1; k++ {
				ws.Smu[i+1][k] ^= ws.Smu[i][k]
			}
		}

		delta[i+1] = (2*mu[i+1] - ws.Lmu[i+1]) / 2

		if i < t {
			for k := 0; k <= ws.Lmu[i+1]>>1; k++ {
				if k == 0 {
					dmu[i+1] = ws.Si[2*i+1]
				} else if ws.Smu[i+1][k] != 0 && ws.Si[2*i+1-k] != 0 {
					logSum := uint(f.IndexOf[ws.Smu[i+1][k]]) + uint(f.IndexOf[ws.Si[2*i+1-k]])
					dmu[i+1] ^= f.AlphaTo[logSum%f.N]
				}
			}
		}
	}

	// Loop completed without early termination: smu[t+1]/lmu[t+1]
	// already hold the result from the final iteration i=t, since
	// every branch above writes them as ws.Smu[i+1]/ws.Lmu[i+1].
}

// Degree returns deg(sigma), the expected number of errors, from a
// Workspace that Solve has already populated.
func (s *KeyEquationSolver) Degree(ws *Workspace) int {
	return ws.Lmu[s.T+1] >> 1
}
