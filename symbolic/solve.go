package symbolic

import "fmt"

// ============================================================
// Linear least squares
// ============================================================

// SolveLeastSquares returns the least-squares solutions of A x = b as a
// family: it row-reduces the normal equations AᵀA x = Aᵀb exactly and gives
// each free column a fresh Dummy symbol. A must be numeric; b may be
// symbolic. When A has full column rank the result is the pseudo-inverse
// solution A⁺b.
func SolveLeastSquares(a *Matrix, b []Expr) ([]Expr, error) {
	if len(b) != a.rows {
		return nil, fmt.Errorf("%w: %d equations, %d right-hand sides", ErrDimension, a.rows, len(b))
	}
	at := a.Transpose()
	ata, err := at.MatMul(a)
	if err != nil {
		return nil, err
	}
	rhs, err := at.MulVec(b)
	if err != nil {
		return nil, err
	}
	n := a.cols
	coef := make([][]*Num, n)
	for i := 0; i < n; i++ {
		coef[i] = make([]*Num, n)
		for j := 0; j < n; j++ {
			v, ok := ata.data[i][j].Simplify().(*Num)
			if !ok {
				return nil, fmt.Errorf("%w: AᵀA[%d][%d] = %s", ErrNonNumericMatrix, i, j, ata.data[i][j])
			}
			coef[i][j] = v
		}
	}

	// Gauss-Jordan elimination; pivotRow[col] is -1 for free columns.
	pivotRow := make([]int, n)
	row := 0
	for col := 0; col < n; col++ {
		pivotRow[col] = -1
		if row >= n {
			continue
		}
		p := -1
		for r := row; r < n; r++ {
			if !coef[r][col].IsZero() {
				p = r
				break
			}
		}
		if p < 0 {
			continue
		}
		coef[row], coef[p] = coef[p], coef[row]
		rhs[row], rhs[p] = rhs[p], rhs[row]
		inv := numRecip(coef[row][col])
		for j := 0; j < n; j++ {
			coef[row][j] = numMul(coef[row][j], inv)
		}
		rhs[row] = MulOf(inv, rhs[row])
		for r := 0; r < n; r++ {
			if r == row || coef[r][col].IsZero() {
				continue
			}
			f := coef[r][col]
			for j := 0; j < n; j++ {
				coef[r][j] = numSub(coef[r][j], numMul(f, coef[row][j]))
			}
			rhs[r] = AddOf(rhs[r], MulOf(numNeg(f), rhs[row]))
		}
		pivotRow[col] = row
		row++
	}

	solution := make([]Expr, n)
	free := map[int]Expr{}
	for col := 0; col < n; col++ {
		if pivotRow[col] < 0 {
			w := Dummy(fmt.Sprintf("w%d", col))
			free[col] = w
			solution[col] = w
		}
	}
	for col := 0; col < n; col++ {
		r := pivotRow[col]
		if r < 0 {
			continue
		}
		terms := []Expr{rhs[r]}
		for fc, w := range free {
			if !coef[r][fc].IsZero() {
				terms = append(terms, MulOf(numNeg(coef[r][fc]), w))
			}
		}
		solution[col] = Expand(AddOf(terms...))
	}
	return solution, nil
}
