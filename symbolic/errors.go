package symbolic

import "errors"

var (
	// ErrParse indicates malformed expression or predicate text.
	ErrParse = errors.New("symbolic: parse error")
	// ErrDimension indicates mismatched matrix or vector sizes.
	ErrDimension = errors.New("symbolic: dimension mismatch")
	// ErrNonNumericMatrix indicates a solver needed exact numeric coefficients.
	ErrNonNumericMatrix = errors.New("symbolic: matrix entries must be numeric")
	// ErrDecode indicates a malformed JSON expression tree.
	ErrDecode = errors.New("symbolic: invalid expression tree")
)
