package loader

import "fmt"

// DataPurpose selects which half of a cross-validation fold split a load
// keeps: the training individuals, or the held-out validation individuals.
type DataPurpose int

const (
	Training DataPurpose = iota
	Validation
)

// ConstructFolds computes, for n individuals split into numFolds folds,
// which individuals load skips for the requested fold and purpose (spec
// §6's cross-validation fold selection). numFolds <= 1 disables splitting
// and returns an all-false mask.
func ConstructFolds(n, numFolds, foldID int, purpose DataPurpose) ([]bool, error) {
	skip := make([]bool, n)
	if numFolds <= 1 {
		return skip, nil
	}
	if foldID < 0 || foldID >= numFolds {
		return nil, fmt.Errorf("loader: fold id %d out of range for %d folds", foldID, numFolds)
	}

	lo := foldID*n/numFolds + min(foldID, n%numFolds)
	hi := (foldID+1)*n/numFolds + min(foldID+1, n%numFolds)

	for i := 0; i < n; i++ {
		inFold := i >= lo && i < hi
		switch purpose {
		case Training:
			skip[i] = inFold
		case Validation:
			skip[i] = !inFold
		}
	}
	return skip, nil
}
