package assemble

import "fmt"

// ResolutionError reports a pending table whose predicted start offset did
// not match any committed table. It signals consumption-rule drift between
// this engine and the backend; the mismatch details are the diagnosis.
type ResolutionError struct {
	Key       string
	Predicted int64
	// Nearest is the closest observed table start, or -1 if the committed
	// document contained no tables at all.
	Nearest int64
}

func (e *ResolutionError) Error() string {
	if e.Nearest < 0 {
		return fmt.Sprintf("table %q: no table found at predicted offset %d (document has no tables)", e.Key, e.Predicted)
	}
	return fmt.Sprintf("table %q: no table found at predicted offset %d (nearest table starts at %d)", e.Key, e.Predicted, e.Nearest)
}
