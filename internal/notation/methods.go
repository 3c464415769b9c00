package notation

import (
	"fmt"

	"pnengine/internal/stage"
)

// Stedman returns the notation of Stedman for an odd stage, with the tenor
// symbol making the long places: 3.1.7.3.1.3.1.3.7.1.3.1 on seven.
func Stedman(n int) (string, error) {
	if n < 5 || n > stage.MaxStage || n%2 == 0 {
		return "", fmt.Errorf("stedman needs an odd stage between 5 and %d, got %d", stage.MaxStage-1, n)
	}
	s := stage.Symbol(n)
	return fmt.Sprintf("3.1.%s.3.1.3.1.3.%s.1.3.1", s, s), nil
}
