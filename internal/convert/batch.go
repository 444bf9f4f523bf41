package convert

import (
	"errors"
	"fmt"
)

// ErrAborted is returned by ConvertAll when a failure stopped the batch
// before every input was attempted.
var ErrAborted = errors.New("batch aborted")

// ConvertAll converts inputs in order. Each file's pipeline is
// independent; a failed file is recorded and the batch moves on unless
// abortOnError is set. The error joins every failure.
func (c *Converter) ConvertAll(inputs []string, abortOnError bool) ([]*Result, error) {
	results := make([]*Result, 0, len(inputs))

	var errs []error
	for i, input := range inputs {
		res, err := c.Convert(input)
		results = append(results, res)
		if err == nil {
			continue
		}

		errs = append(errs, fmt.Errorf("%s: %w", input, err))
		if abortOnError && i < len(inputs)-1 {
			errs = append(errs, fmt.Errorf("%w after %d of %d files", ErrAborted, i+1, len(inputs)))
			break
		}
	}

	return results, errors.Join(errs...)
}
