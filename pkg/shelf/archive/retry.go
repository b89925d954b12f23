package archive

import "time"

// Retry runs op up to attempts times, sleeping delay between attempts.
// It returns the number of attempts actually made and the final error
// (nil once an attempt succeeds). Intermediate failures are not surfaced;
// the operation must tolerate being re-run over its own partial output.
func Retry(attempts int, delay time.Duration, op func() error) (int, error) {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for try := 1; try <= attempts; try++ {
		if err = op(); err == nil {
			return try, nil
		}
		if try < attempts {
			time.Sleep(delay)
		}
	}
	return attempts, err
}
