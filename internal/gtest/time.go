package gtest

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// TimeFactor is a multiplier that can be controlled by the
// TASKWDT_TEST_TIME_FACTOR environment variable
// to increase test-related timeouts on slow or contended machines.
var TimeFactor ScaledDuration = 1

func init() {
	f := os.Getenv("TASKWDT_TEST_TIME_FACTOR")
	if f == "" {
		return
	}

	n, err := strconv.Atoi(f)
	if err != nil {
		panic(fmt.Errorf(
			"failed to parse TASKWDT_TEST_TIME_FACTOR (%q) into an integer: %w",
			f, err,
		))
	}

	if n <= 0 {
		panic(fmt.Errorf("TASKWDT_TEST_TIME_FACTOR must be positive; got %d", n))
	}

	TimeFactor = ScaledDuration(n)
}

type ScaledDuration time.Duration

// ScaleMs returns ms in milliseconds, multiplied by [TimeFactor].
func ScaleMs(ms int64) ScaledDuration {
	return TimeFactor * ScaledDuration(ms) * ScaledDuration(time.Millisecond)
}

// D converts the scaled duration back to a time.Duration.
func (d ScaledDuration) D() time.Duration {
	return time.Duration(d)
}

// Sleep calls [time.Sleep] with the given scaled duration.
func Sleep(dur ScaledDuration) {
	time.Sleep(time.Duration(dur))
}
