package vm

import (
	"time"

	"github.com/mna/glox/lang/value"
)

var processStart = time.Now()

// nativeClock implements the clock() native: elapsed process time in
// seconds, as a Number.
func nativeClock(args []value.Value) (value.Value, error) {
	return value.Number(time.Since(processStart).Seconds()), nil
}
