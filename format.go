package dlog

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"runtime"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// appendValue converts any value to its text representation and appends it to
// buf. Common types have explicit fast paths; everything else (structs, maps,
// pointers, arrays) falls back to go-spew with a compact, log-friendly
// configuration.
func appendValue(buf []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		buf = append(buf, val...)
	case int:
		buf = strconv.AppendInt(buf, int64(val), 10)
	case int64:
		buf = strconv.AppendInt(buf, val, 10)
	case uint:
		buf = strconv.AppendUint(buf, uint64(val), 10)
	case uint64:
		buf = strconv.AppendUint(buf, val, 10)
	case float32:
		buf = strconv.AppendFloat(buf, float64(val), 'f', -1, 32)
	case float64:
		buf = strconv.AppendFloat(buf, val, 'f', -1, 64)
	case bool:
		buf = strconv.AppendBool(buf, val)
	case nil:
		buf = append(buf, "nil"...)
	case time.Time:
		buf = val.AppendFormat(buf, defaultTimestampLayout)
	case error:
		buf = append(buf, val.Error()...)
	case fmt.Stringer:
		buf = append(buf, val.String()...)
	case []byte:
		buf = hex.AppendEncode(buf, val) // prevent special character corruption
	default:
		var b bytes.Buffer

		// Use a custom dumper for log-friendly, compact output.
		dumper := &spew.ConfigState{
			Indent:                  " ",
			MaxDepth:                10,
			DisablePointerAddresses: true, // Cleaner for logs
			DisableCapacities:       true, // Less noise
			SortKeys:                true, // Consistent map output
		}

		dumper.Fdump(&b, val)

		// Trim trailing new line added by spew
		buf = append(buf, bytes.TrimSpace(b.Bytes())...)
	}
	return buf
}

// timestamp formats the current local time with the given layout
func timestamp(layout string) string {
	if layout == "" {
		layout = defaultTimestampLayout
	}
	return time.Now().Format(layout)
}

// goroutineTag returns a stable numeric identity for the calling goroutine:
// an FNV-1a hash of the goroutine id's decimal string as reported by
// runtime.Stack. Collisions are acceptable; the tag only has to be stable and
// practically distinct, not unique.
func goroutineTag() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)

	// First line reads "goroutine <id> [<state>]:"
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}

	h := fnv.New64a()
	_, _ = h.Write(fields[1])
	return h.Sum64()
}
