// An error implementation that saves the line number and the line
// we were trying to read.

package mmcif

import (
	"strconv"
)

const maxMsgLen = 70

type readError struct {
	n      int    // line number
	inline string // The line that provoked the error
	desc   string // Description of error
}

func firstPart(s string) string {
	if len(s) > maxMsgLen {
		return s[:maxMsgLen]
	}
	return s
}

// Error gives the line number, what went wrong and the start of
// the offending line.
func (e *readError) Error() string {
	errmsg := e.desc
	if e.n != 0 {
		errmsg = "line " + strconv.Itoa(e.n) + ": " + e.desc
	}
	if e.inline != "" {
		errmsg += "\nline starting with\n" + firstPart(e.inline)
	}
	return errmsg
}
