package pipeline

import (
	"fmt"
	"os"
)

// Debugf writes to stderr when LOGOSTRIP_DEBUG is 1 or true. The variable
// is read on every call so a .env loaded after start-up still applies.
func Debugf(format string, args ...interface{}) {
	if v := os.Getenv("LOGOSTRIP_DEBUG"); v == "1" || v == "true" {
		fmt.Fprintf(os.Stderr, "logostrip: "+format+"\n", args...)
	}
}
