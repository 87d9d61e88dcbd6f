// idlcollect gathers the interface definitions of a WebIDL source tree into
// one JSON document, merging partial interfaces and mixins into their base.
package main

import (
	"fmt"
	"os"

	"github.com/b11005/blink-idl-diff/cmd/idlcollect/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "idlcollect: %v\n", err)
		os.Exit(cmd.ExitCode(err))
	}
}
