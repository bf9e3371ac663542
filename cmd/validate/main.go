// Command validate checks data files against the application's validators
// without starting the HTTP server.
//
//	validate list
//	validate check user --data user.json --scope edit --bind id=33
//	cat user.yaml | validate check user --fixtures fixtures.yaml --json
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
		}
		os.Exit(1)
	}
}
