// Command server runs the anonymous review service: X-authenticated users
// submit reputation reviews against Ethos profiles, recorded on Base.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
