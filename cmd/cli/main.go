// Command cli is the dashengine command-line interface.
package main

import (
	"os"

	"dashengine/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
