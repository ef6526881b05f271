// Command csgen renders Csound score documents to i-statement tables.
package main

import (
	"os"

	"github.com/roach88/csgen/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewRootCommand()))
}
