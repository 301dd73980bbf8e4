// Command fridgeverify checks that the fridge list page warns about a
// duplicate fridge name and saves a screenshot of the result.
package main

import (
	"os"

	"github.com/ibeckermayer/fridgeverify/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
