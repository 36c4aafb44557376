package main

import (
	"os"

	"github.com/vrsandeep/tokyo-links/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
