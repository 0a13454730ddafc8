package main

import (
	"github.com/meysamhadeli/i18nav/cmd"
)

func main() {
	cmd.Execute()
}
