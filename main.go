package main

import (
	"github.com/praetorian-inc/conch/cmd"
)

func main() {
	cmd.Execute()
}
