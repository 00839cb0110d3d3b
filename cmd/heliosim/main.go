package main

import (
	"fmt"
	"os"

	"github.com/heliosyn/heliosim/cmd/heliosim/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
