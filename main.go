package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yujin9907/cloud-naitive/cmd"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
