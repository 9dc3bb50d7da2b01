package main

import (
	"context"
	"fmt"
	"os"

	"restaurantapi/internal/app"
)

func main() {
	if err := app.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
