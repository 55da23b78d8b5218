// Package main implements the entry point for the memoria server, the
// local backend of the memory-training app: casillero review, daily
// exercises and the offline application shell.
package main

import (
	"context"
	"log"
)

func main() {
	ctx := context.Background()

	app, err := initializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
