package main

import (
	"fmt"
	"net/http"

	"github.com/worklens/console-go/internal/config"
	"github.com/worklens/console-go/internal/stub"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	store := stub.NewStore()
	stub.Seed(store)
	tokens := stub.NewTokens(cfg.Stub.JWTSecret)

	checkoutURL := fmt.Sprintf("http://localhost:%d/checkout", cfg.Stub.Port)
	router := stub.NewRouter(store, tokens, checkoutURL)

	port := fmt.Sprintf(":%d", cfg.Stub.Port)
	fmt.Printf("Development backend running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
