package main

import (
	"log"

	"github.com/Andreiisthebest/PRLabs/internal/server"
)

func main() {
	if err := server.Run(); err != nil {
		log.Fatal(err)
	}
}
