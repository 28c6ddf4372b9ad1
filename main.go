package main

import (
	"log"

	"github.com/jatinkmr/ai-candidate-analysis/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
