package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/latticehq/lattice"
)

func main() {
	configPath := flag.String("config", "lattice.toml", "path to the TOML configuration file")
	flag.Parse()

	_, srv, err := lattice.New(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lattice: %v\n", err)
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "lattice: %v\n", err)
		os.Exit(1)
	}
}
