package main

import (
	"log"

	"github.com/maxfil333/VinylVault/config"

	"github.com/maxfil333/VinylVault/cmd"
)

func main() {
	log.Printf("vinylvault %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
