package main

import (
	"flag"
	"os"

	"github.com/habitline/habitline/server/habitservice"
)

func main() {
	// Optional build-target flag override (local | cloud-dev | cloud)
	buildTarget := flag.String("build-target", "", "Override BUILD_TARGET (local, cloud-dev, cloud)")
	flag.Parse()

	if err := habitservice.Run(*buildTarget); err != nil {
		os.Exit(1)
	}
}
