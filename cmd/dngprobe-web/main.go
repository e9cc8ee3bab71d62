package main

import (
	"flag"
	"log"

	"github.com/On-Jun9/dngprobe/internal/config"
	"github.com/On-Jun9/dngprobe/internal/web"
)

var (
	version = "dev" // set by ldflags during build
)

func main() {
	addr := flag.String("addr", "localhost:8080", "HTTP server address")
	dataDir := flag.String("data-dir", config.DefaultConfig().DataDir, "directory for the inspection history")
	flag.Parse()

	server := web.NewServer()
	server.SetVersion(version)

	history, err := config.NewUserDataManager(*dataDir)
	if err != nil {
		log.Fatal(err)
	}
	server.SetHistory(history)

	if err := server.Start(*addr); err != nil {
		log.Fatal(err)
	}
}
