package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/korjavin/druglookup/internal/browser"
	"github.com/korjavin/druglookup/internal/cli"
)

func main() {
	defaultURL := os.Getenv("DRUGLOOKUP_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:3000"
	}
	serverURL := flag.String("server", defaultURL, "base URL of the drug lookup server")
	flag.Parse()

	api, err := browser.NewAPIClient(*serverURL)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app := cli.NewApp(browser.New(api), os.Stdin, os.Stdout, int(os.Stdin.Fd()))
	if query := strings.Join(flag.Args(), " "); query != "" {
		app.Search(context.Background(), query)
		return
	}
	app.Run(context.Background())
}
