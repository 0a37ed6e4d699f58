package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"social-lens-go/pkg/cli"
	"social-lens-go/pkg/config"
)

func main() {
	var (
		listMode = flag.Bool("list", false, "List tracked profiles")
		analyze  = flag.Bool("analyze", false, "Register a profile and scrape it (requires -platform and -handle)")
		platform = flag.String("platform", "", "Profile platform: instagram or linkedin")
		handle   = flag.String("handle", "", "Profile handle or URL")
		register = flag.String("register", "", "Register a new user with the given email")

		configShow = flag.Bool("config-show", false, "Show current configuration")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	app := cli.NewApp(cfg)

	// Handle config commands first (don't need the API)
	if *configShow {
		app.ShowConfig()
		return
	}

	// Cancel in-flight polling on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case *register != "":
		err = app.RegisterUser(ctx, *register)
	case *listMode:
		err = app.ListProfiles(ctx)
	case *analyze:
		if *platform == "" || *handle == "" {
			err = fmt.Errorf("-analyze requires -platform and -handle")
		} else {
			err = app.AnalyzeProfile(ctx, *platform, *handle)
		}
	default:
		flag.Usage()
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
