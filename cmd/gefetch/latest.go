package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gefetch/gefetch/internal/install"
	"github.com/gefetch/gefetch/internal/tag"
)

// runLatest handles the `gefetch latest` subcommand
func runLatest(args []string) error {
	familyName := "proton"
	showHelp := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			showHelp = true
		case "--family", "-f":
			i++
			if i >= len(args) {
				return fmt.Errorf("--family requires a value")
			}
			familyName = args[i]
		default:
			return fmt.Errorf("unknown option: %s\nRun 'gefetch latest --help' for usage", args[i])
		}
	}

	if showHelp {
		printLatestHelp()
		return nil
	}

	family, err := tag.ParseFamily(familyName)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	latest, err := install.NewManager(install.Config{}).Latest(ctx, family)
	if err != nil {
		return err
	}

	fmt.Println(latest.String())
	return nil
}

// printLatestHelp prints help for the latest command
func printLatestHelp() {
	fmt.Println("Usage: gefetch latest [options]")
	fmt.Println()
	fmt.Println("Print the tag of the newest published release for a family.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help           Show this help message")
	fmt.Println("  -f, --family <name>  Tool family: proton (default) or wine")
}
