package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gefetch/gefetch/internal/download"
	"github.com/gefetch/gefetch/internal/extract"
	"github.com/gefetch/gefetch/internal/github"
	"github.com/gefetch/gefetch/internal/lutris"
	"github.com/gefetch/gefetch/internal/steam"
	"github.com/gefetch/gefetch/internal/tag"
	"github.com/gefetch/gefetch/internal/verify"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version":
			fmt.Printf("gefetch %s\n", Version)
			return
		case "install":
			if err := runInstall(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(exitCode(err))
			}
			return
		case "latest":
			if err := runLatest(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(exitCode(err))
			}
			return
		case "help", "--help", "-h":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n", os.Args[1])
			printUsage()
			os.Exit(1)
		}
	}

	printUsage()
}

func printUsage() {
	fmt.Println("gefetch - fetch, verify, and install GE compatibility tools")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gefetch --version              Show version information")
	fmt.Println("  gefetch install [options]      Download, verify, and extract a release")
	fmt.Println("  gefetch latest [options]       Show the newest published release tag")
	fmt.Println()
	fmt.Println("Families:")
	fmt.Println("  proton    GE Proton (Steam)")
	fmt.Println("  wine      Wine GE (Lutris)")
	fmt.Println()
	fmt.Println("Run 'gefetch <command> --help' for command options.")
}

// exitCode maps failures onto distinct exit statuses so scripts can tell
// the failure classes apart.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, tag.ErrMalformedTag):
		return 2
	case errors.Is(err, tag.ErrUnknownFamily):
		return 3
	case errors.Is(err, github.ErrRemoteMetadata):
		return 4
	case errors.Is(err, github.ErrAssetNotFound):
		return 5
	case errors.Is(err, download.ErrNetwork):
		return 6
	case errors.Is(err, download.ErrUnexpectedStatus):
		return 7
	case errors.Is(err, verify.ErrChecksumMismatch):
		return 8
	case errors.Is(err, verify.ErrMalformedChecksum):
		return 9
	case errors.Is(err, verify.ErrBadSignature):
		return 10
	case errors.Is(err, extract.ErrUnsafeEntry):
		return 11
	case errors.Is(err, extract.ErrAmbiguousLayout):
		return 12
	case errors.Is(err, steam.ErrNoCompatToolMapping):
		return 13
	case errors.Is(err, lutris.ErrNoVersionAttribute):
		return 14
	default:
		return 1
	}
}
