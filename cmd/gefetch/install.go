package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gefetch/gefetch/internal/download"
	"github.com/gefetch/gefetch/internal/install"
	"github.com/gefetch/gefetch/internal/lutris"
	"github.com/gefetch/gefetch/internal/steam"
	"github.com/gefetch/gefetch/internal/tag"
)

// installOptions carries the parsed `gefetch install` arguments.
type installOptions struct {
	family       string
	tagName      string
	downloadDir  string
	installDir   string
	skipChecksum bool
	keyringPath  string
	steamConfig  string
	lutrisConfig string
	showHelp     bool
}

// parseInstallArgs walks the argument list by hand. Flags taking a value
// consume the next argument; the first bare argument is the release tag.
func parseInstallArgs(args []string) (installOptions, error) {
	opts := installOptions{family: "proton"}

	takeValue := func(i *int, name string) (string, error) {
		*i++
		if *i >= len(args) {
			return "", fmt.Errorf("%s requires a value", name)
		}
		return args[*i], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-h":
			opts.showHelp = true
		case "--family", "-f":
			v, err := takeValue(&i, arg)
			if err != nil {
				return opts, err
			}
			opts.family = v
		case "--download-dir":
			v, err := takeValue(&i, arg)
			if err != nil {
				return opts, err
			}
			opts.downloadDir = v
		case "--install-dir":
			v, err := takeValue(&i, arg)
			if err != nil {
				return opts, err
			}
			opts.installDir = v
		case "--skip-checksum":
			opts.skipChecksum = true
		case "--keyring":
			v, err := takeValue(&i, arg)
			if err != nil {
				return opts, err
			}
			opts.keyringPath = v
		case "--steam-config":
			v, err := takeValue(&i, arg)
			if err != nil {
				return opts, err
			}
			opts.steamConfig = v
		case "--lutris-config":
			v, err := takeValue(&i, arg)
			if err != nil {
				return opts, err
			}
			opts.lutrisConfig = v
		default:
			if len(arg) > 0 && arg[0] != '-' && opts.tagName == "" {
				opts.tagName = arg
			} else {
				return opts, fmt.Errorf("unknown option: %s\nRun 'gefetch install --help' for usage", arg)
			}
		}
	}

	return opts, nil
}

// runInstall handles the `gefetch install` subcommand
func runInstall(args []string) error {
	opts, err := parseInstallArgs(args)
	if err != nil {
		return err
	}
	if opts.showHelp {
		printInstallHelp()
		return nil
	}

	family, err := tag.ParseFamily(opts.family)
	if err != nil {
		return err
	}

	if opts.downloadDir == "" {
		opts.downloadDir, err = defaultDownloadDir(family)
		if err != nil {
			return err
		}
	}
	if opts.installDir == "" {
		opts.installDir, err = defaultInstallDir(family)
		if err != nil {
			return err
		}
	}

	manager := install.NewManager(install.Config{Logger: &stderrLogger{}})

	result, err := manager.Install(context.Background(), install.Options{
		Family:       family,
		TagName:      opts.tagName,
		DownloadDir:  opts.downloadDir,
		InstallDir:   opts.installDir,
		SkipChecksum: opts.skipChecksum,
		KeyringPath:  opts.keyringPath,
		Progress:     renderProgress,
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	fmt.Printf("Installed %s into %s (verified: %s, %s)\n",
		result.Tag.String(),
		filepath.Join(opts.installDir, result.RootDir),
		result.Verified.String(),
		result.Elapsed.Round(10*time.Millisecond))

	if opts.steamConfig != "" {
		if err := steam.NewConfig(opts.steamConfig).SetDefaultCompatTool(result.RootDir); err != nil {
			return err
		}
		fmt.Printf("Set Steam default compatibility tool to %s\n", result.RootDir)
	}
	if opts.lutrisConfig != "" {
		if err := lutris.NewConfig(opts.lutrisConfig).SetWineVersion(result.RootDir); err != nil {
			return err
		}
		fmt.Printf("Set Lutris wine version to %s\n", result.RootDir)
	}

	return nil
}

// renderProgress draws a single self-overwriting transfer line on stderr.
func renderProgress(p download.Progress) {
	const mib = 1024 * 1024
	if p.Total > 0 {
		fmt.Fprintf(os.Stderr, "\r%s: %.1f / %.1f MiB (%.0f%%)",
			p.Asset.Name,
			float64(p.Received)/mib, float64(p.Total)/mib,
			100*float64(p.Received)/float64(p.Total))
		return
	}
	fmt.Fprintf(os.Stderr, "\r%s: %.1f MiB", p.Asset.Name, float64(p.Received)/mib)
}

// defaultDownloadDir is the per-family archive cache under the user cache
// directory.
func defaultDownloadDir(family tag.Family) (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache directory: %w", err)
	}
	return filepath.Join(cache, "gefetch", family.String()), nil
}

// defaultInstallDir is where the launcher for the family discovers tools.
func defaultInstallDir(family tag.Family) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if family == tag.FamilyWineGE {
		return filepath.Join(home, ".local", "share", "lutris", "runners", "wine"), nil
	}
	return filepath.Join(home, ".steam", "root", "compatibilitytools.d"), nil
}

// printInstallHelp prints help for the install command
func printInstallHelp() {
	fmt.Println("Usage: gefetch install [options] [tag]")
	fmt.Println()
	fmt.Println("Download a release, verify its checksum, and extract it into the")
	fmt.Println("install directory. Without a tag the newest release is installed.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help            Show this help message")
	fmt.Println("  -f, --family <name>   Tool family: proton (default) or wine")
	fmt.Println("  --download-dir <dir>  Where archives are downloaded")
	fmt.Println("  --install-dir <dir>   Where the tool is extracted")
	fmt.Println("  --skip-checksum       Skip checksum verification (not recommended)")
	fmt.Println("  --keyring <file>      PGP keyring for signature verification")
	fmt.Println("  --steam-config <file>   Set as Steam's default compat tool in config.vdf")
	fmt.Println("  --lutris-config <file>  Set as the wine version in a Lutris runner config")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  gefetch install                      Install the newest GE Proton")
	fmt.Println("  gefetch install GE-Proton8-1         Install a specific release")
	fmt.Println("  gefetch install -f wine              Install the newest Wine GE")
}

// stderrLogger surfaces warnings and errors from the pipeline on stderr.
type stderrLogger struct{}

func (l *stderrLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (l *stderrLogger) Info(msg string, keysAndValues ...interface{})  {}

func (l *stderrLogger) Warn(msg string, keysAndValues ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: %s%s\n", msg, formatKeyValues(keysAndValues))
}

func (l *stderrLogger) Error(msg string, keysAndValues ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: %s%s\n", msg, formatKeyValues(keysAndValues))
}

func formatKeyValues(keysAndValues []interface{}) string {
	if len(keysAndValues) == 0 {
		return ""
	}
	out := " ("
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	return out + ")"
}
