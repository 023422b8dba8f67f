package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code: 0 on success, 1 on any failure.
// Usage and configuration errors print a message and the usage banner,
// before any I/O has happened. I/O and integrity errors print the
// failing operation and abort without a usage banner.
func run(args []string) int {
	parsed, err := parseArgs(args)
	if err != nil {
		return reportUsageOrConfigError(err)
	}

	secretsPath := parsed.Flags["secrets"]
	var secrets Secrets
	if secretsPath != "" {
		secrets, err = loadSecrets(secretsPath)
		if err != nil {
			return reportUsageOrConfigError(err)
		}
	}

	storageClass := parsed.Flags["storage-class"]

	restoreRequest, err := parseRestoreRequestFlag(parsed.Flags["restore-request"])
	if err != nil {
		return reportUsageOrConfigError(err)
	}

	ctx := context.Background()

	switch parsed.Command {
	case "sync":
		return runSync(ctx, parsed.Positional[0], parsed.Positional[1], secrets, storageClass, restoreRequest)
	case "restore":
		return runRestoreCommand(ctx, parsed.Positional[0], secrets, restoreRequest)
	default:
		// parseArgs already rejects unknown commands.
		return 1
	}
}

func runSync(ctx context.Context, sourceURI, targetURI string, secrets Secrets, storageClass string, restoreRequest map[string]any) int {
	source, err := buildEndpoint(ctx, sourceURI, secrets, storageClass, restoreRequest)
	if err != nil {
		return reportUsageOrConfigError(err)
	}
	target, err := buildEndpoint(ctx, targetURI, secrets, storageClass, restoreRequest)
	if err != nil {
		return reportUsageOrConfigError(err)
	}

	driver := NewSyncDriver(source, target)
	if _, err := driver.Sync(ctx); err != nil {
		log.Error(err)
		return 1
	}

	return 0
}

func runRestoreCommand(ctx context.Context, targetURI string, secrets Secrets, restoreRequest map[string]any) int {
	target, err := buildEndpoint(ctx, targetURI, secrets, "", restoreRequest)
	if err != nil {
		return reportUsageOrConfigError(err)
	}

	if err := RunRestore(ctx, target); err != nil {
		log.Error(err)
		return 1
	}

	return 0
}

func parseRestoreRequestFlag(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, newConfigError("invalid --restore-request JSON", err)
	}
	return doc, nil
}

func reportUsageOrConfigError(err error) int {
	fmt.Fprintln(os.Stderr, err)
	if isUsageError(err) || isConfigError(err) {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, usageBanner)
	}
	return 1
}
