package main

import (
	"fmt"
	"strings"
)

const usageBanner = `usage:
  cryptosync [--secrets=<path>] [--storage-class=<class>] sync <source-uri> <target-uri>
  cryptosync --secrets=<path> [--restore-request=<json>] restore <target-uri>

options:
  --secrets=<path>          path to a JSON secrets file
  --storage-class=<class>   object-store storage class on writes (default DEEP_ARCHIVE)
  --restore-request=<json>  JSON document passed as the restore request body`

// parsedArgs is the result of splitting os.Args into --key=value options
// (which may appear anywhere before the subcommand's own positional
// arguments) and the subcommand plus its positional arguments.
type parsedArgs struct {
	Command    string
	Flags      map[string]string
	Positional []string
}

// parseArgs splits args into leading --key=value options and a trailing
// subcommand with its positional arguments. A missing "=" or an empty key
// or value is a usage error.
func parseArgs(args []string) (parsedArgs, error) {
	result := parsedArgs{Flags: make(map[string]string)}

	i := 0
	for ; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			break
		}

		body := strings.TrimPrefix(arg, "--")
		eq := strings.Index(body, "=")
		if eq < 0 {
			return result, newUsageError(fmt.Sprintf("malformed option %q: expected --key=value", arg))
		}
		key, value := body[:eq], body[eq+1:]
		if key == "" || value == "" {
			return result, newUsageError(fmt.Sprintf("malformed option %q: key and value must be non-empty", arg))
		}
		result.Flags[key] = value
	}

	if i >= len(args) {
		return result, newUsageError("missing command: expected \"sync\" or \"restore\"")
	}
	result.Command = args[i]
	result.Positional = args[i+1:]

	switch result.Command {
	case "sync":
		if len(result.Positional) != 2 {
			return result, newUsageError("sync requires exactly two arguments: <source-uri> <target-uri>")
		}
	case "restore":
		if len(result.Positional) != 1 {
			return result, newUsageError("restore requires exactly one argument: <target-uri>")
		}
	default:
		return result, newUsageError(fmt.Sprintf("unknown command %q: expected \"sync\" or \"restore\"", result.Command))
	}

	return result, nil
}
