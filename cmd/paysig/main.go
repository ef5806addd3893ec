// Command paysig generates Ed25519 client keys and signs or verifies
// Open Payments HTTP requests.
//
//	paysig keygen -dir ./keys -kid k1
//	paysig jwk -key ./keys/k1.pem -kid k1
//	paysig sign -key ./keys/k1.pem -kid k1 -method POST -url https://example/grant -body '{"foo":"bar"}'
//	paysig verify -jwks jwks.json -method POST -url https://example/grant -header 'Signature: ...' ...
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

type command struct {
	name  string
	usage string
	run   func(env *environment, args []string) error
}

type environment struct {
	stdout io.Writer
	stderr io.Writer
	logger *zerolog.Logger
}

var commands = []command{
	{name: "keygen", usage: "generate a private key", run: runKeygen},
	{name: "jwk", usage: "print the public JWK of a key", run: runJWK},
	{name: "sign", usage: "print signature headers for a request", run: runSign},
	{name: "verify", usage: "verify a signed request against a key set", run: runVerify},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()

	if len(args) > 0 && (args[0] == "-v" || args[0] == "-debug") {
		logger = logger.Level(zerolog.DebugLevel)
		args = args[1:]
	}

	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	env := &environment{stdout: stdout, stderr: stderr, logger: &logger}

	for _, cmd := range commands {
		if cmd.name != args[0] {
			continue
		}

		if err := cmd.run(env, args[1:]); err != nil {
			if errors.Is(err, errUsage) {
				return 2
			}

			logger.Error().Err(err).Str("command", cmd.name).Msg("command failed")
			return 1
		}

		return 0
	}

	fmt.Fprintf(stderr, "unknown command %q\n", args[0])
	usage(stderr)

	return 2
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: paysig [-v] <command> [flags]")
	fmt.Fprintln(w)

	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", cmd.name, cmd.usage)
	}
}
