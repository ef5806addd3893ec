package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/vitalvas/paysig/httpsig"
)

var errUsage = errors.New("usage")

func newFlagSet(env *environment, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.stderr)

	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return errUsage
	}

	return nil
}

// headerFlags collects repeated -header "Name: value" flags.
type headerFlags map[string]string

func (h headerFlags) String() string {
	parts := make([]string, 0, len(h))
	for k, v := range h {
		parts = append(parts, k+": "+v)
	}

	return strings.Join(parts, ", ")
}

func (h headerFlags) Set(value string) error {
	name, val, ok := strings.Cut(value, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("header %q is not in Name: value form", value)
	}

	h[strings.TrimSpace(name)] = strings.TrimSpace(val)

	return nil
}

// requestFlags describes the request given on the command line.
type requestFlags struct {
	method   string
	url      string
	body     string
	bodyFile string
	headers  headerFlags
}

func (r *requestFlags) register(fs *flag.FlagSet) {
	r.headers = headerFlags{}

	fs.StringVar(&r.method, "method", "GET", "request method")
	fs.StringVar(&r.url, "url", "", "request target URI")
	fs.StringVar(&r.body, "body", "", "request body")
	fs.StringVar(&r.bodyFile, "body-file", "", "read the request body from a file")
	fs.Var(r.headers, "header", "request header in Name: value form, repeatable")
}

func (r *requestFlags) request() (httpsig.Request, error) {
	if r.url == "" {
		return httpsig.Request{}, errors.New("-url is required")
	}

	body := r.body
	if r.bodyFile != "" {
		data, err := os.ReadFile(r.bodyFile)
		if err != nil {
			return httpsig.Request{}, err
		}

		body = string(data)
	}

	return httpsig.Request{
		Method:  r.method,
		URL:     r.url,
		Headers: r.headers,
		Body:    body,
	}, nil
}
