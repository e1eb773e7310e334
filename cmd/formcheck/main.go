// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command formcheck validates a YAML or JSON document against a JSON Schema
// and prints every issue found, one per line, as "path: message".
//
// Usage:
//
//	formcheck --schema signup.schema.json signup.yaml
//
// formcheck exits with status 2 when any issue is found and 1 on any other failure.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	os.Exit(run(os.Args[1:]...))
}

func run(args ...string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cmd := buildCmd()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var ierr IssuesFoundError
	if errors.As(err, &ierr) {
		return 2
	}
	fmt.Fprintln(os.Stderr, "formcheck:", err)
	return 1
}
