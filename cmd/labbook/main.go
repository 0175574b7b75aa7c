package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fairlab/labbook/internal/generator"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0 // Artifact generated / command succeeded
	ExitGuarded = 1 // Overwrite guard refused to replace an existing artifact
	ExitError   = 2 // Configuration or runtime error
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// The overwrite guard is an expected refusal, not a runtime error.
		var existsErr *generator.AlreadyExistsError
		if errors.As(err, &existsErr) {
			os.Exit(ExitGuarded)
		}

		os.Exit(ExitError)
	}
}
