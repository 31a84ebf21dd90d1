package main

import (
	"errors"

	"github.com/torosent/postfire/internal/runner"
)

// Process exit codes.
const (
	exitOK          = 0
	exitRequest     = 1
	exitBody        = 2
	exitConfig      = 3
	exitInvalidVerb = 4
	exitUsage       = 64
)

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var uErr *usageError
	if errors.As(err, &uErr) {
		return exitUsage
	}
	if errors.Is(err, runner.ErrInvalidVerb) {
		return exitInvalidVerb
	}

	var stageErr *runner.StageError
	if errors.As(err, &stageErr) {
		switch stageErr.Stage {
		case runner.StageConfig, runner.StageClient:
			return exitConfig
		case runner.StageBody:
			return exitBody
		}
	}
	return exitRequest
}
