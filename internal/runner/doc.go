// Package runner executes a postfire run: it builds the client, picks the
// authentication scheme, builds the body, dispatches the single request and
// writes the response file.
//
// # Basic Usage
//
//	cfg, err := config.NewLoader().LoadFile("appsettings.json")
//	if err != nil {
//		return err
//	}
//	console := output.NewConsole()
//	result, err := runner.Run(ctx, cfg, console, runner.Options{})
//
// # Verbs
//
// [ParseVerb] accepts GET, POST, PUT, PATCH and DELETE in any case. GET and
// DELETE are sent without a body. Any other value stops the run with an
// [InvalidVerbError] before anything is sent, and the response file is left
// untouched.
//
// # Error Handling
//
// Every failure returned by [Run] is a [*StageError] naming the step that
// failed:
//
//	var stageErr *runner.StageError
//	if errors.As(err, &stageErr) && stageErr.Stage == runner.StageBody {
//		// payload or upload file could not be read
//	}
//
// Transport errors carry a github.com/pkg/errors stack trace, printed with %+v.
package runner
