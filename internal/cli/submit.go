package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/numfront/internal/api"
	apperrors "github.com/agbru/numfront/internal/errors"
	"github.com/agbru/numfront/internal/format"
	"github.com/agbru/numfront/internal/ui"
)

// SubmitOptions controls where Submit writes.
type SubmitOptions struct {
	// Out receives the result.
	Out io.Writer
	// Status receives the spinner and error messages.
	Status io.Writer
	// Quiet prints only the result value.
	Quiet bool
}

// Submit sends input to svc once, showing a spinner while the request is
// outstanding, and prints the result. It returns the process exit code.
func Submit(ctx context.Context, svc api.Service, input string, opts SubmitOptions) int {
	ep := svc.Endpoint()

	var s Spinner
	if !opts.Quiet {
		s = newSpinner(spinner.WithWriter(opts.Status))
		s.UpdateSuffix(fmt.Sprintf(" POST %s", ep.Path))
		s.Start()
	}

	start := time.Now()
	reply, err := svc.Submit(ctx, input)
	elapsed := time.Since(start)

	if s != nil {
		s.Stop()
	}

	if err != nil {
		return apperrors.HandleRequestError(err, elapsed, opts.Status)
	}

	DisplayReply(opts.Out, ep, input, reply, opts.Quiet)
	return apperrors.ExitSuccess
}

// FormatReply renders a reply on one line.
func FormatReply(ep api.Endpoint, input string, reply api.Reply) string {
	return fmt.Sprintf("%s(%s%s%s) = %s%s%s  %s(%s)%s",
		ep.Name,
		ui.ColorSecondary(), quoteEmpty(input), ui.ColorReset(),
		ui.ColorBold()+ui.ColorSuccess(), reply.Value, ui.ColorReset(),
		ui.ColorPrimary(), format.FormatExecutionDuration(reply.Latency), ui.ColorReset())
}

// DisplayReply writes the reply, or only its value in quiet mode.
func DisplayReply(out io.Writer, ep api.Endpoint, input string, reply api.Reply, quiet bool) {
	if quiet {
		fmt.Fprintln(out, reply.Value)
		return
	}
	fmt.Fprintln(out, FormatReply(ep, input, reply))
}

func quoteEmpty(s string) string {
	if s == "" {
		return `""`
	}
	return s
}
