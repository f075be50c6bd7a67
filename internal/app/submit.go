package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agbru/numfront/internal/cli"
	apperrors "github.com/agbru/numfront/internal/errors"
	"github.com/agbru/numfront/internal/logging"
)

// submitCommand builds a one-shot command posting one number to endpoint.
func (a *Application) submitCommand(use, short, prompt, endpoint string) *cobra.Command {
	name, _, _ := strings.Cut(use, " ")
	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Example: fmt.Sprintf("  numfront %[1]s 1234\n  numfront %[1]s --quiet -- -12", name),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			logger := logging.NewConsoleLogger(a.ErrWriter, "cli")
			client, err := a.newClient(logger)
			if err != nil {
				return err
			}
			svc, err := client.Service(endpoint)
			if err != nil {
				return err
			}
			input, err := cli.ResolveInput(args, prompt)
			if err != nil {
				return err
			}
			quiet, _ := cmd.Flags().GetBool("quiet")
			a.exitCode = cli.Submit(cmd.Context(), svc, input, cli.SubmitOptions{
				Out:    a.Out,
				Status: a.ErrWriter,
				Quiet:  quiet,
			})
			return nil
		},
	}
	cmd.Flags().BoolP("quiet", "q", false, "print only the result")
	cmd.SetFlagErrorFunc(negativeNumberHint)
	return cmd
}

// negativeNumberHint turns the flag error for an argument such as -12 into a
// usage hint, since pflag reads any leading dash as a shorthand flag.
func negativeNumberHint(cmd *cobra.Command, err error) error {
	_, token, found := strings.Cut(err.Error(), "unknown shorthand flag: ")
	if !found {
		return err
	}
	if _, arg, ok := strings.Cut(token, " in "); ok && len(arg) > 1 && cli.ValidateNumber(arg) == nil {
		return apperrors.ValidationError{
			Field:   "number",
			Message: fmt.Sprintf("%s reads as a flag; put negative numbers after --: numfront %s -- %s", arg, cmd.Name(), arg),
		}
	}
	return err
}
