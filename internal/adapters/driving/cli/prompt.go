package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"
)

// validate checks request structs against their validate tags.
var validate = validator.New()

var (
	success = color.New(color.FgGreen).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	muted   = color.New(color.Faint).SprintFunc()
)

// stdin is shared by prompts so buffered input is not lost between them.
var stdin = bufio.NewReader(os.Stdin)

// readLine prompts on out and reads one trimmed line.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readLine(out io.Writer, prompt string) string {
	fmt.Fprint(out, prompt)
	input, _ := stdin.ReadString('\n')
	return strings.TrimSpace(input)
}

// readPassword prompts on out and reads a line without echo when stdin
// is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(out io.Writer, prompt string) string {
	fmt.Fprint(out, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(out)
		if err == nil {
			return string(password)
		}
	}
	input, _ := stdin.ReadString('\n')
	return strings.TrimSpace(input)
}

// validationError turns validator output into one readable error.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "url":
		return field + " must be a URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
