/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/josephgoksu/seiton/internal/todoist"
	"github.com/josephgoksu/seiton/internal/ui"
)

// PrintError prints a user-facing error. With --verbose the technical
// error is printed instead of the friendly message.
func PrintError(userMsg string, technicalErr error) {
	if isVerbose() && technicalErr != nil {
		fmt.Fprintln(os.Stderr, ui.RenderErrorPanel("Error", fmt.Sprintf("%s\n\n%v", userMsg, technicalErr)))
		return
	}
	fmt.Fprintln(os.Stderr, ui.RenderErrorPanel("Error", userMsg))
}

func userMessage(err error) string {
	if errors.Is(err, todoist.ErrMissingToken) {
		return "No Todoist token configured. Run `seiton config set todoist.token <token>` or set TODOIST_API_TOKEN."
	}
	var apiErr *todoist.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "Todoist rejected the token. Check todoist.token."
		case http.StatusTooManyRequests:
			return "Todoist is rate limiting requests. Try again in a minute."
		}
	}
	return err.Error()
}
