package shared

import (
	"context"
	"net/http"
	"strconv"
)

// Confirmation answers a flow's confirmation prompt from the request's ?confirm= flag
// and remembers the prompt so an unconfirmed call can echo it to the UI.
type Confirmation struct {
	confirmed bool
	Prompt    string
}

func ConfirmationFrom(r *http.Request) *Confirmation {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return &Confirmation{confirmed: ok}
}

func (c *Confirmation) Confirm(_ context.Context, prompt string) bool {
	c.Prompt = prompt
	return c.confirmed
}
