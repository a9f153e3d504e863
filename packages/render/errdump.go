package render

import (
	"strings"

	"github.com/abdul-hamid-achik/specpretty/packages/core/event"
)

// FormatError serializes a structured error to a multi-line dump: the stack
// trace when present (source stacks already lead with the message),
// otherwise "Error: <message>", followed by each link of the cause chain.
// The walk is iterative; a string cause or an absent cause terminates it.
func FormatError(e *event.ErrorObject) string {
	if e == nil {
		return ""
	}

	var b strings.Builder
	writeErrorHead(&b, e)

	for c := e.Cause; c != nil; {
		if c.Err == nil {
			if c.Text != "" {
				b.WriteString("Caused by: " + c.Text + "\n")
			}
			break
		}
		b.WriteString("Caused by: ")
		writeErrorHead(&b, c.Err)
		c = c.Err.Cause
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeErrorHead(b *strings.Builder, e *event.ErrorObject) {
	switch {
	case e.Stack != "":
		b.WriteString(e.Stack)
	case e.Message != "":
		b.WriteString("Error: " + e.Message)
	default:
		b.WriteString("Error")
	}
	b.WriteString("\n")
}
