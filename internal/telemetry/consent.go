package telemetry

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const consentPrompt = `
seiton can send anonymous usage counts (sessions started, comparisons made,
sessions finished) to help improve it. Task titles, descriptions and your
Todoist token are never sent.

Change this at any time with: seiton config telemetry disable
`

// PromptForConsent asks once on out, reads the answer from in and saves it.
// Anything but an explicit yes disables telemetry.
func PromptForConsent(cfg *Config, in io.Reader, out io.Writer) (bool, error) {
	fmt.Fprint(out, consentPrompt)
	fmt.Fprint(out, "\nEnable anonymous telemetry? [y/N] ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		cfg.Disable()
		return false, cfg.Save()
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		cfg.Enable()
	default:
		cfg.Disable()
	}
	if err := cfg.Save(); err != nil {
		return false, err
	}
	return cfg.Enabled, nil
}
