package bundle

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// CalibreSMTP delivers the artifact as a mail attachment through the
// calibre-smtp binary.
type CalibreSMTP struct {
	// Binary overrides the executable name, default "calibre-smtp".
	Binary string

	Relay    string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

func (c CalibreSMTP) binary() string {
	if c.Binary != "" {
		return c.Binary
	}
	return "calibre-smtp"
}

// Send mails the artifact. The credential must already be validated by
// the caller; an empty one here is refused before spawning the
// collaborator so the password never leaks into a failed command line.
func (c CalibreSMTP) Send(ctx context.Context, artifact, subject string) error {
	if c.Password == "" {
		return fmt.Errorf("smtp credential is empty")
	}

	cmd := exec.CommandContext(ctx, c.binary(),
		"--attachment", artifact,
		"--relay", c.Relay,
		"--port", strconv.Itoa(c.Port),
		"--encryption", "TLS",
		"--user", c.User,
		"--password", c.Password,
		c.From,
		c.To,
		subject,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("calibre-smtp: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
