package main

import (
	"fmt"
	"os"

	"github.com/trezcool/rubrica/core"
)

func main() {
	var code int
	err := newContainer().Invoke(func(cli *commandLine, b *backend, logger core.Logger) {
		defer func() { _ = b.close() }()

		if err := cli.run(os.Args); err != nil {
			if err != errHelp {
				reportError(logger, err)
			}
			code = 1
		}
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		code = 1
	}
	os.Exit(code)
}

// reportError logs a failed command, with the failure reason when err carries one.
func reportError(logger core.Logger, err error) {
	msg := fmt.Sprintf("error: %v", err)
	if reason, ok := core.ReasonOf(err); ok {
		logger.Error(msg, err, map[string]interface{}{"reason": string(reason)})
		return
	}
	logger.Error(msg, err)
}
