package main

import (
	"context"
	"fmt"
	"time"
)

func (cli *commandLine) listErrors() error {
	entries, err := cli.deps.Errors.ListAll(context.Background())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		state := "active"
		if e.Resolved {
			state = "resolved"
		}
		rows = append(rows, []string{e.ID, e.Timestamp.Format(time.RFC3339), state, e.Message})
	}
	cli.printTable([]string{"ID", "Time", "State", "Message"}, rows)
	return nil
}

func (cli *commandLine) resolveError(id string) error {
	return cli.deps.Errors.Resolve(context.Background(), id)
}

func (cli *commandLine) clearErrors() error {
	return cli.deps.Errors.ClearResolved(context.Background())
}

func (cli *commandLine) simulateError(msg string) error {
	e, err := cli.deps.Errors.Record(context.Background(), msg)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "recorded %s\n", e.ID)
	return nil
}
