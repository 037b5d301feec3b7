package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/rubrica/storage/seed"
)

func (cli *commandLine) seed(file string, force bool) error {
	var fx seed.Fixture
	var err error
	if file == "" {
		fx, err = seed.Default()
	} else {
		var f *os.File
		if f, err = os.Open(file); err != nil {
			return errors.Wrap(err, "opening fixture")
		}
		defer func() { _ = f.Close() }()
		fx, err = seed.Load(f)
	}
	if err != nil {
		return err
	}

	seeded, err := seed.Apply(context.Background(), fx, cli.usrRepo, cli.projRepo, cli.pwds, force)
	if err != nil {
		return err
	}
	if !seeded {
		_, _ = fmt.Fprintln(cli.out, "store is not empty, nothing loaded (use -force to replace it)")
		return nil
	}
	_, _ = fmt.Fprintf(cli.out, "loaded %d users and %d projects\n", len(fx.Users), len(fx.Projects))
	return nil
}
