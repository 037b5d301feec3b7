package main

import (
	"context"
	"fmt"

	"github.com/trezcool/rubrica/core/user"
)

func (cli *commandLine) addUser(nu user.NewUser) error {
	usr, err := cli.deps.Users.Register(context.Background(), nu)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "created %s %s (ID: %s)\n", usr.Role, usr.Email, usr.ID)
	return nil
}

func (cli *commandLine) resetPassword(email, pwd string) error {
	return cli.deps.Users.ResetPassword(context.Background(), email, pwd)
}

func (cli *commandLine) deleteUser(id string) error {
	if err := cli.deps.Users.Delete(context.Background(), id); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "deleted user %s\n", id)
	return nil
}

func (cli *commandLine) listUsers(search string) error {
	users, err := cli.deps.Users.Search(context.Background(), search)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(users))
	for _, usr := range users {
		rows = append(rows, []string{usr.ID, usr.Avatar, usr.Name, usr.Email, usr.Role.String()})
	}
	cli.printTable([]string{"ID", "", "Name", "Email", "Role"}, rows)
	return nil
}
