package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/rubrica/core/project"
	"github.com/trezcool/rubrica/core/session"
	"github.com/trezcool/rubrica/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	deps     *session.Deps
	usrRepo  user.Repository
	projRepo project.Repository
	pwds     user.Passwords
	migrate  func(command string, args ...string) error
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                          - run a goose migration command (postgres only)")
	_, _ = fmt.Fprintln(cli.out, "  seed [-force] [-file FIXTURE.yaml]              - load demo users and projects")
	_, _ = fmt.Fprintln(cli.out, "  adduser -name NAME -email EMAIL [-role ROLE]    - create an account, password is prompted")
	_, _ = fmt.Fprintln(cli.out, "  resetpassword -email EMAIL                      - reset a user's password")
	_, _ = fmt.Fprintln(cli.out, "  deluser -id ID                                  - delete an account")
	_, _ = fmt.Fprintln(cli.out, "  users [-search TERM]                            - list accounts")
	_, _ = fmt.Fprintln(cli.out, "  projects [-search TERM] [-status STATUS]        - list submissions")
	_, _ = fmt.Fprintln(cli.out, "  download -project ID                            - request a project's file")
	_, _ = fmt.Fprintln(cli.out, "  errors list|resolve -id ID|clear|simulate       - manage the error log")
	_, _ = fmt.Fprintln(cli.out, "  stats                                           - system overview")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) promptPassword() (string, error) {
	_, _ = fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	_, _ = fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			_, _ = fmt.Fprintln(cli.out, "Usage: migrate up|up-by-one|up-to VERSION|down|down-to VERSION|redo|reset|status|version")
			return errHelp
		}
		return cli.migrate(args[2], args[3:]...)

	case "seed":
		fs := cli.newFlagSet("seed")
		force := fs.Bool("force", false, "Replace existing users and projects.")
		file := fs.String("file", "", "YAML fixture to load instead of the built-in demo data.")
		if err := cli.parse(fs, args[2:]); err != nil {
			return err
		}
		return cli.seed(*file, *force)

	case "adduser":
		fs := cli.newFlagSet("adduser")
		name := fs.String("name", "", "The user's full name.")
		email := fs.String("email", "", "The user's email. The password will be prompted next.")
		role := fs.String("role", user.RoleStudent.String(), "student, faculty or admin.")
		rollNo := fs.String("rollno", "", "Roll number (students).")
		dept := fs.String("department", "", "Department (faculty).")
		if err := cli.parse(fs, args[2:]); err != nil {
			return err
		}
		if *name == "" || *email == "" {
			fs.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			fs.Usage()
			return errHelp
		}
		return cli.addUser(user.NewUser{
			Name:       *name,
			Email:      *email,
			Password:   pwd,
			Role:       user.Role(*role),
			RollNo:     *rollNo,
			Department: *dept,
		})

	case "resetpassword":
		fs := cli.newFlagSet("resetpassword")
		email := fs.String("email", "", "The user's email. The password will be prompted next.")
		if err := cli.parse(fs, args[2:]); err != nil {
			return err
		}
		if *email == "" {
			fs.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			fs.Usage()
			return errHelp
		}
		return cli.resetPassword(*email, pwd)

	case "deluser":
		fs := cli.newFlagSet("deluser")
		id := fs.String("id", "", "The user's ID.")
		if err := cli.parse(fs, args[2:]); err != nil {
			return err
		}
		if *id == "" {
			fs.Usage()
			return errHelp
		}
		return cli.deleteUser(*id)

	case "users":
		fs := cli.newFlagSet("users")
		search := fs.String("search", "", "Filter on name and email.")
		if err := cli.parse(fs, args[2:]); err != nil {
			return err
		}
		return cli.listUsers(*search)

	case "projects":
		fs := cli.newFlagSet("projects")
		search := fs.String("search", "", "Filter on title and student name.")
		status := fs.String("status", "", "draft, submitted or evaluated.")
		if err := cli.parse(fs, args[2:]); err != nil {
			return err
		}
		if *status != "" && !project.Status(*status).Valid() {
			fs.Usage()
			return errHelp
		}
		return cli.listProjects(*search, project.Status(*status))

	case "download":
		fs := cli.newFlagSet("download")
		id := fs.String("project", "", "The project's ID.")
		if err := cli.parse(fs, args[2:]); err != nil {
			return err
		}
		if *id == "" {
			fs.Usage()
			return errHelp
		}
		return cli.download(*id)

	case "errors":
		return cli.runErrors(args[2:])

	case "stats":
		return cli.stats()

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) runErrors(args []string) error {
	if len(args) == 0 {
		_, _ = fmt.Fprintln(cli.out, "Usage: errors list|resolve -id ID|clear|simulate [-message MSG]")
		return errHelp
	}

	switch args[0] {
	case "list":
		return cli.listErrors()
	case "resolve":
		fs := cli.newFlagSet("errors resolve")
		id := fs.String("id", "", "The entry's ID.")
		if err := cli.parse(fs, args[1:]); err != nil {
			return err
		}
		if *id == "" {
			fs.Usage()
			return errHelp
		}
		return cli.resolveError(*id)
	case "clear":
		return cli.clearErrors()
	case "simulate":
		fs := cli.newFlagSet("errors simulate")
		msg := fs.String("message", "Simulated error for testing", "The entry's message.")
		if err := cli.parse(fs, args[1:]); err != nil {
			return err
		}
		return cli.simulateError(*msg)
	default:
		_, _ = fmt.Fprintln(cli.out, "Usage: errors list|resolve -id ID|clear|simulate [-message MSG]")
		return errHelp
	}
}
