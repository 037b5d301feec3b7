package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/trezcool/rubrica/core/project"
	"github.com/trezcool/rubrica/core/report"
)

func (cli *commandLine) listProjects(search string, status project.Status) error {
	subs, err := cli.deps.Reports.Submissions(context.Background(), report.Filter{Search: search, Status: status})
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		marks := "-"
		if s.Evaluation != nil {
			marks = strconv.Itoa(s.Evaluation.Marks) + "/100"
		}
		rows = append(rows, []string{s.ID, s.Title, s.StudentName(), strings.Join(s.Tags(), ", "), s.Status.String(), marks})
	}
	cli.printTable([]string{"ID", "Title", "Student", "Tech", "Status", "Marks"}, rows)
	return nil
}

func (cli *commandLine) download(projectID string) error {
	dl, err := cli.deps.Downloads.Request(context.Background(), projectID)
	if err != nil {
		return err
	}
	if !dl.Available {
		_, _ = fmt.Fprintf(cli.out, "no file attached to %q yet\n", dl.Project.Title)
		return nil
	}
	_, _ = fmt.Fprintf(cli.out, "downloading %s\n", dl.FileName)
	return nil
}
