package main

import (
	"context"
	"strconv"

	"github.com/trezcool/rubrica/core/project"
	"github.com/trezcool/rubrica/core/user"
)

func (cli *commandLine) stats() error {
	ov, err := cli.deps.Reports.Overview(context.Background())
	if err != nil {
		return err
	}
	rows := [][]string{{"Users", strconv.Itoa(ov.Users)}}
	for _, r := range user.AllRoles {
		rows = append(rows, []string{"  " + r.String(), strconv.Itoa(ov.UsersByRole[r])})
	}
	rows = append(rows, []string{"Projects", strconv.Itoa(ov.Projects)})
	for _, s := range project.AllStatuses {
		rows = append(rows, []string{"  " + s.String(), strconv.Itoa(ov.ProjectsByStatus[s])})
	}
	rows = append(rows, []string{"Active errors", strconv.Itoa(ov.ActiveErrors)})
	cli.printTable([]string{"", "Count"}, rows)
	return nil
}
