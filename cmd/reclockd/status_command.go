package main

import (
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"reclockd/internal/guard"
)

func newStatusCommand() *cobra.Command {
	var recordPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the local helper instance state",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := guard.Inspect(recordPath)
			if err != nil {
				return err
			}
			renderStatus(cmd.OutOrStdout(), recordPath, status)
			return nil
		},
	}

	cmd.Flags().StringVar(&recordPath, "record", guard.DefaultRecordPath, "Pid record file path")
	return cmd
}

func renderStatus(out io.Writer, recordPath string, status guard.Status) {
	state := "not running"
	if status.Held {
		state = "running"
	} else if status.RecordExists {
		state = "stale record"
	}

	pid := "-"
	if status.Pid > 0 {
		pid = strconv.Itoa(status.Pid)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	if shouldColorize(out) {
		tw.SetStyle(table.StyleColoredBright)
	} else {
		tw.SetStyle(table.StyleRounded)
	}
	tw.AppendHeader(table.Row{"Field", "Value"})
	tw.AppendRows([]table.Row{
		{"State", state},
		{"Record", recordPath},
		{"Recorded pid", pid},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
	})
	tw.Render()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
