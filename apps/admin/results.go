package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/computersciencehouse/packet/core/packet"
)

var resultColumns = []string{
	"Name (RIT Username)",
	"Upperclassmen Score",
	"Total Score",
	"Upperclassmen",
	"Freshmen",
	"Miscellaneous",
	"Total Missed",
}

func fraction(received, required int) string {
	return fmt.Sprintf("%d/%d", received, required)
}

func resultRow(r packet.Result) []string {
	return []string{
		fmt.Sprintf("%s (%s):", r.Freshman.Name, r.Freshman.Username),
		fmt.Sprintf("%0.2f%%", r.UpperScore()),
		fmt.Sprintf("%0.2f%%", r.TotalScore()),
		fraction(r.Received.Upper, r.Required.Upper),
		fraction(r.Received.Fresh, r.Required.Fresh),
		fraction(r.Received.Misc, r.Required.Misc),
		strconv.Itoa(r.Missed()),
	}
}

func resultRows(results []packet.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, resultRow(r))
	}
	return rows
}

func writeResultsText(w io.Writer, results []packet.Result) error {
	for _, row := range resultRows(results) {
		_, err := fmt.Fprintf(w, "\n\n%s\n\t%s: %s\n\t%s: %s\n\t%s: %s\n\t%s: %s\n\t%s: %s\n\n\t%s: %s\n",
			row[0],
			resultColumns[1], row[1],
			resultColumns[2], row[2],
			resultColumns[3], row[3],
			resultColumns[4], row[4],
			resultColumns[5], row[5],
			resultColumns[6], row[6],
		)
		if err != nil {
			return errors.Wrap(err, "writing results")
		}
	}
	return nil
}

func writeResultsCSV(w io.Writer, results []packet.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultColumns); err != nil {
		return errors.Wrap(err, "writing results")
	}
	if err := cw.WriteAll(resultRows(results)); err != nil {
		return errors.Wrap(err, "writing results")
	}
	return nil
}

func writeResultsTable(w io.Writer, results []packet.Result) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(resultColumns...).
		Rows(resultRows(results)...)
	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return errors.Wrap(err, "writing results")
	}
	return nil
}

func (cli *commandLine) fetchResultsCommand() *cobra.Command {
	var (
		filePath string
		useCSV   bool
		useTable bool
		dateStr  string
	)
	cmd := &cobra.Command{
		Use:   "fetch-results",
		Short: "Print the results of a packet season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if useCSV && useTable {
				return errors.New("--csv and --table are mutually exclusive")
			}

			day, err := cli.season().ParseDate(dateStr)
			if err != nil {
				day, err = cli.prompt.date("Enter the last day of the packet season you'd like to retrieve results from", cli.season())
				if err != nil {
					return err
				}
			}

			var results []packet.Result
			err = cli.inTx(cmd.Context(), func(tx packet.Tx) (err error) {
				results, err = cli.svc.Results(cmd.Context(), tx, day)
				return err
			})
			if err != nil {
				return err
			}

			out := cli.out
			if filePath != "" {
				f, err := os.Create(filePath)
				if err != nil {
					return errors.Wrap(err, "creating results file")
				}
				defer f.Close()
				out = f
			}

			switch {
			case useCSV:
				return writeResultsCSV(out, results)
			case useTable:
				return writeResultsTable(out, results)
			default:
				return writeResultsText(out, results)
			}
		},
	}
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "file to write to (default stdout)")
	cmd.Flags().BoolVar(&useCSV, "csv", false, "format output as comma separated values")
	cmd.Flags().BoolVar(&useTable, "table", false, "format output as a table")
	cmd.Flags().StringVar(&dateStr, "date", "", "packet end date in the format MM/DD/YYYY")
	return cmd
}
