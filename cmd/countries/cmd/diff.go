package cmd

import (
	"fmt"
	"os"

	"github.com/hcsolakoglu/country-list-updated-weekly/internal/countries"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(diffCmd)
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Prints what an update would change, without writing anything.",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := loadConfig()
		if err != nil {
			fatal("failed to load config", err)
		}

		service := newService(config)
		diff, err := service.Preview(cmd.Context())
		if err != nil {
			fatal("diff failed", err)
		}

		if diff.IsEmpty() {
			fmt.Println(diff.Summary())
			return
		}

		renderDiff(diff)
		fmt.Println(diff.Summary())
	},
}

func renderDiff(diff countries.DiffResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Op", "Code", "Field", "Previous", "Current"})

	for _, r := range diff.Added {
		t.AppendRow(table.Row{"added", r.Code(), "", "", r.Name()})
	}
	for _, r := range diff.Removed {
		t.AppendRow(table.Row{"removed", r.Code(), "", r.Name(), ""})
	}
	for _, c := range diff.Changed {
		for _, delta := range c.Fields {
			t.AppendRow(table.Row{"changed", c.Code, delta.Field, delta.Previous, delta.Current})
		}
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
