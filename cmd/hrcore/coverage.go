package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hrcore/pkg/domain"
)

func newCoverageCmd(a *app) *cobra.Command {
	var kinds []string
	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "List roster subjects that have no cached artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			selected := make([]domain.Kind, 0, len(kinds))
			for _, k := range kinds {
				selected = append(selected, domain.Kind(k))
			}
			gaps, err := svc.Coverage(cmd.Context(), selected...)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tSUBJECT\tEMPLOYEES")
			for _, g := range gaps {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", g.Kind, g.SubjectKey, strings.Join(g.Employees, ", "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringArrayVar(&kinds, "kind", nil, "kind to check (repeatable; default all kinds)")
	return cmd
}
