package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hrcore/internal/hierarchy"
	"hrcore/internal/roster"
	"hrcore/internal/rowstore"
	"hrcore/internal/service"
	"hrcore/pkg/domain"
)

func newOrgChartCmd(a *app) *cobra.Command {
	var (
		byRole  bool
		csvPath string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "orgchart",
		Short: "Resolve the roster into a single reporting tree",
		Long: `Resolve the roster into a single reporting tree.

The roster is read from the configured row store, or from a CSV export
with --csv. Cycles, unknown managers and duplicate names are reported as
diagnostics after the tree.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := orgChartService(cmd, a, csvPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var root any
			var diags domain.Diagnostics
			if byRole {
				forest, err := svc.RoleChart(cmd.Context())
				if err != nil {
					return err
				}
				root, diags = forest.Root, forest.Diagnostics
				if !asJSON {
					printRoleTree(out, forest.Root)
				}
			} else {
				forest, err := svc.OrgChart(cmd.Context())
				if err != nil {
					return err
				}
				root, diags = forest.Root, forest.Diagnostics
				if !asJSON {
					printTree(out, forest.Root)
				}
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"root": root, "diagnostics": diags})
			}
			printDiagnostics(cmd.ErrOrStderr(), diags)
			return nil
		},
	}
	cmd.Flags().BoolVar(&byRole, "by-role", false, "group employees by (title, department)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "read the roster from a CSV file instead of the row store")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tree and diagnostics as JSON")
	return cmd
}

func orgChartService(cmd *cobra.Command, a *app, csvPath string) (*service.Service, error) {
	if csvPath == "" {
		return a.openService(cmd.Context())
	}
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open roster csv: %w", err)
	}
	defer f.Close()
	rows, err := roster.ReadCSV(f)
	if err != nil {
		return nil, err
	}
	return a.newService(rowstore.NewMemory(map[string][]domain.Row{a.cfg.Tables.Roster: rows}))
}

func printTree(w io.Writer, root *domain.TreeNode) {
	root.Walk(func(n *domain.TreeNode, depth int) bool {
		line := n.Label
		if title := treeTitle(n); title != "" {
			line += " (" + title + ")"
		}
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), line)
		return true
	})
}

func treeTitle(n *domain.TreeNode) string {
	if n.Synthetic {
		return ""
	}
	return n.Metadata[hierarchy.MetaTitle]
}

func printRoleTree(w io.Writer, root *domain.RoleNode) {
	root.Walk(func(n *domain.RoleNode, depth int) bool {
		line := n.Label
		if !n.Synthetic {
			line = fmt.Sprintf("%s @ %s [%d]", n.SubjectID.Title, n.SubjectID.Department, len(n.Members))
		}
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), line)
		return true
	})
}

func printDiagnostics(w io.Writer, diags domain.Diagnostics) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Severity, d.Kind, d.Message)
	}
}
