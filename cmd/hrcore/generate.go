package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"hrcore/internal/generation"
	"hrcore/pkg/domain"
)

func newGenerateCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "generate KIND EMPLOYEE_ID",
		Short: "Generate (or fetch from the memo) an artifact for an employee",
		Long: `Generate (or fetch from the memo) an artifact for an employee.

ROLE_PROFILE and EVALUATION_FORM are cached per job title, so every holder
of the employee's title shares the result. EVALUATION_RESULT is cached per
employee. Requires openai.api_key.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.Generate(cmd.Context(), domain.Kind(args[0]), args[1], generation.Options{Force: force})
			if res.Content != "" {
				if _, werr := io.WriteString(cmd.OutOrStdout(), res.Content+"\n"); werr != nil {
					return werr
				}
			}
			if err != nil {
				return err
			}
			if res.Cached {
				fmt.Fprintln(cmd.ErrOrStderr(), "served from memo")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "regenerate and overwrite a cached artifact")
	return cmd
}
