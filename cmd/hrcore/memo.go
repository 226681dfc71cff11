package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"hrcore/pkg/domain"
)

func newMemoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memo",
		Short: "Read and write cached generation results",
	}
	cmd.AddCommand(newMemoGetCmd(a), newMemoPutCmd(a))
	return cmd
}

func newMemoGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get SUBJECT KIND",
		Short: "Print the cached content for SUBJECT and KIND",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			subject, kind := args[0], domain.Kind(args[1])
			entry, ok, err := svc.Memo().LookupEntry(cmd.Context(), subject, kind)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no %s entry for %q", kind, subject)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), entry.Content+"\n")
			return err
		},
	}
}

func newMemoPutCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "put SUBJECT KIND",
		Short: "Store content for SUBJECT and KIND, replacing any existing entry",
		Long: `Store content for SUBJECT and KIND, replacing any existing entry.

Content is read from --file, or from standard input when no file is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				content []byte
				err     error
			)
			if file != "" {
				content, err = os.ReadFile(file)
			} else {
				content, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read content: %w", err)
			}
			svc, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			return svc.Memo().Upsert(cmd.Context(), args[0], domain.Kind(args[1]), string(content))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read content from this file")
	return cmd
}
