package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rollcall/internal/dates"
	"rollcall/internal/store"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var (
		email       string
		name        string
		department  string
		recordToday bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Look up an identity by email and report its attendance",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.ToLower(strings.TrimSpace(email))
			if email == "" {
				return usageError(errors.New("check: --email is required"))
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			st, err := store.Open(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			out := cmd.OutOrStdout()

			if recordToday {
				return recordAttendance(cmd, st, email, name, department)
			}

			identity, err := st.FindIdentityByEmail(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("look up %s: %w", email, err)
			}
			if identity == nil {
				fmt.Fprintf(out, "%s is not on record\n", email)
				return nil
			}

			count, last, ok, err := st.Activity(cmd.Context(), identity.ID)
			if err != nil {
				return fmt.Errorf("load activity for %s: %w", email, err)
			}
			fmt.Fprintf(out, "%s: %s (%s)\n", identity.Email, identity.Name, identity.Department)
			if !ok || count == 0 {
				fmt.Fprintln(out, "No attendance on record")
				return nil
			}
			fmt.Fprintf(out, "Seen %d time(s), last on %s\n", count, last)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address to look up")
	cmd.Flags().StringVar(&name, "name", "", "Name to use when creating a new identity")
	cmd.Flags().StringVar(&department, "department", "", "Department to use when creating a new identity")
	cmd.Flags().BoolVar(&recordToday, "record-today", false, "Record attendance for today, creating the identity if needed")

	return cmd
}

func recordAttendance(cmd *cobra.Command, st *store.Store, email, name, department string) error {
	ctx := cmd.Context()
	batch, err := st.Begin(ctx)
	if err != nil {
		return fmt.Errorf("open batch: %w", err)
	}
	defer func() { _ = batch.Rollback() }()

	id, created, err := batch.ResolveIdentity(ctx, email, name, department)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", email, err)
	}
	today := dates.DateOnly(time.Now())
	recorded, err := batch.RecordEvent(ctx, id, today)
	if err != nil {
		return fmt.Errorf("record attendance for %s: %w", email, err)
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	out := cmd.OutOrStdout()
	switch {
	case created:
		fmt.Fprintf(out, "Created %s and recorded attendance for %s\n", email, today.Format("2006-01-02"))
	case recorded:
		fmt.Fprintf(out, "Recorded attendance for %s on %s\n", email, today.Format("2006-01-02"))
	default:
		fmt.Fprintf(out, "%s already has attendance recorded for %s\n", email, today.Format("2006-01-02"))
	}
	return nil
}
