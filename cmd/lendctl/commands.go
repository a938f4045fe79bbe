package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"lendbox/internal/app"
	"lendbox/internal/domain/borrow"
	"lendbox/internal/domain/document"
	"lendbox/internal/domain/uow"
	"lendbox/internal/domain/user"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type opener func(ctx context.Context) (*app.App, error)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "lendctl",
		Short:        "Operator tasks for lendbox",
		SilenceUsage: true,
	}
	root.AddCommand(
		migrateCmd(open),
		createSuperuserCmd(open),
		limitCmd(open),
		txCmd(open),
		documentsCmd(open),
		kycCmd(open),
		phoneBillCmd(open),
		scoreCmd(open),
	)
	return root
}

// withApp opens the app for one command and closes it afterwards.
func withApp(open opener, fn func(cmd *cobra.Command, a *app.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := open(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func migrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and seed score rules",
		Args:  cobra.NoArgs,
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, _ []string) error {
			if err := a.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrated")
			return nil
		}),
	}
}

func createSuperuserCmd(open opener) *cobra.Command {
	var phone, password string
	cmd := &cobra.Command{
		Use:   "create-superuser",
		Short: "Create or promote a staff superuser with a password",
		Args:  cobra.NoArgs,
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, _ []string) error {
			if password == "" {
				password = os.Getenv("LENDCTL_PASSWORD")
			}
			ctx := cmd.Context()
			phone := user.NormalizePhone(phone)
			var id uint64
			err := a.UoW.WithinTx(ctx, func(r uow.Repos) error {
				u, err := r.Users.GetByPhone(ctx, phone)
				created := false
				if errors.Is(err, user.ErrNotFound) {
					u, created = user.New(phone, a.Cfg.DefaultStorageQuota), true
				} else if err != nil {
					return err
				}
				if err := u.SetPassword(password); err != nil {
					return err
				}
				u.IsStaff, u.IsSuperuser = true, true
				if created {
					err = r.Users.Create(ctx, u)
				} else {
					err = r.Users.Save(ctx, u)
				}
				id = u.ID
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "superuser %s (id %d)\n", phone, id)
			return nil
		}),
	}
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&password, "password", "", "password (or LENDCTL_PASSWORD)")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

func limitCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{Use: "limit", Short: "Manage borrow limits"}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <user-id> <max>",
		Short: "Set the maximum borrow amount and recompute availability",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			max, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}
			l, err := a.Borrow.SetMaxLimit(cmd.Context(), id, max)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %d: max %s available %s locked %t\n", id, l.MaxBorrowAmount.StringFixed(2), l.AvailableBorrow.StringFixed(2), l.IsLocked)
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "unlock <user-id>",
		Short: "Unlock borrowing without KYC",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.Borrow.Unlock(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %d unlocked\n", id)
			return nil
		}),
	})
	return cmd
}

func txCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{Use: "tx", Short: "Process borrow transactions"}

	var status string
	process := &cobra.Command{
		Use:   "process <transaction-id>",
		Short: "Mark a pending transaction approved or completed",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := a.Borrow.MarkProcessed(cmd.Context(), id, borrow.Status(status))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transaction %d %s: debit %s, available %s -> %s\n", t.ID, t.Status, t.AmountDebit.StringFixed(2), t.AmountBefore.StringFixed(2), t.AmountAfter.StringFixed(2))
			return nil
		}),
	}
	process.Flags().StringVar(&status, "status", string(borrow.StatusApproved), "approved or completed")

	reject := &cobra.Command{
		Use:   "reject <transaction-id>",
		Short: "Reject a pending transaction",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := a.Borrow.Reject(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transaction %d %s\n", t.ID, t.Status)
			return nil
		}),
	}
	cmd.AddCommand(process, reject)
	return cmd
}

func documentsCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{Use: "documents", Short: "Inspect uploaded documents"}
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List the most recent uploads across all users",
		Args:  cobra.NoArgs,
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, _ []string) error {
			docs, err := a.Documents.ListAll(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tOWNER\tNAME\tSIZE\tUPLOADED")
			for _, d := range docs {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", d.ID, d.OwnerID, d.Name, document.ReadableSize(d.FileSize), d.UploadedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		}),
	}
	list.Flags().IntVar(&limit, "limit", 50, "maximum rows")
	cmd.AddCommand(list)
	return cmd
}

func kycCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{Use: "kyc", Short: "Review KYC documents"}
	var by string
	verify := &cobra.Command{
		Use:   "verify <document-id>",
		Short: "Mark a KYC document as verified",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			operator, err := parseID(by)
			if err != nil {
				return fmt.Errorf("--by: %w", err)
			}
			d, err := a.KYC.VerifyDocument(cmd.Context(), id, operator)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "kyc document %d (%s) verified by %d\n", d.ID, d.DocumentType, operator)
			return nil
		}),
	}
	verify.Flags().StringVar(&by, "by", "", "id of the verifying operator")
	_ = verify.MarkFlagRequired("by")
	cmd.AddCommand(verify)
	return cmd
}

func phoneBillCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{Use: "phonebill", Short: "Review phone bill uploads"}
	var by string
	verify := &cobra.Command{
		Use:   "verify <phone-bill-id>",
		Short: "Verify a phone bill and award its points once per user",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			operator, err := parseID(by)
			if err != nil {
				return fmt.Errorf("--by: %w", err)
			}
			res, err := a.Scoring.VerifyPhoneBill(cmd.Context(), id, operator)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "phone bill %d of user %d verified: +%d points\n", res.Bill.ID, res.Bill.UserID, res.PointsAdded)
			return nil
		}),
	}
	verify.Flags().StringVar(&by, "by", "", "id of the verifying operator")
	_ = verify.MarkFlagRequired("by")

	list := &cobra.Command{
		Use:   "list <user-id>",
		Short: "List a user's phone bills",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			bills, err := a.KYC.ListPhoneBills(cmd.Context(), id)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tVERIFIED\tAWARDED\tUPLOADED")
			for _, b := range bills {
				fmt.Fprintf(w, "%d\t%s\t%t\t%t\t%s\n", b.ID, b.FileName, b.Verified, b.ScoreAwarded, b.UploadedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		}),
	}
	cmd.AddCommand(verify, list)
	return cmd
}

func scoreCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{Use: "score", Short: "Manage credit scores"}
	var notes string
	adjust := &cobra.Command{
		Use:   "adjust <user-id> <points>",
		Short: "Add (or with a negative value, deduct) score points",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			points, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid points %q", args[1])
			}
			l, err := a.Scoring.AdjustScore(cmd.Context(), id, points, notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %d score %d -> %d\n", id, l.PreviousScore, l.NewScore)
			return nil
		}),
	}
	adjust.Flags().StringVar(&notes, "notes", "", "reason recorded in the score log")
	cmd.AddCommand(adjust)
	return cmd
}
