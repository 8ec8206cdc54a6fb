package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"annfsu/app/internal/api"
	"annfsu/app/internal/models"
)

func (a *App) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Member administration",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Inherited initialization first; the root's PersistentPreRunE is
			// overridden by defining one here.
			if err := a.initialize(); err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}
			// UI gating only; the backend enforces the real check.
			if !a.store.IsAdmin() {
				return errors.New("admin access required")
			}
			return nil
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Dashboard statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.client.DashboardStats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("members:  %d\n", stats.TotalMembers)
			fmt.Printf("pending:  %d\n", stats.PendingRequests)
			fmt.Printf("approved: %d\n", stats.ApprovedMembers)
			fmt.Printf("rejected: %d\n", stats.RejectedMembers)
			fmt.Printf("content:  %d\n", stats.TotalContent)
			fmt.Printf("songs:    %d\n", stats.TotalSongs)
			fmt.Printf("contacts: %d\n", stats.TotalContacts)
			return nil
		},
	}

	var statusFilter string
	members := &cobra.Command{
		Use:   "members",
		Short: "List members",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.client.AdminUsers(cmd.Context(), models.Status(statusFilter))
			if err != nil {
				return err
			}
			for _, user := range users {
				id := user.MembershipID
				if id == "" {
					id = "-"
				}
				fmt.Printf("%s  %-24s %-10s %-10s %s\n", user.ID, user.FullName, user.Status, id, user.Committee)
			}
			return nil
		},
	}
	members.Flags().StringVar(&statusFilter, "status", "", "filter by status (pending|approved|rejected|disabled)")

	activities := &cobra.Command{
		Use:   "activities",
		Short: "Recent admin actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.client.AdminActivities(cmd.Context(), 50)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				fmt.Printf("%s  %-8s %-8s %s by %s\n",
					entry.Timestamp, entry.Action, entry.TargetType, entry.TargetID, entry.AdminName)
			}
			return nil
		},
	}

	cmd.AddCommand(stats, members, activities, a.adminContentCmd(), a.adminSetCmd())
	for _, action := range []api.AdminAction{api.ActionApprove, api.ActionReject, api.ActionDisable, api.ActionEnable} {
		cmd.AddCommand(a.adminActionCmd(action))
	}
	return cmd
}

func (a *App) adminContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Manage editorial content",
	}

	var (
		ctype string
		title string
		body  string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Publish a content item",
		RunE: func(cmd *cobra.Command, args []string) error {
			contentType := models.ContentType(ctype)
			if !contentType.Valid() {
				return fmt.Errorf("unknown content type %q", ctype)
			}
			item, err := a.client.CreateContent(cmd.Context(), api.ContentInput{
				Type:      contentType,
				TitleNe:   title,
				ContentNe: body,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Published %s: %s\n", item.ID, item.TitleNe)
			return nil
		},
	}
	add.Flags().StringVar(&ctype, "type", "", "content type (news|knowledge|constitution|oath|quotes|about)")
	add.Flags().StringVar(&title, "title", "", "title (Nepali)")
	add.Flags().StringVar(&body, "body", "", "body (Nepali)")
	_ = add.MarkFlagRequired("type")
	_ = add.MarkFlagRequired("title")
	_ = add.MarkFlagRequired("body")

	rm := &cobra.Command{
		Use:   "rm <content-id>",
		Short: "Delete a content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteContent(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted")
			return nil
		},
	}

	cmd.AddCommand(add, rm)
	return cmd
}

func (a *App) adminSetCmd() *cobra.Command {
	var (
		status   string
		role     string
		position string
	)

	cmd := &cobra.Command{
		Use:   "set <member-id>",
		Short: "Patch a member's status, role or position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch api.MemberPatch
			if status != "" {
				v := models.Status(status)
				patch.Status = &v
			}
			if role != "" {
				v := models.Role(role)
				patch.Role = &v
			}
			if cmd.Flags().Changed("position") {
				patch.Position = &position
			}
			user, err := a.client.UpdateMember(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Printf("%s: role=%s status=%s\n", user.FullName, user.Role, user.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "status (pending|approved|rejected|disabled)")
	cmd.Flags().StringVar(&role, "role", "", "role (member|admin|super_admin)")
	cmd.Flags().StringVar(&position, "position", "", "position title")
	return cmd
}

func (a *App) adminActionCmd(action api.AdminAction) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <member-id>", action),
		Short: fmt.Sprintf("%s a member", action),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.client.AdminUserAction(cmd.Context(), args[0], action)
			if err != nil {
				return err
			}
			fmt.Printf("%s is now %s", user.FullName, user.Status)
			if user.MembershipID != "" {
				fmt.Printf(" (%s)", user.MembershipID)
			}
			fmt.Println()
			return nil
		},
	}
}
