package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"annfsu/app/internal/api"
	"annfsu/app/internal/avatar"
	"annfsu/app/internal/models"
)

func (a *App) loginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <identifier>",
		Short: "Log in with email, username or phone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(password)
			if err != nil {
				return err
			}
			if err := a.store.Login(cmd.Context(), args[0], pw); err != nil {
				return err
			}
			user, _ := a.store.Current()
			fmt.Printf("Logged in as %s (%s)\n", user.FullName, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func (a *App) otpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "otp",
		Short: "Phone login via one-time password",
	}

	request := &cobra.Command{
		Use:   "request <phone>",
		Short: "Request an OTP for a registered phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.store.RequestOTP(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s (expires in %d minutes)\n", info.Message, info.ExpiresInMinutes)
			return nil
		},
	}

	verify := &cobra.Command{
		Use:   "verify <phone> <otp>",
		Short: "Verify an OTP and log in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.VerifyOTP(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			user, _ := a.store.Current()
			fmt.Printf("Logged in as %s\n", user.FullName)
			return nil
		},
	}

	cmd.AddCommand(request, verify)
	return cmd
}

func (a *App) signupCmd() *cobra.Command {
	var input api.SignupInput
	var committee string
	var photoPath string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register and file a membership application",
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Committee = models.Committee(committee)
			if !input.Committee.Valid() {
				return fmt.Errorf("committee must be one of: %v", models.Committees)
			}
			if photoPath != "" {
				// The photo rides inline on the signup form; the account has
				// no storage credentials yet.
				encoded, err := inlinePhoto(cmd.Context(), photoPath)
				if err != nil {
					return err
				}
				input.Photo = encoded
			}
			pw, err := resolvePassword(input.Password)
			if err != nil {
				return err
			}
			input.Password = pw
			if err := a.store.Signup(cmd.Context(), input); err != nil {
				return err
			}
			user, _ := a.store.Current()
			fmt.Printf("Welcome %s (application status: %s)\n", user.FullName, user.Status)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.Username, "username", "", "username (optional)")
	flags.StringVar(&input.Email, "email", "", "email address")
	flags.StringVarP(&input.Password, "password", "p", "", "password (prompted when omitted)")
	flags.StringVar(&input.FullName, "full-name", "", "full name")
	flags.StringVar(&input.Phone, "phone", "", "phone number")
	flags.StringVar(&input.Address, "address", "", "address")
	flags.StringVar(&input.Institution, "institution", "", "school or campus")
	flags.StringVar(&committee, "committee", "", "committee tier (central|provincial|district|campus)")
	flags.StringVar(&input.Position, "position", "", "position (optional)")
	flags.StringVar(&input.BloodGroup, "blood-group", "", "blood group (optional)")
	flags.StringVar(&photoPath, "photo", "", "profile photo file (jpeg/png, max 2 MiB, optional)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("full-name")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("institution")
	_ = cmd.MarkFlagRequired("committee")
	return cmd
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.store.Logout()
			fmt.Println("Logged out")
			return nil
		},
	}
}

func (a *App) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			user, _ := a.store.Current()
			printProfile(user)
			return nil
		},
	}
}

func (a *App) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Resynchronize the profile from the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			if err := a.store.RefreshProfile(cmd.Context()); err != nil {
				return err
			}
			user, _ := a.store.Current()
			printProfile(user)
			return nil
		},
	}
}

// inlinePhoto runs the picked file through the same validate/transform
// stages as an upload and renders the result as a data URI.
func inlinePhoto(ctx context.Context, path string) (string, error) {
	img, err := avatar.FileSource{Path: path}.Acquire(ctx)
	if err != nil {
		return "", err
	}
	if err := avatar.Validate(img); err != nil {
		return "", err
	}
	jpegData, err := avatar.Transform(img.Data)
	if err != nil {
		return "", err
	}
	return avatar.DataURI(jpegData), nil
}

func resolvePassword(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func printProfile(user models.UserProfile) {
	fmt.Printf("%s <%s>\n", user.FullName, user.Email)
	fmt.Printf("  phone:       %s\n", user.Phone)
	fmt.Printf("  institution: %s\n", user.Institution)
	fmt.Printf("  committee:   %s\n", user.Committee)
	fmt.Printf("  role:        %s\n", user.Role)
	fmt.Printf("  status:      %s\n", user.Status)
	if user.MembershipID != "" {
		fmt.Printf("  membership:  %s (issued %s)\n", user.MembershipID, user.IssueDate)
	}
	if user.Photo != "" {
		fmt.Printf("  photo:       %s\n", user.Photo)
	}
}
