package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"annfsu/app/internal/avatar"
	"annfsu/app/internal/card"
)

func (a *App) applyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "File a membership application",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			user, err := a.store.Apply(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Application filed (status: %s)\n", user.Status)
			return nil
		},
	}
}

func (a *App) photoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photo",
		Short: "Manage the profile photo",
	}

	set := &cobra.Command{
		Use:   "set <image-file>",
		Short: "Upload a new profile photo (jpeg/png, max 2 MiB)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			user, err := a.store.UpdatePhoto(cmd.Context(), avatar.FileSource{Path: args[0]})
			if err != nil {
				return err
			}
			fmt.Printf("Photo updated: %s\n", user.Photo)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove",
		Short: "Remove the profile photo",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			if _, err := a.store.RemovePhoto(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Photo removed")
			return nil
		},
	}

	cmd.AddCommand(set, remove)
	return cmd
}

func (a *App) cardCmd() *cobra.Command {
	var pngPath string

	cmd := &cobra.Command{
		Use:   "card",
		Short: "Show the digital membership card",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			user, _ := a.store.Current()
			memberCard, err := card.New(user)
			if err != nil {
				return err
			}

			fmt.Print(memberCard.Render())

			if pngPath != "" {
				png, err := memberCard.QRPNG(512)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pngPath, png, 0o644); err != nil {
					return fmt.Errorf("write qr png: %w", err)
				}
				fmt.Printf("QR saved to %s\n", pngPath)
				return nil
			}

			art, err := memberCard.QRTerminal()
			if err != nil {
				return err
			}
			fmt.Println(art)
			return nil
		},
	}
	cmd.Flags().StringVar(&pngPath, "png", "", "write the QR code to a PNG file instead of the terminal")
	return cmd
}
