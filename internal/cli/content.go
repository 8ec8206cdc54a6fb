package cli

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"annfsu/app/internal/models"
)

func (a *App) contentCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "content <type>",
		Short:     "Browse content (news, knowledge, constitution, oath, quotes, about)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: contentTypeNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentType := models.ContentType(args[0])
			if !contentType.Valid() {
				return fmt.Errorf("unknown content type %q", args[0])
			}
			items, err := a.client.Content(cmd.Context(), contentType)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("No items")
				return nil
			}
			for _, item := range items {
				fmt.Printf("── %s (%s)\n%s\n\n", item.TitleNe, item.CreatedAt, item.ContentNe)
			}
			return nil
		},
	}
}

func (a *App) contactsCmd() *cobra.Command {
	var committee string

	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "List committee contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			contacts, err := a.client.Contacts(cmd.Context(), models.Committee(committee))
			if err != nil {
				return err
			}
			for _, contact := range contacts {
				fmt.Printf("%-24s %-20s %s (%s)\n",
					contact.NameNe, contact.DesignationNe, contact.PhoneNumber, contact.Committee)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&committee, "committee", "", "filter by committee tier")
	return cmd
}

func (a *App) songsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "songs",
		Short: "Organizational songs",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List available songs",
		RunE: func(cmd *cobra.Command, args []string) error {
			songs, err := a.client.Songs(cmd.Context())
			if err != nil {
				return err
			}
			for _, song := range songs {
				fmt.Printf("%s  %-32s %-16s %s\n", song.ID, song.TitleNe, song.Category, song.Duration)
			}
			return nil
		},
	}

	var outPath string
	fetch := &cobra.Command{
		Use:   "fetch <song-id>",
		Short: "Download a song's audio to a local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoded, err := a.client.SongAudio(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			audio, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return fmt.Errorf("decode audio payload: %w", err)
			}
			path := outPath
			if path == "" {
				path = args[0] + ".mp3"
			}
			if err := os.WriteFile(path, audio, 0o644); err != nil {
				return fmt.Errorf("write audio: %w", err)
			}
			fmt.Printf("Saved %d bytes to %s\n", len(audio), path)
			return nil
		},
	}
	fetch.Flags().StringVarP(&outPath, "out", "o", "", "output file (defaults to <song-id>.mp3)")

	cmd.AddCommand(list, fetch)
	return cmd
}

func contentTypeNames() []string {
	names := make([]string, 0, len(models.ContentTypes))
	for _, t := range models.ContentTypes {
		names = append(names, string(t))
	}
	return names
}
