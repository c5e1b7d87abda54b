package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"thai-reading-adventure/internal/app"
	"thai-reading-adventure/internal/domain"
)

// NewWorldsCmd lists the catalog with the player's progress.
func NewWorldsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "worlds",
		Short: "List worlds and level progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			progress := s.game.Player().Progress
			for _, w := range s.game.Worlds() {
				stars := progress[w.ID]
				fmt.Fprintf(out, "%s\t%s\t%d/%d\n", w.ID, w.Name, app.CompletedLevels(stars), len(w.Levels))
				for i, level := range w.Levels {
					state := fmt.Sprintf("%d★", stars[i])
					if !app.IsLevelUnlocked(stars, i) {
						state = "locked"
					}
					fmt.Fprintf(out, "  %d\t%s\t%s\n", i+1, state, level.Question)
				}
			}
			return nil
		},
	}
}

// NewLevelCmd groups level authoring commands.
func NewLevelCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "level",
		Short: "Author levels",
	}
	cmd.AddCommand(newLevelAddCmd(configPath))
	return cmd
}

func newLevelAddCmd(configPath *string) *cobra.Command {
	var draft domain.LevelDraft
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a level; wrong answers are suggested from other levels when omitted",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if len(draft.Distractors) == 0 {
				draft.Distractors = s.game.SuggestDistractors(draft.CorrectAnswer)
			}
			level, err := s.game.AddLevel(draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added to %s: %s [%s]\n", draft.WorldID, level.Question, strings.Join(level.Options, " / "))
			return nil
		},
	}
	cmd.Flags().StringVar(&draft.WorldID, "world", "", "world id")
	cmd.Flags().StringVar(&draft.Question, "question", "", "question text")
	cmd.Flags().StringVar(&draft.ImageURL, "image", "", "image URL")
	cmd.Flags().StringVar(&draft.Passage, "passage", "", "reading passage")
	cmd.Flags().StringVar(&draft.CorrectAnswer, "answer", "", "correct answer")
	cmd.Flags().StringSliceVar(&draft.Distractors, "distractor", nil, "wrong answer (repeatable)")
	return cmd
}

// NewCatalogCmd imports and exports the whole world catalog.
func NewCatalogCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Import or export the world catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Replace the catalog with a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			worlds, err := readCatalog(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.game.ReplaceWorlds(worlds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d worlds\n", len(worlds))
			return nil
		},
	})

	var format string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer s.Close()
			return writeCatalog(cmd.OutOrStdout(), s.game.Worlds(), format)
		},
	}
	export.Flags().StringVar(&format, "format", "yaml", "output format (yaml or json)")
	cmd.AddCommand(export)
	return cmd
}

// NewPlayerCmd shows or renames the player.
func NewPlayerCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Show the player",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			p := s.game.Player()
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tstars %d\tcoins %d\n", p.Name, p.Stars, p.Coins)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "rename <name>",
		Short: "Change the player's name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.game.RenamePlayer(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed to %s\n", p.Name)
			return nil
		},
	})
	return cmd
}

func readCatalog(path string) ([]domain.World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var worlds []domain.World
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &worlds)
	} else {
		err = yaml.Unmarshal(data, &worlds)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return worlds, nil
}

func writeCatalog(out io.Writer, worlds []domain.World, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(worlds)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(worlds); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
