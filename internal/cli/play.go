package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"thai-reading-adventure/internal/app"
	"thai-reading-adventure/internal/domain"
	"thai-reading-adventure/internal/speech"
)

// NewPlayCmd starts the game in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var speak bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer s.Close()

			t := newTerminal(s.game, cmd.InOrStdin(), cmd.OutOrStdout())
			if speak || s.cfg.Speech.Enabled {
				t.speaker = speech.New(s.cfg.Speech.Command, s.cfg.Speech.Rate)
				t.lang = s.cfg.Speech.Lang
				defer t.speaker.Stop()
			}
			return t.run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&speak, "speak", false, "read questions aloud")
	return cmd
}

type terminal struct {
	game    *app.Game
	nav     *app.Navigator
	in      *bufio.Scanner
	out     io.Writer
	speaker *speech.Speaker
	lang    string
}

func newTerminal(game *app.Game, in io.Reader, out io.Writer) *terminal {
	return &terminal{
		game: game,
		nav:  app.NewNavigator(game),
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

func (t *terminal) run(ctx context.Context) error {
	for {
		view := t.nav.View()
		if stale(view) {
			t.nav.BackToWorlds()
			continue
		}
		t.render(ctx, view)

		line, ok := t.prompt("> ")
		if !ok || line == "q" {
			return nil
		}
		if err := t.handle(view, line); err != nil {
			fmt.Fprintf(t.out, "! %v\n", err)
		}
	}
}

func (t *terminal) render(ctx context.Context, view app.View) {
	p := view.Player
	fmt.Fprintf(t.out, "\n%s  ★ %d  ● %d\n", p.Name, p.Stars, p.Coins)

	switch view.Screen {
	case app.ScreenWorldSelection:
		for i, w := range view.Worlds {
			lock := ""
			if w.Locked {
				lock = " (locked)"
			}
			fmt.Fprintf(t.out, "%2d. %s %d/%d%s\n", i+1, w.Name, w.Completed, w.Levels, lock)
		}
		fmt.Fprintln(t.out, "[number] enter world  [n] new level  [r] rename  [q] quit")
	case app.ScreenLevelSelection:
		fmt.Fprintf(t.out, "%s\n", view.World.Name)
		for _, l := range view.Levels {
			mark := strings.Repeat("★", l.Stars) + strings.Repeat("☆", domain.MaxLevelStars-l.Stars)
			if l.Locked {
				mark = "locked"
			}
			fmt.Fprintf(t.out, "%2d. %s\n", l.Index+1, mark)
		}
		fmt.Fprintln(t.out, "[number] play level  [n] new level  [b] back  [q] quit")
	case app.ScreenGame:
		r := view.Round
		if r.Passage != "" {
			fmt.Fprintf(t.out, "%s\n\n", r.Passage)
		}
		if r.Image != "" {
			fmt.Fprintf(t.out, "(image: %s)\n", r.Image)
		}
		fmt.Fprintf(t.out, "%s\n", r.Question)
		for i, opt := range r.Options {
			fmt.Fprintf(t.out, "%2d. %s\n", i+1, opt)
		}
		fmt.Fprintln(t.out, "[number] answer  [b] back  [q] quit")
		if t.speaker != nil {
			t.speaker.Speak(ctx, r.Question, t.lang)
		}
	case app.ScreenResult:
		res := view.Result
		if res.IsWin {
			fmt.Fprintln(t.out, "Correct!")
		} else {
			fmt.Fprintln(t.out, "Not quite.")
		}
		fmt.Fprintf(t.out, "+%d stars  +%d coins\n", res.StarsEarned, res.CoinsCredited)
		if view.HasNextLevel {
			fmt.Fprint(t.out, "[n] next level  ")
		}
		fmt.Fprintln(t.out, "[b] back to levels  [w] worlds  [q] quit")
	case app.ScreenLevelCreation:
		fmt.Fprintln(t.out, "New level  [enter] start  [b] back  [q] quit")
	}
}

func (t *terminal) handle(view app.View, line string) error {
	switch view.Screen {
	case app.ScreenWorldSelection:
		switch line {
		case "n":
			return t.nav.OpenLevelCreation("")
		case "r":
			name, _ := t.prompt("name: ")
			_, err := t.game.RenamePlayer(name)
			return err
		}
		i, err := choice(line, len(view.Worlds))
		if err != nil {
			return err
		}
		return t.nav.SelectWorld(view.Worlds[i].ID)
	case app.ScreenLevelSelection:
		switch line {
		case "n":
			return t.nav.OpenLevelCreation(view.World.ID)
		case "b":
			t.nav.BackToWorlds()
			return nil
		}
		i, err := choice(line, len(view.Levels))
		if err != nil {
			return err
		}
		return t.nav.SelectLevel(i)
	case app.ScreenGame:
		if line == "b" {
			t.nav.BackToLevels()
			return nil
		}
		i, err := choice(line, len(view.Round.Options))
		if err != nil {
			return err
		}
		_, err = t.nav.Answer(view.Round.ID, view.Round.Options[i])
		return err
	case app.ScreenResult:
		switch line {
		case "n":
			return t.nav.NextLevel()
		case "b":
			t.nav.BackToLevels()
		case "w":
			t.nav.BackToWorlds()
		}
		return nil
	case app.ScreenLevelCreation:
		if line == "b" {
			t.nav.BackFromLevelCreation()
			return nil
		}
		return t.createLevel(view)
	}
	return nil
}

func (t *terminal) createLevel(view app.View) error {
	draft := domain.LevelDraft{WorldID: view.CreationWorldID}
	if draft.WorldID == "" {
		for i, w := range view.Worlds {
			fmt.Fprintf(t.out, "%2d. %s\n", i+1, w.Name)
		}
		line, _ := t.prompt("world: ")
		i, err := choice(line, len(view.Worlds))
		if err != nil {
			return err
		}
		draft.WorldID = view.Worlds[i].ID
	}
	draft.Question, _ = t.prompt("question: ")
	draft.ImageURL, _ = t.prompt("image url (optional): ")
	draft.CorrectAnswer, _ = t.prompt("correct answer: ")

	draft.Distractors = t.game.SuggestDistractors(draft.CorrectAnswer)
	fmt.Fprintf(t.out, "suggested wrong answers: %s\n", strings.Join(draft.Distractors, ", "))
	if line, _ := t.prompt("wrong answers, comma separated (enter to accept): "); line != "" {
		draft.Distractors = strings.Split(line, ",")
	}

	level, err := t.nav.SaveLevel(draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(t.out, "saved: %s [%s]\n", level.Question, strings.Join(level.Options, " / "))
	return nil
}

func (t *terminal) prompt(label string) (string, bool) {
	fmt.Fprint(t.out, label)
	if !t.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}

// stale reports a view whose context vanished, e.g. after a catalog import.
func stale(view app.View) bool {
	switch view.Screen {
	case app.ScreenLevelSelection:
		return view.World == nil
	case app.ScreenGame:
		return view.Round == nil
	case app.ScreenResult:
		return view.Result == nil
	}
	return false
}

// choice parses a 1-based menu number into an index below n.
func choice(line string, n int) (int, error) {
	i, err := strconv.Atoi(line)
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("choose 1-%d", n)
	}
	return i - 1, nil
}
