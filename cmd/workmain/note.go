package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mhagen/workmain/internal/model"
	"github.com/mhagen/workmain/internal/store"
	"github.com/mhagen/workmain/internal/tag"
	"github.com/mhagen/workmain/internal/theme"
)

func noteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Capture and list work notes",
	}
	cmd.AddCommand(noteAddCmd(a))
	cmd.AddCommand(noteListCmd(a))
	return cmd
}

func noteAddCmd(a *app) *cobra.Command {
	var (
		tagTokens   []string
		projectName string
		meetingTerm string
		dateFlag    string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a note; hashtags in the text become tags",
		Long: `Add a free-text work note. Tags come from --tags and from
#hashtags embedded in the text (e.g. "Fixed the build #cr #blk").
Valid tokens: ` + strings.Join(tag.ValidShortcuts(), ", ") + ` or the full
tag names. An untagged note defaults to internal-only.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()
			ctx := cmd.Context()

			text, extracted := tag.Extract(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("note text is empty after removing hashtags")
			}
			tokens := append(extracted, tagTokens...)

			classification, err := tag.Classify(tokens)
			if err != nil {
				var invalid *tag.InvalidTagError
				if !interactive || !errors.As(err, &invalid) {
					return err
				}
				classification, err = pickTags(tokens)
				if err != nil {
					return err
				}
			}

			date, err := parseDate(dateFlag)
			if err != nil {
				return err
			}

			projectID, err := a.resolveProject(ctx, projectName)
			if err != nil {
				return err
			}

			source := model.NoteSourceAdHoc
			var meetingID *string
			if meetingTerm != "" {
				meeting, err := pickMeeting(cmd, a, meetingTerm)
				if err != nil {
					return err
				}
				meetingID = &meeting.ID
				source = model.NoteSourceMeeting
			}

			created, err := a.store.CreateNote(ctx, model.Note{
				Content:   text,
				Tags:      classification.Tags,
				ProjectID: projectID,
				MeetingID: meetingID,
				Source:    source,
				NoteDate:  date,
			})
			if err != nil {
				return err
			}

			if meetingID != nil {
				if err := a.store.MarkMeetingNotesCaptured(ctx, *meetingID); err != nil {
					fmt.Println(warnLine("note saved but meeting flag not updated: " + err.Error()))
				}
			}

			fmt.Println(successLine(fmt.Sprintf("note %s saved %s",
				created.ID[:8], renderTags(created.Tags))))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&tagTokens, "tags", "t", nil, "tag tokens (blk, cf, cr, ifo, ilo or full names)")
	cmd.Flags().StringVarP(&projectName, "project", "p", "", "attach to a project by name")
	cmd.Flags().StringVarP(&meetingTerm, "meeting", "m", "", "attach to a meeting matched by title")
	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "note date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt to fix unknown tags instead of failing")

	return cmd
}

func noteListCmd(a *app) *cobra.Command {
	var (
		sinceDays   int
		tagName     string
		projectName string
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()
			ctx := cmd.Context()

			filter := store.NoteFilter{Limit: limit}
			if sinceDays > 0 {
				filter.From = store.DayStart(time.Now().UTC()).AddDate(0, 0, -sinceDays)
			}
			if tagName != "" {
				c, err := tag.Classify([]string{tagName})
				if err != nil {
					return err
				}
				filter.Tag = &c.Tags[0]
			}
			var err error
			if filter.ProjectID, err = a.resolveProject(ctx, projectName); err != nil {
				return err
			}

			notes, err := a.store.GetNotes(ctx, filter)
			if err != nil {
				return err
			}
			if len(notes) == 0 {
				fmt.Println(theme.SubtleStyle.Render("no notes"))
				return nil
			}

			for _, n := range notes {
				fmt.Printf("%s  %s %s\n",
					theme.SubtleStyle.Render(n.NoteDate.Format("2006-01-02")),
					n.Content,
					renderTags(n.Tags))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&sinceDays, "since", 7, "only notes from the last N days (0 = all)")
	cmd.Flags().StringVarP(&tagName, "tag", "t", "", "only notes carrying this tag")
	cmd.Flags().StringVarP(&projectName, "project", "p", "", "only notes for this project")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum notes")

	return cmd
}

// pickTags opens an interactive multi-select over the closed tag
// vocabulary, pre-selecting whichever input tokens were valid.
func pickTags(tokens []string) (tag.Classification, error) {
	valid := make(map[string]bool)
	for _, t := range tokens {
		if c, err := tag.Classify([]string{t}); err == nil {
			valid[c.Tags[0]] = true
		}
	}

	options := make([]huh.Option[string], 0, 5)
	for _, name := range []string{tag.InternalOnly, tag.ClientReport, tag.InfoOnly, tag.CarryForward, tag.Blocker} {
		options = append(options, huh.NewOption(name, name).Selected(valid[name]))
	}

	var chosen []string
	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Some tags were not recognized. Pick the tags for this note:").
			Options(options...).
			Value(&chosen),
	))
	if err := form.Run(); err != nil {
		return tag.Classification{}, err
	}
	return tag.Classify(chosen)
}

// pickMeeting resolves a title search term to a single meeting,
// prompting when the term is ambiguous.
func pickMeeting(cmd *cobra.Command, a *app, term string) (*model.Meeting, error) {
	meetings, err := a.store.SearchMeetingsByTitle(cmd.Context(), term, 10)
	if err != nil {
		return nil, err
	}
	switch len(meetings) {
	case 0:
		return nil, fmt.Errorf("no meeting matches %q; run: workmain meetings sync", term)
	case 1:
		return &meetings[0], nil
	}

	options := make([]huh.Option[string], len(meetings))
	byID := make(map[string]*model.Meeting, len(meetings))
	for i := range meetings {
		m := &meetings[i]
		label := fmt.Sprintf("%s (%s)", m.Title, m.StartTime.Format("2006-01-02 15:04"))
		options[i] = huh.NewOption(label, m.ID)
		byID[m.ID] = m
	}

	var chosen string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(fmt.Sprintf("%d meetings match %q:", len(meetings), term)).
			Options(options...).
			Value(&chosen),
	))
	if err := form.Run(); err != nil {
		return nil, err
	}
	return byID[chosen], nil
}

func renderTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = theme.TagStyle(t).Render("[" + t + "]")
	}
	return strings.Join(parts, " ")
}
