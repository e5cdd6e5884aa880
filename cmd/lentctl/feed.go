package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/client"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/recurrence"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/tracker"
	"github.com/spf13/cobra"
)

const dateFormat = "2006-01-02"

func newTracker(conf *config) (*tracker.Tracker, error) {
	if conf.Token == "" {
		return nil, errors.New("LENT_TOKEN must be set, see \"lentctl token\"")
	}

	return tracker.New(client.New(conf.ServerURL, conf.Token, nil), newLogger(conf)), nil
}

func addFeedFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "First day, YYYY-MM-DD (default today)")
	cmd.Flags().String("to", "", "Day after the last one, YYYY-MM-DD")
	cmd.Flags().Int64Slice("owners", nil, "Only tasks of these users")
}

func feedFilter(cmd *cobra.Command) (model.TaskFilter, error) {
	filter := model.TaskFilter{}

	for name, dst := range map[string]*time.Time{"from": &filter.From, "to": &filter.To} {
		v, _ := cmd.Flags().GetString(name)
		if v == "" {
			continue
		}
		t, err := time.Parse(dateFormat, v)
		if err != nil {
			return filter, fmt.Errorf("--%s must look like %s", name, dateFormat)
		}
		*dst = t
	}

	filter.OwnerIDs, _ = cmd.Flags().GetInt64Slice("owners")
	return filter, nil
}

// load builds a tracker and fills it with the feed selected by the flags.
func load(ctx context.Context, cmd *cobra.Command) (*tracker.Tracker, error) {
	conf, err := loadConfig()
	if err != nil {
		return nil, err
	}

	tr, err := newTracker(conf)
	if err != nil {
		return nil, err
	}

	filter, err := feedFilter(cmd)
	if err != nil {
		return nil, err
	}

	if _, err := tr.Load(ctx, filter); err != nil {
		return nil, err
	}

	return tr, nil
}

func feedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the tasks visible to you, series grouped together",
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := load(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			printGroups(cmd.OutOrStdout(), tr.State().Groups)
			return nil
		},
	}

	addFeedFlags(cmd)

	return cmd
}

func printGroups(w io.Writer, groups []recurrence.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}

	for _, g := range groups {
		if g.RecurrenceID != nil {
			fmt.Fprintf(w, "series %s  %s\n", *g.RecurrenceID, mark(recurrence.IsGroupComplete(g)))
		}
		for _, t := range g.Tasks {
			indent := ""
			if g.RecurrenceID != nil {
				indent = "  "
			}
			fmt.Fprintf(w, "%s%s #%-6d %s  %s  (%s)\n",
				indent, mark(t.Completed), t.ID, t.OccursOn.Format(dateFormat), t.Title, strings.ReplaceAll(string(t.Visibility), "_", " "))
		}
	}
}

func mark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
