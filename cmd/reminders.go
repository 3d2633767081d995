package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/carlog/internal/cli"
	"github.com/theirongolddev/carlog/internal/ledger"
	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/pipeline"
	"github.com/theirongolddev/carlog/internal/units"

	"github.com/spf13/cobra"
)

var (
	flagRemService     string
	flagRemDueDate     string
	flagRemDueOdometer float64
	flagRemNotes       string
	flagRemUndo        bool
	flagRemAll         bool
)

var remindersCmd = &cobra.Command{
	Use:     "reminders",
	Aliases: []string{"rem"},
	Short:   "Service reminders by date or odometer",
	RunE:    runRemindersList,
}

var remindersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders with their status",
	RunE:  runRemindersList,
}

var remindersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a reminder; give a due date, a due odometer, or both",
	RunE:  runRemindersAdd,
}

var remindersEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a reminder; an empty --due-date or a zero --due-odometer clears it",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemindersEdit,
}

var remindersCompleteCmd = &cobra.Command{
	Use:     "complete ID",
	Aliases: []string{"done"},
	Short:   "Mark a reminder completed (--undo reopens it)",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemindersComplete,
}

var remindersDeleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete a reminder",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemindersDelete,
}

func init() {
	for _, c := range []*cobra.Command{remindersAddCmd, remindersEditCmd} {
		c.Flags().StringVarP(&flagRemService, "service", "s", "", "Service to remember")
		c.Flags().StringVar(&flagRemDueDate, "due-date", "", "Due date, YYYY-MM-DD")
		c.Flags().Float64Var(&flagRemDueOdometer, "due-odometer", 0, "Due odometer reading")
		c.Flags().StringVar(&flagRemNotes, "notes", "", "Free-form notes")
	}
	_ = remindersAddCmd.MarkFlagRequired("service")

	remindersListCmd.Flags().BoolVarP(&flagRemAll, "all", "a", false, "Include completed reminders")
	remindersCmd.Flags().BoolVarP(&flagRemAll, "all", "a", false, "Include completed reminders")
	remindersCompleteCmd.Flags().BoolVar(&flagRemUndo, "undo", false, "Reopen a completed reminder")

	remindersCmd.AddCommand(remindersListCmd, remindersAddCmd, remindersEditCmd, remindersCompleteCmd, remindersDeleteCmd)
	rootCmd.AddCommand(remindersCmd)
}

func runRemindersList(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	data := result.Data
	s := data.Settings

	if len(data.Reminders) == 0 {
		fmt.Println("\n  No reminders set.")
		return nil
	}

	t := now()
	odo := pipeline.MaxOdometer(data.FuelEntries, data.MaintenanceEntries)
	views := pipeline.SortReminders(data.Reminders, t, odo)
	counts := pipeline.CountByStatus(views)

	rows := make([][]string, 0, len(views))
	for _, v := range views {
		if v.Status == model.StatusCompleted && !flagRemAll {
			continue
		}
		rows = append(rows, []string{
			v.Service,
			cli.RenderStatus(v.Status),
			dueWhen(v.Reminder, t, s),
			dueAt(v.Reminder, odo, s),
			v.Notes,
			strconv.FormatInt(v.ID, 10),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:     "Reminders",
		Headers:   []string{"Service", "Status", "Due Date", "Due Odometer", "Notes", "ID"},
		Rows:      rows,
		LeftAlign: []int{1, 2, 4},
	}))
	fmt.Printf("  %d due, %d upcoming, %d ok, %d completed  (odometer %s)\n",
		counts[model.StatusDue], counts[model.StatusUpcoming], counts[model.StatusOK],
		counts[model.StatusCompleted], cli.FormatOdometer(odo, s))
	return nil
}

func dueWhen(r model.Reminder, t time.Time, s model.Settings) string {
	if r.DueDate.IsZero() {
		return cli.NoData
	}
	return cli.FormatDateSetting(r.DueDate, s) + " " + cli.Muted("("+cli.FormatDueIn(r.DueDate, t)+")")
}

func dueAt(r model.Reminder, odo float64, s model.Settings) string {
	miles, ok := r.DueMiles()
	if !ok {
		return cli.NoData
	}
	out := cli.FormatOdometer(miles, s)
	if left := miles - odo; left > 0 {
		out += " " + cli.Muted("(in "+cli.FormatDistance(left, s)+")")
	}
	return out
}

func reminderFromFlags(date string, odometer float64) (model.Date, *float64, error) {
	var due model.Date
	if strings.TrimSpace(date) != "" {
		d, err := model.ParseDate(date)
		if err != nil {
			return model.Date{}, nil, fmt.Errorf("--due-date: %w", err)
		}
		due = d
	}
	var odo *float64
	if odometer > 0 {
		odo = &odometer
	}
	return due, odo, nil
}

func runRemindersAdd(_ *cobra.Command, _ []string) error {
	due, odo, err := reminderFromFlags(flagRemDueDate, flagRemDueOdometer)
	if err != nil {
		return err
	}
	in := ledger.ReminderInput{Service: flagRemService, DueDate: due, DueOdometer: odo, Notes: flagRemNotes}

	return mutate(func(l *ledger.Ledger) error {
		r, err := l.AddReminder(in)
		if err != nil {
			return err
		}
		fmt.Printf("  Added reminder %d: %s\n", r.ID, r.Service)
		return nil
	})
}

func runRemindersEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	return mutate(func(l *ledger.Ledger) error {
		cur, err := l.Reminder(id)
		if err != nil {
			return err
		}
		s := l.Settings()
		in := ledger.ReminderInput{Service: cur.Service, DueDate: cur.DueDate, Notes: cur.Notes}
		if miles, ok := cur.DueMiles(); ok {
			v := units.DistanceToDisplay(miles, s.DistanceUnit)
			in.DueOdometer = &v
		}

		flags := cmd.Flags()
		if flags.Changed("service") {
			in.Service = flagRemService
		}
		if flags.Changed("due-date") {
			if in.DueDate, _, err = reminderFromFlags(flagRemDueDate, 0); err != nil {
				return err
			}
		}
		if flags.Changed("due-odometer") {
			_, in.DueOdometer, _ = reminderFromFlags("", flagRemDueOdometer)
		}
		if flags.Changed("notes") {
			in.Notes = flagRemNotes
		}

		r, err := l.UpdateReminder(id, in)
		if err != nil {
			return err
		}
		fmt.Printf("  Updated reminder %d: %s\n", r.ID, r.Service)
		return nil
	})
}

func runRemindersComplete(_ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return mutate(func(l *ledger.Ledger) error {
		r, err := l.SetReminderCompleted(id, !flagRemUndo)
		if err != nil {
			return err
		}
		if r.Completed {
			fmt.Printf("  Completed: %s\n", r.Service)
		} else {
			fmt.Printf("  Reopened: %s\n", r.Service)
		}
		return nil
	})
}

func runRemindersDelete(_ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return mutate(func(l *ledger.Ledger) error {
		if err := l.DeleteReminder(id); err != nil {
			return err
		}
		fmt.Printf("  Deleted reminder %d\n", id)
		return nil
	})
}
