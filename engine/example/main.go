package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/cyp0633/libcapacity/assignment"
	"github.com/cyp0633/libcapacity/calendar"
	"github.com/cyp0633/libcapacity/capacity"
	"github.com/cyp0633/libcapacity/engine"
	"github.com/cyp0633/libcapacity/period"
	"github.com/cyp0633/libcapacity/recurrence"
	"github.com/cyp0633/libcapacity/store/memory"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (created with defaults if missing)")
	responsible := flag.String("responsible", "ana", "responsible party to report on")
	from := flag.String("from", "2024-03-01", "first date of the period")
	to := flag.String("to", "2024-03-31", "last date of the period")
	hours := flag.Float64("hours", 8, "contracted hours per day, 0 if unknown")
	exportICS := flag.Bool("ics", false, "print the sample recurrence as an iCalendar feed")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := engine.DefaultConfig
	if *configPath != "" {
		loaded, err := engine.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	bound, err := calendar.ParseRange(*from, *to)
	if err != nil {
		log.Fatalf("Invalid period: %v", err)
	}

	ctx := context.Background()
	st := memory.New(memory.WithLogger(logger))
	eng, err := engine.NewFromConfig(cfg, engine.WithLogger(logger), engine.WithStore(st))
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()

	rule, err := recurrence.NewRule(recurrence.Weekly, bound.Start,
		recurrence.OnWeekdays(time.Monday, time.Wednesday, time.Friday))
	if err != nil {
		log.Fatalf("Invalid rule: %v", err)
	}
	if err := seed(ctx, eng, st, *responsible, bound, rule); err != nil {
		log.Fatalf("Failed to seed store: %v", err)
	}

	if *exportICS {
		if err := writeICS(rule, cfg.NeverHorizonYears); err != nil {
			log.Fatalf("Failed to encode iCalendar: %v", err)
		}
		return
	}

	contracted := mo.None[float64]()
	if *hours > 0 {
		contracted = mo.Some(*hours)
	}
	q := capacity.Query{
		ResponsibleID:        *responsible,
		Period:               eng.NewPeriod(mo.Some(bound)),
		ContractedDailyHours: contracted,
	}

	saved, err := st.CommitmentsFor(ctx, *responsible)
	if err != nil {
		log.Fatalf("Failed to fetch commitments: %v", err)
	}
	summary, err := eng.Evaluate(q, saved, mo.None[uuid.UUID]())
	if err != nil {
		log.Fatalf("Failed to evaluate capacity: %v", err)
	}

	fmt.Printf("Capacity of %s for %s\n", *responsible, bound)
	fmt.Printf("  valid days:  %d\n", summary.Days)
	fmt.Printf("  contracted:  %s\n", capacity.FormatDuration(summary.ContractedMs))
	fmt.Printf("  committed:   %s\n", capacity.FormatDuration(summary.CommittedMs))
	for _, c := range summary.Contributions {
		fmt.Printf("    %s  %d days  %s\n", c.ID, c.SharedDays, capacity.FormatDuration(c.CommittedMs))
	}
	if summary.Exceeded() {
		fmt.Printf("  exceeded by: %s\n", capacity.FormatDuration(-summary.AvailableMs))
	} else {
		fmt.Printf("  available:   %s\n", capacity.FormatDuration(summary.AvailableMs))
	}

	candidate := assignment.Candidate{
		Key:    sampleKey(*responsible),
		Period: period.ForDates(bound.End),
	}
	conflict, err := eng.FindConflictInStore(ctx, candidate, mo.None[uuid.UUID]())
	if err != nil {
		log.Fatalf("Failed to check duplicates: %v", err)
	}
	if c, ok := conflict.Get(); ok {
		fmt.Printf("Duplicate of group %s on %v\n", c.Group.ID, c.OverlapDates.Strings())
	} else {
		fmt.Printf("No duplicate for %s on %s\n", candidate.Key.TaskID, bound.End)
	}
}

func sampleKey(responsible string) assignment.Key {
	return assignment.Key{
		ClientID:      "acme",
		ProductID:     "bookkeeping",
		TaskID:        "monthly-close",
		ResponsibleID: responsible,
	}
}

// seed saves a recurring half-day assignment and a full-week one.
func seed(ctx context.Context, eng *engine.Engine, st *memory.Store, responsible string,
	bound calendar.Range, rule recurrence.Rule) error {
	recurring, truncated, err := eng.RecurringPeriod(rule, bound)
	if err != nil {
		return err
	}
	if truncated {
		log.Printf("Sample recurrence was truncated")
	}

	lines := make(assignment.Lines)
	lines.Put(assignment.Line{
		Key:             sampleKey(responsible),
		Period:          recurring,
		DailyQuantityMs: 4 * capacity.MillisPerHour,
	})
	lines.Put(assignment.Line{
		Key: assignment.Key{
			ClientID:      "acme",
			ProductID:     "payroll",
			TaskID:        "review",
			ResponsibleID: responsible,
		},
		Period:          eng.NewPeriod(mo.Some(calendar.NewRange(bound.Start, bound.Start.AddDays(6)))),
		DailyQuantityMs: 5 * capacity.MillisPerHour,
	})

	for _, c := range lines.Commitments() {
		if err := st.PutCommitment(ctx, c); err != nil {
			return err
		}
	}
	for _, c := range lines.Candidates() {
		g := assignment.Group{ID: lines[c.Key].CommitmentID, Key: c.Key, Period: c.Period}
		if err := st.PutGroup(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

func writeICS(rule recurrence.Rule, horizonYears int) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, "-//libcapacity//Example//EN")
	cal.Props.SetText(ical.PropVersion, "2.0")

	event := rule.ToEvent(uuid.NewString(), "Monthly close", horizonYears)
	cal.Children = append(cal.Children, event.Component)

	return ical.NewEncoder(os.Stdout).Encode(cal)
}
