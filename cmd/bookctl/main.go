// Command bookctl drives the public booking workflow from the terminal:
// browse the catalog, check a service's weekly schedule and open slots, and
// submit an appointment or a contact inquiry against the scheduling backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cidcomitra/mitra-api/config"
	"github.com/cidcomitra/mitra-api/internal/booking"
	"github.com/cidcomitra/mitra-api/internal/models"
	"github.com/cidcomitra/mitra-api/internal/upstream"
	"github.com/cidcomitra/mitra-api/internal/validation"
	"github.com/cidcomitra/mitra-api/pkg/httpclient"
	"github.com/cidcomitra/mitra-api/pkg/logger"
)

const usage = `Usage: bookctl <command> [flags]

Commands:
  services   list the active service catalog
  schedule   show a service's weekly availability windows
  slots      show open slots for a service on a date
  book       submit an appointment booking
  contact    submit a general inquiry

Environment:
  UPSTREAM_BASE_URL   scheduling backend base URL (required)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := logger.Initialize(logger.Config{Level: "error", Environment: "cli"}); err != nil {
		fmt.Fprintf(os.Stderr, "bookctl: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bookctl: %v\n", err)
		os.Exit(1)
	}

	client, err := upstream.NewClient(cfg.Upstream, httpclient.NewStandardClientWithTimeout(cfg.UpstreamTimeout()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "bookctl: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	lang := cfg.Site.DefaultLanguage

	switch os.Args[1] {
	case "services":
		err = runServices(ctx, client, lang, os.Args[2:])
	case "schedule":
		err = runSchedule(ctx, client, os.Args[2:])
	case "slots":
		err = runSlots(ctx, client, os.Args[2:])
	case "book":
		err = runBook(ctx, client, os.Args[2:])
	case "contact":
		err = runContact(ctx, client, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "bookctl: %v\n", err)
		os.Exit(1)
	}
}

func runServices(ctx context.Context, client *upstream.Client, defaultLang string, args []string) error {
	fs := flag.NewFlagSet("services", flag.ExitOnError)
	lang := fs.String("lang", defaultLang, "content language code")
	if err := fs.Parse(args); err != nil {
		return err
	}

	services, err := client.ListServices(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPHONE")
	for _, svc := range services {
		if !svc.IsActive {
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", svc.ID, svc.Title.Resolve(*lang), svc.Phone)
	}
	return w.Flush()
}

func runSchedule(ctx context.Context, client *upstream.Client, args []string) error {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	serviceID := fs.Int64("service", 0, "service ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *serviceID <= 0 {
		return errors.New("schedule: -service is required")
	}

	schedules, err := client.GetSchedules(ctx, *serviceID)
	if err != nil {
		return err
	}
	if len(schedules) == 0 {
		fmt.Println("No weekly schedule configured for this service.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tFROM\tTO")
	for _, s := range schedules {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.DayOfWeek, s.StartTime, s.EndTime)
	}
	return w.Flush()
}

func runSlots(ctx context.Context, client *upstream.Client, args []string) error {
	fs := flag.NewFlagSet("slots", flag.ExitOnError)
	serviceID := fs.Int64("service", 0, "service ID (required)")
	date := fs.String("date", "", "date in YYYY-MM-DD form (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *serviceID <= 0 || *date == "" {
		return errors.New("slots: -service and -date are required")
	}

	slots, err := client.GetAvailableSlots(ctx, *serviceID, *date)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Println("No open slots on this date.")
		return nil
	}
	for _, slot := range slots {
		fmt.Println(slot.Time)
	}
	return nil
}

func runBook(ctx context.Context, client *upstream.Client, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	serviceID := fs.Int64("service", 0, "service ID (required)")
	name := fs.String("name", "", "full name (required)")
	email := fs.String("email", "", "email address (required)")
	phone := fs.String("phone", "", "phone number (required)")
	date := fs.String("date", "", "appointment date, YYYY-MM-DD (required)")
	slot := fs.String("time", "", "slot start time, HH:MM:SS (required)")
	message := fs.String("message", "", "optional note")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *serviceID <= 0 {
		return errors.New("book: -service is required")
	}

	wf := booking.NewWorkflow(*serviceID, client, client)
	if err := wf.SetName(*name); err != nil {
		return err
	}
	if err := wf.SetEmail(*email); err != nil {
		return err
	}
	if err := wf.SetPhone(*phone); err != nil {
		return err
	}
	if err := wf.SetMessage(*message); err != nil {
		return err
	}

	slots, err := wf.SelectDate(ctx, *date)
	if err != nil {
		return fmt.Errorf("fetching slots: %w", err)
	}
	if len(slots) == 0 {
		return errors.New("no open slots on this date, pick another date")
	}
	if err := wf.SelectTime(*slot); err != nil {
		return fmt.Errorf("the requested time is not open; available: %s", joinSlots(slots))
	}

	resp, err := wf.Submit(ctx)
	if err != nil {
		var verr *booking.ValidationFailedError
		if errors.As(err, &verr) {
			return fmt.Errorf("booking rejected: %s", verr.Error())
		}
		return err
	}

	if resp.Message != "" {
		fmt.Println(resp.Message)
	} else {
		fmt.Println("Appointment booked.")
	}
	return nil
}

func runContact(ctx context.Context, client *upstream.Client, args []string) error {
	fs := flag.NewFlagSet("contact", flag.ExitOnError)
	name := fs.String("name", "", "full name (required)")
	email := fs.String("email", "", "email address (required)")
	phone := fs.String("phone", "", "phone number (optional)")
	message := fs.String("message", "", "inquiry text (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	msg := &models.ContactMessage{
		Name:    *name,
		Email:   *email,
		Phone:   *phone,
		Message: *message,
	}
	if errs := validation.ContactMessage(msg); len(errs) > 0 {
		for field, text := range errs {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, text)
		}
		return errors.New("inquiry rejected by validation")
	}

	resp, err := client.SubmitContact(ctx, msg)
	if err != nil {
		return err
	}

	if resp.Message != "" {
		fmt.Println(resp.Message)
	} else {
		fmt.Println("Message sent.")
	}
	return nil
}

func joinSlots(slots []models.AvailableSlot) string {
	out := ""
	for i, s := range slots {
		if i > 0 {
			out += ", "
		}
		out += s.Time
	}
	return out
}
