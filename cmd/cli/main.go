// Command cli is a terminal front end for a hostdesk server. It keeps the
// auth token in ~/.hostdesk/token so commands can be run one at a time.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/pureai/hostdesk/pkg/client"
	"github.com/pureai/hostdesk/pkg/layout"
	"github.com/pureai/hostdesk/pkg/live"
	"github.com/pureai/hostdesk/pkg/session"
)

const usage = `usage: hostdesk <command> [flags]

commands:
  signup      register a business and log in
  login       log in with email and password
  logout      drop the stored token
  whoami      show the authenticated business and agent
  floors      list floors
  floor       create a floor
  layout      show a floor layout
  table       add a table to a floor
  save        snap and save a floor layout
  live        watch a floor live, polling every 5s
  seat        seat a walk-in party at a table
  free        mark a table available again
  maintain    toggle maintenance on a table
  calls       list recent call logs
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	baseURL := os.Getenv("HOSTDESK_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	store, err := session.NewFileStore("")
	if err != nil {
		fatal(err)
	}
	api := client.New(baseURL, storedToken(store), client.WithLogger(logger))
	sess := session.New(api, store, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd, args := os.Args[1], os.Args[2:]
	if err := run(ctx, cmd, args, api, sess, logger); err != nil {
		fatal(err)
	}
}

// storedToken wires the persisted token into the client before the session
// has bootstrapped.
func storedToken(store session.Store) client.Option {
	token, _ := store.Get()
	return client.WithTokenSource(client.StaticToken(token))
}

func run(ctx context.Context, cmd string, args []string, api *client.Client, sess *session.Session, logger *slog.Logger) error {
	switch cmd {
	case "signup":
		return cmdSignup(ctx, args, sess)
	case "login":
		return cmdLogin(ctx, args, sess)
	case "logout":
		return sess.Logout()
	case "whoami":
		return cmdWhoami(ctx, sess)
	case "floors":
		return cmdFloors(ctx, api)
	case "floor":
		return cmdCreateFloor(ctx, args, api)
	case "layout":
		return cmdLayout(ctx, args, api)
	case "table":
		return cmdTable(ctx, args, api)
	case "save":
		return cmdSave(ctx, args, api)
	case "live":
		return cmdLive(ctx, args, api, logger)
	case "seat":
		return cmdSeat(ctx, args, api)
	case "free":
		return cmdFree(ctx, args, api)
	case "maintain":
		return cmdMaintain(ctx, args, api)
	case "calls":
		return cmdCalls(ctx, args, api)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdSignup(ctx context.Context, args []string, sess *session.Session) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "business name")
	email := fs.String("email", "", "login email")
	password := fs.String("password", "", "login password")
	btype := fs.String("type", "restaurant", "business type")
	fs.Parse(args)
	if *name == "" || *email == "" || *password == "" {
		return fmt.Errorf("signup requires -name, -email and -password")
	}
	err := sess.Signup(ctx, client.RegisterRequest{
		BusinessName: *name,
		BusinessType: *btype,
		Email:        *email,
		Password:     *password,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered %s, logged in\n", *name)
	return nil
}

func cmdLogin(ctx context.Context, args []string, sess *session.Session) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "login email")
	password := fs.String("password", "", "login password")
	fs.Parse(args)
	if *email == "" || *password == "" {
		return fmt.Errorf("login requires -email and -password")
	}
	if err := sess.Login(ctx, *email, *password); err != nil {
		return err
	}
	fmt.Println("logged in")
	return nil
}

func cmdWhoami(ctx context.Context, sess *session.Session) error {
	if err := sess.Bootstrap(ctx); err != nil {
		return err
	}
	if sess.State() != session.StateAuthenticated {
		return fmt.Errorf("not logged in")
	}
	b := sess.Business()
	fmt.Printf("business: %s (%s)\nemail:    %s\n", b.Name, b.BusinessType, b.Email)
	if a := sess.Agent(); a != nil {
		fmt.Printf("agent:    %s [%s]\n", a.Name, a.Language)
	}
	return nil
}

func cmdFloors(ctx context.Context, api *client.Client) error {
	floors, err := api.Floors(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE")
	for _, f := range floors {
		fmt.Fprintf(w, "%s\t%s\t%.0fx%.0f\n", f.ID, f.Name, f.Width, f.Height)
	}
	return w.Flush()
}

func cmdCreateFloor(ctx context.Context, args []string, api *client.Client) error {
	fs := flag.NewFlagSet("floor", flag.ExitOnError)
	name := fs.String("name", "", "floor name")
	width := fs.Float64("width", 0, "canvas width (0 for default)")
	height := fs.Float64("height", 0, "canvas height (0 for default)")
	fs.Parse(args)
	if *name == "" {
		return fmt.Errorf("floor requires -name")
	}
	floor, err := api.CreateFloor(ctx, *name, *width, *height)
	if err != nil {
		return err
	}
	fmt.Printf("created floor %s (%s)\n", floor.Name, floor.ID)
	return nil
}

func cmdLayout(ctx context.Context, args []string, api *client.Client) error {
	fs := flag.NewFlagSet("layout", flag.ExitOnError)
	floorID := fs.String("floor", "", "floor id")
	fs.Parse(args)
	if *floorID == "" {
		return fmt.Errorf("layout requires -floor")
	}
	lay, err := api.Layout(ctx, *floorID)
	if err != nil {
		return err
	}
	fmt.Printf("floor %s, %.0fx%.0f\n", lay.Floor.Name, lay.Floor.Width, lay.Floor.Height)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tCAP\tSHAPE\tRECT\tZONE")
	for _, t := range lay.Tables {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.0f,%.0f %.0fx%.0f\t%s\n",
			t.ID, t.Label, t.Capacity, t.Shape, t.X, t.Y, t.W, t.H, t.Zone)
	}
	return w.Flush()
}

func cmdTable(ctx context.Context, args []string, api *client.Client) error {
	fs := flag.NewFlagSet("table", flag.ExitOnError)
	floorID := fs.String("floor", "", "floor id")
	label := fs.String("label", "", "table label")
	capacity := fs.Int("capacity", 2, "seats")
	shape := fs.String("shape", "rect", "rect, square, round or oval")
	x := fs.Float64("x", 0, "x position")
	y := fs.Float64("y", 0, "y position")
	fs.Parse(args)
	if *floorID == "" || *label == "" {
		return fmt.Errorf("table requires -floor and -label")
	}
	table, err := api.CreateTable(ctx, *floorID, client.TablePlacement{
		Label:    *label,
		Capacity: *capacity,
		Shape:    *shape,
		X:        *x,
		Y:        *y,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created table %s (%s) at %.0f,%.0f\n", table.Label, table.ID, table.X, table.Y)
	return nil
}

// cmdSave loads a layout through the editor and saves it back, which snaps
// every table to the grid and clamps it to the canvas.
func cmdSave(ctx context.Context, args []string, api *client.Client) error {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	floorID := fs.String("floor", "", "floor id")
	fs.Parse(args)
	if *floorID == "" {
		return fmt.Errorf("save requires -floor")
	}
	ed := layout.NewEditor(api)
	if err := ed.Load(ctx, *floorID); err != nil {
		return err
	}
	if err := ed.Save(ctx); err != nil {
		return err
	}
	fmt.Printf("saved %d tables\n", len(ed.Tables()))
	return nil
}

func cmdLive(ctx context.Context, args []string, api *client.Client, logger *slog.Logger) error {
	fs := flag.NewFlagSet("live", flag.ExitOnError)
	floorID := fs.String("floor", "", "floor id")
	interval := fs.Duration("interval", live.DefaultPollInterval, "poll interval")
	once := fs.Bool("once", false, "print one snapshot and exit")
	fs.Parse(args)
	if *floorID == "" {
		return fmt.Errorf("live requires -floor")
	}

	if *once {
		snap, err := api.Live(ctx, *floorID)
		if err != nil {
			return err
		}
		return printLive(snap)
	}

	watcher := live.NewWatcher(api, *interval, logger)
	go func() {
		ticker := time.NewTicker(*interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if snap := watcher.Snapshot(); snap != nil {
					printLive(snap)
				}
			}
		}
	}()
	if err := watcher.Watch(ctx, *floorID); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func printLive(snap *client.LiveFloor) error {
	fmt.Printf("-- %s at %s --\n", snap.Floor.Name, snap.AsOf.Format("15:04:05"))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tSTATUS\tPARTY\tSINCE")
	for _, t := range snap.Tables {
		party, since := "", ""
		if t.Booking != nil {
			party = fmt.Sprintf("%s (%d)", t.Booking.CustomerName, t.Booking.PartySize)
			since = t.Booking.StartAt.Format("15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Label, strings.ToUpper(t.Status), party, since)
	}
	return w.Flush()
}

func cmdSeat(ctx context.Context, args []string, api *client.Client) error {
	fs := flag.NewFlagSet("seat", flag.ExitOnError)
	tableID := fs.String("table", "", "table id")
	name := fs.String("name", "", "customer name")
	party := fs.Int("party", 1, "party size")
	fs.Parse(args)
	if *tableID == "" {
		return fmt.Errorf("seat requires -table")
	}
	booking, err := api.SeatWalkIn(ctx, *tableID, client.WalkIn{CustomerName: *name, PartySize: *party})
	if err != nil {
		return err
	}
	fmt.Printf("seated %s, party of %d\n", booking.CustomerName, booking.PartySize)
	return nil
}

func cmdFree(ctx context.Context, args []string, api *client.Client) error {
	fs := flag.NewFlagSet("free", flag.ExitOnError)
	tableID := fs.String("table", "", "table id")
	fs.Parse(args)
	if *tableID == "" {
		return fmt.Errorf("free requires -table")
	}
	if err := api.SetTableAvailable(ctx, *tableID); err != nil {
		return err
	}
	fmt.Println("table is available")
	return nil
}

func cmdMaintain(ctx context.Context, args []string, api *client.Client) error {
	fs := flag.NewFlagSet("maintain", flag.ExitOnError)
	tableID := fs.String("table", "", "table id")
	fs.Parse(args)
	if *tableID == "" {
		return fmt.Errorf("maintain requires -table")
	}
	table, err := api.ToggleMaintenance(ctx, *tableID)
	if err != nil {
		return err
	}
	state := "out of"
	if table.Maintenance {
		state = "under"
	}
	fmt.Printf("table %s is %s maintenance\n", table.Label, state)
	return nil
}

func cmdCalls(ctx context.Context, args []string, api *client.Client) error {
	fs := flag.NewFlagSet("calls", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 20, "page size")
	callType := fs.String("type", "", "filter by type: booking, order or other")
	fs.Parse(args)

	result := api.Calls(ctx, client.CallQuery{Page: *page, Limit: *limit, Type: *callType})
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tCALLER\tTYPE\tDURATION\tSUMMARY")
	for _, c := range result.Calls {
		fmt.Fprintf(w, "%s\t%s\t%s\t%ds\t%s\n",
			c.CreatedAt.Format("Jan 2 15:04"), c.CallerName, c.Type, c.DurationSeconds, c.Summary)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if p := result.Pagination; p != nil && p.TotalPages > 1 {
		fmt.Printf("page %d of %d (%d calls)\n", p.Page, p.TotalPages, p.Total)
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "hostdesk:", err)
	os.Exit(1)
}
