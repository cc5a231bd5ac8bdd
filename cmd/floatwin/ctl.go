package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/window"
)

func printCtlUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  floatwin ctl list [--json] [query]")
	fmt.Fprintln(w, "  floatwin ctl open [--json] [--title T] [--x N --y N] [--width N] [--height N]")
	fmt.Fprintln(w, "                    [--actions pin,embedded,close] [--embedded] [--pinned] [--hidden]")
	fmt.Fprintln(w, "  floatwin ctl close <id>")
	fmt.Fprintln(w, "  floatwin ctl do [--json] [--off] <id> <action>")
	fmt.Fprintln(w, "  floatwin ctl geometry [--json] [--x N] [--y N] [--width N] [--height N] <id>")
	fmt.Fprintln(w, "  floatwin ctl center|raise|lower [--json] <id>")
	fmt.Fprintln(w, "  floatwin ctl select <id>")
	fmt.Fprintln(w, "  floatwin ctl menu [--json] <id>")
	fmt.Fprintln(w, "  floatwin ctl reload")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Actions: visible, embedded, pinned, maximized, minimized, fullscreen, close")
}

// optInt is an int flag that remembers whether it was set.
type optInt struct {
	v   int
	set bool
}

func (o *optInt) String() string {
	if o == nil || !o.set {
		return ""
	}
	return strconv.Itoa(o.v)
}

func (o *optInt) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	o.v, o.set = v, true
	return nil
}

func (o *optInt) ptr() *int {
	if !o.set {
		return nil
	}
	v := o.v
	return &v
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return id, nil
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printView(v window.View) {
	var states []string
	for _, a := range window.StateActions() {
		if on, _ := v.States.Get(a); on {
			states = append(states, string(a))
		}
	}
	if v.Selected {
		states = append(states, "selected")
	}
	title := v.Title
	if title == "" {
		title = "-"
	}
	fmt.Printf("%-4d %-24s %4d,%-4d %4dx%-4d z=%-5d %-7s %s\n",
		v.ID, title, v.Rect.Left, v.Rect.Top, v.Rect.Width(), v.Rect.Height(),
		v.ZIndex, v.Placement, strings.Join(states, ","))
}

func printWindowData(data *ipc.WindowData, asJSON bool) int {
	if asJSON {
		return printJSON(data)
	}
	if !data.Applied {
		fmt.Fprintln(os.Stderr, "not applied: transition is not allowed in the window's current state")
	}
	printView(data.Window)
	if !data.Applied {
		return 1
	}
	return 0
}

func runCtl(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printCtlUsage(os.Stderr)
		return 2
	}

	fs := flag.NewFlagSet("ctl "+args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { printCtlUsage(os.Stderr) }
	asJSON := fs.Bool("json", false, "Print JSON")

	var x, y, width, height optInt
	var title, actions string
	var embedded, pinned, hidden, off bool
	switch args[0] {
	case "open":
		fs.StringVar(&title, "title", "", "Window title")
		fs.StringVar(&actions, "actions", "", "Comma separated menu actions")
		fs.BoolVar(&embedded, "embedded", false, "Start embedded")
		fs.BoolVar(&pinned, "pinned", false, "Start pinned")
		fs.BoolVar(&hidden, "hidden", false, "Start hidden")
		fallthrough
	case "geometry":
		fs.Var(&x, "x", "Left edge in pixels")
		fs.Var(&y, "y", "Top edge in pixels")
		fs.Var(&width, "width", "Width in pixels")
		fs.Var(&height, "height", "Height in pixels")
	case "do":
		fs.BoolVar(&off, "off", false, "Switch the action off (restore, unpin, show, leave fullscreen)")
	}
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	rest := fs.Args()

	needID := func(n int) (int, bool) {
		if len(rest) != n {
			fmt.Fprintf(os.Stderr, "ctl %s expects %d argument(s)\n", args[0], n)
			printCtlUsage(os.Stderr)
			return 0, false
		}
		id, err := parseID(rest[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 0, false
		}
		return id, true
	}
	fail := func(err error) int {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch args[0] {
	case "list":
		data, err := client.ListWindows(strings.Join(rest, " "))
		if err != nil {
			return fail(err)
		}
		if *asJSON {
			return printJSON(data.Windows)
		}
		for _, v := range data.Windows {
			printView(v)
		}
		return 0

	case "open":
		if x.set != y.set {
			fmt.Fprintln(os.Stderr, "--x and --y must be given together")
			return 2
		}
		p := ipc.OpenWindowPayload{
			Title:    title,
			X:        x.ptr(),
			Y:        y.ptr(),
			Width:    width.v,
			Height:   height.v,
			Embedded: embedded,
			Pinned:   pinned,
			Hidden:   hidden,
		}
		if actions != "" {
			p.Actions = strings.Split(actions, ",")
		}
		data, err := client.OpenWindow(p)
		if err != nil {
			return fail(err)
		}
		return printWindowData(data, *asJSON)

	case "close":
		id, ok := needID(1)
		if !ok {
			return 2
		}
		if err := client.CloseWindow(id); err != nil {
			return fail(err)
		}
		return 0

	case "do":
		id, ok := needID(2)
		if !ok {
			return 2
		}
		action, err := window.ParseAction(rest[1])
		if err != nil {
			return fail(err)
		}
		data, err := client.DoAction(id, string(action), !off)
		if err != nil {
			return fail(err)
		}
		return printWindowData(data, *asJSON)

	case "geometry":
		id, ok := needID(1)
		if !ok {
			return 2
		}
		data, err := client.SetGeometry(ipc.GeometryPayload{
			ID:     id,
			X:      x.ptr(),
			Y:      y.ptr(),
			Width:  width.ptr(),
			Height: height.ptr(),
		})
		if err != nil {
			return fail(err)
		}
		return printWindowData(data, *asJSON)

	case "center", "raise", "lower":
		id, ok := needID(1)
		if !ok {
			return 2
		}
		call := map[string]func(int) (*ipc.WindowData, error){
			"center": client.CenterWindow,
			"raise":  client.Raise,
			"lower":  client.Lower,
		}[args[0]]
		data, err := call(id)
		if err != nil {
			return fail(err)
		}
		return printWindowData(data, *asJSON)

	case "select":
		if len(rest) != 1 {
			printCtlUsage(os.Stderr)
			return 2
		}
		id, err := strconv.Atoi(rest[0])
		if err != nil || id < 0 {
			fmt.Fprintf(os.Stderr, "invalid window id %q\n", rest[0])
			return 2
		}
		if err := client.Select(id); err != nil {
			return fail(err)
		}
		return 0

	case "menu":
		id, ok := needID(1)
		if !ok {
			return 2
		}
		data, err := client.GetMenu(id)
		if err != nil {
			return fail(err)
		}
		if *asJSON {
			return printJSON(data)
		}
		for i, item := range data.Items {
			cur := item.Current()
			note := ""
			if item.Disabled {
				note = " (disabled)"
			}
			fmt.Printf("%d. %-10s %-18s %s%s\n", i+1, item.Key, cur.Label, cur.Icon, note)
		}
		return 0

	case "reload":
		if err := client.Reload(); err != nil {
			return fail(err)
		}
		fmt.Println("config reloaded")
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown ctl command: %s\n\n", args[0])
		printCtlUsage(os.Stderr)
		return 2
	}
}
