package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/c-bata/go-prompt"

	"rostersearch/internal/engine"
	"rostersearch/internal/record"
	"rostersearch/internal/worker"
)

const maxPrinted = 25

type repl struct {
	w *worker.Worker
}

func runREPL(dataset string) error {
	w, err := newWorker(dataset)
	if err != nil {
		return err
	}

	fmt.Println("Roster Search REPL")
	fmt.Println()
	printHelp()
	fmt.Println()

	r := &repl{w: w}
	p := prompt.New(
		r.executor,
		r.completer,
		prompt.OptionPrefix("roster >> "),
		prompt.OptionTitle("rostersearch"),
	)
	p.Run()
	return nil
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  init <url|path>                  - Load a dataset (.db paths are snapshots)")
	fmt.Println("  search [--sort=K] [--role=R] <q> - Run a query (sort: name|salary|tenure|recent|relevance)")
	fmt.Println("  get <name>                       - Show one record by exact name")
	fmt.Println("  names <prefix>                   - List names starting with prefix")
	fmt.Println("  ping                             - Report readiness")
	fmt.Println("  help                             - Show this help")
	fmt.Println("  quit                             - Exit")
}

func (r *repl) executor(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	parts := strings.Fields(input)
	switch parts[0] {
	case "init":
		r.cmdInit(parts[1:])
	case "search":
		r.cmdSearch(input)
	case "get":
		r.cmdGet(strings.TrimSpace(strings.TrimPrefix(input, "get")))
	case "names":
		r.cmdNames(parts[1:])
	case "ping":
		resp := r.w.Handle(worker.Request{Type: worker.TypePing})
		fmt.Printf("ready: %v\n", resp.Ready)
	case "help":
		printHelp()
	case "quit", "exit":
		fmt.Println("Goodbye!")
		os.Exit(0)
	default:
		fmt.Printf("Unknown command: %s\n", parts[0])
	}
}

// completer offers name completions for get/names arguments.
func (r *repl) completer(d prompt.Document) []prompt.Suggest {
	line := d.TextBeforeCursor()
	if !strings.HasPrefix(line, "get ") && !strings.HasPrefix(line, "names ") {
		return nil
	}
	word := d.GetWordBeforeCursor()
	if word == "" {
		return nil
	}

	var suggests []prompt.Suggest
	for _, name := range r.w.Engine().PrefixNames(word, 10) {
		suggests = append(suggests, prompt.Suggest{Text: name})
	}
	return suggests
}

func (r *repl) cmdInit(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: init <url|path>")
		return
	}

	start := time.Now()
	resp := r.w.Handle(worker.Request{Type: worker.TypeInit, URL: args[0]})
	if resp.Type == worker.TypeError {
		fmt.Printf("Error: %s\n", resp.Error)
		return
	}
	fmt.Printf("Loaded %d records in %v\n", resp.Count, time.Since(start).Round(time.Millisecond))
}

func (r *repl) cmdSearch(input string) {
	args := strings.Fields(input)[1:]
	req := engine.Request{NowTs: time.Now().UnixMilli()}

	var queryParts []string
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--sort="):
			req.Sort = strings.TrimPrefix(arg, "--sort=")
		case strings.HasPrefix(arg, "--role="):
			req.RoleFilter = strings.TrimPrefix(arg, "--role=")
		case strings.HasPrefix(arg, "--minpay="):
			if v, err := strconv.ParseFloat(strings.TrimPrefix(arg, "--minpay="), 64); err == nil {
				req.MinSalary = &v
			}
		case strings.HasPrefix(arg, "--maxpay="):
			if v, err := strconv.ParseFloat(strings.TrimPrefix(arg, "--maxpay="), 64); err == nil {
				req.MaxSalary = &v
			}
		case strings.HasPrefix(arg, "--excl="):
			req.ExclusionsMode = strings.TrimPrefix(arg, "--excl=")
		default:
			queryParts = append(queryParts, arg)
		}
	}
	req.Query = strings.Join(queryParts, " ")

	start := time.Now()
	resp := r.w.Handle(worker.Request{Type: worker.TypeSearch, Payload: &req})
	elapsed := time.Since(start)

	if resp.Type == worker.TypeError {
		fmt.Printf("Error: %s\n", resp.Error)
		return
	}

	res := resp.Payload
	if res.Warning != "" {
		fmt.Printf("Warning: %s\n", res.Warning)
	}
	fmt.Printf("%d matches in %v\n", len(res.Names), elapsed.Round(time.Microsecond))
	for i, name := range res.Names {
		if i >= maxPrinted {
			fmt.Printf("  ... and %d more\n", len(res.Names)-maxPrinted)
			break
		}
		fmt.Printf("  %s\n", name)
	}
	if len(res.Suggestions) > 0 {
		fmt.Println("Suggestions:")
		for _, s := range res.Suggestions {
			fmt.Printf("  [%s] %s\n", s.Type, s.Value)
		}
	}
}

func (r *repl) cmdGet(name string) {
	if name == "" {
		fmt.Println("Usage: get <name>")
		return
	}

	rec, ok := r.w.Engine().Lookup(name)
	if !ok {
		fmt.Printf("No record for %q\n", name)
		return
	}

	fmt.Printf("%s\n", rec.Name)
	fmt.Printf("  org:    %s", rec.HomeOrg)
	if rec.LastOrg != "" && rec.LastOrg != rec.HomeOrg {
		fmt.Printf(" (last: %s)", rec.LastOrg)
	}
	fmt.Println()
	fmt.Printf("  roles:  %s\n", strings.Join(rec.Roles, ", "))
	fmt.Printf("  pay:    $%.2f\n", rec.TotalPay)
	if rec.FirstHiredYear < record.FutureHireYear {
		fmt.Printf("  hired:  %d\n", rec.FirstHiredYear)
	}
	fmt.Printf("  active: %v\n", rec.IsActive)
}

func (r *repl) cmdNames(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: names <prefix>")
		return
	}
	for _, name := range r.w.Engine().PrefixNames(args[0], maxPrinted) {
		fmt.Printf("  %s\n", name)
	}
}
