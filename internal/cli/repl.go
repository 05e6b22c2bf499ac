package cli

import (
	"context"
	"fmt"
	"strings"
)

const (
	guestHelp    = "Commands: signup, login, search <drug>, filter <all|high|moderate|low>, sort <none|name|severity>, page <n>, next, prev, show, exit"
	loggedInHelp = "Commands: search <drug>, filter <all|high|moderate|low>, sort <none|name|severity>, page <n>, next, prev, show, rename, logout, exit"
)

// Run reads commands until EOF, "exit" or "quit". Command errors are
// printed by the commands themselves and do not stop the loop.
func (a *App) Run(ctx context.Context) {
	for {
		fmt.Fprintf(a.out, "druglookup [%s]> ", a.status())
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(a.out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, arg := parts[0], strings.Join(parts[1:], " ")

		switch cmd {
		case "help":
			if a.browser.User() != "" {
				fmt.Fprintln(a.out, loggedInHelp)
			} else {
				fmt.Fprintln(a.out, guestHelp)
			}
		case "signup", "register":
			_ = a.Signup(ctx)
		case "login":
			_ = a.Login(ctx)
		case "rename":
			_ = a.Rename(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "search", "s":
			_ = a.Search(ctx, arg)
		case "filter":
			a.SetFilter(arg)
		case "sort":
			a.SetSort(arg)
		case "page":
			_ = a.GoToPage(arg)
		case "next", "n":
			a.Step(1)
		case "prev", "p":
			a.Step(-1)
		case "show":
			a.Show()
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}
