// Package cli is a terminal client for the drug lookup server: account
// commands and an interaction browser over the JSON API.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/korjavin/druglookup/internal/browser"
)

type App struct {
	browser *browser.Browser
	reader  *bufio.Reader
	out     io.Writer
	stdinFd int
}

// NewApp wires a browser to the given terminal. stdinFd is the descriptor
// passwords are read from.
func NewApp(b *browser.Browser, in io.Reader, out io.Writer, stdinFd int) *App {
	return &App{browser: b, reader: bufio.NewReader(in), out: out, stdinFd: stdinFd}
}

func (a *App) status() string {
	if u := a.browser.User(); u != "" {
		return u
	}
	return "guest"
}

func (a *App) printErr(err error) {
	fmt.Fprintln(a.out, browser.Message(err))
}

func (a *App) Signup(ctx context.Context) error {
	username, err := readLine(a.reader, a.out, "Username")
	if err != nil {
		return err
	}
	password, err := readSecret(a.stdinFd, a.out, "Password")
	if err != nil {
		return err
	}
	confirm, err := readSecret(a.stdinFd, a.out, "Confirm password")
	if err != nil {
		return err
	}

	msg, err := a.browser.Signup(ctx, username, password, confirm)
	if err != nil {
		a.printErr(err)
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, err := readLine(a.reader, a.out, "Username")
	if err != nil {
		return err
	}
	password, err := readSecret(a.stdinFd, a.out, "Password")
	if err != nil {
		return err
	}

	if err := a.browser.Login(ctx, username, password); err != nil {
		a.printErr(err)
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", a.browser.User())
	return nil
}

func (a *App) Rename(ctx context.Context) error {
	newUsername, err := readLine(a.reader, a.out, "New username")
	if err != nil {
		return err
	}

	msg, err := a.browser.RenameAccount(ctx, newUsername)
	if err != nil {
		a.printErr(err)
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.browser.Logout(ctx); err != nil {
		a.printErr(err)
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Search(ctx context.Context, query string) error {
	if err := a.browser.Search(ctx, query); err != nil {
		a.printErr(err)
		return err
	}
	a.Show()
	return nil
}

func (a *App) SetFilter(arg string) {
	a.browser.SetFilter(browser.ParseFilter(arg))
	a.Show()
}

func (a *App) SetSort(arg string) {
	a.browser.SetSort(browser.ParseSortKey(arg))
	a.Show()
}

func (a *App) GoToPage(arg string) error {
	page, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(a.out, "Not a page number: %q\n", arg)
		return err
	}
	a.browser.GoToPage(page)
	a.Show()
	return nil
}

func (a *App) Step(delta int) {
	a.browser.GoToPage(a.browser.State().Page + delta)
	a.Show()
}

// Show prints the current view.
func (a *App) Show() {
	if a.browser.Result() == nil {
		fmt.Fprintln(a.out, "No search yet. Try: search aspirin")
		return
	}
	v := a.browser.View()

	fmt.Fprintf(a.out, "Matches for %q (%d), page %d of %d\n", v.Query, v.TotalMatches, v.Page, max(v.PageCount, 1))
	if len(v.Matches) == 0 {
		fmt.Fprintln(a.out, "No matches found.")
	} else {
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tRXCUI\tTTY\tLANGUAGE")
		for _, m := range v.Matches {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Name, m.RxCUI, m.TTY, m.Language)
		}
		tw.Flush()
	}

	fmt.Fprintf(a.out, "Interactions (filter %s, sort %s)\n", v.Filter, v.Sort)
	switch {
	case v.InteractionsError != "":
		fmt.Fprintln(a.out, browser.PartialDataNotice)
	case len(v.Interactions) == 0:
		if v.Filter != browser.FilterAll {
			fmt.Fprintln(a.out, "No interactions found for the selected severity level.")
		} else {
			fmt.Fprintln(a.out, "No interactions found.")
		}
	default:
		for _, p := range v.Interactions {
			names := make([]string, 0, len(p.RelatedConcepts))
			for _, c := range p.RelatedConcepts {
				names = append(names, c.Name)
			}
			fmt.Fprintf(a.out, "[%s] %s: %s\n", strings.ToUpper(p.Severity), strings.Join(names, " + "), p.Description)
		}
	}
}
