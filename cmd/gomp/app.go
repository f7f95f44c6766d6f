package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pageza/gomp-client/internal/client"
	"github.com/pageza/gomp-client/internal/credentials"
	"github.com/pageza/gomp-client/internal/liststate"
	"github.com/pageza/gomp-client/internal/storage"
	"github.com/pageza/gomp-client/internal/types"
)

const usage = `usage: gomp <command> [arguments]

List commands:
  list                      show the current page
  search <text>             filter by name
  sort <field> [asc|desc]   sort by name, random, rating, created, modified or id
  view full|compact         change the list density
  tags                      show the tag checklist
  tags apply [tag...]       replace the selected tags
  page <n> | next | prev    move between pages
  link                      print the "see more" link
  reset                     forget all list settings
  session                   print a fresh GOMP_SESSION_ID value

Recipe commands:
  login -u <user> [-p <password>]
  logout
  show <id>
  rate <id> <0-5>
  note <id> <text>
  upload <id> <file>
  delete <id>
`

type app struct {
	api     *client.Client
	creds   *credentials.StoreProvider
	manager *liststate.Manager
	out     io.Writer
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return nil
	}
	cmd, rest := args[0], args[1:]

	a.manager.Load(ctx)

	switch cmd {
	case "list":
		return a.manager.Reload(ctx)
	case "search":
		return a.manager.Search(ctx, strings.Join(rest, " "))
	case "sort":
		return a.sort(ctx, rest)
	case "view":
		if len(rest) != 1 {
			return errors.New("usage: gomp view full|compact")
		}
		return a.manager.ChangeView(ctx, rest[0])
	case "tags":
		if len(rest) > 0 && rest[0] == "apply" {
			return a.manager.ApplyTags(ctx, splitTags(rest[1:]))
		}
		return a.manager.LoadTags(ctx)
	case "page":
		if len(rest) != 1 {
			return errors.New("usage: gomp page <n>")
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			return fmt.Errorf("invalid page %q", rest[0])
		}
		return a.manager.ChangePage(ctx, n)
	case "next":
		return a.manager.NextPage(ctx)
	case "prev":
		return a.manager.PrevPage(ctx)
	case "link":
		fmt.Fprintln(a.out, a.manager.SeeMoreLink())
		return nil
	case "reset":
		return a.manager.Reset(ctx)
	case "session":
		fmt.Fprintf(a.out, "GOMP_SESSION_ID=%s\n", storage.NewSessionID())
		return nil
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.creds.ClearToken(ctx)
	case "show":
		return a.show(ctx, rest)
	case "rate":
		return a.rate(ctx, rest)
	case "note":
		return a.note(ctx, rest)
	case "upload":
		return a.upload(ctx, rest)
	case "delete":
		return a.delete(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}

// splitTags accepts both "a b" and "a,b"
func splitTags(args []string) []string {
	var tags []string
	for _, arg := range args {
		tags = append(tags, strings.Split(arg, ",")...)
	}
	return tags
}

// sort applies the per-field default direction the web UI uses: rating and
// dates start descending, everything else ascending
func (a *app) sort(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errors.New("usage: gomp sort <field> [asc|desc]")
	}
	field := types.SortField(args[0])
	dir := types.SortAsc
	switch field {
	case types.SortByRating, types.SortByCreated, types.SortByModified:
		dir = types.SortDesc
	}
	if len(args) == 2 {
		dir = types.SortDir(args[1])
	}
	return a.manager.ChangeSort(ctx, field, dir)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.out)
	username := fs.String("u", "", "username")
	password := fs.String("p", os.Getenv("GOMP_PASSWORD"), "password (defaults to $GOMP_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return errors.New("usage: gomp login -u <user> -p <password>")
	}

	if _, err := a.api.Authenticate(ctx, *username, *password); err != nil {
		log.Printf("[Login] authentication failed: %v", err)
		// Do not keep a token that belonged to someone else
		_ = a.creds.ClearToken(ctx)
		return errors.New("login failed, check your username and password")
	}
	fmt.Fprintln(a.out, "Logged in.")
	return nil
}

// requireToken warns early when the stored token has expired
func (a *app) requireToken(ctx context.Context) error {
	token, err := a.creds.Token(ctx)
	if errors.Is(err, credentials.ErrNoToken) {
		return errors.New("not logged in, run gomp login")
	}
	if err != nil {
		return err
	}
	if credentials.Expired(token, time.Now()) {
		return errors.New("session expired, run gomp login")
	}
	return nil
}

func parseID(args []string, n int, usage string) (int64, error) {
	if len(args) < n {
		return 0, errors.New(usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid recipe id %q", args[0])
	}
	return id, nil
}

func (a *app) show(ctx context.Context, args []string) error {
	id, err := parseID(args, 1, "usage: gomp show <id>")
	if err != nil {
		return err
	}
	recipe, err := a.api.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	notes, err := a.api.ListNotes(ctx, id)
	if err != nil {
		log.Printf("[Show] failed to load notes: %v", err)
	}

	fmt.Fprintf(a.out, "%s (#%d)\n", recipe.Name, recipe.ID)
	if len(recipe.Tags) > 0 {
		fmt.Fprintf(a.out, "Tags: %s\n", strings.Join(recipe.Tags, ", "))
	}
	if recipe.ServingSize != "" {
		fmt.Fprintf(a.out, "Serves: %s\n", recipe.ServingSize)
	}
	if recipe.AverageRating > 0 {
		fmt.Fprintf(a.out, "Rating: %.1f\n", recipe.AverageRating)
	}
	fmt.Fprintf(a.out, "\nIngredients:\n%s\n\nDirections:\n%s\n", recipe.Ingredients, recipe.Directions)
	if recipe.NutritionInfo != "" {
		fmt.Fprintf(a.out, "\nNutrition:\n%s\n", recipe.NutritionInfo)
	}
	if recipe.SourceURL != "" {
		fmt.Fprintf(a.out, "\nSource: %s\n", recipe.SourceURL)
	}
	for _, n := range notes {
		fmt.Fprintf(a.out, "\nNote (%s): %s\n", n.CreatedAt.Format("2006-01-02"), n.Text)
	}
	return nil
}

func (a *app) rate(ctx context.Context, args []string) error {
	id, err := parseID(args, 2, "usage: gomp rate <id> <0-5>")
	if err != nil {
		return err
	}
	rating, err := strconv.ParseFloat(args[1], 64)
	if err != nil || rating < 0 || rating > 5 {
		return fmt.Errorf("invalid rating %q", args[1])
	}
	if err := a.requireToken(ctx); err != nil {
		return err
	}
	_, err = a.api.SetRating(ctx, id, rating)
	return err
}

func (a *app) note(ctx context.Context, args []string) error {
	id, err := parseID(args, 2, "usage: gomp note <id> <text>")
	if err != nil {
		return err
	}
	if err := a.requireToken(ctx); err != nil {
		return err
	}
	_, err = a.api.CreateNote(ctx, &types.Note{RecipeID: id, Text: strings.Join(args[1:], " ")})
	return err
}

func (a *app) upload(ctx context.Context, args []string) error {
	id, err := parseID(args, 2, "usage: gomp upload <id> <file>")
	if err != nil {
		return err
	}
	if err := a.requireToken(ctx); err != nil {
		return err
	}
	f, err := os.Open(args[1])
	if err != nil {
		return err
	}
	defer f.Close()

	location, err := a.api.UploadImage(ctx, id, filepath.Base(args[1]), f)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Uploaded", location)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	id, err := parseID(args, 1, "usage: gomp delete <id>")
	if err != nil {
		return err
	}
	if err := a.requireToken(ctx); err != nil {
		return err
	}
	if _, err := a.api.DeleteRecipe(ctx, id); err != nil {
		if client.IsStatus(err, http.StatusNotFound) {
			return fmt.Errorf("recipe %d not found", id)
		}
		return err
	}
	return a.manager.Reload(ctx)
}
