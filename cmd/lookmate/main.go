// cmd/lookmate/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/lookmate/lookmate-backend/internal/client"
	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/recommend"
	"github.com/lookmate/lookmate-backend/internal/services"
)

func main() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	var app *client.App

	cliApp := &cli.App{
		Name:  "lookmate",
		Usage: "manage your closet, looks and the public feed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "backend base URL; leave empty to keep everything on this machine",
				EnvVars: []string{"LOOKMATE_API_URL"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "directory for local data and the offline mirror",
				EnvVars: []string{"LOOKMATE_DATA_DIR"},
				Value:   defaultDataDir(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "verbose logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				logrus.SetLevel(logrus.DebugLevel)
			}
			storage, err := client.NewFileStorage(c.String("data-dir"))
			if err != nil {
				return err
			}
			app = client.NewApp(client.Config{
				APIBaseURL: c.String("api"),
				Storage:    storage,
			})
			logrus.WithField("mode", app.Mode).Debug("Client ready")

			_, err = app.Restore(c.Context)
			return err
		},
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "name", Required: true, Usage: "display name"},
				},
				Action: func(c *cli.Context) error {
					user, err := app.Register(c.Context, &services.RegisterRequest{
						Email:       c.String("email"),
						Password:    c.String("password"),
						DisplayName: c.String("name"),
					})
					if err != nil {
						return err
					}
					return printJSON(user)
				},
			},
			{
				Name:  "login",
				Usage: "sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: func(c *cli.Context) error {
					user, err := app.Login(c.Context, c.String("email"), c.String("password"))
					if err != nil {
						return err
					}
					return printJSON(user)
				},
			},
			{
				Name:  "logout",
				Usage: "sign out",
				Action: func(c *cli.Context) error {
					return app.Logout(c.Context)
				},
			},
			{
				Name:  "whoami",
				Usage: "show the signed-in user",
				Action: func(c *cli.Context) error {
					user, err := app.Session.Require()
					if err != nil {
						return err
					}
					return printJSON(user)
				},
			},
			closetCommand(&app),
			lookCommand(&app),
			feedCommand(&app),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logrus.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

func closetCommand(app **client.App) *cli.Command {
	return &cli.Command{
		Name:  "closet",
		Usage: "list and edit closet items",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list closet items",
				Action: func(c *cli.Context) error {
					return printJSON((*app).Closet.Items())
				},
			},
			{
				Name:  "add",
				Usage: "add a clothing item",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Required: true, Usage: "top, bottom, outer, onepiece, shoes or accessory"},
					&cli.StringFlag{Name: "image", Required: true, Usage: "image URL"},
					&cli.StringFlag{Name: "color"},
					&cli.StringFlag{Name: "brand"},
					&cli.StringFlag{Name: "season", Usage: "spring, summer, fall or winter"},
					&cli.Float64Flag{Name: "price"},
					&cli.StringSliceFlag{Name: "tag"},
				},
				Action: func(c *cli.Context) error {
					req := &services.CreateClothingItemRequest{
						Category: c.String("category"),
						ImageURL: c.String("image"),
						Color:    c.String("color"),
						Brand:    c.String("brand"),
						Season:   c.String("season"),
						Tags:     c.StringSlice("tag"),
					}
					if c.IsSet("price") {
						price := c.Float64("price")
						req.Price = &price
					}
					item, err := (*app).Closet.Add(c.Context, req)
					if err != nil {
						return err
					}
					return printJSON(item)
				},
			},
			{
				Name:      "favorite",
				Usage:     "toggle the favorite flag of an item",
				ArgsUsage: "<item-id>",
				Action: func(c *cli.Context) error {
					id, err := argUUID(c)
					if err != nil {
						return err
					}
					item, err := (*app).Closet.ToggleFavorite(c.Context, id)
					if err != nil {
						return err
					}
					return printJSON(item)
				},
			},
			{
				Name:      "delete",
				Usage:     "delete an item",
				ArgsUsage: "<item-id>",
				Action: func(c *cli.Context) error {
					id, err := argUUID(c)
					if err != nil {
						return err
					}
					return (*app).Closet.Delete(c.Context, id)
				},
			},
			{
				Name:  "recommend",
				Usage: "suggest an outfit from the closet",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "season"},
				},
				Action: func(c *cli.Context) error {
					season := models.Season(c.String("season"))
					if season != "" && !season.Valid() {
						return fmt.Errorf("unknown season %q", season)
					}
					outfit, err := recommend.New(rand.New(rand.NewSource(time.Now().UnixNano()))).
						Generate((*app).Closet.Items(), season)
					if err != nil {
						return err
					}
					return printJSON(outfit)
				},
			},
		},
	}
}

func lookCommand(app **client.App) *cli.Command {
	return &cli.Command{
		Name:  "look",
		Usage: "compose, save and publish looks",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list saved looks",
				Action: func(c *cli.Context) error {
					return printJSON((*app).Looks.Looks())
				},
			},
			{
				Name:  "save",
				Usage: "save a look made of closet items, bottom layer first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringSliceFlag{Name: "item", Required: true, Usage: "closet item id, repeat for each layer"},
					&cli.StringFlag{Name: "avatar", Usage: "avatar image URL drawn under the layers"},
					&cli.StringSliceFlag{Name: "tag"},
				},
				Action: func(c *cli.Context) error {
					looks := (*app).Looks
					composer := looks.Composer()
					composer.Clear()
					for _, raw := range c.StringSlice("item") {
						id, err := uuid.Parse(raw)
						if err != nil {
							return fmt.Errorf("invalid item id %q", raw)
						}
						composer.AddItem(id)
					}
					looks.SetAvatar(c.String("avatar"))

					look, err := looks.Save(c.Context, c.String("name"), c.StringSlice("tag"))
					if err != nil {
						return err
					}
					return printJSON(look)
				},
			},
			{
				Name:      "delete",
				Usage:     "delete a look",
				ArgsUsage: "<look-id>",
				Action: func(c *cli.Context) error {
					id, err := argUUID(c)
					if err != nil {
						return err
					}
					return (*app).Looks.Delete(c.Context, id)
				},
			},
			{
				Name:      "publish",
				Usage:     "share a look on the public feed",
				ArgsUsage: "<look-id>",
				Action: func(c *cli.Context) error {
					id, err := argUUID(c)
					if err != nil {
						return err
					}
					publicLook, err := (*app).Looks.Publish(c.Context, id)
					if err != nil {
						return err
					}
					return printJSON(publicLook)
				},
			},
			{
				Name:      "unpublish",
				Usage:     "remove a look from the public feed",
				ArgsUsage: "<public-id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.ShowSubcommandHelp(c)
					}
					return (*app).Looks.Unpublish(c.Context, c.Args().First())
				},
			},
		},
	}
}

func feedCommand(app **client.App) *cli.Command {
	react := func(toggle func(a *client.App) func(ctx context.Context, publicID string) (*models.ReactionState, error)) cli.ActionFunc {
		return func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.ShowSubcommandHelp(c)
			}
			publicID := c.Args().First()
			if err := (*app).Feed.Refresh(c.Context, client.FeedQuery{Limit: 100}); err != nil {
				return err
			}
			state, err := toggle(*app)(c.Context, publicID)
			if err != nil {
				return err
			}
			return printJSON(state)
		}
	}

	return &cli.Command{
		Name:  "feed",
		Usage: "browse and react to public looks",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "show the public feed",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sort", Value: services.FeedSortLatest, Usage: "latest or likes"},
					&cli.IntFlag{Name: "limit", Value: 20},
				},
				Action: func(c *cli.Context) error {
					feed := (*app).Feed
					if err := feed.Refresh(c.Context, client.FeedQuery{Sort: c.String("sort"), Limit: c.Int("limit")}); err != nil {
						return err
					}
					return printJSON(feed.Looks())
				},
			},
			{
				Name:      "like",
				Usage:     "toggle a like",
				ArgsUsage: "<public-id>",
				Action: react(func(a *client.App) func(context.Context, string) (*models.ReactionState, error) {
					return a.Feed.ToggleLike
				}),
			},
			{
				Name:      "bookmark",
				Usage:     "toggle a bookmark",
				ArgsUsage: "<public-id>",
				Action: react(func(a *client.App) func(context.Context, string) (*models.ReactionState, error) {
					return a.Feed.ToggleBookmark
				}),
			},
		},
	}
}

func argUUID(c *cli.Context) (uuid.UUID, error) {
	if c.NArg() != 1 {
		return uuid.Nil, fmt.Errorf("expected exactly one id argument")
	}
	id, err := uuid.Parse(c.Args().First())
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q", c.Args().First())
	}
	return id, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "lookmate")
	}
	return ".lookmate"
}
