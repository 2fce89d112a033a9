package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/database"
	"github.com/locallibrary/catalog/pkg/migrations"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/users"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

const minPasswordLength = 8

func main() {
	log := logger.New()

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	roleNames := make([]string, len(models.Roles))
	for i, r := range models.Roles {
		roleNames[i] = string(r)
	}
	roleUsage := "one of " + strings.Join(roleNames, ", ")

	app := &cli.App{
		Name:        "manage",
		Usage:       "Local Library administration",
		Description: "Migrations and user administration for the Local Library catalog",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					group, err := migrations.BringUpToDate(c.Context, db)
					if err != nil {
						return err
					}

					if group.ID == 0 {
						fmt.Printf("There are no new migrations to run\n")
						return nil
					}

					fmt.Printf("Migrated to %s\n", group)
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					group, err := migrations.Rollback(c.Context, db)
					if err != nil {
						return err
					}

					if group.ID == 0 {
						fmt.Printf("There are no groups to roll back\n")
						return nil
					}

					fmt.Printf("Rolled back %s\n", group)
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					ms, err := migrations.Status(c.Context, db)
					if err != nil {
						return err
					}
					fmt.Printf("Migrations: %s\n", ms)
					fmt.Printf("Unapplied migrations: %s\n", ms.Unapplied())
					fmt.Printf("Last migration group: %s\n", ms.LastGroup())

					return nil
				},
			},
			{
				Name:      "create-user",
				Usage:     "create a user, prompting for the password",
				ArgsUsage: "<username>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "first-name", Required: true},
					&cli.StringFlag{Name: "last-name", Required: true},
					&cli.StringFlag{Name: "role", Value: string(models.RoleLibrarian), Usage: roleUsage},
				},
				Action: func(c *cli.Context) error {
					username := c.Args().First()
					if username == "" {
						return errors.New("username is required")
					}
					role, ok := models.ParseRole(c.String("role"))
					if !ok {
						return errors.Errorf("invalid role %q: must be %s", c.String("role"), roleUsage)
					}

					password, err := promptPassword()
					if err != nil {
						return err
					}

					user, err := users.NewService(db).Create(c.Context, users.CreateUserOptions{
						FirstName: c.String("first-name"),
						LastName:  c.String("last-name"),
						Email:     c.String("email"),
						Username:  username,
						Password:  password,
						Role:      role,
					})
					if err != nil {
						return err
					}

					fmt.Printf("Created %s user %s (%s)\n", user.Role, user.Username, user.ID)
					return nil
				},
			},
			{
				Name:      "set-role",
				Usage:     "change the role of an existing user",
				ArgsUsage: "<username> <role>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return errors.New("usage: set-role <username> <role>")
					}
					role, ok := models.ParseRole(c.Args().Get(1))
					if !ok {
						return errors.Errorf("invalid role %q: must be %s", c.Args().Get(1), roleUsage)
					}

					user, err := users.NewService(db).UpdateRole(c.Context, c.Args().Get(0), role)
					if err != nil {
						return err
					}

					fmt.Printf("User %s is now %s\n", user.Username, user.Role)
					return nil
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}

// promptPassword reads the password twice from the terminal without echoing
// it.
func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("create-user must be run from a terminal")
	}

	fmt.Print("Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", errors.WithStack(err)
	}
	if len(first) < minPasswordLength {
		return "", errors.Errorf("password must be at least %d characters", minPasswordLength)
	}

	fmt.Print("Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", errors.WithStack(err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}

	return string(first), nil
}
