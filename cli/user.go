package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/config"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/repository"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/services"
	"gorm.io/gorm"
)

const adminPasswordEnv = "FOODTRUCK_ADMIN_PASSWORD"

const userListPageSize = 200

func (rt *Runtime) userCommand() *Command {
	createAdmin := &Command{
		Name:        "create-admin",
		Description: "Create an administrator account",
		Usage:       "foodtruck user create-admin --username NAME --email EMAIL [--password PASSWORD]",
		Examples: []string{
			"FOODTRUCK_ADMIN_PASSWORD=s3cret-pass foodtruck user create-admin --username root --email root@truck.io",
		},
	}
	createAdmin.Run = func(ctx context.Context, args []string) error {
		fs := createAdmin.NewFlagSet(rt.Err)
		username := fs.String("username", "", "login name (3-50 characters)")
		email := fs.String("email", "", "contact email")
		password := fs.String("password", "", "password; falls back to $"+adminPasswordEnv+" then a prompt")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *username == "" || *email == "" {
			return errors.New("create-admin: --username and --email are required")
		}
		pw, err := rt.password(*password)
		if err != nil {
			return err
		}
		return rt.withUsers(func(users services.UserService) error {
			user, svcErr := users.CreateAdmin(ctx, *username, *email, pw)
			if svcErr != nil {
				return describe(svcErr)
			}
			rt.printf("Created admin %s (%s)\n", user.Username, user.ID)
			return nil
		})
	}

	list := &Command{
		Name:        "list",
		Description: "List every account",
		Usage:       "foodtruck user list",
	}
	list.Run = func(ctx context.Context, args []string) error {
		if err := list.NewFlagSet(rt.Err).Parse(args); err != nil {
			return err
		}
		return rt.withUsers(func(users services.UserService) error {
			table := NewTableWriter("ID", "USERNAME", "EMAIL", "ROLE", "ACTIVE")
			for offset := 0; ; offset += userListPageSize {
				page, pagination, svcErr := users.ListUsers(ctx, offset, userListPageSize)
				if svcErr != nil {
					return describe(svcErr)
				}
				for _, u := range page {
					table.AddRow(u.ID.String(), u.Username, u.Email, string(u.Role), strconv.FormatBool(u.IsActive))
				}
				if int64(offset+userListPageSize) >= pagination.TotalCount {
					break
				}
			}
			table.Print(rt.Out)
			return nil
		})
	}

	setPassword := &Command{
		Name:        "set-password",
		Description: "Replace an account's password",
		Usage:       "foodtruck user set-password --username NAME [--password PASSWORD]",
	}
	setPassword.Run = func(ctx context.Context, args []string) error {
		fs := setPassword.NewFlagSet(rt.Err)
		username := fs.String("username", "", "account to update")
		password := fs.String("password", "", "new password; falls back to $"+adminPasswordEnv+" then a prompt")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *username == "" {
			return errors.New("set-password: --username is required")
		}
		pw, err := rt.password(*password)
		if err != nil {
			return err
		}
		return rt.withUsers(func(users services.UserService) error {
			if svcErr := users.SetPassword(ctx, *username, pw); svcErr != nil {
				return describe(svcErr)
			}
			rt.printf("Password updated for %s\n", *username)
			return nil
		})
	}

	del := &Command{
		Name:        "delete",
		Description: "Delete an account (the last active admin is kept)",
		Usage:       "foodtruck user delete --username NAME",
	}
	del.Run = func(ctx context.Context, args []string) error {
		fs := del.NewFlagSet(rt.Err)
		username := fs.String("username", "", "account to delete")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *username == "" {
			return errors.New("delete: --username is required")
		}
		return rt.withUsers(func(users services.UserService) error {
			if svcErr := users.DeleteByUsername(ctx, *username); svcErr != nil {
				return describe(svcErr)
			}
			rt.printf("Deleted %s\n", *username)
			return nil
		})
	}

	return &Command{
		Name:        "user",
		Description: "Manage API accounts",
		Usage:       "foodtruck user <create-admin|list|set-password|delete>",
		Subcommands: []*Command{createAdmin, list, setPassword, del},
	}
}

func (rt *Runtime) withUsers(fn func(users services.UserService) error) error {
	return rt.WithDB(func(cfg *config.Config, db *gorm.DB) error {
		return fn(services.NewUserService(repository.NewGormUserRepository(db), rt.Logger))
	})
}

// password resolves the flag value, then the environment, then a prompt.
func (rt *Runtime) password(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := rt.Getenv(adminPasswordEnv); v != "" {
		return v, nil
	}
	pw, err := rt.Prompt("Password: ")
	if err != nil {
		return "", err
	}
	if pw == "" {
		return "", errors.New("password is required")
	}
	return pw, nil
}

// describe turns a service error into a CLI error, including field details.
func describe(svcErr *services.ServiceError) error {
	if len(svcErr.Fields) == 0 {
		return errors.New(svcErr.Message)
	}
	parts := make([]string, 0, len(svcErr.Fields))
	for _, f := range svcErr.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Errorf("%s: %s", svcErr.Message, strings.Join(parts, "; "))
}
