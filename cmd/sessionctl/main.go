package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-session-client/authclient"
	"github.com/jrsteele09/go-session-client/claims"
	"github.com/jrsteele09/go-session-client/credentials"
	"github.com/jrsteele09/go-session-client/httpauth"
	"github.com/jrsteele09/go-session-client/internal/config"
	"github.com/jrsteele09/go-session-client/users"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	c := config.New()

	if len(args) == 0 {
		displayAppname(c.GetAppName())
		usage()
		return nil
	}

	logger := newLogger()

	storage, err := credentials.NewFileStorage(c.GetStateFile())
	if err != nil {
		return err
	}

	network := httpauth.New(c.GetAPIBaseURL(), httpauth.WithLogger(logger))
	client, err := authclient.New(network, storage,
		authclient.WithRefreshMargin(c.GetRefreshMargin()),
		authclient.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch args[0] {
	case "login":
		return login(ctx, client, args[1:])
	case "register":
		return register(ctx, client, args[1:])
	case "status":
		return status(client)
	case "whoami":
		return whoami(client)
	case "refresh":
		return forceRefresh(ctx, client)
	case "logout":
		client.Logout(ctx)
		fmt.Println("Logged out")
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func login(ctx context.Context, client *authclient.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: sessionctl login <email> <password>")
	}
	profile, err := client.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", profile.FullName(), profile.Role)
	return nil
}

func register(ctx context.Context, client *authclient.Client, args []string) error {
	if len(args) != 5 {
		return fmt.Errorf("usage: sessionctl register <email> <password> <first> <last> <role>")
	}
	profile, err := client.Register(ctx, authclient.Registration{
		Email:     args[0],
		Password:  args[1],
		FirstName: args[2],
		LastName:  args[3],
		Role:      users.RoleType(args[4]),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Account created for %s. Please log in.\n", profile.Email)
	return nil
}

func status(client *authclient.Client) error {
	fmt.Printf("State:         %s\n", client.State())
	fmt.Printf("Authenticated: %t\n", client.IsAuthenticated())

	if header, ok := client.AuthHeader(); ok {
		if decoded, err := claims.Decode(header[len("Bearer "):]); err == nil {
			fmt.Printf("Token expires: %s\n", decoded.ExpiresAt.Format(time.RFC3339))
		}
	}
	return nil
}

func whoami(client *authclient.Client) error {
	profile := client.CurrentUser()
	if profile == nil {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s <%s> role=%s\n", profile.FullName(), profile.Email, profile.Role)
	return nil
}

func forceRefresh(ctx context.Context, client *authclient.Client) error {
	if err := client.Refresh(ctx); err != nil {
		return err
	}
	fmt.Println("Session renewed")
	return nil
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if os.Getenv("DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
}

func usage() {
	fmt.Println("Commands:")
	fmt.Println("  login <email> <password>")
	fmt.Println("  register <email> <password> <first> <last> <role>")
	fmt.Println("  status")
	fmt.Println("  whoami")
	fmt.Println("  refresh")
	fmt.Println("  logout")
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
