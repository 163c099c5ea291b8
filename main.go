package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"task-tracker/auth"
	"task-tracker/config"
	"task-tracker/database"
	"task-tracker/models"
	"task-tracker/repository"
	"task-tracker/server"
)

func main() {
	commandFlag := flag.String("command", "start", "Command to run: start (needs TASKS_SECRET_KEY) | create-user")
	emailFlag := flag.String("email", "", "Email of the user to create (create-user)")
	passwordFlag := flag.String("password", "", "Password of the user to create (create-user)")
	roleFlag := flag.String("role", string(models.RoleReadOnly), "Role of the user to create: admin | read_only (create-user)")
	flag.Parse()

	if *commandFlag == "" {
		fmt.Println("Usage: go run main.go --command <command-name> [... other options]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	server.InitLogger()

	switch *commandFlag {
	case "start":
		if err := cfg.RequireSecret(); err != nil {
			fmt.Fprintln(os.Stderr, "configuration error:", err)
			os.Exit(1)
		}
		server.StartServer(cfg)
	case "create-user":
		ctx := context.Background()
		dbConn, err := database.InitializeDatabase(ctx, cfg.DatabasePath)
		if err != nil {
			os.Exit(1)
		}
		defer dbConn.Close()

		_, err = server.CreateUser(ctx, repository.NewUserRepository(dbConn), auth.NewPasswordHasher(cfg.BcryptCost),
			*emailFlag, *passwordFlag, models.Role(*roleFlag))
		if err != nil {
			fmt.Fprintln(os.Stderr, "create-user failed:", err)
			dbConn.Close()
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", *commandFlag)
		os.Exit(1)
	}
}
