package main

import (
	"fmt"
	"os"
	"strings"

	"blog/service"
)

const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args and exits with the command's status.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help", "-h", "--help":
		printHelp()
	case "version":
		fmt.Printf("blog version %s\n", CliVersion)
	case "serve", "migrate", "seed":
		if code := service.HandleCommand(append([]string{cmd}, os.Args[2:]...)); code != 0 {
			exit(code)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	helpText := `Usage: blog <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve [--port <port>]          Run the blog web server.
  migrate                        Create or update the database schema.
  seed [--posts N] [--admin-email E --admin-password P --admin-name N]
                                 Create the admin account and demo posts.
`
	fmt.Println(helpText)
}
