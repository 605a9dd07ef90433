package main

import (
	"fmt"
	"os"

	"github.com/shopit/storefront/cmd/storefront/cli"
)

// Set via -ldflags at build time
var (
	version = "dev"
	commit  = "none"
)

// @title						ShopIT Storefront Accounts API
// @version					1.0
// @description				Account registration, sessions, password recovery and account administration.
// @BasePath					/api/v1
// @securityDefinitions.apikey	CookieAuth
// @in							cookie
// @name						token
func main() {
	if err := cli.Execute(version, commit); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
