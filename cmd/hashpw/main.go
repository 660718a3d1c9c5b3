// Command hashpw prints the bcrypt hash of a password, for seeding
// ADMIN_PASSWORD_HASH in the environment.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/example/storefront/internal/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <password>\n", os.Args[0])
		os.Exit(2)
	}

	hash, err := auth.HashPassword(os.Args[1])
	if err != nil {
		log.Fatalf("hashpw: %v", err)
	}
	fmt.Println(hash)
}
