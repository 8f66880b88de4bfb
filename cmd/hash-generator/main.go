// Command hash-generator produces bcrypt hashes for seeding user rows.
// The service has no registration endpoint; accounts are provisioned by
// inserting rows whose hashed_password column comes from this tool.
package main

import (
	"fmt"
	"os"

	"github.com/atelierhq/atelier-api/internal/service/auth"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator <password> [<password> ...]")
		os.Exit(2)
	}

	for _, password := range os.Args[1:] {
		hash, err := auth.HashPassword(password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error hashing password: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
	}
}
