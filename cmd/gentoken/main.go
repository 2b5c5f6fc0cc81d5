// Command gentoken prints a fresh request token without storing it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/nkiryanov/reqtoken/internal/tokengen"
)

func main() {
	n := pflag.IntP("bytes", "n", tokengen.DefaultLength, "Number of random bytes")
	pflag.Parse()

	token, err := tokengen.Generate(nil, *n)
	if err != nil {
		fmt.Printf("error while generating token: %v", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
