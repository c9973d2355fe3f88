// codegen mints new privileged redeem codes for the backend's admin code
// list. By default it prints the plaintext code; with -bcrypt it also
// prints a hash that can go in config files instead of the plaintext.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/bcrypt"
)

var (
	prefix  = flag.String("prefix", "RA", "code prefix")
	count   = flag.Int("n", 1, "number of codes to generate")
	hashOut = flag.Bool("bcrypt", false, "also print a bcrypt hash per code")
)

func main() {
	flag.Parse()
	for i := 0; i < *count; i++ {
		buf := make([]byte, 16)
		if _, err := rand.Read(buf); err != nil {
			fmt.Fprintf(os.Stderr, "rng failure: %v\n", err)
			os.Exit(1)
		}
		code := fmt.Sprintf("%s_%s", strings.ToUpper(*prefix), base58.Encode(buf))
		fmt.Println(code)
		if *hashOut {
			h, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
			if err != nil {
				fmt.Fprintf(os.Stderr, "hash failure: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(h))
		}
	}
}
