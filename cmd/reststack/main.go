// Command reststack issues REST calls from the command line and prints the
// response envelope.
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
