// Command docloom crawls a documentation site into per-page markdown
// files and compiles them into a single navigable document.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
