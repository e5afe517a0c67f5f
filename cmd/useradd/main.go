// Command useradd registers a bloglist account directly in the server's
// store, reading the password from the terminal.
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/bloglist/internal/server"
	"github.com/dmitrijs2005/bloglist/internal/server/config"
	"github.com/dmitrijs2005/bloglist/internal/useradd"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	opts, err := useradd.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	st, err := server.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	us, _ := server.NewUserService(st, cfg)

	_, err = useradd.Run(ctx, us, opts, int(os.Stdin.Fd()), os.Stdin, os.Stdout)

	if st.DB != nil {
		_ = st.DB.Close()
	}
	if err != nil {
		log.Fatalf("%v", err)
	}

}
