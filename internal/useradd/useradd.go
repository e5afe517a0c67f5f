// Package useradd implements the operator tool that registers an account
// directly against the server's store.
package useradd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/bloglist/internal/flagx"
	"github.com/dmitrijs2005/bloglist/internal/server/models"
)

// Registrar creates accounts.
type Registrar interface {
	Register(ctx context.Context, username, name, password string) (*models.User, error)
}

// Options are the tool's own flags.
//
//	-u string   username (prompted when empty)
//	-n string   display name
type Options struct {
	Username string
	Name     string
}

// ParseArgs reads -u and -n from args, ignoring the server's flags.
func ParseArgs(args []string) (Options, error) {
	var o Options

	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.Username, "u", "", "username")
	fs.StringVar(&o.Name, "n", "", "display name")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-u", "-n"})); err != nil {
		return o, fmt.Errorf("parsing flags: %w", err)
	}
	return o, nil
}

// Run prompts for whatever o leaves out and registers the user. Prompts
// go to out; fd is the descriptor behind in, used for no-echo reads.
func Run(ctx context.Context, r Registrar, o Options, fd int, in io.Reader, out io.Writer) (*models.User, error) {
	reader := bufio.NewReader(in)

	if o.Username == "" {
		name, err := GetSimpleText(reader, "Enter username", out)
		if err != nil {
			return nil, err
		}
		o.Username = name
	}

	password, err := GetPassword(fd, reader, out)
	if err != nil {
		return nil, err
	}

	user, err := r.Register(ctx, o.Username, o.Name, password)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "Created user %s (id=%s)\n", user.UserName, user.ID)
	return user, nil
}
