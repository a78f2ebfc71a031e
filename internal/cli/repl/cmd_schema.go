package repl

import (
	"fmt"
	"strings"

	"github.com/nsqlite/sqlabstract/storage"
)

func cmdCreate(r *Repl, args []string) error {
	if len(args) < 2 {
		return errUsage
	}

	fields := make([]storage.Field, 0, len(args)-1)
	for _, arg := range args[1:] {
		name, typ, _ := strings.Cut(arg, ":")
		fields = append(fields, storage.Field{
			Name: strings.TrimSpace(name),
			Type: strings.TrimSpace(typ),
		})
	}

	if err := r.db.CreateTable(r.ctx, args[0], fields); err != nil {
		return err
	}

	fmt.Fprintf(r.out, "OK, table %s created\n", args[0])
	return nil
}

func cmdDrop(r *Repl, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	if err := r.db.DeleteTable(r.ctx, args[0]); err != nil {
		return err
	}

	fmt.Fprintf(r.out, "OK, table %s deleted\n", args[0])
	return nil
}
