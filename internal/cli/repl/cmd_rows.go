package repl

import (
	"fmt"
	"strings"

	"github.com/nsqlite/sqlabstract/internal/util/numutil"
	"github.com/nsqlite/sqlabstract/storage"
)

// parseAssignment splits "column=value".
func parseAssignment(arg string) (string, string, error) {
	column, value, found := strings.Cut(arg, "=")
	column = strings.TrimSpace(column)
	if !found || column == "" {
		return "", "", fmt.Errorf("expected column=value, got %q", arg)
	}
	return column, value, nil
}

func cmdInsert(r *Repl, args []string) error {
	if len(args) < 2 {
		return errUsage
	}

	values := storage.Values{}
	for _, arg := range args[1:] {
		column, value, err := parseAssignment(arg)
		if err != nil {
			return err
		}
		values[column] = value
	}

	if err := r.db.Insert(r.ctx, args[0], values); err != nil {
		return err
	}

	fmt.Fprintln(r.out, "OK")
	return nil
}

func cmdQuery(r *Repl, args []string) error {
	if len(args) != 2 {
		return errUsage
	}

	cond, err := storage.ParseCondition(args[1])
	if err != nil {
		return err
	}

	rows, err := r.db.Where(r.ctx, args[0], cond)
	if err != nil {
		return err
	}
	return printRows(r, args[0], rows)
}

func cmdWhere(r *Repl, args []string) error {
	if len(args) != 4 {
		return errUsage
	}

	op, err := storage.ParseOperator(args[2])
	if err != nil {
		return err
	}

	rows, err := r.db.Where(r.ctx, args[0], storage.Predicate{
		Column:   args[1],
		Operator: op,
		Value:    args[3],
	})
	if err != nil {
		return err
	}
	return printRows(r, args[0], rows)
}

func cmdUpdate(r *Repl, args []string) error {
	if len(args) != 3 {
		return errUsage
	}

	cond, err := storage.ParseCondition(args[1])
	if err != nil {
		return err
	}
	attribute, value, err := parseAssignment(args[2])
	if err != nil {
		return err
	}

	affected, err := r.db.Update(r.ctx, args[0], cond, attribute, value)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "OK, %s rows updated\n", numutil.IntWithCommas(affected))
	return nil
}

func cmdDelete(r *Repl, args []string) error {
	if len(args) != 2 {
		return errUsage
	}

	cond, err := storage.ParseCondition(args[1])
	if err != nil {
		return err
	}

	affected, err := r.db.DeleteEntry(r.ctx, args[0], cond)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "OK, %s rows deleted\n", numutil.IntWithCommas(affected))
	return nil
}
