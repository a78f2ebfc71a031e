package storage

import (
	"fmt"
	"strings"

	"github.com/orsinium-labs/enum"
)

// Operator is a comparison operator usable in a Predicate.
type Operator enum.Member[string]

var (
	OpEq   = Operator{Value: "="}
	OpNe   = Operator{Value: "!="}
	OpLt   = Operator{Value: "<"}
	OpLe   = Operator{Value: "<="}
	OpGt   = Operator{Value: ">"}
	OpGe   = Operator{Value: ">="}
	OpLike = Operator{Value: "LIKE"}

	// Operators holds every supported operator.
	Operators = enum.New(OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpLike)
)

// ParseOperator returns the operator spelled s, case-insensitively.
func ParseOperator(s string) (Operator, error) {
	op := Operators.Parse(strings.ToUpper(strings.TrimSpace(s)))
	if op == nil {
		return Operator{}, fmt.Errorf("%w: unknown operator %q", ErrInvalidCondition, s)
	}
	return *op, nil
}

// Predicate is a single "column operator value" condition. The value is
// always bound as a statement parameter. A zero Operator means OpEq.
type Predicate struct {
	Column   string
	Operator Operator
	Value    any
}

// Eq returns the predicate column = value.
func Eq(column string, value any) Predicate {
	return Predicate{Column: column, Operator: OpEq, Value: value}
}

// ParseCondition parses the legacy "column=value" condition format. Quote
// characters are stripped, the string is split on the first "=" and both
// sides are trimmed.
func ParseCondition(condition string) (Predicate, error) {
	cleaned := strings.NewReplacer(`'`, "", `"`, "").Replace(condition)
	column, value, found := strings.Cut(cleaned, "=")
	if !found {
		return Predicate{}, fmt.Errorf("%w: missing \"=\" in %q", ErrInvalidCondition, condition)
	}

	p := Eq(strings.TrimSpace(column), strings.TrimSpace(value))
	if err := p.validate(); err != nil {
		return Predicate{}, err
	}
	return p, nil
}

func (p Predicate) operator() Operator {
	if p.Operator == (Operator{}) {
		return OpEq
	}
	return p.Operator
}

func (p Predicate) validate() error {
	if err := validateIdentifier(p.Column); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCondition, err)
	}
	if !Operators.Contains(p.operator()) {
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidCondition, p.Operator.Value)
	}
	return nil
}

// clause returns the SQL fragment and its single parameter.
func (p Predicate) clause() (string, any) {
	return quoteIdentifier(p.Column) + " " + p.operator().Value + " ?", p.Value
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s %s %v", p.Column, p.operator().Value, p.Value)
}
