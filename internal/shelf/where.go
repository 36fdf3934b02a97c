package shelf

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Where is a compiled boolean filter over game fields.
//
// Available variables: title, price (0 when unset), hasPrice, store,
// platform, condition, platinum, description, image.
type Where struct {
	expression string
	program    *vm.Program
}

// CompileWhere compiles expression. It must evaluate to a boolean.
func CompileWhere(expression string) (*Where, error) {
	program, err := expr.Compile(expression, expr.Env(whereEnv(Game{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidFilter, expression, err)
	}
	return &Where{expression: expression, program: program}, nil
}

// Match reports whether g satisfies the expression.
func (w *Where) Match(g Game) (bool, error) {
	out, err := expr.Run(w.program, whereEnv(g))
	if err != nil {
		return false, fmt.Errorf("evaluating filter %q: %w", w.expression, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Filter returns the games of items that satisfy the expression, in order.
func (w *Where) Filter(items []Game) ([]Game, error) {
	out := make([]Game, 0, len(items))
	for _, g := range items {
		ok, err := w.Match(g)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func whereEnv(g Game) map[string]any {
	return map[string]any{
		"title":       g.Title,
		"price":       g.PriceValue(),
		"hasPrice":    g.Price != nil,
		"store":       string(g.Store),
		"platform":    string(g.Platform),
		"condition":   string(g.Condition),
		"platinum":    g.Platinum,
		"description": g.Description,
		"image":       g.Image,
	}
}
