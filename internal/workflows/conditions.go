package workflows

import (
	"fmt"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	gocache "github.com/patrickmn/go-cache"
)

// Condition expressions are evaluated against an environment exposing the
// event payload as `payload`, e.g.
//
//	hasSuffix(payload.file_name ?? "", ".pdf")
//
// Compiled programs are cached; conditions are declared once per workflow
// but evaluated on every candidate event.
var conditionCache = gocache.New(30*time.Minute, time.Hour)

var compileMu sync.Mutex

// CompileCondition validates a condition expression without evaluating it.
func CompileCondition(condition string) error {
	_, err := compiledProgram(condition)
	return err
}

// EvaluateCondition runs a condition expression against an event payload.
// Expressions must evaluate to a boolean.
func EvaluateCondition(condition string, payload map[string]interface{}) (bool, error) {
	program, err := compiledProgram(condition)
	if err != nil {
		return false, err
	}

	env := map[string]interface{}{"payload": payload}
	output, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate condition: %w", err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("condition did not evaluate to a boolean: %q", condition)
	}
	return result, nil
}

func compiledProgram(condition string) (*vm.Program, error) {
	if cached, found := conditionCache.Get(condition); found {
		if program, ok := cached.(*vm.Program); ok {
			return program, nil
		}
	}

	compileMu.Lock()
	defer compileMu.Unlock()

	program, err := expr.Compile(condition, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("failed to compile condition: %w", err)
	}

	conditionCache.Set(condition, program, gocache.DefaultExpiration)
	return program, nil
}
