package behavior

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	shypn "github.com/simao-eugenio/shypn-sub007"
)

// Env builds the guard environment for a marking: every place label bound
// to its token count. Guards like "buffer > 2 && done == 0" read naturally
// against it.
func Env(net *shypn.Net, m shypn.Marking) map[string]interface{} {
	env := make(map[string]interface{}, len(net.Places))
	for i, p := range net.Places {
		if i < len(m) {
			env[p.Label] = m[i]
		}
	}
	return env
}

func compileGuard(src string) (*vm.Program, error) {
	return expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
}

func (b *Behavior) guardOK(env map[string]interface{}) (bool, string) {
	if b.guard == nil {
		return true, ""
	}
	out, err := expr.Run(b.guard, env)
	if err != nil {
		return false, fmt.Sprintf("guard error: %v", err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Sprintf("guard returned %T, want bool", out)
	}
	if !ok {
		return false, "guard is false"
	}
	return true, ""
}
