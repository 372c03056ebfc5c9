package script

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/andrewvolostnykh/viewton/fault"
	"github.com/andrewvolostnykh/viewton/querier"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
	luajson "layeh.com/gopher-json"
)

// EntryPoint is the global function every query script must define.
const EntryPoint = "build_query"

type Config struct {
	ScriptPath string `yaml:"script_path"`
}

// Runner builds queries from a Lua script.
// The script MUST define a function named `build_query` taking the query as
// its only parameter, for example:
//
//	function build_query(q)
//	  q:page(1):page_size(20)
//	  q:param("name"):ignore_case():equals_to("john")
//	  q:param("status"):or_("new"):or_("open"):next()
//	  q:param("created"):desc_sort()
//	end
//
// `or` is a Lua keyword, so alternatives use `or_`. The script can decode
// JSON using `local json = require("json")`.
type Runner struct {
	cfg    Config
	logger *slog.Logger
	proto  *lua.FunctionProto
	pool   *sync.Pool
}

func NewRunner(logger *slog.Logger, cfg Config) (*Runner, error) {
	f, err := os.Open(cfg.ScriptPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fault.New(fault.NotFoundCode, fmt.Sprintf("Script `%s` does not exist.", cfg.ScriptPath)).WithOriginal(err)
		}
		return nil, fmt.Errorf("cannot open script: %w", err)
	}
	defer f.Close()

	chunk, err := parse.Parse(f, cfg.ScriptPath)
	if err != nil {
		return nil, fault.New(fault.BadInputCode, "Script cannot be parsed.").WithOriginal(err)
	}

	proto, err := lua.Compile(chunk, cfg.ScriptPath)
	if err != nil {
		return nil, fault.New(fault.BadInputCode, "Script cannot be compiled.").WithOriginal(err)
	}

	pool := &sync.Pool{
		New: func() any {
			L := lua.NewState(lua.Options{
				SkipOpenLibs: true,
			})

			// os and io stay closed: scripts only describe queries.
			for _, lib := range []struct {
				name string
				fn   lua.LGFunction
			}{
				{lua.LoadLibName, lua.OpenPackage},
				{lua.BaseLibName, lua.OpenBase},
				{lua.TabLibName, lua.OpenTable},
				{lua.StringLibName, lua.OpenString},
				{lua.MathLibName, lua.OpenMath},
			} {
				L.Push(L.NewFunction(lib.fn))
				L.Push(lua.LString(lib.name))
				L.Call(1, 0)
			}

			luajson.Preload(L)
			registerTypes(L)

			return L
		},
	}

	return &Runner{
		cfg:    cfg,
		logger: logger,
		proto:  proto,
		pool:   pool,
	}, nil
}

// Build runs the script against a fresh query and returns its parameters.
func (r *Runner) Build() (*querier.Params, error) {
	q := querier.New()
	if err := Run(r, q.Expression); err != nil {
		return nil, err
	}
	return q.Build(), nil
}

// Run executes the script's build_query against e.
func Run[Q any](r *Runner, e *querier.Expression[Q]) error {
	L := r.pool.Get().(*lua.LState)
	defer r.pool.Put(L)

	// Globals assigned by the script land in a per-run environment that only
	// reads through to the shared libraries, so pooled states carry nothing
	// from one run into the next.
	env := L.NewTable()
	meta := L.NewTable()
	L.SetField(meta, "__index", L.Get(lua.GlobalsIndex))
	L.SetMetatable(env, meta)

	chunk := L.NewFunctionFromProto(r.proto)
	L.SetFEnv(chunk, env)

	L.Push(chunk)
	if err := L.PCall(0, 0, nil); err != nil {
		return fault.New(fault.BadInputCode, "Script failed to load.").WithOriginal(err)
	}

	fn := env.RawGetString(EntryPoint)
	if fn.Type() != lua.LTFunction {
		return fault.New(fault.BadInputCode, fmt.Sprintf("Script must define a `%s` function.", EntryPoint))
	}

	err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, newQuery(L, e))
	if err != nil {
		return fault.New(fault.BadInputCode, "Script failed to build the query.").WithOriginal(err)
	}

	r.logger.Debug("query script executed", "script", r.cfg.ScriptPath, "params", e.Build().Len())

	return nil
}
