// Package script embeds a tengo interpreter for map generators and bulk
// edits. A script calls paint/object/note/edge builtins; the runtime
// collects everything into a Result that the caller applies to a
// document as a single history entry.
package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/mapslate/mapslate/document"
	"github.com/mapslate/mapslate/geom"
)

// Result is everything a script emitted, in emission order.
type Result struct {
	Cells   []document.PaintedCell
	Objects []document.Object
	Edges   []document.Edge
}

// builtinNames are the script-visible bindings. They are declared at
// compile time and bound to fresh closures per run, so a compiled script
// can be cached and re-run without leaking emissions between runs.
var builtinNames = []string{
	"grid", "paint", "object", "note", "edge", "distance", "neighbors", "line",
}

// Runtime compiles generator scripts once and re-runs the cached
// bytecode per invocation. The layout is only consulted by the read-only
// geometry builtins; scripts never touch a live document.
type Runtime struct {
	layout geom.Layout

	defaultColor   string
	defaultOpacity float64

	cache map[string]*tengo.Compiled
}

func New(layout geom.Layout, defaultColor string, defaultOpacity float64) *Runtime {
	if defaultColor == "" {
		defaultColor = "#3c78ff"
	}
	if defaultOpacity <= 0 || defaultOpacity > 1 {
		defaultOpacity = 1
	}
	return &Runtime{
		layout:         layout,
		defaultColor:   defaultColor,
		defaultOpacity: defaultOpacity,
		cache:          map[string]*tengo.Compiled{},
	}
}

// Run executes src and returns what it emitted. The script gets the
// tengo stdlib, the map builtins, and a `grid` metadata map; a compile
// or runtime error comes back wrapped, with nothing emitted.
func (r *Runtime) Run(ctx context.Context, src []byte) (Result, error) {
	base, err := r.compile(src)
	if err != nil {
		return Result{}, err
	}

	var res Result
	c := base.Clone()
	if err := c.Set("grid", r.gridMeta()); err != nil {
		return Result{}, fmt.Errorf("script: bind grid: %w", err)
	}
	for name, fn := range r.builtins(&res) {
		if err := c.Set(name, fn); err != nil {
			return Result{}, fmt.Errorf("script: bind %s: %w", name, err)
		}
	}
	if err := c.RunContext(ctx); err != nil {
		return Result{}, fmt.Errorf("script: run: %w", err)
	}
	return res, nil
}

// compile returns the cached bytecode for src, compiling on first sight.
// Builtins are declared with placeholder values here; Run swaps in the
// real closures on a clone.
func (r *Runtime) compile(src []byte) (*tengo.Compiled, error) {
	key := string(src)
	if c, ok := r.cache[key]; ok {
		return c, nil
	}
	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	for _, name := range builtinNames {
		if err := s.Add(name, nil); err != nil {
			return nil, fmt.Errorf("script: declare %s: %w", name, err)
		}
	}
	c, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile: %w", err)
	}
	r.cache[key] = c
	return c, nil
}

// gridMeta describes the grid the script is generating for.
func (r *Runtime) gridMeta() tengo.Object {
	m := map[string]tengo.Object{
		"variant":     &tengo.String{Value: "square"},
		"orientation": &tengo.String{Value: ""},
		"cell_size":   &tengo.Float{Value: 1},
		"diagonal8":   tengo.FalseValue,
	}
	switch l := r.layout.(type) {
	case *geom.SquareLayout:
		m["cell_size"] = &tengo.Float{Value: l.CellSize}
		if l.Diagonal8 {
			m["diagonal8"] = tengo.TrueValue
		}
	case *geom.HexLayout:
		m["variant"] = &tengo.String{Value: "hex"}
		m["orientation"] = &tengo.String{Value: l.Orientation.String()}
		m["cell_size"] = &tengo.Float{Value: l.Size}
	}
	return &tengo.ImmutableMap{Value: m}
}

// builtins returns the emission and geometry closures for one run, all
// writing into res.
func (r *Runtime) builtins(res *Result) map[string]tengo.Object {
	return map[string]tengo.Object{
		"paint": &tengo.UserFunction{Name: "paint", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 2 {
				return nil, tengo.ErrWrongNumArguments
			}
			q, r1, err := cellArgs(args[0], args[1])
			if err != nil {
				return nil, err
			}
			pc := document.PaintedCell{
				Cell:    geom.Cell{Q: q, R: r1},
				Color:   r.defaultColor,
				Opacity: r.defaultOpacity,
			}
			if len(args) > 2 {
				if c := asString(args[2]); c != "" {
					pc.Color = c
				}
			}
			if len(args) > 3 {
				if o, ok := tengo.ToFloat64(args[3]); ok && o > 0 && o <= 1 {
					pc.Opacity = o
				}
			}
			res.Cells = append(res.Cells, pc)
			return tengo.TrueValue, nil
		}},

		"object": &tengo.UserFunction{Name: "object", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 4 {
				return nil, tengo.ErrWrongNumArguments
			}
			q, r1, err := cellArgs(args[0], args[1])
			if err != nil {
				return nil, err
			}
			w, okW := tengo.ToInt(args[2])
			h, okH := tengo.ToInt(args[3])
			if !okW || !okH {
				return nil, fmt.Errorf("object: w and h must be integers")
			}
			o := document.Object{
				Cell:  geom.Cell{Q: q, R: r1},
				W:     w,
				H:     h,
				Kind:  "marker",
				Color: r.defaultColor,
			}
			if len(args) > 4 {
				if k := asString(args[4]); k != "" {
					o.Kind = k
				}
			}
			if len(args) > 5 {
				if c := asString(args[5]); c != "" {
					o.Color = c
				}
			}
			res.Objects = append(res.Objects, o)
			return tengo.TrueValue, nil
		}},

		"note": &tengo.UserFunction{Name: "note", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 3 {
				return nil, tengo.ErrWrongNumArguments
			}
			q, r1, err := cellArgs(args[0], args[1])
			if err != nil {
				return nil, err
			}
			o := document.Object{
				Cell:       geom.Cell{Q: q, R: r1},
				W:          1,
				H:          1,
				Kind:       "note",
				Note:       asString(args[2]),
				LinkTarget: "note:unlinked",
			}
			if len(args) > 3 {
				if target := asString(args[3]); target != "" {
					o.LinkTarget = target
				}
			}
			res.Objects = append(res.Objects, o)
			return tengo.TrueValue, nil
		}},

		"edge": &tengo.UserFunction{Name: "edge", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 4 {
				return nil, tengo.ErrWrongNumArguments
			}
			aq, ar, err := cellArgs(args[0], args[1])
			if err != nil {
				return nil, err
			}
			bq, br, err := cellArgs(args[2], args[3])
			if err != nil {
				return nil, err
			}
			e := document.Edge{
				A:    geom.Cell{Q: aq, R: ar},
				B:    geom.Cell{Q: bq, R: br},
				Kind: "wall",
			}
			if len(args) > 4 {
				if k := asString(args[4]); k != "" {
					e.Kind = k
				}
			}
			res.Edges = append(res.Edges, e)
			return tengo.TrueValue, nil
		}},

		"distance": &tengo.UserFunction{Name: "distance", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 4 {
				return nil, tengo.ErrWrongNumArguments
			}
			aq, ar, err := cellArgs(args[0], args[1])
			if err != nil {
				return nil, err
			}
			bq, br, err := cellArgs(args[2], args[3])
			if err != nil {
				return nil, err
			}
			d := r.layout.Distance(geom.Cell{Q: aq, R: ar}, geom.Cell{Q: bq, R: br}, geom.RuleAlternating)
			return &tengo.Float{Value: d}, nil
		}},

		"neighbors": &tengo.UserFunction{Name: "neighbors", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 2 {
				return nil, tengo.ErrWrongNumArguments
			}
			q, r1, err := cellArgs(args[0], args[1])
			if err != nil {
				return nil, err
			}
			out := []tengo.Object{}
			for _, n := range r.layout.Neighbors(geom.Cell{Q: q, R: r1}) {
				out = append(out, &tengo.Array{Value: []tengo.Object{
					&tengo.Int{Value: int64(n.Q)},
					&tengo.Int{Value: int64(n.R)},
				}})
			}
			return &tengo.Array{Value: out}, nil
		}},

		"line": &tengo.UserFunction{Name: "line", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 4 {
				return nil, tengo.ErrWrongNumArguments
			}
			aq, ar, err := cellArgs(args[0], args[1])
			if err != nil {
				return nil, err
			}
			bq, br, err := cellArgs(args[2], args[3])
			if err != nil {
				return nil, err
			}
			cells := geom.LineCells(r.layout, geom.Cell{Q: aq, R: ar}, geom.Cell{Q: bq, R: br})
			out := make([]tengo.Object, 0, len(cells))
			for _, c := range cells {
				out = append(out, &tengo.Array{Value: []tengo.Object{
					&tengo.Int{Value: int64(c.Q)},
					&tengo.Int{Value: int64(c.R)},
				}})
			}
			return &tengo.Array{Value: out}, nil
		}},
	}
}

func cellArgs(qo, ro tengo.Object) (int, int, error) {
	q, okQ := tengo.ToInt(qo)
	r, okR := tengo.ToInt(ro)
	if !okQ || !okR {
		return 0, 0, fmt.Errorf("cell coordinates must be integers")
	}
	return q, r, nil
}

func asString(o tengo.Object) string {
	s, _ := tengo.ToString(o)
	return strings.TrimSpace(s)
}
