package stream

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/roach88/csgen/internal/engine"
	"github.com/roach88/csgen/internal/ir"
)

// Builtin describes one stream kind shipped with csgen.
type Builtin struct {
	Name    string
	Usage   string
	Factory Factory
}

// Builtins lists the built-in stream kinds in display order.
var Builtins = []Builtin{
	{"const", "const: <value>  same value every call", newConst},
	{"sequence", "sequence: [v1, v2, ...]  values in order, then repeats the last", newSequence},
	{"cycle", "cycle: [v1, v2, ...]  values in order, wrapping around", newCycle},
	{"counter", "counter: {start: 0, step: 1}  start, start+step, ...", newCounter},
	{"uniform", "uniform: {min, max, seed: 1, quantum: 0}  seeded random number in [min, max)", newUniform},
	{"choice", "choice: {values: [...], seed: 1}  seeded random pick", newChoice},
	{"now", "now: {offset: 0, scale: 1}  scale*now + offset", newNow},
	{"ramp", "ramp: {from, to}  linear from start time to end time", newRamp},
	{"inverse_duration", "inverse_duration: {numerator: 1}  numerator / p3 of the current statement", newInverseDuration},
	{"previous_duration", "previous_duration: {initial, scale: 1}  p3 of the previous statement times scale", newPreviousDuration},
}

// Default returns a new registry holding the built-in streams.
func Default() *Registry {
	r := NewRegistry()
	for _, b := range Builtins {
		r.MustRegister(b.Name, b.Factory)
	}
	return r
}

// Usage returns the one-line usage of a built-in stream, or "".
func Usage(name string) string {
	for _, b := range Builtins {
		if b.Name == name {
			return b.Usage
		}
	}
	return ""
}

var errPayloadRequired = errors.New("payload is required")

// decode fills v from p. A nil payload leaves v untouched.
func decode(p Payload, v any) error {
	if p == nil {
		return nil
	}
	if err := p.Decode(v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// toValue converts a decoded scalar into a p-field value.
func toValue(x any) (ir.Value, error) {
	switch v := x.(type) {
	case int:
		return ir.Number(float64(v)), nil
	case int64:
		return ir.Number(float64(v)), nil
	case uint64:
		return ir.Number(float64(v)), nil
	case float64:
		return ir.Number(v), nil
	case string:
		return ir.Text(v), nil
	case nil:
		return ir.Value{}, errors.New("value is null")
	default:
		return ir.Value{}, fmt.Errorf("unsupported value type %T", x)
	}
}

func toValues(list []any) ([]ir.Value, error) {
	if len(list) == 0 {
		return nil, errors.New("list is empty")
	}
	out := make([]ir.Value, len(list))
	for i, x := range list {
		v, err := toValue(x)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func newConst(p Payload) (engine.Stream, error) {
	if p == nil {
		return nil, errPayloadRequired
	}
	var x any
	if err := decode(p, &x); err != nil {
		return nil, err
	}
	v, err := toValue(x)
	if err != nil {
		return nil, err
	}
	return engine.Const(v), nil
}

// listStream walks a fixed list. When wrap is false it holds the last value.
type listStream struct {
	values []ir.Value
	wrap   bool
	idx    int
}

func (s *listStream) Next(*engine.GenContext) ir.Value {
	v := s.values[s.idx]
	switch {
	case s.idx < len(s.values)-1:
		s.idx++
	case s.wrap:
		s.idx = 0
	}
	return v
}

func (s *listStream) Reset() { s.idx = 0 }

func newList(p Payload, wrap bool) (engine.Stream, error) {
	if p == nil {
		return nil, errPayloadRequired
	}
	var list []any
	if err := decode(p, &list); err != nil {
		return nil, err
	}
	values, err := toValues(list)
	if err != nil {
		return nil, err
	}
	return &listStream{values: values, wrap: wrap}, nil
}

func newSequence(p Payload) (engine.Stream, error) { return newList(p, false) }

func newCycle(p Payload) (engine.Stream, error) { return newList(p, true) }

type counterStream struct {
	start, step float64
	n           int
}

func (s *counterStream) Next(*engine.GenContext) ir.Value {
	v := s.start + s.step*float64(s.n)
	s.n++
	return ir.Number(v)
}

func (s *counterStream) Reset() { s.n = 0 }

func newCounter(p Payload) (engine.Stream, error) {
	cfg := struct {
		Start float64  `yaml:"start"`
		Step  *float64 `yaml:"step"`
	}{}
	if err := decode(p, &cfg); err != nil {
		return nil, err
	}
	step := 1.0
	if cfg.Step != nil {
		step = *cfg.Step
	}
	return &counterStream{start: cfg.Start, step: step}, nil
}

// defaultSeed keeps unseeded random streams reproducible.
const defaultSeed = 1

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type uniformStream struct {
	min, max, quantum float64
	seed              uint64
	rng               *rand.Rand
}

func (s *uniformStream) Next(*engine.GenContext) ir.Value {
	v := s.min + s.rng.Float64()*(s.max-s.min)
	if s.quantum > 0 {
		v = math.Floor(v/s.quantum) * s.quantum
	}
	return ir.Number(v)
}

func (s *uniformStream) Reset() { s.rng = newRand(s.seed) }

func newUniform(p Payload) (engine.Stream, error) {
	if p == nil {
		return nil, errPayloadRequired
	}
	cfg := struct {
		Min     float64 `yaml:"min"`
		Max     float64 `yaml:"max"`
		Seed    *uint64 `yaml:"seed"`
		Quantum float64 `yaml:"quantum"`
	}{}
	if err := decode(p, &cfg); err != nil {
		return nil, err
	}
	if cfg.Max < cfg.Min {
		return nil, fmt.Errorf("max %s is below min %s", ir.FormatNumber(cfg.Max), ir.FormatNumber(cfg.Min))
	}
	if cfg.Quantum < 0 {
		return nil, errors.New("quantum must not be negative")
	}
	seed := uint64(defaultSeed)
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	return &uniformStream{min: cfg.Min, max: cfg.Max, quantum: cfg.Quantum, seed: seed, rng: newRand(seed)}, nil
}

type choiceStream struct {
	values []ir.Value
	seed   uint64
	rng    *rand.Rand
}

func (s *choiceStream) Next(*engine.GenContext) ir.Value {
	return s.values[s.rng.IntN(len(s.values))]
}

func (s *choiceStream) Reset() { s.rng = newRand(s.seed) }

func newChoice(p Payload) (engine.Stream, error) {
	if p == nil {
		return nil, errPayloadRequired
	}
	cfg := struct {
		Values []any   `yaml:"values"`
		Seed   *uint64 `yaml:"seed"`
	}{}
	if err := decode(p, &cfg); err != nil {
		return nil, err
	}
	values, err := toValues(cfg.Values)
	if err != nil {
		return nil, fmt.Errorf("values: %w", err)
	}
	seed := uint64(defaultSeed)
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	return &choiceStream{values: values, seed: seed, rng: newRand(seed)}, nil
}

func newNow(p Payload) (engine.Stream, error) {
	cfg := struct {
		Offset float64  `yaml:"offset"`
		Scale  *float64 `yaml:"scale"`
	}{}
	if err := decode(p, &cfg); err != nil {
		return nil, err
	}
	scale := 1.0
	if cfg.Scale != nil {
		scale = *cfg.Scale
	}
	return engine.StreamFunc(func(c *engine.GenContext) ir.Value {
		return ir.Number(scale*c.Now + cfg.Offset)
	}), nil
}

func newRamp(p Payload) (engine.Stream, error) {
	if p == nil {
		return nil, errPayloadRequired
	}
	cfg := struct {
		From float64 `yaml:"from"`
		To   float64 `yaml:"to"`
	}{}
	if err := decode(p, &cfg); err != nil {
		return nil, err
	}
	return engine.StreamFunc(func(c *engine.GenContext) ir.Value {
		start := c.Part.Start()
		end, _ := c.Part.End()
		if end <= start {
			return ir.Number(cfg.From)
		}
		pos := (c.Now - start) / (end - start)
		return ir.Number(cfg.From + (cfg.To-cfg.From)*pos)
	}), nil
}

// newInverseDuration divides by p3 of GenContext.Last. When there is no
// usable duration the field is left absent.
func newInverseDuration(p Payload) (engine.Stream, error) {
	cfg := struct {
		Numerator *float64 `yaml:"numerator"`
	}{}
	if err := decode(p, &cfg); err != nil {
		return nil, err
	}
	num := 1.0
	if cfg.Numerator != nil {
		num = *cfg.Numerator
	}
	return engine.StreamFunc(func(c *engine.GenContext) ir.Value {
		if c.Last == nil {
			return ir.Value{}
		}
		d, ok := c.Last.Duration()
		if !ok || d == 0 {
			return ir.Value{}
		}
		return ir.Number(num / d)
	}), nil
}

// newPreviousDuration reads p3 of GenContext.Previous, so it gives the same
// answer as a duration, field or delay stream.
func newPreviousDuration(p Payload) (engine.Stream, error) {
	if p == nil {
		return nil, errPayloadRequired
	}
	cfg := struct {
		Initial *float64 `yaml:"initial"`
		Scale   *float64 `yaml:"scale"`
	}{}
	if err := decode(p, &cfg); err != nil {
		return nil, err
	}
	if cfg.Initial == nil {
		return nil, errors.New("initial is required")
	}
	scale := 1.0
	if cfg.Scale != nil {
		scale = *cfg.Scale
	}
	initial := *cfg.Initial
	return engine.StreamFunc(func(c *engine.GenContext) ir.Value {
		if c.Previous == nil {
			return ir.Number(initial)
		}
		d, ok := c.Previous.Duration()
		if !ok {
			return ir.Number(initial)
		}
		return ir.Number(d * scale)
	}), nil
}
