package engine

import (
	"fmt"

	"github.com/roach88/csgen/internal/ir"
)

// Generate runs the generation loop and returns the statements it built.
//
// The previous statement list is cleared first. On any error the part is
// left with no statements: a failed run never exposes a partial sequence.
func (p *Part) Generate() ([]*ir.Statement, error) {
	p.statements = nil

	if err := p.Validate(); err != nil {
		return nil, err
	}

	p.resetStreams()

	ctx := newGenContext(p)
	quota := NewQuotaEnforcer(p.maxStatements)
	indices := p.FieldIndices()

	var statements []*ir.Statement
	now := p.start
	for now < p.end {
		ctx.Now = now
		ctx.Previous = ctx.Last

		duration, err := p.number(p.duration, ctx, "duration")
		if err != nil {
			return nil, err
		}

		if err := quota.Check(p.name); err != nil {
			return nil, err
		}

		st := p.newStatement(now, duration)
		ctx.Last = st

		// Fields are independent; ascending order only keeps logs stable.
		for _, index := range indices {
			if err := st.SetField(index, p.fields[index].Next(ctx)); err != nil {
				return nil, fmt.Errorf("part %q step %d: %w", p.name, ctx.Step, err)
			}
		}
		statements = append(statements, st)

		delay, err := p.number(p.delay, ctx, "delay")
		if err != nil {
			return nil, err
		}
		ctx.LastDelay = delay

		now += duration + delay
		ctx.Step++
	}

	p.statements = statements
	p.logger.Debug("part generated",
		"part", p.name,
		"instrument", p.instrument,
		"statements", len(statements),
		"end", now,
	)
	return statements, nil
}

func (p *Part) newStatement(now, duration float64) *ir.Statement {
	st := ir.NewStatement()
	// Indices 1-3 are always valid.
	_ = st.SetField(ir.FieldInstrument, ir.Number(float64(p.instrument)))
	_ = st.SetField(ir.FieldOnset, ir.Number(now))
	_ = st.SetField(ir.FieldDuration, ir.Number(duration))
	return st
}

// number calls a duration or delay stream and insists on a numeric result.
func (p *Part) number(s Stream, ctx *GenContext, slot string) (float64, error) {
	v := s.Next(ctx)
	f, ok := v.Float()
	if !ok {
		return 0, &GenerationError{
			Code:    ErrCodeNonNumeric,
			Message: fmt.Sprintf("%s stream returned %s value %q", slot, v.Kind(), v.String()),
			Part:    p.name,
			Step:    ctx.Step,
		}
	}
	return f, nil
}

func (p *Part) resetStreams() {
	streams := []Stream{p.duration, p.delay}
	for _, s := range p.fields {
		streams = append(streams, s)
	}
	for _, s := range streams {
		if r, ok := s.(Resetter); ok {
			r.Reset()
		}
	}
}
