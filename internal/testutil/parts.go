package testutil

import "github.com/roach88/csgen/internal/engine"

// ScenarioAText is the table ScenarioAPart renders to.
const ScenarioAText = `;p1        p2         p3        p4         p5
i1         0.5        1         1.5        1
i1         2          2         3          0.5
i1         4.5        3         5.5        0.333333333333333
i1         8          4         9          0.25
`

// ScenarioAPart builds the reference part: instrument 1 from 0.5 to 10,
// durations 1, 2, 3, 4, a constant 0.5 delay, p4 = now + 1 and
// p5 = 1 / duration. Extra options are applied last.
func ScenarioAPart(opts ...engine.PartOption) *engine.Part {
	base := []engine.PartOption{
		engine.WithName("scenario-a"),
		engine.WithInstrument(1),
		engine.WithStart(0.5),
		engine.WithEnd(10),
		engine.WithDuration(NewSequence(1, 2, 3, 4)),
		engine.WithDelay(engine.ConstNumber(0.5)),
		engine.WithField(4, NowPlus(1)),
		engine.WithField(5, InverseDuration()),
		engine.WithLogger(DiscardLogger()),
	}
	return engine.NewPart(append(base, opts...)...)
}
