package puzzle

import (
	"time"

	"github.com/vovakirdan/tui-blocka/internal/timer"
)

// NoRecord is displayed for levels without a saved time.
const NoRecord = "—"

// Record returns the best time of a level (0-based) for display, or NoRecord.
// Store failures are logged and read as no record.
func (g *Game) Record(level int) (string, bool) {
	if g.records == nil {
		return NoRecord, false
	}
	v, ok, err := g.records.Record(RecordKey(level))
	if err != nil {
		g.log.Warn("record lookup failed", "level", level+1, "error", err)
		return NoRecord, false
	}
	if !ok || v == "" {
		return NoRecord, false
	}
	return v, true
}

// TrySaveRecord stores elapsed as the level's best time when there is no
// record yet or it is strictly faster than the stored one. Times are
// compared at millisecond precision, as stored.
func (g *Game) TrySaveRecord(level int, elapsed time.Duration) (bool, error) {
	if g.records == nil {
		return false, nil
	}
	key := RecordKey(level)
	value := timer.Format(elapsed)

	prev, ok, err := g.records.Record(key)
	if err != nil {
		return false, err
	}
	if ok {
		prevD, perr := timer.Parse(prev)
		curD, _ := timer.Parse(value)
		if perr == nil && curD >= prevD {
			return false, nil
		}
		if perr != nil {
			g.log.Warn("replacing unreadable record", "level", level+1, "value", prev)
		}
	}

	if err := g.records.SetRecord(key, value); err != nil {
		return false, err
	}
	return true, nil
}

func (g *Game) logSolve(in *Instance, now time.Time) {
	sl, ok := g.records.(SolveLogger)
	if !ok {
		return
	}
	err := sl.LogSolve(Solve{
		Level:   in.Level,
		Name:    g.levels[in.Level].Name,
		Pieces:  in.Pieces(),
		Image:   in.ImageURI,
		Elapsed: in.Solved,
		At:      now,
	})
	if err != nil {
		g.log.Warn("solve history not saved", "level", in.Level+1, "error", err)
	}
}
