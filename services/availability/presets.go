package availability

import (
	"fmt"
	"sort"

	"roombook/models"
)

const (
	PresetMorningHalf   = "morningHalf"
	PresetAfternoonHalf = "afternoonHalf"
	PresetFullDay       = "fullDay"
)

// Preset is a named range shortcut. It carries no state of its own.
type Preset struct {
	Name      string `json:"name" mapstructure:"name"`
	StartTime string `json:"startTime" mapstructure:"start"`
	EndTime   string `json:"endTime" mapstructure:"end"`
}

// PresetSet indexes presets by name.
type PresetSet map[string]Preset

// DefaultPresets returns the built-in quick picks.
func DefaultPresets() PresetSet {
	return PresetSet{
		PresetMorningHalf:   {Name: PresetMorningHalf, StartTime: "08:30", EndTime: "12:00"},
		PresetAfternoonHalf: {Name: PresetAfternoonHalf, StartTime: "14:30", EndTime: "18:00"},
		PresetFullDay:       {Name: PresetFullDay, StartTime: "08:30", EndTime: "22:00"},
	}
}

// Get returns the named preset.
func (ps PresetSet) Get(name string) (Preset, error) {
	p, ok := ps[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// List returns the presets ordered by start time.
func (ps PresetSet) List() []Preset {
	out := make([]Preset, 0, len(ps))
	for _, p := range ps {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime == out[j].StartTime {
			return out[i].EndTime < out[j].EndTime
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

func indexOfMinute(points []models.TimePoint, minute int) int {
	for i, p := range points {
		if p.Minutes == minute {
			return i
		}
	}
	return -1
}

// ApplyPreset validates the preset's range against the grid and, if every
// slot is free, returns a complete selection.
func ApplyPreset(preset Preset, points []models.TimePoint, lookup models.SlotLookup) SelectionResult {
	state := models.EmptySelection()
	iv, ok := IntervalFromClock(preset.StartTime, preset.EndTime)
	if !ok {
		return rejected(state, fmt.Errorf("%w: %s %s-%s", ErrInvalidRange, preset.Name, preset.StartTime, preset.EndTime))
	}
	lo, hi := indexOfMinute(points, iv.Start), indexOfMinute(points, iv.End)
	if lo < 0 || hi < 0 {
		return rejected(state, fmt.Errorf("%w: %s", ErrPresetOutOfGrid, preset.Name))
	}
	if err := ValidateRange(points, lookup, lo, hi); err != nil {
		return rejected(state, err)
	}
	return completed(lo, hi, points)
}
