package offsets

// Offsets for the GOG build of Rayman2.exe, derived from Robin Sonneveld's
// Rayman2FunBox constants. The PE image base is 0x400000 and the game never
// relocates, so absolute engine addresses become base-relative by subtracting
// the image base. The game is a 32-bit process: every pointer is 4 bytes.
const (
	// Engine globals (absolute − image base).
	relEngineStructure = 0x100380                  // 0x500380
	relLevelName       = relEngineStructure + 0x1F // current level name, NTS
	relDynamicWorld    = 0x100FD0                  // 0x500FD0

	// Hops inside engine structures.
	offWorldSuperObject = 0x08 // dynamic world → its super-object
	offFirstChild       = 0x04 // super-object → first child / perso data
	offNextBrother      = 0x14 // super-object → next sibling in the actor list
	offBrain            = 0x0C // perso → brain
	offMind             = 0x00 // brain → mind
	offDsgMem           = 0x0C // mind → DsgMem
	offDsgVars          = 0x08 // DsgMem → DsgVars block

	// Variable slots inside the DsgVars block.
	offCountdownVar = 84 // global actor DsgVar_30 (Int)
	offTimerVar     = 84 // GRP_TimerCourse_I3 DsgVar_16
)

// TargetProcess is the image name the tool attaches to by default.
const TargetProcess = "Rayman2.exe"

// Default returns the built-in table for the known target build. The Walk of
// Life is level ly_10; outside it the chains dangle and sampling skips.
func Default() Table {
	return Table{
		PointerWidth: 4,
		Level: LevelProbe{
			Root:   relLevelName,
			MaxLen: 16,
			Name:   "ly_10",
		},
		Countdown: AddressSpec{
			Value: Countdown,
			Root:  relDynamicWorld,
			Steps: steps4(
				offWorldSuperObject,
				offFirstChild,
				offBrain,
				offMind,
				offDsgMem,
				offDsgVars,
				offCountdownVar,
			),
			Kind: KindInt32,
			Min:  0,
			Max:  21600, // six hours of seconds; anything above is garbage
		},
		Timer: AddressSpec{
			Value: Timer,
			Root:  relDynamicWorld,
			Steps: steps4(
				offWorldSuperObject,
				offNextBrother,
				offFirstChild,
				offBrain,
				offMind,
				offDsgMem,
				offDsgVars,
				offTimerVar,
			),
			Kind: KindUint32,
			Min:  0,
			Max:  4 * 3600 * 1000, // the level timer cannot plausibly pass 4h
		},
	}
}

func steps4(offs ...uint64) []Step {
	out := make([]Step, len(offs))
	for i, off := range offs {
		out[i] = Step{Width: 4, Offset: off}
	}
	return out
}
