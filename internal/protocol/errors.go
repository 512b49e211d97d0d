package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Structural errors: reject the operation, state untouched.
	ErrOutOfBounds = "E_OUT_OF_BOUNDS"
	ErrBadSave     = "E_BAD_SAVE"

	// Rule violations: expected, cheap no-ops.
	ErrOccupiedTile    = "E_OCCUPIED_TILE"
	ErrNotSoil         = "E_NOT_SOIL"
	ErrNoCrop          = "E_NO_CROP"
	ErrNotRipe         = "E_NOT_RIPE"
	ErrWrongSeason     = "E_WRONG_SEASON"
	ErrNoEnergy        = "E_NO_ENERGY"
	ErrUnknownSeed     = "E_UNKNOWN_SEED"
	ErrUnknownResource = "E_UNKNOWN_RESOURCE"
	ErrNotResource     = "E_NOT_RESOURCE"
	ErrNoDebris        = "E_NO_DEBRIS"
	ErrUnknownScene    = "E_UNKNOWN_SCENE"
	ErrWrongScene      = "E_WRONG_SCENE"

	// I/O layer.
	ErrSaveFailed = "E_SAVE_FAILED"
	ErrLoadFailed = "E_LOAD_FAILED"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrOutOfBounds:     {},
	ErrBadSave:         {},
	ErrOccupiedTile:    {},
	ErrNotSoil:         {},
	ErrNoCrop:          {},
	ErrNotRipe:         {},
	ErrWrongSeason:     {},
	ErrNoEnergy:        {},
	ErrUnknownSeed:     {},
	ErrUnknownResource: {},
	ErrNotResource:     {},
	ErrNoDebris:        {},
	ErrUnknownScene:    {},
	ErrWrongScene:      {},
	ErrSaveFailed:      {},
	ErrLoadFailed:      {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
