package usbmode

// Mode identifies one USB network personality exposed over the gadget port.
type Mode int

const (
	ModeCdcNcm Mode = 1
	ModeCdcEcm Mode = 2
	ModeRndis  Mode = 3
)

// ModeUnset reports that no mode is persisted anywhere.
const ModeUnset Mode = -1

// Wire names and values live in one table so the read and write paths
// cannot drift apart.
var nameByMode = map[Mode]string{
	ModeCdcNcm: "cdc_ncm",
	ModeCdcEcm: "cdc_ecm",
	ModeRndis:  "rndis",
}

var modeByName = map[string]Mode{
	"cdc_ncm": ModeCdcNcm,
	"cdc_ecm": ModeCdcEcm,
	"rndis":   ModeRndis,
}

// String returns the canonical wire name, or "unknown" for any value
// outside the enum.
func (m Mode) String() string {
	if name, ok := nameByMode[m]; ok {
		return name
	}
	return "unknown"
}

// Valid reports enum membership.
func (m Mode) Valid() bool {
	_, ok := nameByMode[m]
	return ok
}

// ModeFromName resolves a case-sensitive wire name to its mode.
func ModeFromName(name string) (Mode, bool) {
	m, ok := modeByName[name]
	return m, ok
}

// ModeNames returns the recognized wire names in enum order.
func ModeNames() []string {
	return []string{ModeCdcNcm.String(), ModeCdcEcm.String(), ModeRndis.String()}
}
