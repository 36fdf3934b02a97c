package shelf

// CatalogEntry pairs a code with the translation key used to label it.
type CatalogEntry struct {
	Code     string `json:"code"`
	LabelKey string `json:"labelKey"`
}

// User is one of the fixed profiles of the library. Profiles are never
// created or destroyed at runtime; selecting one only changes which records
// are visible.
type User struct {
	ID       string `json:"id"`
	LabelKey string `json:"labelKey"`
	Image    string `json:"image"`
}

var users = []User{
	{ID: "alberto", LabelKey: "users.alberto", Image: "alberto.png"},
	{ID: "rafa", LabelKey: "users.rafa", Image: "rafa.png"},
	{ID: "alen", LabelKey: "users.alen", Image: "alen.png"},
	{ID: "andres", LabelKey: "users.andres", Image: "andres.png"},
}

var platforms = []CatalogEntry{
	{Code: "PS5", LabelKey: "consoles.ps5"},
	{Code: "PS4", LabelKey: "consoles.ps4"},
	{Code: "PS3", LabelKey: "consoles.ps3"},
	{Code: "PS2", LabelKey: "consoles.ps2"},
	{Code: "PS1", LabelKey: "consoles.ps1"},
	{Code: "PS-VITA", LabelKey: "consoles.psVita"},
	{Code: "PSP", LabelKey: "consoles.psp"},
	{Code: "SNES", LabelKey: "consoles.snes"},
	{Code: "GBC", LabelKey: "consoles.gbc"},
	{Code: "GBA", LabelKey: "consoles.gba"},
	{Code: "DS", LabelKey: "consoles.ds"},
	{Code: "3DS", LabelKey: "consoles.3ds"},
	{Code: "GAME-CUBE", LabelKey: "consoles.gameCube"},
	{Code: "WII", LabelKey: "consoles.wii"},
	{Code: "SWITCH", LabelKey: "consoles.switch"},
	{Code: "XBOX", LabelKey: "consoles.xbox"},
	{Code: "XBOX-360", LabelKey: "consoles.xbox360"},
	{Code: "XBOX-ONE", LabelKey: "consoles.xboxOne"},
	{Code: "XBOX-SERIES", LabelKey: "consoles.xboxSeries"},
	{Code: "PC", LabelKey: "consoles.pc"},
}

var stores = []CatalogEntry{
	{Code: "gm-ibe", LabelKey: "stores.game"},
	{Code: "amz", LabelKey: "stores.amz"},
	{Code: "ebay", LabelKey: "stores.ebay"},
	{Code: "mrv", LabelKey: "stores.mrv"},
	{Code: "psn", LabelKey: "stores.psn"},
	{Code: "ms", LabelKey: "stores.ms"},
	{Code: "ns-store", LabelKey: "stores.ns-store"},
	{Code: "pla", LabelKey: "stores.pla"},
	{Code: "xtr", LabelKey: "stores.xtr"},
	{Code: "mdk", LabelKey: "stores.mdk"},
	{Code: "lmt", LabelKey: "stores.lmt"},
	{Code: "lrn", LabelKey: "stores.lrn"},
	{Code: "wall", LabelKey: "stores.wall"},
	{Code: "cex", LabelKey: "stores.cex"},
	{Code: "cnd-ga", LabelKey: "stores.cnd-ga"},
	{Code: "nis", LabelKey: "stores.nis"},
	{Code: "imp-ga", LabelKey: "stores.imp-ga"},
	{Code: "akb-ga", LabelKey: "stores.akb-ga"},
	{Code: "td-cons", LabelKey: "stores.td-cons"},
}

var conditions = []CatalogEntry{
	{Code: string(ConditionNew), LabelKey: "conditions.new"},
	{Code: string(ConditionUsed), LabelKey: "conditions.used"},
	{Code: string(ConditionUnknown), LabelKey: "conditions.unknown"},
}

// Users returns the fixed profile list.
func Users() []User { return append([]User(nil), users...) }

// Platforms returns the known platform codes in display order.
func Platforms() []CatalogEntry { return append([]CatalogEntry(nil), platforms...) }

// Stores returns the known store codes in display order.
func Stores() []CatalogEntry { return append([]CatalogEntry(nil), stores...) }

// Conditions returns the known conditions in display order.
func Conditions() []CatalogEntry { return append([]CatalogEntry(nil), conditions...) }

// LookupUser returns the profile with the given id.
func LookupUser(id string) (User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// IsKnownPlatform reports whether p is one of the catalog platforms.
func IsKnownPlatform(p Platform) bool {
	return labelKeyOf(platforms, string(p)) != ""
}

// IsKnownStore reports whether s is one of the catalog stores.
func IsKnownStore(s StoreCode) bool {
	return labelKeyOf(stores, string(s)) != ""
}

// PlatformLabelKey returns the translation key of a platform, or "" if unknown.
func PlatformLabelKey(p Platform) string { return labelKeyOf(platforms, string(p)) }

// StoreLabelKey returns the translation key of a store, or "" if unknown.
func StoreLabelKey(s StoreCode) string { return labelKeyOf(stores, string(s)) }

// ConditionLabelKey returns the translation key of a condition, or "" if unknown.
func ConditionLabelKey(c Condition) string { return labelKeyOf(conditions, string(c)) }

func labelKeyOf(entries []CatalogEntry, code string) string {
	for _, e := range entries {
		if e.Code == code {
			return e.LabelKey
		}
	}
	return ""
}
