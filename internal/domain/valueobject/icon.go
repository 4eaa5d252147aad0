// Package valueobject contains domain value objects for the Finance Tracker system.
package valueobject

import "strings"

// Icon is a category icon known to the presentation layer.
type Icon int

const (
	IconCircle Icon = iota
	IconTag
	IconWallet
	IconBriefcase
	IconGift
	IconTrendingUp
	IconShoppingCart
	IconUtensils
	IconCoffee
	IconHome
	IconCar
	IconFuel
	IconBus
	IconPlane
	IconHeart
	IconPill
	IconGraduationCap
	IconBook
	IconGamepad
	IconFilm
	IconMusic
	IconShirt
	IconPhone
	IconWifi
	IconZap
	IconDroplet
	IconPiggyBank
	IconCreditCard
	IconDollarSign
	IconPaw
)

type iconInfo struct {
	name  string
	glyph string
}

var iconTable = [...]iconInfo{
	IconCircle:        {"circle", "●"},
	IconTag:           {"tag", "🏷"},
	IconWallet:        {"wallet", "👛"},
	IconBriefcase:     {"briefcase", "💼"},
	IconGift:          {"gift", "🎁"},
	IconTrendingUp:    {"trending-up", "📈"},
	IconShoppingCart:  {"shopping-cart", "🛒"},
	IconUtensils:      {"utensils", "🍴"},
	IconCoffee:        {"coffee", "☕"},
	IconHome:          {"home", "🏠"},
	IconCar:           {"car", "🚗"},
	IconFuel:          {"fuel", "⛽"},
	IconBus:           {"bus", "🚌"},
	IconPlane:         {"plane", "✈"},
	IconHeart:         {"heart", "❤"},
	IconPill:          {"pill", "💊"},
	IconGraduationCap: {"graduation-cap", "🎓"},
	IconBook:          {"book", "📖"},
	IconGamepad:       {"gamepad", "🎮"},
	IconFilm:          {"film", "🎬"},
	IconMusic:         {"music", "🎵"},
	IconShirt:         {"shirt", "👕"},
	IconPhone:         {"phone", "📱"},
	IconWifi:          {"wifi", "📶"},
	IconZap:           {"zap", "⚡"},
	IconDroplet:       {"droplet", "💧"},
	IconPiggyBank:     {"piggy-bank", "🐷"},
	IconCreditCard:    {"credit-card", "💳"},
	IconDollarSign:    {"dollar-sign", "💲"},
	IconPaw:           {"paw-print", "🐾"},
}

// iconIndex is keyed by the normalized identifier so that "shopping-cart",
// "shopping_cart" and "ShoppingCart" resolve to the same icon.
var iconIndex = func() map[string]Icon {
	idx := make(map[string]Icon, len(iconTable))
	for i, info := range iconTable {
		idx[normalizeIconKey(info.name)] = Icon(i)
	}
	return idx
}()

// ResolveIcon maps a stored icon identifier to a known Icon.
// Unknown or empty identifiers resolve to IconCircle.
func ResolveIcon(identifier string) Icon {
	if icon, ok := iconIndex[normalizeIconKey(identifier)]; ok {
		return icon
	}
	return IconCircle
}

// Name returns the canonical identifier of the icon.
func (i Icon) Name() string {
	return i.info().name
}

// Glyph returns a single printable symbol for terminal rendering.
func (i Icon) Glyph() string {
	return i.info().glyph
}

// String implements fmt.Stringer.
func (i Icon) String() string {
	return i.Name()
}

func (i Icon) info() iconInfo {
	if i < 0 || int(i) >= len(iconTable) {
		return iconTable[IconCircle]
	}
	return iconTable[i]
}

func normalizeIconKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}
