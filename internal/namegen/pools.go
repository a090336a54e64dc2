package namegen

// Theme keys accepted by ConfigureTheme. Anything else falls back to
// ThemeMixed.
const (
	ThemeMixed     = "mixed"
	ThemeAnimals   = "animals"
	ThemePlants    = "plants"
	ThemeColors    = "colors"
	ThemeCelestial = "celestial"
	ThemeElements  = "elements"
)

var pools = map[string][]string{
	ThemeAnimals: {
		"Panda", "Otter", "Falcon", "Lynx", "Dolphin", "Koala", "Raven",
		"Gazelle", "Hedgehog", "Ocelot", "Puffin", "Walrus", "Ibex",
		"Marmot", "Narwhal", "Pelican", "Quokka", "Stoat", "Toucan",
		"Wombat", "Axolotl", "Bison", "Caracal", "Dingo",
	},
	ThemePlants: {
		"Fern", "Maple", "Juniper", "Willow", "Aspen", "Clover", "Dahlia",
		"Elm", "Ginkgo", "Hazel", "Iris", "Jasmine", "Laurel", "Magnolia",
		"Nettle", "Oleander", "Poppy", "Rowan", "Sequoia", "Tulip",
		"Verbena", "Wisteria", "Yarrow", "Zinnia",
	},
	ThemeColors: {
		"Crimson", "Amber", "Teal", "Indigo", "Violet", "Coral", "Olive",
		"Magenta", "Cobalt", "Sienna", "Maroon", "Turquoise",
	},
	ThemeCelestial: {
		"Orion", "Vega", "Andromeda", "Sirius", "Luna", "Ceres", "Deneb",
		"Europa", "Phobos", "Rigel", "Titan", "Altair", "Callisto",
		"Halley", "Io", "Kepler", "Lyra", "Mira", "Nova", "Polaris",
	},
	ThemeElements: {
		"Argon", "Boron", "Cobalt", "Neon", "Helium", "Iridium", "Krypton",
		"Lithium", "Mercury", "Nickel", "Osmium", "Platinum", "Radon",
		"Silicon", "Tantalum", "Xenon", "Zinc", "Bismuth", "Cesium",
		"Gallium",
	},
}

func mixedPool() []string {
	size := 0
	for _, pool := range pools {
		size += len(pool)
	}
	mixed := make([]string, 0, size)
	seen := make(map[string]bool, size)
	for _, theme := range []string{ThemeAnimals, ThemePlants, ThemeColors, ThemeCelestial, ThemeElements} {
		for _, name := range pools[theme] {
			if !seen[name] {
				seen[name] = true
				mixed = append(mixed, name)
			}
		}
	}
	return mixed
}
