package catalogs

// Built-in type tables, used when the config dir has no overrides.
// Season indices: 0 spring, 1 summer, 2 autumn, 3 winter.

var defaultCrops = []CropDef{
	{ID: "TURNIP", Seasons: []int{0}, GrowthPerHour: 0.9,
		Yield: []ItemCount{{Item: "TURNIP", Count: 1}}},
	{ID: "POTATO", Seasons: []int{0, 1}, GrowthPerHour: 0.7,
		Yield: []ItemCount{{Item: "POTATO", Count: 2}}},
	{ID: "TOMATO", Seasons: []int{1}, GrowthPerHour: 0.6, Regrows: true, RegrowStage: 60,
		Yield: []ItemCount{{Item: "TOMATO", Count: 1}}},
	{ID: "PUMPKIN", Seasons: []int{2}, GrowthPerHour: 0.45,
		Yield: []ItemCount{{Item: "PUMPKIN", Count: 1}}},
	{ID: "APPLE_TREE", Seasons: []int{0, 1, 2, 3}, GrowthPerHour: 0.18, Tree: true, RegrowStage: 75,
		Yield: []ItemCount{{Item: "APPLE", Count: 3}}},
}

var defaultResources = []ResourceDef{
	{ID: "TREE", Toughness: 3,
		Yield: []ItemCount{{Item: "WOOD", Count: 3}}},
	{ID: "STONE", Toughness: 2,
		Yield: []ItemCount{{Item: "STONE", Count: 2}}},
	{ID: "ORE", Toughness: 2,
		Yield: []ItemCount{{Item: "STONE", Count: 1}, {Item: "ORE", Count: 1}}},
	{ID: "BOULDER", Toughness: 5,
		Yield: []ItemCount{{Item: "STONE", Count: 4}}},
}
