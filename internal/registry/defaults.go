package registry

// defaults.go defines the built-in parameter and asset registries for the
// cogeneration plant domain. Deployments with different equipment supply
// their own definitions via REGISTRY_PATH instead.

func ptr(v float64) *float64 { return &v }

func defaultParameters() []ParameterDefinition {
	return []ParameterDefinition{
		{
			Name:             "coal_consumption",
			DisplayName:      "Coal Consumption",
			Unit:             "MT",
			Category:         "input",
			Section:          "COGEN BOILER",
			Aliases:          []string{"Coal Consumption", "Coal Used", "Coal (MT)", "Daily Coal", "Coal Used (MT)", "COAL CONSMPTN"},
			ApplicableAssets: []string{"AFBC-1", "AFBC-2"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "coal_gcv",
			DisplayName:      "Coal GCV",
			Unit:             "kcal/kg",
			Category:         "input",
			Section:          "COGEN BOILER",
			Aliases:          []string{"Coal GCV", "Coal Gross Calorific Value", "GCV", "COALCV"},
			ApplicableAssets: []string{"AFBC-1", "AFBC-2"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "steam_generation",
			DisplayName:      "Steam Generation",
			Unit:             "T/hr",
			Category:         "output",
			Section:          "COGEN BOILER",
			Aliases:          []string{"Steam", "Steam Generated", "Steam Generation", "Steam (Boiler)", "Steam Output", "STEAM GEN"},
			ApplicableAssets: []string{"AFBC-1", "AFBC-2"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "steam_consumption",
			DisplayName:      "Steam Consumption",
			Unit:             "T/hr",
			Category:         "input",
			Section:          "COGEN BOILER",
			Aliases:          []string{"Steam Consumption", "Steam Used", "Steam Input"},
			ApplicableAssets: []string{"AFBC-1", "AFBC-2"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "power_generation",
			DisplayName:      "Power Generation",
			Unit:             "MWh",
			Category:         "output",
			Section:          "POWER PLANT",
			Aliases:          []string{"Power", "Power Generated", "Power Output", "Power (MW)", "Power Generation", "Power TG", "POWER GEN"},
			ApplicableAssets: []string{"TG-1", "TG-2"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "power_consumption",
			DisplayName:      "Power Consumption",
			Unit:             "MWh",
			Category:         "input",
			Section:          "POWER PLANT",
			Aliases:          []string{"Power Consumption", "Power Used", "Auxiliary Power Load"},
			ApplicableAssets: []string{"TG-1", "TG-2"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "power_export",
			DisplayName:      "Power Export",
			Unit:             "MWh",
			Category:         "output",
			Section:          "POWER PLANT",
			Aliases:          []string{"Power Export", "Power Exported", "Grid Export"},
			ApplicableAssets: []string{"TG-1", "TG-2"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "water_consumption",
			DisplayName:      "Water Consumption",
			Unit:             "KL",
			Category:         "input",
			Section:          "UTILITIES",
			Aliases:          []string{"Water", "Water Consumption", "Water Used", "Water (KL)"},
			ApplicableAssets: []string{"AFBC-1", "AFBC-2", "TG-1", "TG-2"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "co2_emissions",
			DisplayName:      "CO2 Emissions",
			Unit:             "tCO2e",
			Category:         "emission",
			Section:          "EMISSIONS",
			Aliases:          []string{"CO2 Emissions", "CO2", "Carbon Dioxide"},
			ApplicableAssets: []string{"AFBC-1", "AFBC-2", "TG-1", "TG-2"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "so2_emissions",
			DisplayName:      "SO2 Emissions",
			Unit:             "kg",
			Category:         "emission",
			Section:          "EMISSIONS",
			Aliases:          []string{"SO2 Emissions", "SO2", "Sulfur Dioxide"},
			ApplicableAssets: []string{"AFBC-1", "AFBC-2"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "nox_emissions",
			DisplayName:      "NOx Emissions",
			Unit:             "kg",
			Category:         "emission",
			Section:          "EMISSIONS",
			Aliases:          []string{"NOx Emissions", "NOx", "Nitrogen Oxides"},
			ApplicableAssets: []string{"AFBC-1", "AFBC-2"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "fly_ash_generated",
			DisplayName:      "Fly Ash Generated",
			Unit:             "MT",
			Category:         "output",
			Section:          "WASTE",
			Aliases:          []string{"Fly Ash", "Fly Ash Generated", "Ash Output"},
			ApplicableAssets: []string{"AFBC-1", "AFBC-2"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "efficiency",
			DisplayName:      "Boiler Efficiency",
			Unit:             "%",
			Category:         "calculated",
			Section:          "COGEN BOILER",
			Aliases:          []string{"Efficiency", "Plant Efficiency", "Overall Efficiency", "EFF %", "Boiler Efficiency"},
			ApplicableAssets: []string{"AFBC-1", "AFBC-2"},
			Bounds:           &Bounds{Min: ptr(0), Max: ptr(1)},
		},
		{
			Name:             "specific_coal_consumption",
			DisplayName:      "Specific Coal Consumption",
			Unit:             "kg/kWh",
			Category:         "calculated",
			Section:          "COGEN BOILER",
			Aliases:          []string{"Specific Coal Consumption", "SCC", "Coal Per Unit"},
			ApplicableAssets: []string{"AFBC-1", "AFBC-2"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "heat_rate",
			DisplayName:      "Heat Rate",
			Unit:             "kcal/kWh",
			Category:         "calculated",
			Section:          "POWER PLANT",
			Aliases:          []string{"Heat Rate", "Heat Input Rate", "HR"},
			ApplicableAssets: []string{"TG-1", "TG-2"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "plant_load_factor",
			DisplayName:      "Plant Load Factor",
			Unit:             "%",
			Category:         "calculated",
			Section:          "POWER PLANT",
			Aliases:          []string{"Plant Load Factor", "PLF", "Capacity Factor"},
			ApplicableAssets: []string{"TG-1", "TG-2"},
			Bounds:           &Bounds{Min: ptr(0), Max: ptr(1)},
		},
		{
			Name:             "lignite_consumption",
			DisplayName:      "Lignite Consumption",
			Unit:             "MT",
			Category:         "input",
			Section:          "COGEN BOILER",
			Aliases:          []string{"Lignite", "Lignite Consumption", "Brown Coal"},
			ApplicableAssets: []string{"AFBC-1", "AFBC-2"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "biomass_consumption",
			DisplayName:      "Biomass Consumption",
			Unit:             "MT",
			Category:         "input",
			Section:          "COGEN BOILER",
			Aliases:          []string{"Biomass", "Biomass Consumption", "Bio-fuel"},
			ApplicableAssets: []string{"AFBC-1", "AFBC-2"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "production_output",
			DisplayName:      "Production Output",
			Unit:             "MT",
			Category:         "output",
			Section:          "PRODUCTION",
			Aliases:          []string{"Production", "Output", "Production Output"},
			ApplicableAssets: []string{"VSF"},
			Bounds:           &Bounds{NonNegative: true},
		},
		{
			Name:             "operating_hours",
			DisplayName:      "Operating Hours",
			Unit:             "hrs",
			Category:         "input",
			Section:          "OPERATIONS",
			Aliases:          []string{"Operating Hours", "Runtime", "Hours", "HOURS", "Uptime"},
			ApplicableAssets: []string{"AFBC-1", "AFBC-2", "TG-1", "TG-2", "VSF"},
			Bounds:           &Bounds{Min: ptr(0), Max: ptr(24)},
		},
	}
}

func defaultAssets() []AssetDefinition {
	return []AssetDefinition{
		{
			Name:        "AFBC-1",
			DisplayName: "AFBC Boiler 1",
			Type:        "boiler",
			Aliases:     []string{"AFBC-1", "Boiler 1", "AFBC 1", "AFB1", "AFBC1"},
		},
		{
			Name:        "AFBC-2",
			DisplayName: "AFBC Boiler 2",
			Type:        "boiler",
			Aliases:     []string{"AFBC-2", "Boiler 2", "AFBC 2", "AFB2", "AFBC2"},
		},
		{
			Name:        "TG-1",
			DisplayName: "Turbo Generator 1",
			Type:        "turbine",
			Aliases:     []string{"TG-1", "TG1", "Turbine 1", "Generator 1"},
		},
		{
			Name:        "TG-2",
			DisplayName: "Turbo Generator 2",
			Type:        "turbine",
			Aliases:     []string{"TG-2", "TG2", "Turbine 2", "Generator 2"},
		},
		{
			Name:        "VSF",
			DisplayName: "Viscose Staple Fiber",
			Type:        "product",
			Aliases:     []string{"VSF", "Viscose Staple Fiber", "Fiber"},
		},
		{
			Name:        "KILN-1",
			DisplayName: "Rotary Kiln 1",
			Type:        "kiln",
			Aliases:     []string{"KILN-1", "Kiln 1", "Rotary Kiln 1", "RK1"},
		},
	}
}
