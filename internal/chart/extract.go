package chart

// Extract parses a chart page into a Record holding planet -> sign and, when
// includeHouses is set, house -> sign and planet -> house.
//
// When includeHouses is false the house tables are never read, the page was
// requested without house data and they are not guaranteed to exist.
func Extract(doc string, includeHouses bool) (Record, error) {
	t, err := loadTables(doc)
	if err != nil {
		return Record{}, err
	}

	values := map[string]string{}

	planets, err := parsePlanetSigns(t, StepPlanetSign)
	if err != nil {
		return Record{}, err
	}
	for _, row := range planets {
		values[row.Name] = row.Sign
	}

	if includeHouses {
		houses, err := parseHouseSigns(t, StepHouseSign)
		if err != nil {
			return Record{}, err
		}
		for _, row := range houses {
			values[row.Name] = row.Sign
		}

		placements, err := parsePlanetHouses(t)
		if err != nil {
			return Record{}, err
		}
		for key, house := range placements {
			values[key] = house
		}
	}

	return Record{
		Values:   values,
		Document: doc,
	}, nil
}
